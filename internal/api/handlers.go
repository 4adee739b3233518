package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"spotgateway/internal/metrics"
	"spotgateway/internal/models"
	"spotgateway/internal/orders"
	"spotgateway/internal/rest"
)

// Exchange is the signed surface of the exchange REST API, built per
// request from the caller's credentials.
type Exchange interface {
	Ping(ctx context.Context) error
	GetAccount(ctx context.Context) (*rest.AccountResponse, error)
	PlaceOrder(ctx context.Context, req *rest.NewOrderRequest) (*rest.OrderResponse, error)
	CancelOrder(ctx context.Context, symbol string, orderID int64) (*rest.CancelResponse, error)
}

// ExchangeFactory builds an Exchange from per-request credentials
type ExchangeFactory func(apiKey, apiSecret string) Exchange

// Handlers contains the HTTP handlers of the gateway
type Handlers struct {
	engine      *orders.Engine
	newExchange ExchangeFactory
	collector   *metrics.Collector
	logger      zerolog.Logger
	version     string
}

// NewHandlers creates the handler set
func NewHandlers(engine *orders.Engine, factory ExchangeFactory, collector *metrics.Collector, logger zerolog.Logger, version string) *Handlers {
	return &Handlers{
		engine:      engine,
		newExchange: factory,
		collector:   collector,
		logger:      logger,
		version:     version,
	}
}

// TestCredentials handles GET /orders/test: validates credential shape
// and pings the exchange.
func (h *Handlers) TestCredentials(c *gin.Context) {
	var req models.BaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}
	if err := req.Credentials.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	exchange := h.newExchange(req.Credentials.APIKey, req.Credentials.APISecret)
	if err := exchange.Ping(c.Request.Context()); err != nil {
		h.logger.Warn().Err(err).Msg("Exchange ping failed")
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "exchange unreachable"})
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "API credentials are valid"})
}

// CreateOrder handles POST /orders/create: builds, validates and
// submits an order. Rule rejections come back with a corrective
// suggestion and the order is not submitted.
func (h *Handlers) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}
	if err := req.Credentials.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	req.Order.Normalize()
	if err := req.Order.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	orderReq, err := req.Order.ToOrderRequest()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	h.logger.Info().
		Str("symbol", orderReq.Symbol).
		Str("side", string(orderReq.Side)).
		Str("type", string(orderReq.Type)).
		Str("request_id", c.GetString("request_id")).
		Msg("Processing order request")

	resolved, err := h.engine.BuildAndValidate(c.Request.Context(), orderReq)
	if err != nil {
		h.writeOrderError(c, err)
		return
	}

	exchange := h.newExchange(req.Credentials.APIKey, req.Credentials.APISecret)
	receipt, err := exchange.PlaceOrder(c.Request.Context(), &rest.NewOrderRequest{
		Symbol:           resolved.Symbol,
		Side:             string(resolved.Side),
		Type:             string(resolved.Type),
		Quantity:         resolved.Quantity,
		QuoteOrderQty:    resolved.QuoteOrderQty,
		Price:            resolved.Price,
		TimeInForce:      resolved.TimeInForce,
		NewClientOrderID: "gw-" + uuid.NewString(),
	})
	if err != nil {
		h.collector.RecordOrderOutcome("failed")
		h.logger.Error().Err(err).Str("symbol", resolved.Symbol).Msg("Order submission failed")
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "order submission failed"})
		return
	}

	h.collector.RecordOrderOutcome("accepted")
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Order created successfully", Data: receipt})
}

// CancelOrder handles DELETE /orders/cancel
func (h *Handlers) CancelOrder(c *gin.Context) {
	var req models.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}
	if err := req.Credentials.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	exchange := h.newExchange(req.Credentials.APIKey, req.Credentials.APISecret)
	receipt, err := exchange.CancelOrder(c.Request.Context(), req.Symbol, req.OrderID)
	if err != nil {
		h.logger.Error().Err(err).Str("symbol", req.Symbol).Msg("Order cancel failed")
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "order cancel failed"})
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Order canceled successfully", Data: receipt})
}

// Balance handles POST /account/balance
func (h *Handlers) Balance(c *gin.Context) {
	var req models.BaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}
	if err := req.Credentials.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	exchange := h.newExchange(req.Credentials.APIKey, req.Credentials.APISecret)
	account, err := exchange.GetAccount(c.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Account fetch failed")
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "account fetch failed"})
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Account balance fetched successfully", Data: account})
}

// Health handles GET /health
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:        "ok",
		UptimeSeconds: h.collector.Uptime().Seconds(),
		Version:       h.version,
	})
}

// Metrics handles GET /metrics
func (h *Handlers) Metrics(c *gin.Context) {
	c.Data(http.StatusOK, "text/plain; version=0.0.4", []byte(h.collector.Render()))
}

// writeOrderError maps core errors to HTTP responses
func (h *Handlers) writeOrderError(c *gin.Context, err error) {
	var ve *orders.ValidationError
	if errors.As(err, &ve) {
		h.collector.RecordOrderOutcome("rejected:" + string(ve.Kind))
		resp := models.RejectionResponse{
			Kind:   string(ve.Kind),
			Reason: ve.Reason,
		}
		if ve.HasSuggestion() {
			resp.SuggestedValue = ve.Suggested.String()
		}
		c.JSON(http.StatusUnprocessableEntity, resp)
		return
	}

	switch {
	case errors.Is(err, orders.ErrSymbolNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, orders.ErrMissingQuantity),
		errors.Is(err, orders.ErrUnsupportedOrderType),
		errors.Is(err, orders.ErrInvalidPrice):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	default:
		var fe *orders.FetchError
		if errors.As(err, &fe) {
			h.collector.RecordOrderOutcome("failed")
			c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: err.Error()})
			return
		}
		h.collector.RecordOrderOutcome("failed")
		h.logger.Error().Err(err).Msg("Unexpected validation failure")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal error"})
	}
}
