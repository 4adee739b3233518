package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Render(t *testing.T) {
	c := NewCollector()

	c.RecordHTTPRequest("POST", "/orders/create", 200)
	c.RecordHTTPRequest("POST", "/orders/create", 200)
	c.RecordHTTPRequest("POST", "/orders/create", 422)
	c.RecordHTTPDuration("POST", "/orders/create", 0.05)
	c.RecordOrderOutcome("accepted")
	c.RecordOrderOutcome("rejected:QUANTITY_STEP_MISALIGNED")

	out := c.Render()

	assert.Contains(t, out, `gateway_http_requests_total{method="POST",path="/orders/create",status="200"} 2`)
	assert.Contains(t, out, `gateway_http_requests_total{method="POST",path="/orders/create",status="422"} 1`)
	assert.Contains(t, out, `gateway_http_request_duration_seconds_count{method="POST",path="/orders/create"} 1`)
	assert.Contains(t, out, `gateway_order_outcomes_total{outcome="accepted"} 1`)
	assert.Contains(t, out, `gateway_order_outcomes_total{outcome="rejected:QUANTITY_STEP_MISALIGNED"} 1`)
	assert.Contains(t, out, "gateway_uptime_seconds")
}

func TestCollector_RenderEmpty(t *testing.T) {
	out := NewCollector().Render()
	assert.Contains(t, out, "# TYPE gateway_http_requests_total counter")
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	collector := NewCollector()
	router := gin.New()
	router.Use(Middleware(collector))
	router.GET("/health", func(c *gin.Context) {
		c.Status(200)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	require.Equal(t, 200, w.Code)

	out := collector.Render()
	assert.Contains(t, out, `gateway_http_requests_total{method="GET",path="/health",status="200"} 1`)
}

func TestMiddleware_UnmatchedRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)

	collector := NewCollector()
	router := gin.New()
	router.Use(Middleware(collector))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/nope", nil))
	require.Equal(t, 404, w.Code)

	assert.Contains(t, collector.Render(), `path="unmatched"`)
}
