package models

// ErrorResponse is the generic error body
type ErrorResponse struct {
	Error string `json:"error"`
}

// RejectionResponse is returned when an order fails trading-rule
// validation. SuggestedValue, when present, is the nearest acceptable
// quantity or price; it is advisory and the order was not submitted.
type RejectionResponse struct {
	Kind           string `json:"kind"`
	Reason         string `json:"reason"`
	SuggestedValue string `json:"suggestedValue,omitempty"`
}

// MessageResponse wraps a success message and the exchange payload
type MessageResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptimeSeconds"`
	Version       string  `json:"version"`
}
