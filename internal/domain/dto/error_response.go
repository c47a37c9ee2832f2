package dto

import "time"

// ErrorResponse is the JSON body of every non-2xx API response.
//
// Fields:
//   - Message: short description safe to show to clients.
//   - ErrorDetails: underlying error text, omitted when empty.
//   - Timestamp: when the error was produced (UTC).
type ErrorResponse struct {
	Message      string    `json:"message" example:"ticker is required"`
	ErrorDetails string    `json:"error_details,omitempty" example:"parsing time \"2020-13\": month out of range"`
	Timestamp    time.Time `json:"timestamp" example:"2025-01-31T12:00:00Z"`
}

// NewErrorResponse builds an ErrorResponse; err may be nil.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{Message: message, Timestamp: time.Now().UTC()}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}

// Error implements the error interface.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}
