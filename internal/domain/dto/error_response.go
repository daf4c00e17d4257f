package dto

import "time"

// ErrorResponse is the JSON body of every non-2xx API response.
type ErrorResponse struct {
	Message      string    `json:"message" example:"invalid query parameters"`
	ErrorDetails string    `json:"error,omitempty" example:"invalid start date"`
	Timestamp    time.Time `json:"timestamp"`
}

func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}

// NewErrorResponse stamps the current time; err may be nil.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{Message: message, Timestamp: time.Now()}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}
