package errors

// ErrorResponse is the flat JSON error body. Error is the headline and
// Message the follow-up; without a hint both carry the same text.
type ErrorResponse struct {
	Error     string         `json:"error"`
	Message   string         `json:"message"`
	Code      ErrorCode      `json:"code"`
	Retryable bool           `json:"retryable,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

func (e *AppError) ToResponse() ErrorResponse {
	r := ErrorResponse{Error: e.Message, Message: e.Hint, Code: e.Code, Retryable: e.Retryable, Details: e.Details}
	if r.Message == "" {
		r.Message = e.Message
	}
	return r
}
