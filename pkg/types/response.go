// Package types defines the JSON envelopes shared by every API response.
package types

// SuccessEnvelope wraps payload data for 2xx responses.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error body. Details carries a field -> problem map
// when the error code permits it.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps an APIError for non-2xx responses.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// Success builds the data envelope.
func Success(data any) SuccessEnvelope {
	return SuccessEnvelope{Data: data}
}

// Failure builds the error envelope.
func Failure(code, message string, details any) ErrorEnvelope {
	return ErrorEnvelope{Error: APIError{Code: code, Message: message, Details: details}}
}
