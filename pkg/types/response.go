package types

// SuccessEnvelope wraps every 2xx body. Message is the toast text shown after
// actions such as "Product added".
type SuccessEnvelope struct {
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

// APIError is the public face of a failed request. Retryable tells the client
// it may offer a retry button instead of asking the user to fix input.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
	Details   any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
