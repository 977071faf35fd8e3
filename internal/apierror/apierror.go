// Package apierror defines the JSON error envelopes returned by every 4xx/5xx
// response. Handlers never write raw driver or GORM errors to clients.
package apierror

// APIError carries a single human-readable message, in Portuguese, matching
// the domain language of the rest of the API surface.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError { return &APIError{Detail: msg} }

// ValidationError reports per-field failures from request binding.
// Fields maps the struct field name to the validator tag that rejected it.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Erro de validação", Fields: fields}
}
