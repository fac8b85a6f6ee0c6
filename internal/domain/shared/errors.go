package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrEmptyMetrics        = NewDomainError("EMPTY_METRICS", "Select at least one metric")
	ErrNoDataToExport      = NewDomainError("NO_DATA_TO_EXPORT", "No data to export")
	ErrNoChartToExport     = NewDomainError("NO_CHART_TO_EXPORT", "No chart to export")
	ErrStaleResponse       = NewDomainError("STALE_RESPONSE", "Report configuration changed while generating")
	ErrRendererUnavailable = NewDomainError("RENDERER_UNAVAILABLE", "Chart renderer is not configured")
)
