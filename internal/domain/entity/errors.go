package entity

import (
	"encoding/json"
	"errors"
)

var (
	ErrEmptyQuestion    = errors.New("question is required")
	ErrInvalidArguments = errors.New("invalid arguments")
	ErrUnknownTool      = errors.New("unknown tool")
	ErrInvalidTicker    = errors.New("invalid ticker")
	ErrTooManySymbols   = errors.New("too many symbols")
	ErrNotFound         = errors.New("no data found")
	ErrRateLimited      = errors.New("market data rate limited")
	ErrAccessDenied     = errors.New("market data access denied")
	ErrMissingAPIKey    = errors.New("market data api key not set")
	ErrUpstream         = errors.New("market data request failed")
	ErrModel            = errors.New("language model request failed")
)

// ErrorKind maps an error onto the short label reported in tool results.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidArguments), errors.Is(err, ErrInvalidTicker), errors.Is(err, ErrTooManySymbols):
		return "invalid_arguments"
	case errors.Is(err, ErrUnknownTool):
		return "unknown_tool"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrAccessDenied):
		return "access_denied"
	case errors.Is(err, ErrMissingAPIKey):
		return "missing_api_key"
	case errors.Is(err, ErrModel):
		return "model_error"
	default:
		return "upstream_error"
	}
}

// ToolError is the record handed back to the model when a tool fails.
type ToolError struct {
	Error     string `json:"error"`
	ErrorKind string `json:"error_kind"`
}

func NewToolError(err error) ToolError {
	return ToolError{Error: err.Error(), ErrorKind: ErrorKind(err)}
}

// JSON renders the error record. Marshalling two strings cannot fail.
func (e ToolError) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}
