package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies failures seen while talking to the timeline source
// or fetching media content.
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeClient      ErrorType = "client"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error is a fetch error carrying its classification and, when the failure
// came from an HTTP response, the status code (0 for network-level errors).
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
}

// FromStatusCode builds an Error classified by the HTTP status code.
func FromStatusCode(code int, message string) *Error {
	return &Error{Type: classify(code), Message: message, Code: code}
}

// Network wraps a transport-level failure that never produced a response.
func Network(err error) *Error {
	return &Error{Type: ErrorTypeNetwork, Message: err.Error(), Code: 0}
}

func classify(code int) ErrorType {
	switch {
	case code == 401 || code == 403:
		return ErrorTypeAuth
	case code == 404 || code == 410:
		return ErrorTypeNotFound
	case code == 429:
		return ErrorTypeRateLimit
	case code >= 500:
		return ErrorTypeServerError
	case code >= 400:
		return ErrorTypeClient
	default:
		return ErrorTypeUnknown
	}
}

// IsRetryable reports whether an error type is worth retrying.
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNetwork, ErrorTypeRateLimit, ErrorTypeServerError, ErrorTypeUnknown:
		return true
	default:
		return false
	}
}

// IsPermanent reports whether err is a 4xx-class fetch failure that will not
// succeed on retry. The whole 4xx class counts, rate limiting included: a
// media item answered with any client error is abandoned rather than retried.
func IsPermanent(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code >= 400 && apiErr.Code < 500
}
