package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/usestring/kintone-mcp/pkg/client"
)

// Error codes for MCP tool responses.
const (
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeConfig       = "CONFIG_ERROR"
	ErrCodeAuth         = "AUTH_ERROR"
	ErrCodeKintoneError = "KINTONE_ERROR"
	ErrCodeTimeout      = "TIMEOUT"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// WrapKintoneError converts an error returned by the kintone client into a
// coded error. Configuration and authentication failures keep their own codes;
// everything else is a transport failure.
func WrapKintoneError(err error) error {
	if err == nil {
		return nil
	}

	coded := &CodedError{Code: ErrCodeKintoneError, Message: err.Error(), Cause: err}

	var cfgErr *client.ConfigurationError
	var authErr *client.AuthenticationError
	var netErr net.Error
	switch {
	case errors.As(err, &cfgErr):
		coded.Code = ErrCodeConfig
		coded.Message = "app is not usable"
	case errors.As(err, &authErr):
		coded.Code = ErrCodeAuth
		coded.Message = "no credential for app"
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout(),
		strings.Contains(err.Error(), "context deadline exceeded"):
		coded.Code = ErrCodeTimeout
		coded.Message = "request timed out"
	}

	slog.Warn("kintone call failed",
		slog.String("code", coded.Code),
		slog.String("message", coded.Message),
	)

	return coded
}

// CodeOf returns the code of a CodedError, or ErrCodeKintoneError.
func CodeOf(err error) string {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ErrCodeKintoneError
}

// ErrNotFound creates a not found error.
func ErrNotFound(resource, id string) error {
	return &CodedError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}
