package client

import (
	"errors"
	"fmt"
)

// Sentinels matched with errors.Is.
var (
	ErrUnknownApp     = errors.New("unknown app")
	ErrMissingAppID   = errors.New("app id is missing")
	ErrEmptySubdomain = errors.New("subdomain is empty")
	ErrNoCredential   = errors.New("no credential available")
)

// ConfigurationError reports a caller configuration defect found at call time.
type ConfigurationError struct {
	App string
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.App == "" {
		return fmt.Sprintf("kintone configuration: %v", e.Err)
	}
	return fmt.Sprintf("kintone configuration for app %q: %v", e.App, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// AuthenticationError is returned when neither a client credential nor an
// app token is available. The request is never sent.
type AuthenticationError struct {
	App string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("kintone authentication for app %q: %v", e.App, ErrNoCredential)
}

func (e *AuthenticationError) Unwrap() error { return ErrNoCredential }

// IsConfigurationError reports whether err is a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsAuthenticationError reports whether err is an *AuthenticationError.
func IsAuthenticationError(err error) bool {
	var ae *AuthenticationError
	return errors.As(err, &ae)
}
