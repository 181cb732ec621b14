package domain

import (
	"errors"
	"fmt"
)

// ConfigError aborts a batch before any headline is processed.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "config: " + e.Reason
	}
	return fmt.Sprintf("config %s: %s", e.Field, e.Reason)
}

// TransportError reports a non-200 answer from an upstream HTTP endpoint.
type TransportError struct {
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("endpoint returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("endpoint returned status %d: %s", e.StatusCode, e.Body)
}

// NetworkError wraps connection failures and timeouts.
type NetworkError struct {
	Timeout bool
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("scoring request timed out: %v", e.Err)
	}
	return fmt.Sprintf("scoring request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError reports a model response that could not be turned into scores.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return "parse model response: " + e.Reason
	}
	return fmt.Sprintf("parse model response: %s: %v", e.Reason, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FailureKind classifies a per-item error for logs and stats.
func FailureKind(err error) string {
	var (
		transport *TransportError
		network   *NetworkError
		parse     *ParseError
	)
	switch {
	case errors.As(err, &transport):
		return "transport"
	case errors.As(err, &network):
		return "network"
	case errors.As(err, &parse):
		return "parse"
	default:
		return "unknown"
	}
}
