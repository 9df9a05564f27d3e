// Package errors provides the error types used across wxcompass.
// Each upstream failure site (network, decode, shape mismatch,
// configuration, caller misuse) has its own type so callers can tell a
// transient regional outage apart from a broken upstream contract.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors.
var (
	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrAPIKeyRequired indicates that an API key is required but not provided
	ErrAPIKeyRequired = errors.New("API key required")

	// ErrRegionUnavailable indicates that a region endpoint is temporarily unavailable
	ErrRegionUnavailable = errors.New("region unavailable")

	// ErrRateLimited indicates that the API rate limit has been exceeded
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// ValidationError represents a validation failure, including caller
// misuse of library entry points.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Message)
	}
	if v := fmt.Sprintf("%v", e.Value); e.Value != nil && v != "" {
		return fmt.Sprintf("validation failed for field %s (%s): %s", e.Field, v, e.Message)
	}
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// APIError represents a non-2xx response from a watsonx.ai endpoint.
type APIError struct {
	Region     string // Region short code
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Region, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Region, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	if e.StatusCode == 429 {
		return target == ErrRateLimited
	}
	if e.StatusCode >= 500 {
		return target == ErrRegionUnavailable
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(region string, statusCode int, message string) *APIError {
	return &APIError{
		Region:     region,
		StatusCode: statusCode,
		Message:    message,
	}
}

// ParseError represents a malformed response body: JSON that does not
// decode, or a decoded body with an unexpected shape.
type ParseError struct {
	Format  string // "json", "yaml", etc.
	Source  string // endpoint or file the data came from
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("parse error in %s from %s: %s", e.Format, e.Source, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, source, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		Source:  source,
		Message: message,
		Err:     err,
	}
}

// ConfigError represents a fatal configuration error. These terminate
// the run before any network activity.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// FetchError represents a failed fetch for one region. The run carries on
// with an empty set for that region; the error is only reported.
type FetchError struct {
	Region   string
	Endpoint string
	Err      error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("fetch failed for region %s (%s): %v", e.Region, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("fetch failed for region %s: %v", e.Region, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError
func NewFetchError(region, endpoint string, err error) *FetchError {
	return &FetchError{
		Region:   region,
		Endpoint: endpoint,
		Err:      err,
	}
}

// TimeoutError represents an operation timeout
type TimeoutError struct {
	Operation string
	Duration  string
	Message   string
}

// Error implements the error interface
func (e *TimeoutError) Error() string {
	if e.Duration != "" {
		return fmt.Sprintf("operation %s timed out after %s: %s", e.Operation, e.Duration, e.Message)
	}
	return fmt.Sprintf("operation %s timed out: %s", e.Operation, e.Message)
}

// Is implements errors.Is support
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(operation, duration, message string) *TimeoutError {
	return &TimeoutError{
		Operation: operation,
		Duration:  duration,
		Message:   message,
	}
}

// Helper functions for error checking

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsRateLimited checks if an error is a rate limit error
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsRegionUnavailable checks if an error indicates the region endpoint is down
func IsRegionUnavailable(err error) bool {
	return errors.Is(err, ErrRegionUnavailable)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, source string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, source, err.Error(), err)
}

// WrapAPI wraps an error as an APIError
func WrapAPI(region string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{
		Region:     region,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}

// WrapFetch wraps an error as a FetchError
func WrapFetch(region, endpoint string, err error) error {
	if err == nil {
		return nil
	}
	return NewFetchError(region, endpoint, err)
}
