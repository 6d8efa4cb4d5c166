// Package errors provides custom error types for the flowcheck system.
// These errors enable programmatic error checking with errors.Is and
// errors.As and carry enough context to be rendered as report lines.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is, As and Join are aliases for the standard library functions so callers
// need a single errors import.
var (
	Is   = errors.Is
	As   = errors.As
	Join = errors.Join
)

// Common sentinel errors for the flowcheck system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedName indicates that a document name does not follow the naming scheme
	ErrMalformedName = errors.New("malformed name")

	// ErrNotCallable indicates that a handler leaf has no callable function
	ErrNotCallable = errors.New("not callable")

	// ErrSourceUnavailable indicates that a whole source could not be read
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// MalformedNameError is reported when an intent document name does not split
// into exactly a flow and a method and is not whitelisted.
type MalformedNameError struct {
	Name      string
	Separator string
	Segments  int
}

// Error implements the error interface
func (e *MalformedNameError) Error() string {
	return fmt.Sprintf("Intent name '%s' is not of expected format", e.Name)
}

// Is implements errors.Is support
func (e *MalformedNameError) Is(target error) bool {
	return target == ErrMalformedName
}

// NewMalformedNameError creates a new MalformedNameError
func NewMalformedNameError(name, separator string) *MalformedNameError {
	return &MalformedNameError{
		Name:      name,
		Separator: separator,
		Segments:  len(strings.Split(name, separator)),
	}
}

// Reference kinds used by MissingReferenceError.
const (
	RefFlow    = "flow"
	RefContext = "context"
	RefMethod  = "method"
)

// MissingReferenceError represents an intent that points at a flow, context
// or method that the code does not define.
type MissingReferenceError struct {
	Kind    string // RefFlow, RefContext or RefMethod
	Flow    string
	Context string
	Method  string
}

// Error implements the error interface
func (e *MissingReferenceError) Error() string {
	switch e.Kind {
	case RefFlow:
		return fmt.Sprintf("Cannot find flow '%s'", e.Flow)
	case RefContext:
		return fmt.Sprintf("Cannot find context '%s' in flow '%s'", e.Context, e.Flow)
	default:
		return fmt.Sprintf("Cannot find method '%s' for context '%s' in flow '%s'", e.Method, e.Context, e.Flow)
	}
}

// Is implements errors.Is support
func (e *MissingReferenceError) Is(target error) bool {
	return target == ErrNotFound
}

// NonCallableLeafError represents a handler leaf that exists but holds no function.
type NonCallableLeafError struct {
	Flow    string
	Context string
	Method  string
}

// Error implements the error interface
func (e *NonCallableLeafError) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("Entry '%s' in flow '%s' is not a function", e.Method, e.Flow)
	}
	return fmt.Sprintf("Entry '%s' for context '%s' in flow '%s' is not a function", e.Method, e.Context, e.Flow)
}

// Is implements errors.Is support
func (e *NonCallableLeafError) Is(target error) bool {
	return target == ErrNotCallable
}

// SourceUnavailableError wraps a failure to read a whole source.
type SourceUnavailableError struct {
	Source string
	Err    error
}

// Error implements the error interface
func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Source, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *SourceUnavailableError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// ConfigError represents a configuration error
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

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsMalformedName checks if an error is a malformed name error
func IsMalformedName(err error) bool {
	return errors.Is(err, ErrMalformedName)
}

// IsSourceUnavailable checks if an error indicates an unreadable source
func IsSourceUnavailable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml"
	File    string
	Line    int
	Column  int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d:%d: %s", e.Format, e.File, e.Line, e.Column, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "list", "open", "watch"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// ResourceError represents an error during store operations
type ResourceError struct {
	Operation string // "query", "connect", "get"
	Resource  string // "datastore", "nats", "collection"
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Message:   message,
		Err:       err,
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

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapSource wraps an error as a SourceUnavailableError. Errors that are
// already SourceUnavailableError are returned unchanged.
func WrapSource(source string, err error) error {
	if err == nil {
		return nil
	}
	var su *SourceUnavailableError
	if errors.As(err, &su) {
		return err
	}
	return &SourceUnavailableError{Source: source, Err: err}
}
