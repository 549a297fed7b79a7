package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeGraph represents snapshot/graph lookup errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeRequest represents malformed API request errors
	ErrorTypeRequest ErrorType = "request"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// ErrSnapshotNotFound is returned when no snapshot exists for a period
type ErrSnapshotNotFound struct {
	*BaseError
	Period string
}

func NewSnapshotNotFound(period string) *ErrSnapshotNotFound {
	return &ErrSnapshotNotFound{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("no snapshot for period: %s", period), nil),
		Period:    period,
	}
}

// ErrInvalidDate is returned when a request carries an unparseable date
type ErrInvalidDate struct {
	*BaseError
	Value string
}

func NewInvalidDate(value string, err error) *ErrInvalidDate {
	return &ErrInvalidDate{
		BaseError: NewBaseError(ErrorTypeRequest, fmt.Sprintf("invalid date: %s", value), err),
		Value:     value,
	}
}
