package rtsignal

import (
	"errors"
	"fmt"
)

// ErrorCode represents specific error conditions of the signal controller
type ErrorCode int

const (
	// No error occurred
	ErrCodeNone ErrorCode = iota
	// Route has no mode in the registry
	ErrCodeInvalidLine
	// Terminus is not in the catalog
	ErrCodeUnknownTerminus
	// Deviation is not in the catalog
	ErrCodeUnknownDeviation
	// Frame could not be decoded
	ErrCodeMalformedFrame
	// Configuration is invalid
	ErrCodeInvalidConfiguration
	// Automaton reached a state it cannot leave
	ErrCodeLogicFault
	// LED driver write failed
	ErrCodeDriverFailure
)

var (
	// ErrInvalidLine matches every LineError except malformed frames
	ErrInvalidLine = errors.New("invalid line")
	// ErrMalformedFrame matches frames that could not be split into fields
	ErrMalformedFrame = errors.New("malformed frame")
	// ErrLogicFault matches every StateError
	ErrLogicFault = errors.New("logic fault")
)

// LineError represents a detection that cannot be turned into a Line
type LineError struct {
	Code    ErrorCode
	Input   string
	Message string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line error [%s]: %s", e.Input, e.Message)
}

// Is lets errors.Is match the package sentinels
func (e *LineError) Is(target error) bool {
	switch target {
	case ErrInvalidLine:
		return e.Code != ErrCodeMalformedFrame
	case ErrMalformedFrame:
		return e.Code == ErrCodeMalformedFrame
	}
	return false
}

// NewInvalidLineError creates an error for a route without mode
func NewInvalidLineError(route uint16) *LineError {
	return &LineError{
		Code:    ErrCodeInvalidLine,
		Input:   fmt.Sprintf("%d", route),
		Message: fmt.Sprintf("route %d has no mode", route),
	}
}

// NewUnknownTerminusError creates an error for a terminus missing from the catalog
func NewUnknownTerminusError(terminus Terminus) *LineError {
	return &LineError{
		Code:    ErrCodeUnknownTerminus,
		Input:   string(terminus),
		Message: fmt.Sprintf("terminus '%s' is not in the catalog", terminus),
	}
}

// NewUnknownDeviationError creates an error for a deviation missing from the catalog
func NewUnknownDeviationError(deviation Deviation) *LineError {
	return &LineError{
		Code:    ErrCodeUnknownDeviation,
		Input:   string(deviation),
		Message: fmt.Sprintf("deviation '%s' is not in the catalog", deviation),
	}
}

// NewMalformedFrameError creates an error for an undecodable frame
func NewMalformedFrameError(frame string, reason string) *LineError {
	return &LineError{
		Code:    ErrCodeMalformedFrame,
		Input:   frame,
		Message: reason,
	}
}

// StateError represents an automaton logic fault
type StateError struct {
	Code    ErrorCode
	State   State
	Message string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("state error [%s]: %s", e.State, e.Message)
}

// Is lets errors.Is match ErrLogicFault
func (e *StateError) Is(target error) bool {
	return target == ErrLogicFault
}

// NewLogicFaultError creates a new logic fault for state
func NewLogicFaultError(state State, reason string) *StateError {
	return &StateError{
		Code:    ErrCodeLogicFault,
		State:   state,
		Message: reason,
	}
}

// ConfigurationError represents configuration issues
type ConfigurationError struct {
	Component string
	Issue     string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Issue)
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(component, issue string) *ConfigurationError {
	return &ConfigurationError{
		Component: component,
		Issue:     issue,
	}
}

// DriverError represents a failed LED write
type DriverError struct {
	Output      Output
	OriginalErr error
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("driver failed to set %s: %v", e.Output, e.OriginalErr)
}

func (e *DriverError) Unwrap() error {
	return e.OriginalErr
}

// NewDriverError wraps a driver failure for output
func NewDriverError(output Output, err error) *DriverError {
	return &DriverError{
		Output:      output,
		OriginalErr: err,
	}
}

// IsLineError checks if an error is a LineError
func IsLineError(err error) bool {
	var e *LineError
	return errors.As(err, &e)
}

// IsStateError checks if an error is a StateError
func IsStateError(err error) bool {
	var e *StateError
	return errors.As(err, &e)
}

// IsConfigurationError checks if an error is a ConfigurationError
func IsConfigurationError(err error) bool {
	var e *ConfigurationError
	return errors.As(err, &e)
}

// IsDriverError checks if an error is a DriverError
func IsDriverError(err error) bool {
	var e *DriverError
	return errors.As(err, &e)
}

// GetErrorCode returns the error code for known error types
func GetErrorCode(err error) ErrorCode {
	var (
		lineErr   *LineError
		stateErr  *StateError
		configErr *ConfigurationError
		driverErr *DriverError
	)
	switch {
	case errors.As(err, &lineErr):
		return lineErr.Code
	case errors.As(err, &stateErr):
		return stateErr.Code
	case errors.As(err, &configErr):
		return ErrCodeInvalidConfiguration
	case errors.As(err, &driverErr):
		return ErrCodeDriverFailure
	default:
		return ErrCodeNone
	}
}
