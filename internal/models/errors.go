package models

import (
	"errors"
	"fmt"
)

// Error kinds. Typed errors below match these through errors.Is.
var (
	ErrInvalidProbability = errors.New("invalid probability")
	ErrInvalidFormat      = errors.New("invalid format")
	ErrInvalidScoreState  = errors.New("invalid score state")
	ErrRootBracket        = errors.New("root not bracketed")
	ErrNumericDegeneracy  = errors.New("numeric degeneracy")
	ErrInvalidRate        = errors.New("invalid rate")
)

// InvalidProbabilityError reports a probability outside its admissible range
type InvalidProbabilityError struct {
	Name    string
	Value   float64
	Message string
}

func (e *InvalidProbabilityError) Error() string {
	return fmt.Sprintf("invalid probability %s=%v: %s", e.Name, e.Value, e.Message)
}

// Is reports whether target is ErrInvalidProbability
func (e *InvalidProbabilityError) Is(target error) bool {
	return target == ErrInvalidProbability
}

// InvalidFormatError reports an unsupported best-of or sets-to-win target
type InvalidFormatError struct {
	BestOf    int
	SetsToWin int
	Message   string
}

func (e *InvalidFormatError) Error() string {
	if e.SetsToWin > 0 {
		return fmt.Sprintf("invalid format (sets to win %d): %s", e.SetsToWin, e.Message)
	}
	return fmt.Sprintf("invalid format (best of %d): %s", e.BestOf, e.Message)
}

// Is reports whether target is ErrInvalidFormat
func (e *InvalidFormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}

// InvalidScoreStateError reports a score that cannot occur in the series
type InvalidScoreStateError struct {
	BestOf  int
	FramesA int
	FramesB int
	Message string
}

func (e *InvalidScoreStateError) Error() string {
	return fmt.Sprintf("invalid score state %d-%d (best of %d): %s", e.FramesA, e.FramesB, e.BestOf, e.Message)
}

// Is reports whether target is ErrInvalidScoreState
func (e *InvalidScoreStateError) Is(target error) bool {
	return target == ErrInvalidScoreState
}

// RootBracketError reports that a monotone inversion found no sign change
// between the endpoints of its search interval.
type RootBracketError struct {
	Quantity string
	Lower    float64
	Upper    float64
	FLower   float64
	FUpper   float64
}

func (e *RootBracketError) Error() string {
	return fmt.Sprintf("cannot bracket %s in [%g, %g]: f(lo)=%g f(hi)=%g", e.Quantity, e.Lower, e.Upper, e.FLower, e.FUpper)
}

// Is reports whether target is ErrRootBracket
func (e *RootBracketError) Is(target error) bool {
	return target == ErrRootBracket
}

// NumericDegeneracyError reports a quantity that collapsed to a non-finite value
type NumericDegeneracyError struct {
	Quantity string
	Value    float64
	Message  string
	Cause    error
}

func (e *NumericDegeneracyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("numeric degeneracy in %s (%v): %s: %v", e.Quantity, e.Value, e.Message, e.Cause)
	}
	return fmt.Sprintf("numeric degeneracy in %s (%v): %s", e.Quantity, e.Value, e.Message)
}

// Is reports whether target is ErrNumericDegeneracy
func (e *NumericDegeneracyError) Is(target error) bool {
	return target == ErrNumericDegeneracy
}

// Unwrap returns the underlying cause
func (e *NumericDegeneracyError) Unwrap() error {
	return e.Cause
}

// InvalidRateError is the goal-model form of a numeric degeneracy: an
// expected-goal rate that is non-finite or non-positive after flooring.
type InvalidRateError struct {
	Side string
	Rate float64
}

func (e *InvalidRateError) Error() string {
	return fmt.Sprintf("invalid %s goal rate %v: must be finite and positive", e.Side, e.Rate)
}

// Is matches both ErrInvalidRate and ErrNumericDegeneracy
func (e *InvalidRateError) Is(target error) bool {
	return target == ErrInvalidRate || target == ErrNumericDegeneracy
}

// NewInvalidProbabilityError creates a new invalid probability error
func NewInvalidProbabilityError(name string, value float64, message string) *InvalidProbabilityError {
	return &InvalidProbabilityError{Name: name, Value: value, Message: message}
}

// NewInvalidFormatError creates a new invalid best-of error
func NewInvalidFormatError(bestOf int, message string) *InvalidFormatError {
	return &InvalidFormatError{BestOf: bestOf, Message: message}
}

// NewInvalidSetsToWinError creates a new invalid sets-to-win error
func NewInvalidSetsToWinError(setsToWin int, message string) *InvalidFormatError {
	return &InvalidFormatError{SetsToWin: setsToWin, Message: message}
}

// NewInvalidScoreStateError creates a new invalid score state error
func NewInvalidScoreStateError(bestOf, framesA, framesB int, message string) *InvalidScoreStateError {
	return &InvalidScoreStateError{BestOf: bestOf, FramesA: framesA, FramesB: framesB, Message: message}
}

// NewRootBracketError creates a new root bracket error
func NewRootBracketError(quantity string, lo, hi, fLo, fHi float64) *RootBracketError {
	return &RootBracketError{Quantity: quantity, Lower: lo, Upper: hi, FLower: fLo, FUpper: fHi}
}

// NewNumericDegeneracyError creates a new numeric degeneracy error
func NewNumericDegeneracyError(quantity string, value float64, message string, cause error) *NumericDegeneracyError {
	return &NumericDegeneracyError{Quantity: quantity, Value: value, Message: message, Cause: cause}
}

// NewInvalidRateError creates a new invalid rate error
func NewInvalidRateError(side string, rate float64) *InvalidRateError {
	return &InvalidRateError{Side: side, Rate: rate}
}
