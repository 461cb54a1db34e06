// Package errors provides the error taxonomy for blob generation.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for each failure kind.
var (
	ErrVCSUnavailable = errors.New("version control unavailable")
	ErrMalformedHash  = errors.New("malformed commit hash")
	ErrEncoding       = errors.New("encoding error")
	ErrOutputWrite    = errors.New("output write failed")
	ErrConfig         = errors.New("invalid configuration")
	ErrUsage          = errors.New("invalid usage")
)

// Step names a stage of blob generation.
type Step string

// Generation steps, in execution order.
const (
	StepLoadConfig       Step = "load config"
	StepResolveHash      Step = "resolve commit hash"
	StepEncodeVersion    Step = "encode version"
	StepResolveTimestamp Step = "resolve timestamp"
	StepEncodeTimestamp  Step = "encode timestamp"
	StepPersist          Step = "persist"
)

// Exit codes returned by the CLI.
const (
	ExitOK             = 0
	ExitError          = 1
	ExitUsage          = 2
	ExitVCSUnavailable = 3
	ExitMalformedHash  = 4
	ExitEncoding       = 5
	ExitOutputWrite    = 6
)

// StepError records which step failed, the failure kind and the cause.
type StepError struct {
	Step Step
	Kind error
	Err  error
}

// Error returns a single-line message naming the failed step.
func (e *StepError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Step, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Step, e.Kind, e.Err)
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *StepError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewStepError wraps err as a failure of kind at step.
func NewStepError(step Step, kind, err error) *StepError {
	return &StepError{Step: step, Kind: kind, Err: err}
}

// Usagef returns an ErrUsage error with a formatted message.
func Usagef(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}

// FailedStep returns the step recorded in err, if any.
func FailedStep(err error) (Step, bool) {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step, true
	}
	return "", false
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrVCSUnavailable):
		return ExitVCSUnavailable
	case errors.Is(err, ErrMalformedHash):
		return ExitMalformedHash
	case errors.Is(err, ErrEncoding):
		return ExitEncoding
	case errors.Is(err, ErrOutputWrite):
		return ExitOutputWrite
	case errors.Is(err, ErrConfig), errors.Is(err, ErrUsage):
		return ExitUsage
	default:
		return ExitError
	}
}
