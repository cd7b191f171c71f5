package pyserver

import (
	"errors"
	"fmt"
)

// Health-probe escalations. Each aborts retries immediately and maps to
// a distinct terminal pipeline status.
var (
	ErrOOM          = errors.New("processing service near memory limit")
	ErrHung         = errors.New("processing service request appears hung")
	ErrUnresponsive = errors.New("processing service unresponsive")
)

// SchemaError marks a well-formed HTTP response whose payload does not
// match the stage schema. Never retried.
type SchemaError struct {
	Stage  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: invalid response data: %s", e.Stage, e.Reason)
}

// FetchError wraps any non-schema stage failure: transport errors,
// exhausted retries, and escalated health errors.
type FetchError struct {
	Stage string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: fetch failed: %v", e.Stage, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsHealthError reports whether err is a health-probe escalation.
func IsHealthError(err error) bool {
	return errors.Is(err, ErrOOM) || errors.Is(err, ErrHung) || errors.Is(err, ErrUnresponsive)
}
