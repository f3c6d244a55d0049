package domain

import (
	"errors"
	"fmt"
)

// ErrProviderUnavailable marks a distance lookup that failed because the
// external provider could not be reached. Callers may retry, fall back to
// straight-line distances, or abort.
var ErrProviderUnavailable = errors.New("distance provider unavailable")

// ErrModelInfeasible marks a solve where the engine proved that no
// assignment satisfies all constraints. Distinct from SolverError.
var ErrModelInfeasible = errors.New("model is infeasible")

// DataFormatError reports a malformed input row. It aborts the run before
// any model is built.
type DataFormatError struct {
	File   string
	Row    int
	Column string
	Reason string
}

func (e *DataFormatError) Error() string {
	return fmt.Sprintf("%s: row %d, column %q: %s", e.File, e.Row, e.Column, e.Reason)
}

// SolverError reports a failure inside the external engine (license,
// timeout without any incumbent, internal error). The engine's diagnostic
// is preserved verbatim via the wrapped error.
type SolverError struct {
	Stage string
	Err   error
}

func (e *SolverError) Error() string {
	return fmt.Sprintf("solver %s: %v", e.Stage, e.Err)
}

func (e *SolverError) Unwrap() error { return e.Err }
