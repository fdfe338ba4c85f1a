package utils

import (
	"errors"
	"fmt"
)

// Error kinds shared by every package. Callers test with errors.Is; the
// concrete message is built with fmt.Errorf("...: %w", Err...).
var (
	// ErrTypeMismatch: a basis/result combination or an operand's numeric
	// type does not match what the receiver was built for
	ErrTypeMismatch = errors.New("numeric type mismatch")
	// ErrConfiguration: options, dimensions or space/context combinations
	// are inconsistent
	ErrConfiguration = errors.New("invalid configuration")
	// ErrSingularityHandling: the quadrature strategy cannot integrate the
	// requested kernel on the requested spaces
	ErrSingularityHandling = errors.New("singularity handling not supported")
	// ErrConvergence: an iterative solver stopped before reaching tolerance
	ErrConvergence = errors.New("solver did not converge")
	// ErrSolverState: solve requested on a solver that has already run
	ErrSolverState = errors.New("invalid solver state")
)

// ConvergenceFailure carries the state of a solver that exhausted its
// iteration budget
type ConvergenceFailure struct {
	Method       string
	Iterations   int
	ResidualNorm float64
	Tolerance    float64
}

func (cf *ConvergenceFailure) Error() string {
	return fmt.Sprintf("%s: %s stopped after %d iterations, relative residual %.3e > tolerance %.3e",
		ErrConvergence, cf.Method, cf.Iterations, cf.ResidualNorm, cf.Tolerance)
}

func (cf *ConvergenceFailure) Unwrap() error { return ErrConvergence }
