package solver

import (
	"fmt"
	"sync"
	"time"

	"github.com/notargets/BEMKernel/function"
	"github.com/notargets/BEMKernel/numeric"
	"github.com/notargets/BEMKernel/operator"
	"github.com/notargets/BEMKernel/utils"
)

// State of an iterative solver: Created → Running → Converged | Failed
type State uint8

const (
	Created State = iota
	Running
	Converged
	Failed
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Running:
		return "running"
	case Converged:
		return "converged"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Result of a solve. Solution is nil unless State is Converged.
type Result[R numeric.Scalar] struct {
	State           State
	Method          Method
	Solution        *function.GridFunction[R]
	Iterations      int
	ResidualNorm    float64 // relative
	ResidualHistory []float64
	Elapsed         time.Duration
}

// IterativeSolver solves A f = g in the Galerkin sense: the weak form of A
// times the coefficients of f equals the projections of g onto the
// dual-to-range space of A. A solver runs once.
type IterativeSolver[R numeric.Scalar] struct {
	op     operator.BoundaryOperator[R]
	rhs    *function.GridFunction[R]
	params Parameters

	mu     sync.Mutex
	state  State
	result *Result[R]
}

func NewIterativeSolver[R numeric.Scalar](op operator.BoundaryOperator[R], rhs *function.GridFunction[R],
	params Parameters) (*IterativeSolver[R], error) {
	if op == nil || rhs == nil {
		return nil, fmt.Errorf("%w: solver requires an operator and a right-hand side", utils.ErrConfiguration)
	}
	if op.BasisType() != rhs.BasisType() {
		return nil, fmt.Errorf("%w: basis type of operator (%v) and right-hand side (%v) must be the same",
			utils.ErrTypeMismatch, op.BasisType(), rhs.BasisType())
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if eps := op.ResultType().Epsilon(); params.Tolerance < eps {
		return nil, fmt.Errorf("%w: tolerance %g below the %v round-off %g",
			utils.ErrConfiguration, params.Tolerance, op.ResultType(), eps)
	}
	if err := checkSquare(op); err != nil {
		return nil, err
	}
	if !rhs.Space().SameMesh(op.DualToRange()) {
		return nil, fmt.Errorf("%w: right-hand side and %s live on different meshes",
			utils.ErrConfiguration, op.Label())
	}
	return &IterativeSolver[R]{op: op, rhs: rhs, params: params}, nil
}

// NewDefaultIterativeSolver uses GMRES with DefaultTolerance
func NewDefaultIterativeSolver[R numeric.Scalar](op operator.BoundaryOperator[R],
	rhs *function.GridFunction[R]) (*IterativeSolver[R], error) {
	return NewIterativeSolver(op, rhs, DefaultGmresParameters(DefaultTolerance))
}

func checkSquare[R numeric.Scalar](op operator.BoundaryOperator[R]) error {
	if rows, cols := op.DualToRange().GlobalDofCount(), op.Domain().GlobalDofCount(); rows != cols {
		return fmt.Errorf("%w: %s has a %dx%d weak form", utils.ErrConfiguration, op.Label(), rows, cols)
	}
	return nil
}

func (s *IterativeSolver[R]) Parameters() Parameters { return s.params }

func (s *IterativeSolver[R]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Solve runs the iteration. A run that exhausts MaxIterations returns a
// Failed result together with a *utils.ConvergenceFailure. Calling Solve
// again returns utils.ErrSolverState.
func (s *IterativeSolver[R]) Solve() (*Result[R], error) {
	s.mu.Lock()
	if s.state != Created {
		state := s.state
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: solve on a %v solver", utils.ErrSolverState, state)
	}
	s.state = Running
	s.mu.Unlock()

	res, err := s.run()

	s.mu.Lock()
	s.state = res.State
	s.result = res
	s.mu.Unlock()
	return res, err
}

func (s *IterativeSolver[R]) run() (*Result[R], error) {
	start := time.Now()
	res := &Result[R]{State: Failed, Method: s.params.Method}
	logger := utils.Component("solver").With("operator", s.op.Label())

	wf, err := s.op.WeakForm()
	if err != nil {
		return res, err
	}
	b, err := s.rhs.Projections(s.op.DualToRange())
	if err != nil {
		return res, err
	}

	var kr krylovResult[R]
	switch s.params.Method {
	case CG:
		kr = cg(wf, b, s.params)
	default:
		kr = gmres(wf, b, s.params)
	}
	res.Iterations = kr.iterations
	res.ResidualNorm = kr.residual
	res.ResidualHistory = kr.history
	res.Elapsed = time.Since(start)

	if !kr.converged {
		logger.Warn("solver did not converge", "method", s.params.Method,
			"iterations", kr.iterations, "residual", kr.residual, "tolerance", s.params.Tolerance)
		return res, &utils.ConvergenceFailure{
			Method:       s.params.Method.String(),
			Iterations:   kr.iterations,
			ResidualNorm: kr.residual,
			Tolerance:    s.params.Tolerance,
		}
	}

	res.Solution, err = function.NewFromCoefficients(s.op.Context(), s.op.Domain(), s.op.Domain(), kr.x)
	if err != nil {
		return res, err
	}
	res.State = Converged
	logger.Info("solver converged", "method", s.params.Method,
		"iterations", kr.iterations, "residual", kr.residual, "elapsed", res.Elapsed)
	return res, nil
}

// Result returns the outcome of the last Solve, nil before
func (s *IterativeSolver[R]) Result() *Result[R] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}
