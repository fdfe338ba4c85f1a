package solver

import (
	"fmt"
	"time"

	"github.com/notargets/BEMKernel/assembly"
	"github.com/notargets/BEMKernel/function"
	"github.com/notargets/BEMKernel/numeric"
	"github.com/notargets/BEMKernel/operator"
	"github.com/notargets/BEMKernel/utils"
)

// DirectSolver factors the weak form once with sparse LU and solves any
// number of right-hand sides
type DirectSolver[R numeric.Scalar] struct {
	op operator.BoundaryOperator[R]
	wf assembly.DiscreteOperator[R]
	lu *assembly.SparseLU[R]
}

func NewDirectSolver[R numeric.Scalar](op operator.BoundaryOperator[R]) (*DirectSolver[R], error) {
	if op == nil {
		return nil, fmt.Errorf("%w: solver requires an operator", utils.ErrConfiguration)
	}
	if err := checkSquare(op); err != nil {
		return nil, err
	}
	wf, err := op.WeakForm()
	if err != nil {
		return nil, err
	}
	lu, err := assembly.NewSparseLU(wf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op.Label(), err)
	}
	return &DirectSolver[R]{op: op, wf: wf, lu: lu}, nil
}

func (d *DirectSolver[R]) Solve(rhs *function.GridFunction[R]) (*Result[R], error) {
	start := time.Now()
	if rhs.BasisType() != d.op.BasisType() {
		return nil, fmt.Errorf("%w: basis type of operator (%v) and right-hand side (%v) must be the same",
			utils.ErrTypeMismatch, d.op.BasisType(), rhs.BasisType())
	}
	b, err := rhs.Projections(d.op.DualToRange())
	if err != nil {
		return nil, err
	}
	x, err := d.lu.Solve(b)
	if err != nil {
		return nil, err
	}

	r := make([]R, len(b))
	d.wf.MulVec(r, x)
	for i := range r {
		r[i] = b[i] - r[i]
	}
	res := &Result[R]{State: Converged, Elapsed: time.Since(start)}
	if bnorm := numeric.Norm(b); bnorm > 0 {
		res.ResidualNorm = numeric.Norm(r) / bnorm
	}
	res.Solution, err = function.NewFromCoefficients(d.op.Context(), d.op.Domain(), d.op.Domain(), x)
	if err != nil {
		return nil, err
	}
	utils.Component("solver").Debug("direct solve", "operator", d.op.Label(), "residual", res.ResidualNorm)
	return res, nil
}

// Destroy releases the factorization
func (d *DirectSolver[R]) Destroy() { d.lu.Destroy() }
