package operator

import (
	"fmt"

	"github.com/notargets/BEMKernel/function"
	"github.com/notargets/BEMKernel/numeric"
	"github.com/notargets/BEMKernel/utils"
)

// Apply returns op(gf) as a grid function in the range of op. The weak form
// gives the projections onto the dual-to-range space; range coefficients are
// recovered through the dual-to-range/range mass matrix.
func Apply[R numeric.Scalar](op BoundaryOperator[R], gf *function.GridFunction[R]) (*function.GridFunction[R], error) {
	if op.BasisType() != gf.BasisType() {
		return nil, fmt.Errorf("%w: %s has basis type %v, grid function %v",
			utils.ErrTypeMismatch, op.Label(), op.BasisType(), gf.BasisType())
	}
	if gf.Space() != op.Domain() {
		return nil, fmt.Errorf("%w: grid function does not live in the domain of %s",
			utils.ErrConfiguration, op.Label())
	}
	wf, err := op.WeakForm()
	if err != nil {
		return nil, err
	}
	rows, _ := wf.Dims()
	proj := make([]R, rows)
	wf.MulVec(proj, gf.Coefficients())
	return function.NewFromProjections(op.Context(), op.Range(), op.DualToRange(), proj)
}
