package operator

import (
	"fmt"
	"strings"
	"sync"

	"github.com/notargets/BEMKernel/assembly"
	"github.com/notargets/BEMKernel/numeric"
	"github.com/notargets/BEMKernel/space"
)

// IdentityOperator is the mass matrix ⟨ψ_i, φ_j⟩ between the dual-to-range
// and domain bases
type IdentityOperator[R numeric.Scalar] struct {
	spaces[R]

	once     sync.Once
	weakForm assembly.DiscreteOperator[R]
	err      error
}

func NewIdentityOperator[R numeric.Scalar](ctx *assembly.Context[R], domain, rng, dualToRange *space.Space) (*IdentityOperator[R], error) {
	sp, err := newSpaces(ctx, domain, rng, dualToRange, Identity)
	if err != nil {
		return nil, err
	}
	return &IdentityOperator[R]{spaces: sp}, nil
}

func (op *IdentityOperator[R]) Name() KernelName { return Identity }

func (op *IdentityOperator[R]) WeakForm() (assembly.DiscreteOperator[R], error) {
	op.once.Do(func() {
		op.weakForm, op.err = assembly.AssembleMass(op.ctx, op.dual, op.domain)
		if op.err != nil {
			op.err = fmt.Errorf("%s: %w", op.label, op.err)
		}
	})
	return op.weakForm, op.err
}

func (op *IdentityOperator[R]) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: identity\n", op.label))
	op.describe(&sb)
	return sb.String()
}
