package operator

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/notargets/BEMKernel/assembly"
	"github.com/notargets/BEMKernel/numeric"
	"github.com/notargets/BEMKernel/space"
	"github.com/notargets/BEMKernel/utils"
)

// BoundaryOperator is a discretized boundary operator. Its weak form is the
// matrix of ⟨ψ_i, A φ_j⟩ for ψ_i in the dual-to-range space and φ_j in the
// domain. Operators are immutable; the weak form is assembled at most once.
type BoundaryOperator[R numeric.Scalar] interface {
	Label() string
	Context() *assembly.Context[R]
	Domain() *space.Space
	Range() *space.Space
	DualToRange() *space.Space
	BasisType() numeric.Type
	ResultType() numeric.Type

	// WeakForm returns the assembled discrete operator, assembling it on
	// first use
	WeakForm() (assembly.DiscreteOperator[R], error)
}

// spaces is the part shared by every operator
type spaces[R numeric.Scalar] struct {
	id                uuid.UUID
	label             string
	ctx               *assembly.Context[R]
	domain, rng, dual *space.Space
}

func newSpaces[R numeric.Scalar](ctx *assembly.Context[R], domain, rng, dualToRange *space.Space,
	name KernelName) (spaces[R], error) {
	if ctx == nil {
		return spaces[R]{}, fmt.Errorf("%w: %v requires a context", utils.ErrConfiguration, name)
	}
	if domain == nil || rng == nil || dualToRange == nil {
		return spaces[R]{}, fmt.Errorf("%w: %v requires domain, range and dual-to-range spaces",
			utils.ErrConfiguration, name)
	}
	for _, sp := range []*space.Space{domain, rng, dualToRange} {
		if sp.BasisType() != ctx.BasisType() {
			return spaces[R]{}, fmt.Errorf("%w: %v on a %v space, context basis type is %v",
				utils.ErrTypeMismatch, name, sp.BasisType(), ctx.BasisType())
		}
	}
	if !domain.SameMesh(rng) || !domain.SameMesh(dualToRange) {
		return spaces[R]{}, fmt.Errorf("%w: %v spaces live on different meshes", utils.ErrConfiguration, name)
	}
	id := uuid.New()
	return spaces[R]{
		id:     id,
		label:  fmt.Sprintf("%v-%s", name, id.String()[:8]),
		ctx:    ctx,
		domain: domain,
		rng:    rng,
		dual:   dualToRange,
	}, nil
}

func (s *spaces[R]) Label() string                 { return s.label }
func (s *spaces[R]) Context() *assembly.Context[R] { return s.ctx }
func (s *spaces[R]) Domain() *space.Space          { return s.domain }
func (s *spaces[R]) Range() *space.Space           { return s.rng }
func (s *spaces[R]) DualToRange() *space.Space     { return s.dual }
func (s *spaces[R]) BasisType() numeric.Type       { return s.ctx.BasisType() }
func (s *spaces[R]) ResultType() numeric.Type      { return s.ctx.ResultType() }

func (s *spaces[R]) describe(sb *strings.Builder) {
	sb.WriteString(fmt.Sprintf("  Domain: %v (%d DOFs)\n", s.domain.Kind(), s.domain.GlobalDofCount()))
	sb.WriteString(fmt.Sprintf("  Range: %v (%d DOFs)\n", s.rng.Kind(), s.rng.GlobalDofCount()))
	sb.WriteString(fmt.Sprintf("  Dual to range: %v (%d DOFs)\n", s.dual.Kind(), s.dual.GlobalDofCount()))
	sb.WriteString(fmt.Sprintf("  Types: %v\n", s.ctx.Pair()))
}
