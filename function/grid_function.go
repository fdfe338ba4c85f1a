package function

import (
	"fmt"
	"math"
	"strings"

	"github.com/notargets/BEMKernel/assembly"
	"github.com/notargets/BEMKernel/numeric"
	"github.com/notargets/BEMKernel/space"
	"github.com/notargets/BEMKernel/utils"
)

// GridFunction is a coefficient vector in a function space. It keeps the
// context and dual space it was built with for later consistency checks.
// A GridFunction is never mutated; arithmetic returns new values.
type GridFunction[R numeric.Scalar] struct {
	ctx          *assembly.Context[R]
	space, dual  *space.Space
	coefficients []R
	projections  []R // ⟨ψ_i, f⟩ for ψ_i in dual, nil when not computed
}

func checkSpaces[R numeric.Scalar](ctx *assembly.Context[R], sp, dual *space.Space) error {
	if ctx == nil || sp == nil || dual == nil {
		return fmt.Errorf("%w: grid function requires a context, a space and a dual space", utils.ErrConfiguration)
	}
	if sp.BasisType() != ctx.BasisType() || dual.BasisType() != ctx.BasisType() {
		return fmt.Errorf("%w: basis types of context (%v), space (%v) and dual space (%v) must be the same",
			utils.ErrTypeMismatch, ctx.BasisType(), sp.BasisType(), dual.BasisType())
	}
	if !sp.SameMesh(dual) {
		return fmt.Errorf("%w: space and dual space live on different meshes", utils.ErrConfiguration)
	}
	return nil
}

// NewFromCoefficients wraps a copy of coefficients
func NewFromCoefficients[R numeric.Scalar](ctx *assembly.Context[R], sp, dual *space.Space,
	coefficients []R) (*GridFunction[R], error) {
	if err := checkSpaces(ctx, sp, dual); err != nil {
		return nil, err
	}
	if len(coefficients) != sp.GlobalDofCount() {
		return nil, fmt.Errorf("%w: %d coefficients for a space with %d DOFs",
			utils.ErrConfiguration, len(coefficients), sp.GlobalDofCount())
	}
	return &GridFunction[R]{
		ctx:          ctx,
		space:        sp,
		dual:         dual,
		coefficients: append([]R(nil), coefficients...),
	}, nil
}

// NewFromProjections recovers coefficients from ⟨ψ_i, f⟩ by solving with the
// mass matrix between dual and space. Both spaces need the same DOF count.
func NewFromProjections[R numeric.Scalar](ctx *assembly.Context[R], sp, dual *space.Space,
	projections []R) (*GridFunction[R], error) {
	if err := checkSpaces(ctx, sp, dual); err != nil {
		return nil, err
	}
	if len(projections) != dual.GlobalDofCount() {
		return nil, fmt.Errorf("%w: %d projections for a dual space with %d DOFs",
			utils.ErrConfiguration, len(projections), dual.GlobalDofCount())
	}
	if dual.GlobalDofCount() != sp.GlobalDofCount() {
		return nil, fmt.Errorf("%w: cannot invert the %dx%d mass matrix between %v and %v",
			utils.ErrConfiguration, dual.GlobalDofCount(), sp.GlobalDofCount(), dual.Kind(), sp.Kind())
	}
	mass, err := assembly.AssembleMass(ctx, dual, sp)
	if err != nil {
		return nil, err
	}
	lu, err := assembly.NewSparseLU(mass)
	if err != nil {
		return nil, fmt.Errorf("mass matrix of %v: %w", sp.Kind(), err)
	}
	defer lu.Destroy()
	coefficients, err := lu.Solve(projections)
	if err != nil {
		return nil, err
	}
	return &GridFunction[R]{
		ctx:          ctx,
		space:        sp,
		dual:         dual,
		coefficients: coefficients,
		projections:  append([]R(nil), projections...),
	}, nil
}

func (gf *GridFunction[R]) Context() *assembly.Context[R] { return gf.ctx }
func (gf *GridFunction[R]) Space() *space.Space           { return gf.space }
func (gf *GridFunction[R]) DualSpace() *space.Space       { return gf.dual }
func (gf *GridFunction[R]) BasisType() numeric.Type       { return gf.space.BasisType() }
func (gf *GridFunction[R]) ResultType() numeric.Type      { return numeric.TypeOf[R]() }
func (gf *GridFunction[R]) Len() int                      { return len(gf.coefficients) }

// Coefficients returns a copy of the expansion coefficients
func (gf *GridFunction[R]) Coefficients() []R {
	return append([]R(nil), gf.coefficients...)
}

// Projections returns ⟨ψ_i, f⟩ for every basis function of dual
func (gf *GridFunction[R]) Projections(dual *space.Space) ([]R, error) {
	if dual == gf.dual && gf.projections != nil {
		return append([]R(nil), gf.projections...), nil
	}
	if dual.BasisType() != gf.space.BasisType() {
		return nil, fmt.Errorf("%w: projection onto a %v space of a %v grid function",
			utils.ErrTypeMismatch, dual.BasisType(), gf.space.BasisType())
	}
	mass, err := assembly.AssembleMass(gf.ctx, dual, gf.space)
	if err != nil {
		return nil, err
	}
	proj := make([]R, dual.GlobalDofCount())
	mass.MulVec(proj, gf.coefficients)
	return proj, nil
}

// L2Norm returns sqrt(∫|f|²) over the mesh
func (gf *GridFunction[R]) L2Norm() (float64, error) {
	mass, err := assembly.AssembleMass(gf.ctx, gf.space, gf.space)
	if err != nil {
		return 0, err
	}
	mc := make([]R, len(gf.coefficients))
	mass.MulVec(mc, gf.coefficients)
	return math.Sqrt(math.Abs(real(numeric.ToComplex(numeric.Dot(gf.coefficients, mc))))), nil
}

// Add returns gf + other. Both must live in the same space.
func (gf *GridFunction[R]) Add(other *GridFunction[R]) (*GridFunction[R], error) {
	if other.space != gf.space {
		return nil, fmt.Errorf("%w: adding grid functions from different spaces", utils.ErrConfiguration)
	}
	out := &GridFunction[R]{ctx: gf.ctx, space: gf.space, dual: gf.dual, coefficients: gf.Coefficients()}
	numeric.Axpy(1, other.coefficients, out.coefficients)
	if gf.projections != nil && other.projections != nil && gf.dual == other.dual {
		out.projections = append([]R(nil), gf.projections...)
		numeric.Axpy(1, other.projections, out.projections)
	}
	return out, nil
}

// Scale returns alpha*gf
func (gf *GridFunction[R]) Scale(alpha R) *GridFunction[R] {
	out := &GridFunction[R]{ctx: gf.ctx, space: gf.space, dual: gf.dual,
		coefficients: make([]R, len(gf.coefficients))}
	numeric.ScaleTo(out.coefficients, alpha, gf.coefficients)
	if gf.projections != nil {
		out.projections = make([]R, len(gf.projections))
		numeric.ScaleTo(out.projections, alpha, gf.projections)
	}
	return out
}

// EvaluateAt returns f at reference coordinates (u, v) of element k
func (gf *GridFunction[R]) EvaluateAt(k int, u, v float64) (R, error) {
	var sum R
	m := gf.space.Mesh()
	if k < 0 || k >= m.NumElements() {
		return sum, fmt.Errorf("%w: element %d outside [0,%d)", utils.ErrConfiguration, k, m.NumElements())
	}
	if u < 0 || v < 0 || u+v > 1 {
		return sum, fmt.Errorf("%w: (%g, %g) outside the reference triangle", utils.ErrConfiguration, u, v)
	}
	shape := gf.space.Shape()
	values := make([]float64, shape.Size())
	shape.Evaluate(u, v, values)
	for a, gi := range gf.space.LocalDofs(k) {
		sum += numeric.FromFloat[R](values[a]) * gf.coefficients[gi]
	}
	return sum, nil
}

func (gf *GridFunction[R]) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Grid function %v, %d coefficients\n", numeric.TypeOf[R](), len(gf.coefficients)))
	sb.WriteString(fmt.Sprintf("  Space: %v\n", gf.space.Kind()))
	sb.WriteString(fmt.Sprintf("  Dual space: %v\n", gf.dual.Kind()))
	return sb.String()
}
