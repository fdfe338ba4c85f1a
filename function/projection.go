package function

import (
	"fmt"

	"github.com/notargets/BEMKernel/assembly"
	"github.com/notargets/BEMKernel/numeric"
	"github.com/notargets/BEMKernel/space"
	"github.com/notargets/BEMKernel/utils"
)

const (
	// WorldDimension is the dimension of the points functions are evaluated at
	WorldDimension = 3
	// ScalarDimension is the value dimension of the scalar spaces
	ScalarDimension = 1
)

// NormalIndependentFunc evaluates f(x) into result, e.g. Dirichlet data
type NormalIndependentFunc[R numeric.Scalar] func(x []float64, result []R)

// NormalDependentFunc evaluates f(x, n) into result, n the unit outward
// normal at x, e.g. Neumann data
type NormalDependentFunc[R numeric.Scalar] func(x, n []float64, result []R)

// FromSurfaceNormalIndependentFunction projects fn onto dual and recovers
// the coefficients in sp
func FromSurfaceNormalIndependentFunction[R numeric.Scalar](ctx *assembly.Context[R], sp, dual *space.Space,
	fn NormalIndependentFunc[R], argumentDimension, resultDimension int) (*GridFunction[R], error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: nil function", utils.ErrConfiguration)
	}
	return fromFunction(ctx, sp, dual, func(x, _ []float64, result []R) { fn(x, result) },
		argumentDimension, resultDimension)
}

// FromSurfaceNormalDependentFunction projects fn onto dual and recovers the
// coefficients in sp
func FromSurfaceNormalDependentFunction[R numeric.Scalar](ctx *assembly.Context[R], sp, dual *space.Space,
	fn NormalDependentFunc[R], argumentDimension, resultDimension int) (*GridFunction[R], error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: nil function", utils.ErrConfiguration)
	}
	return fromFunction(ctx, sp, dual, fn, argumentDimension, resultDimension)
}

func fromFunction[R numeric.Scalar](ctx *assembly.Context[R], sp, dual *space.Space,
	fn NormalDependentFunc[R], argumentDimension, resultDimension int) (*GridFunction[R], error) {
	if err := checkSpaces(ctx, sp, dual); err != nil {
		return nil, err
	}
	if argumentDimension != WorldDimension {
		return nil, fmt.Errorf("%w: argument dimension %d, surfaces live in %d dimensions",
			utils.ErrConfiguration, argumentDimension, WorldDimension)
	}
	if resultDimension != ScalarDimension {
		return nil, fmt.Errorf("%w: result dimension %d for a scalar space",
			utils.ErrConfiguration, resultDimension)
	}
	proj := Project(ctx, dual, fn)
	return NewFromProjections(ctx, sp, dual, proj)
}

// Project computes ⟨ψ_i, f⟩ for every basis function of dual with the
// single-element rule of the context's quadrature strategy
func Project[R numeric.Scalar](ctx *assembly.Context[R], dual *space.Space, fn NormalDependentFunc[R]) []R {
	m := dual.Mesh()
	rule := ctx.Strategy().SingleRule()
	shape := dual.Shape()
	values := make([]float64, shape.Size())
	proj := make([]complex128, dual.GlobalDofCount())
	x := make([]float64, WorldDimension)
	n := make([]float64, WorldDimension)
	f := make([]R, ScalarDimension)

	for k := 0; k < m.NumElements(); k++ {
		el := m.Element(k)
		n[0], n[1], n[2] = el.Normal.X, el.Normal.Y, el.Normal.Z
		jac := el.JacobianDeterminant()
		dofs := dual.LocalDofs(k)
		for q, w := range rule.W {
			p := el.MapToPhysical(rule.U[q], rule.V[q])
			x[0], x[1], x[2] = p.X, p.Y, p.Z
			f[0] = 0
			fn(x, n, f)
			shape.Evaluate(rule.U[q], rule.V[q], values)
			fw := numeric.ToComplex(f[0]) * complex(w*jac, 0)
			for a, gi := range dofs {
				proj[gi] += fw * complex(values[a], 0)
			}
		}
	}
	out := make([]R, len(proj))
	for i, v := range proj {
		out[i] = numeric.FromComplex[R](v)
	}
	return out
}
