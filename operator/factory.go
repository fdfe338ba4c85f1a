package operator

import (
	"github.com/notargets/BEMKernel/assembly"
	"github.com/notargets/BEMKernel/numeric"
	"github.com/notargets/BEMKernel/space"
)

// New builds the operator selected by name. waveNumber is k for Helmholtz
// and κ for modified Helmholtz operators and is ignored otherwise.
func New[R numeric.Scalar](ctx *assembly.Context[R], name KernelName, domain, rng, dualToRange *space.Space,
	waveNumber complex128) (BoundaryOperator[R], error) {
	if name.IsIdentity() {
		op, err := NewIdentityOperator(ctx, domain, rng, dualToRange)
		if err != nil {
			return nil, err
		}
		return op, nil
	}
	if !name.NeedsWaveNumber() {
		waveNumber = 0
	}
	op, err := newIntegralOperator(ctx, domain, rng, dualToRange, name, waveNumber)
	if err != nil {
		return nil, err
	}
	return op, nil
}

func NewLaplace3dSingleLayer[R numeric.Scalar](ctx *assembly.Context[R], domain, rng, dualToRange *space.Space) (*IntegralOperator[R], error) {
	return newIntegralOperator(ctx, domain, rng, dualToRange, Laplace3dSingleLayer, 0)
}

func NewLaplace3dDoubleLayer[R numeric.Scalar](ctx *assembly.Context[R], domain, rng, dualToRange *space.Space) (*IntegralOperator[R], error) {
	return newIntegralOperator(ctx, domain, rng, dualToRange, Laplace3dDoubleLayer, 0)
}

func NewLaplace3dAdjointDoubleLayer[R numeric.Scalar](ctx *assembly.Context[R], domain, rng, dualToRange *space.Space) (*IntegralOperator[R], error) {
	return newIntegralOperator(ctx, domain, rng, dualToRange, Laplace3dAdjointDoubleLayer, 0)
}

func NewLaplace3dHypersingular[R numeric.Scalar](ctx *assembly.Context[R], domain, rng, dualToRange *space.Space) (*IntegralOperator[R], error) {
	return newIntegralOperator(ctx, domain, rng, dualToRange, Laplace3dHypersingular, 0)
}

func NewHelmholtz3dSingleLayer[R numeric.Scalar](ctx *assembly.Context[R], domain, rng, dualToRange *space.Space,
	waveNumber complex128) (*IntegralOperator[R], error) {
	return newIntegralOperator(ctx, domain, rng, dualToRange, Helmholtz3dSingleLayer, waveNumber)
}

func NewHelmholtz3dDoubleLayer[R numeric.Scalar](ctx *assembly.Context[R], domain, rng, dualToRange *space.Space,
	waveNumber complex128) (*IntegralOperator[R], error) {
	return newIntegralOperator(ctx, domain, rng, dualToRange, Helmholtz3dDoubleLayer, waveNumber)
}

func NewHelmholtz3dAdjointDoubleLayer[R numeric.Scalar](ctx *assembly.Context[R], domain, rng, dualToRange *space.Space,
	waveNumber complex128) (*IntegralOperator[R], error) {
	return newIntegralOperator(ctx, domain, rng, dualToRange, Helmholtz3dAdjointDoubleLayer, waveNumber)
}

func NewHelmholtz3dHypersingular[R numeric.Scalar](ctx *assembly.Context[R], domain, rng, dualToRange *space.Space,
	waveNumber complex128) (*IntegralOperator[R], error) {
	return newIntegralOperator(ctx, domain, rng, dualToRange, Helmholtz3dHypersingular, waveNumber)
}

func NewModifiedHelmholtz3dSingleLayer[R numeric.Scalar](ctx *assembly.Context[R], domain, rng, dualToRange *space.Space,
	waveNumber complex128) (*IntegralOperator[R], error) {
	return newIntegralOperator(ctx, domain, rng, dualToRange, ModifiedHelmholtz3dSingleLayer, waveNumber)
}

func NewModifiedHelmholtz3dDoubleLayer[R numeric.Scalar](ctx *assembly.Context[R], domain, rng, dualToRange *space.Space,
	waveNumber complex128) (*IntegralOperator[R], error) {
	return newIntegralOperator(ctx, domain, rng, dualToRange, ModifiedHelmholtz3dDoubleLayer, waveNumber)
}

func NewModifiedHelmholtz3dAdjointDoubleLayer[R numeric.Scalar](ctx *assembly.Context[R], domain, rng, dualToRange *space.Space,
	waveNumber complex128) (*IntegralOperator[R], error) {
	return newIntegralOperator(ctx, domain, rng, dualToRange, ModifiedHelmholtz3dAdjointDoubleLayer, waveNumber)
}

// NewModifiedHelmholtz3dHypersingular takes the context explicitly like
// every other factory
func NewModifiedHelmholtz3dHypersingular[R numeric.Scalar](ctx *assembly.Context[R], domain, rng, dualToRange *space.Space,
	waveNumber complex128) (*IntegralOperator[R], error) {
	return newIntegralOperator(ctx, domain, rng, dualToRange, ModifiedHelmholtz3dHypersingular, waveNumber)
}
