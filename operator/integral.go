package operator

import (
	"fmt"
	"strings"
	"sync"

	"github.com/notargets/BEMKernel/assembly"
	"github.com/notargets/BEMKernel/kernel"
	"github.com/notargets/BEMKernel/numeric"
	"github.com/notargets/BEMKernel/space"
	"github.com/notargets/BEMKernel/utils"
)

// IntegralOperator is ⟨ψ, K φ⟩ for one of the layer potential kernels
type IntegralOperator[R numeric.Scalar] struct {
	spaces[R]
	name   KernelName
	kernel *kernel.Kernel
	local  *assembly.KernelAssembler

	once     sync.Once
	weakForm *assembly.DenseMatrix[R]
	cache    *assembly.SingularCache
	stats    *assembly.AssemblyStats
	err      error
}

func newIntegralOperator[R numeric.Scalar](ctx *assembly.Context[R], domain, rng, dualToRange *space.Space,
	name KernelName, waveNumber complex128) (*IntegralOperator[R], error) {
	if name.IsIdentity() || name > Identity {
		return nil, fmt.Errorf("%w: %v is not an integral operator", utils.ErrConfiguration, name)
	}
	sp, err := newSpaces(ctx, domain, rng, dualToRange, name)
	if err != nil {
		return nil, err
	}
	family, form := name.kernelOf()
	kr, err := kernel.New(family, form, waveNumber)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", name, err)
	}
	if kr.RequiresComplex() && !ctx.ResultType().IsComplex() {
		return nil, fmt.Errorf("%w: %v with wave number %v needs a complex result type, context has %v",
			utils.ErrTypeMismatch, name, waveNumber, ctx.ResultType())
	}
	err = ctx.Strategy().CheckSupport(kr.SurfaceDerivatives(),
		dualToRange.Order(), domain.Order(), !dualToRange.IsDiscontinuous(), !domain.IsDiscontinuous())
	if err != nil {
		return nil, fmt.Errorf("%v on (%v, %v): %w", name, dualToRange.Kind(), domain.Kind(), err)
	}
	local, err := assembly.NewKernelAssembler(kr, dualToRange, domain)
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %v", utils.ErrConfiguration, name, err)
	}
	return &IntegralOperator[R]{
		spaces: sp,
		name:   name,
		kernel: kr,
		local:  local,
	}, nil
}

func (op *IntegralOperator[R]) Name() KernelName       { return op.name }
func (op *IntegralOperator[R]) Kernel() *kernel.Kernel { return op.kernel }

// WeakForm assembles the dense matrix on first call. With singular integral
// caching on, touching element pairs are integrated once up front and reused
// by the parallel assembly.
func (op *IntegralOperator[R]) WeakForm() (assembly.DiscreteOperator[R], error) {
	op.once.Do(func() {
		if op.ctx.Options().SingularIntegralCaching {
			op.cache, op.err = assembly.BuildSingularCache(op.ctx.Strategy(), op.local)
			if op.err != nil {
				op.err = fmt.Errorf("%s: %w", op.label, op.err)
				return
			}
		}
		op.weakForm, op.stats, op.err = assembly.AssembleWeakForm(op.ctx, op.local, op.cache, op.label)
	})
	if op.err != nil {
		return nil, op.err
	}
	return op.weakForm, nil
}

// Stats reports on the weak form assembly, assembling it if needed
func (op *IntegralOperator[R]) Stats() (*assembly.AssemblyStats, error) {
	if _, err := op.WeakForm(); err != nil {
		return nil, err
	}
	return op.stats, nil
}

// CachedSingularPairs is the number of element pairs in the singular cache
func (op *IntegralOperator[R]) CachedSingularPairs() int {
	if _, err := op.WeakForm(); err != nil || op.cache == nil {
		return 0
	}
	return op.cache.Len()
}

func (op *IntegralOperator[R]) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %v\n", op.label, op.kernel))
	op.describe(&sb)
	return sb.String()
}
