package assembly

import (
	"math"
	"testing"

	"github.com/notargets/BEMKernel/kernel"
	"github.com/notargets/BEMKernel/mesh"
	"github.com/notargets/BEMKernel/numeric"
	"github.com/notargets/BEMKernel/quadrature"
	"github.com/notargets/BEMKernel/space"
	"github.com/notargets/BEMKernel/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func newTestContext[R numeric.Scalar](t *testing.T, basis numeric.Type, opts AssemblyOptions) *Context[R] {
	t.Helper()
	strategy, err := quadrature.NewStrategy(basis, numeric.TypeOf[R](), quadrature.AccuracyOptions{})
	require.NoError(t, err)
	ctx, err := NewContext[R](strategy, opts)
	require.NoError(t, err)
	return ctx
}

func TestNewContext(t *testing.T) {
	strategy, err := quadrature.NewStrategy(numeric.Float64, numeric.Complex128, quadrature.AccuracyOptions{})
	require.NoError(t, err)

	_, err = NewContext[float64](strategy, DefaultAssemblyOptions())
	assert.ErrorIs(t, err, utils.ErrTypeMismatch)

	_, err = NewContext[complex128](nil, DefaultAssemblyOptions())
	assert.ErrorIs(t, err, utils.ErrConfiguration)

	opts := DefaultAssemblyOptions()
	opts.Mode = ACA
	_, err = NewContext[complex128](strategy, opts)
	assert.ErrorIs(t, err, utils.ErrConfiguration)

	ctx, err := NewContext[complex128](strategy, DefaultAssemblyOptions())
	require.NoError(t, err)
	assert.Equal(t, numeric.Float64, ctx.BasisType())
	assert.Equal(t, numeric.Complex128, ctx.ResultType())
	assert.Contains(t, ctx.String(), ctx.ID().String())
}

func TestAssembleMass(t *testing.T) {
	m := mesh.NewIcosphere(1, 1.0)
	p0, _ := space.NewPiecewiseConstantScalarSpace(numeric.Float64, m)
	p1, _ := space.NewPiecewiseLinearContinuousScalarSpace(numeric.Float64, m)

	for _, sparseStorage := range []bool{true, false} {
		opts := DefaultAssemblyOptions()
		opts.SparseStorageOfMassMatrices = sparseStorage
		ctx := newTestContext[float64](t, numeric.Float64, opts)
		storage := map[bool]string{true: "Sparse", false: "Dense"}[sparseStorage]

		t.Run(storage+"/P0", func(t *testing.T) {
			mass, err := AssembleMass(ctx, p0, p0)
			require.NoError(t, err)
			d := ToDense(mass)
			for i := 0; i < m.NumElements(); i++ {
				for j := 0; j < m.NumElements(); j++ {
					want := 0.
					if i == j {
						want = m.Element(i).Area
					}
					assert.InDelta(t, want, d.At(i, j), 1e-14)
				}
			}
		})

		t.Run(storage+"/P1Local", func(t *testing.T) {
			local := make([]float64, 9)
			LocalMass(p1, p1, ctx.Strategy().SingleRule(), 3, local)
			a := m.Element(3).Area
			want := []float64{2, 1, 1, 1, 2, 1, 1, 1, 2}
			for i := range want {
				want[i] *= a / 12
			}
			assert.InDeltaSlicef(t, want, local, 1e-14, "local P1 mass")
		})

		t.Run(storage+"/TotalArea", func(t *testing.T) {
			// 1ᵀ M 1 is the surface area for any partition of unity
			for _, pair := range [][2]*space.Space{{p0, p1}, {p1, p1}, {p1, p0}} {
				mass, err := AssembleMass(ctx, pair[0], pair[1])
				require.NoError(t, err)
				sum := 0.
				mass.DoNonZero(func(i, j int, v float64) { sum += v })
				assert.InDelta(t, m.TotalArea(), sum, 1e-12)
			}
		})
	}

	other := mesh.NewIcosphere(0, 1.0)
	q0, _ := space.NewPiecewiseConstantScalarSpace(numeric.Float64, other)
	_, err := AssembleMass(newTestContext[float64](t, numeric.Float64, DefaultAssemblyOptions()), p0, q0)
	assert.ErrorIs(t, err, utils.ErrConfiguration)
}

func assembleLaplace(t *testing.T, form kernel.Form, sp *space.Space, opts AssemblyOptions) *DenseMatrix[float64] {
	t.Helper()
	ctx := newTestContext[float64](t, numeric.Float64, opts)
	kr, err := kernel.New(kernel.Laplace, form, 0)
	require.NoError(t, err)
	la, err := NewKernelAssembler(kr, sp, sp)
	require.NoError(t, err)
	var cache *SingularCache
	if opts.SingularIntegralCaching {
		cache, err = BuildSingularCache(ctx.Strategy(), la)
		require.NoError(t, err)
	}
	d, stats, err := AssembleWeakForm(ctx, la, cache, form.String())
	require.NoError(t, err)
	n := sp.Mesh().NumElements()
	assert.Equal(t, n*n, stats.Pairs[0]+stats.Pairs[1]+stats.Pairs[2])
	if cache != nil {
		assert.Equal(t, stats.Pairs[quadrature.Singular], stats.CachedPairs)
	}
	return d
}

func TestAssembleWeakFormLaplace(t *testing.T) {
	m := mesh.NewIcosphere(1, 1.0)
	p0, _ := space.NewPiecewiseConstantScalarSpace(numeric.Float64, m)

	opts := DefaultAssemblyOptions()
	sl := assembleLaplace(t, kernel.SingleLayer, p0, opts)

	t.Run("Symmetric", func(t *testing.T) {
		a := sl.RealPart()
		assert.True(t, mat.EqualApprox(a, a.T(), 1e-12))
	})

	t.Run("UniformChargePotential", func(t *testing.T) {
		// V 1 on the unit sphere is 1, so each row sums to about |T_i|
		for i := 0; i < m.NumElements(); i++ {
			sum := 0.
			for _, v := range sl.RawRow(i) {
				sum += v
			}
			assert.InDelta(t, 1.0, sum/m.Element(i).Area, 0.05)
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		serial := DefaultAssemblyOptions()
		serial.MaxThreadCount = 1
		serial.SingularIntegralCaching = false
		again := assembleLaplace(t, kernel.SingleLayer, p0, serial)
		assert.InDeltaSlice(t, sl.RawData(), again.RawData(), 1e-15)
	})

	t.Run("DoubleLayerRowSums", func(t *testing.T) {
		// ∫ ∂G/∂n_y = -1/2 on a closed surface
		dl := assembleLaplace(t, kernel.DoubleLayer, p0, opts)
		for i := 0; i < m.NumElements(); i++ {
			sum := 0.
			for _, v := range dl.RawRow(i) {
				sum += v
			}
			assert.InDelta(t, -0.5, sum/m.Element(i).Area, 0.01)
		}
	})
}

func TestSingularPairIntegrals(t *testing.T) {
	m, err := mesh.NewMesh([][3]float64{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0.8, 0.9, 0.5}, {-0.6, -0.2, 0.3}, {-0.1, -0.9, -0.2},
	}, [][]int{{0, 1, 2}, {1, 3, 2}, {0, 4, 5}})
	require.NoError(t, err)
	p0, err := space.NewPiecewiseConstantScalarSpace(numeric.Float64, m)
	require.NoError(t, err)
	kr, err := kernel.New(kernel.Laplace, kernel.SingleLayer, 0)
	require.NoError(t, err)
	la, err := NewKernelAssembler(kr, p0, p0)
	require.NoError(t, err)
	strategy, err := quadrature.NewStrategy(numeric.Float64, numeric.Float64, quadrature.AccuracyOptions{})
	require.NoError(t, err)

	// ∫∫ 1/(4π|x-y|) from the analytic triangle potential integrated by an
	// adaptive outer rule
	tests := []struct {
		name       string
		test, tria int
		adjacency  quadrature.Adjacency
		want       float64
	}{
		{"Coincident", 0, 0, quadrature.Coincident, 0.07982144690425},
		{"SharedEdge", 0, 1, quadrature.SharedEdge, 0.03977258176534},
		{"SharedVertex", 0, 2, quadrature.SharedVertex, 0.01412971353483},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, back := make([]complex128, 1), make([]complex128, 1)
			in := strategy.Classify(m, tt.test, tt.tria)
			require.Equal(t, tt.adjacency, in.Adjacency)
			la.EvaluatePair(tt.test, tt.tria, strategy.Rule(m, tt.test, tt.tria, in), out)
			assert.InEpsilon(t, tt.want, real(out[0]), 1e-6)

			la.EvaluatePair(tt.tria, tt.test, strategy.Rule(m, tt.tria, tt.test, in), back)
			assert.Equal(t, out[0], back[0])
		})
	}
}

func TestAssembleHypersingular(t *testing.T) {
	m := mesh.NewIcosphere(1, 1.0)
	p1, _ := space.NewPiecewiseLinearContinuousScalarSpace(numeric.Float64, m)
	w := assembleLaplace(t, kernel.Hypersingular, p1, DefaultAssemblyOptions())

	a := w.RealPart()
	assert.True(t, mat.EqualApprox(a, a.T(), 1e-12))

	// Constants are in the kernel of the Laplace hypersingular operator
	n, _ := w.Dims()
	for i := 0; i < n; i++ {
		sum := 0.
		for _, v := range w.RawRow(i) {
			sum += v
		}
		assert.InDelta(t, 0, sum, 1e-12*math.Abs(w.At(i, i)))
		assert.Greater(t, w.At(i, i), 0.)
	}
}

func TestSparseLU(t *testing.T) {
	t.Run("Real", func(t *testing.T) {
		a := NewDenseMatrix[float64](3, 3, []float64{
			4, 1, 0,
			1, 3, 1,
			0, 1, 2,
		})
		lu, err := NewSparseLU[float64](a)
		require.NoError(t, err)
		defer lu.Destroy()
		want := []float64{1, -2, 3}
		b := make([]float64, 3)
		a.MulVec(b, want)
		x, err := lu.Solve(b)
		require.NoError(t, err)
		assert.InDeltaSlice(t, want, x, 1e-12)

		_, err = lu.Solve([]float64{1})
		assert.Error(t, err)
	})

	t.Run("Complex", func(t *testing.T) {
		a := NewDenseMatrix[complex128](2, 2, []complex128{
			2 + 1i, 1,
			0, 3 - 2i,
		})
		lu, err := NewSparseLU[complex128](a)
		require.NoError(t, err)
		defer lu.Destroy()
		want := []complex128{1 - 1i, 2i}
		b := make([]complex128, 2)
		a.MulVec(b, want)
		x, err := lu.Solve(b)
		require.NoError(t, err)
		for i := range want {
			assert.InDelta(t, real(want[i]), real(x[i]), 1e-12)
			assert.InDelta(t, imag(want[i]), imag(x[i]), 1e-12)
		}
	})

	t.Run("NotSquare", func(t *testing.T) {
		_, err := NewSparseLU[float64](NewDenseMatrix[float64](2, 3, nil))
		assert.Error(t, err)
	})
}

func TestCombination(t *testing.T) {
	a := NewDenseMatrix[float64](2, 2, []float64{1, 2, 3, 4})
	b := NewDenseMatrix[float64](2, 2, []float64{0, 1, 1, 0})
	lc, err := NewCombination([]DiscreteOperator[float64]{a, b}, []float64{2, -1})
	require.NoError(t, err)

	want := []float64{2, 3, 5, 8}
	assert.Equal(t, want, lc.Materialize().RawData())
	assert.Equal(t, want, lc.DenseBlock([]int{0, 1}, []int{0, 1}).RawData())

	dst := make([]float64, 2)
	lc.MulVec(dst, []float64{1, 1})
	assert.Equal(t, []float64{5, 13}, dst)

	_, err = NewCombination([]DiscreteOperator[float64]{a, NewDenseMatrix[float64](1, 2, nil)}, []float64{1, 1})
	assert.Error(t, err)
}
