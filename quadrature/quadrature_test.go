package quadrature

import (
	"math"
	"testing"

	"github.com/notargets/BEMKernel/mesh"
	"github.com/notargets/BEMKernel/numeric"
	"github.com/notargets/BEMKernel/utils"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func factorial(n int) float64 {
	f := 1.
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}

func TestJacobiGQ(t *testing.T) {
	t.Run("Legendre", func(t *testing.T) {
		X, W := JacobiGQ(0, 0, 2)
		require.Len(t, X, 3)
		r := math.Sqrt(0.6)
		assert.InDeltaSlice(t, []float64{-r, 0, r}, X, 1e-14)
		assert.InDeltaSlice(t, []float64{5. / 9, 8. / 9, 5. / 9}, W, 1e-14)
	})
	t.Run("SinglePoint", func(t *testing.T) {
		X, W := JacobiGQ(1, 0, 0)
		assert.InDelta(t, -1./3, X[0], 1e-15)
		assert.InDelta(t, 2., W[0], 1e-15)
	})
	t.Run("JacobiWeight", func(t *testing.T) {
		// ∫ (1-x) x^p dx over [-1,1]
		X, W := JacobiGQ(1, 0, 4)
		for p := 0; p <= 9; p++ {
			var got float64
			for i := range X {
				got += W[i] * math.Pow(X[i], float64(p))
			}
			want := (1 - math.Pow(-1, float64(p+1))) / float64(p+1)
			want -= (1 - math.Pow(-1, float64(p+2))) / float64(p+2)
			assert.InDelta(t, want, got, 1e-13, "degree %d", p)
		}
	})
}

func TestTriangleRuleExactness(t *testing.T) {
	for order := 1; order <= 8; order++ {
		r := NewTriangleRule(order)
		assert.Equal(t, PointsPerDirection(order)*PointsPerDirection(order), r.Len())
		for p := 0; p <= order; p++ {
			for q := 0; p+q <= order; q++ {
				var got float64
				for i := range r.W {
					assert.GreaterOrEqual(t, r.U[i]+r.V[i], 0.)
					assert.LessOrEqual(t, r.U[i]+r.V[i], 1.)
					got += r.W[i] * math.Pow(r.U[i], float64(p)) * math.Pow(r.V[i], float64(q))
				}
				want := factorial(p) * factorial(q) / factorial(p+q+2)
				assert.InDelta(t, want, got, 1e-14, "order %d, u^%d v^%d", order, p, q)
			}
		}
	}
}

func sum(x []float64) (s float64) {
	for _, v := range x {
		s += v
	}
	return
}

func TestPairRules(t *testing.T) {
	s, err := NewStrategy(numeric.Float64, numeric.Float64, AccuracyOptions{})
	require.NoError(t, err)
	m := mesh.NewFlatGrid(3, 3, 1, 1)

	seen := map[Adjacency]bool{}
	for k := 0; k < m.NumElements(); k++ {
		for l := 0; l < m.NumElements(); l++ {
			pr, in := s.PairRule(m, k, l)
			seen[in.Adjacency] = true
			assert.InDelta(t, 0.25, sum(pr.W), 1e-13, "pair (%d,%d) %v", k, l, in.Adjacency)

			// ∫∫ u_x v_y = 1/36 for every rule, singular ones included
			var got float64
			for i, w := range pr.W {
				got += w * pr.TestU[i] * pr.TrialV[i]
			}
			assert.InDelta(t, 1./36, got, 1e-13, "pair (%d,%d) %v", k, l, in.Adjacency)

			if in.Regime == Singular {
				// the (l, k) rule is the transpose of the (k, l) rule
				back, _ := s.PairRule(m, l, k)
				assert.Equal(t, pr.TestU, back.TrialU)
				assert.Equal(t, pr.TestV, back.TrialV)
				assert.Equal(t, pr.TrialU, back.TestU)
				assert.Equal(t, pr.W, back.W)
			}
		}
	}
	for _, a := range []Adjacency{Disjoint, SharedVertex, SharedEdge, Coincident} {
		assert.True(t, seen[a], "no %v pair on the grid", a)
	}
}

func TestClassify(t *testing.T) {
	m := mesh.NewIcosphere(1, 1.0)
	s, err := NewStrategy(numeric.Float64, numeric.Complex128, AccuracyOptions{})
	require.NoError(t, err)
	acc := s.Accuracy()

	counts := map[Regime]int{}
	for k := 0; k < m.NumElements(); k++ {
		for l := 0; l < m.NumElements(); l++ {
			in := s.Classify(m, k, l)
			counts[in.Regime]++
			assert.Equal(t, in, s.Classify(m, l, k))
			assert.Equal(t, in, s.Classify(m, k, l))
			switch shared := m.SharedVertices(k, l); {
			case shared > 0:
				assert.Equal(t, Singular, in.Regime)
				assert.Equal(t, Adjacency(shared), in.Adjacency)
				assert.Equal(t, acc.SingularOrder, in.Order)
			case in.Regime == NearSingular:
				assert.Equal(t, acc.NearSingularOrder, in.Order)
			default:
				assert.Equal(t, Regular, in.Regime)
				assert.Equal(t, acc.RegularOrder, in.Order)
			}
		}
	}
	assert.Equal(t, countTouching(m), counts[Singular])
	assert.Positive(t, counts[Regular])
	assert.Positive(t, counts[NearSingular])

	wide, err := NewStrategy(numeric.Float64, numeric.Float64, AccuracyOptions{NearFieldFactor: 100})
	require.NoError(t, err)
	for l := 0; l < m.NumElements(); l++ {
		assert.NotEqual(t, Regular, wide.Classify(m, 0, l).Regime)
	}

	// zero keeps the default factor, negative turns the near field off
	def, err := NewStrategy(numeric.Float64, numeric.Float64, AccuracyOptions{NearFieldFactor: 0})
	require.NoError(t, err)
	assert.Equal(t, DefaultAccuracyOptions().NearFieldFactor, def.Accuracy().NearFieldFactor)
	off, err := NewStrategy(numeric.Float64, numeric.Float64, AccuracyOptions{NearFieldFactor: NoNearField})
	require.NoError(t, err)
	for k := 0; k < m.NumElements(); k++ {
		for l := 0; l < m.NumElements(); l++ {
			if m.SharedVertices(k, l) == 0 {
				assert.Equal(t, Regular, off.Classify(m, k, l).Regime)
			}
		}
	}
}

func countTouching(m *mesh.Mesh) (n int) {
	for k := 0; k < m.NumElements(); k++ {
		n += len(m.Touching(k))
	}
	return
}

func TestStrategyCache(t *testing.T) {
	s, err := NewStrategy(numeric.Float32, numeric.Complex64, AccuracyOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, s.CacheSize())

	rules := make([]*Rule, 16)
	var wg conc.WaitGroup
	for i := range rules {
		wg.Go(func() { rules[i] = s.TriangleRule(5) })
	}
	wg.Wait()
	for _, r := range rules {
		assert.Same(t, rules[0], r)
	}
	assert.Equal(t, 1, s.CacheSize())
	assert.Same(t, s.SingleRule(), s.TriangleRule(s.Accuracy().SingleElementOrder))

	// singular rules depend on the local layout of the shared vertices only
	m := mesh.NewFlatGrid(4, 4, 1, 1)
	n := s.CacheSize()
	for k := 0; k < m.NumElements(); k++ {
		for _, l := range m.Touching(k) {
			s.PairRule(m, k, l)
		}
	}
	first := s.CacheSize()
	assert.Greater(t, first, n)
	assert.Less(t, first-n, 64)
	pr, _ := s.PairRule(m, 0, 0)
	again, _ := s.PairRule(m, m.NumElements()-1, m.NumElements()-1)
	assert.Same(t, pr, again)
}

func TestNewStrategyErrors(t *testing.T) {
	tests := []struct {
		name          string
		basis, result numeric.Type
		accuracy      AccuracyOptions
		want          error
	}{
		{"ComplexBasisWidened", numeric.Complex64, numeric.Complex128, AccuracyOptions{}, utils.ErrTypeMismatch},
		{"NarrowedResult", numeric.Float64, numeric.Float32, AccuracyOptions{}, utils.ErrTypeMismatch},
		{"OrderTooHigh", numeric.Float64, numeric.Float64, AccuracyOptions{RegularOrder: MaxOrder + 1}, utils.ErrConfiguration},
		{"NearBelowRegular", numeric.Float64, numeric.Float64,
			AccuracyOptions{RegularOrder: 6, NearSingularOrder: 4}, utils.ErrConfiguration},
		{"NaNFactor", numeric.Float64, numeric.Float64, AccuracyOptions{NearFieldFactor: math.NaN()}, utils.ErrConfiguration},
		{"InfiniteFactor", numeric.Float64, numeric.Float64, AccuracyOptions{NearFieldFactor: math.Inf(1)}, utils.ErrConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStrategy(tt.basis, tt.result, tt.accuracy)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCheckSupport(t *testing.T) {
	s, err := NewStrategy(numeric.Float64, numeric.Float64, AccuracyOptions{})
	require.NoError(t, err)

	tests := []struct {
		name                string
		derivatives         int
		testOrder, trialOrd int
		testCont, trialCont bool
		ok                  bool
	}{
		{"NoDerivatives", 0, 0, 0, false, false, true},
		{"ContinuousLinear", 1, 1, 1, true, true, true},
		{"PiecewiseConstant", 1, 0, 1, false, true, false},
		{"Discontinuous", 1, 1, 1, false, true, false},
		{"SecondDerivatives", 2, 1, 1, true, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.CheckSupport(tt.derivatives, tt.testOrder, tt.trialOrd, tt.testCont, tt.trialCont)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, utils.ErrSingularityHandling)
			}
		})
	}
}
