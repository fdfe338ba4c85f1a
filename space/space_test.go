package space

import (
	"testing"

	"github.com/notargets/BEMKernel/mesh"
	"github.com/notargets/BEMKernel/numeric"
	"github.com/notargets/BEMKernel/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestSpaceDofs(t *testing.T) {
	m := mesh.NewIcosphere(1, 1.0)
	testCases := []struct {
		kind   Kind
		dofs   int
		local  int
		order  int
		discon bool
	}{
		{PiecewiseConstant, 80, 1, 0, true},
		{PiecewiseLinearContinuous, 42, 3, 1, false},
		{PiecewiseLinearDiscontinuous, 240, 3, 1, true},
	}
	for _, tc := range testCases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			sp, err := New(tc.kind, numeric.Float64, m)
			require.NoError(t, err)
			assert.Equal(t, tc.dofs, sp.GlobalDofCount())
			assert.Equal(t, tc.order, sp.Order())
			assert.Equal(t, tc.discon, sp.IsDiscontinuous())
			assert.Len(t, sp.GlobalDofPositions(), tc.dofs)

			// Every DOF is reached from some element
			seen := make([]bool, tc.dofs)
			for k := 0; k < m.NumElements(); k++ {
				dofs := sp.LocalDofs(k)
				assert.Len(t, dofs, tc.local)
				for _, d := range dofs {
					seen[d] = true
				}
			}
			for d, s := range seen {
				assert.True(t, s, "dof %d unreached", d)
			}
		})
	}
}

func TestContinuousDofsFollowVertices(t *testing.T) {
	m := mesh.NewFlatGrid(2, 1, 2, 1)
	sp, err := NewPiecewiseLinearContinuousScalarSpace(numeric.Float32, m)
	require.NoError(t, err)
	pos := sp.GlobalDofPositions()
	for k := 0; k < m.NumElements(); k++ {
		tri := m.ElementVertices(k)
		for i, d := range sp.LocalDofs(k) {
			assert.Equal(t, m.Vertex(tri[i]), pos[d])
		}
	}
	assert.Equal(t, numeric.Float32, sp.BasisType())
}

func TestSurfaceCurls(t *testing.T) {
	m := mesh.NewIcosphere(1, 1.0)
	sp, err := NewPiecewiseLinearContinuousScalarSpace(numeric.Float64, m)
	require.NoError(t, err)
	for k := 0; k < m.NumElements(); k++ {
		curls := sp.SurfaceCurls(k)
		// Hat functions sum to one, so their curls sum to zero
		sum := r3.Add(curls[0], r3.Add(curls[1], curls[2]))
		assert.InDelta(t, 0, r3.Norm(sum), 1e-12)
		// Curls are tangential
		for _, c := range curls {
			assert.InDelta(t, 0, r3.Dot(c, m.Element(k).Normal), 1e-12)
		}
	}

	p0, err := NewPiecewiseConstantScalarSpace(numeric.Float64, m)
	require.NoError(t, err)
	assert.Equal(t, r3.Vec{}, p0.SurfaceCurls(0)[0])
}

func TestSpaceErrors(t *testing.T) {
	m := mesh.NewIcosphere(0, 1.0)
	_, err := New(PiecewiseConstant, numeric.Type(0), m)
	assert.ErrorIs(t, err, utils.ErrTypeMismatch)
	_, err = New(Kind(9), numeric.Float64, m)
	assert.ErrorIs(t, err, utils.ErrConfiguration)
	_, err = New(PiecewiseConstant, numeric.Float64, nil)
	assert.ErrorIs(t, err, utils.ErrConfiguration)
}
