package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Regular tetrahedron surface: 4 vertices, 4 triangles, closed
func tetSurface() (int, [][3]int) {
	return 4, [][3]int{
		{0, 2, 1},
		{0, 1, 3},
		{1, 2, 3},
		{0, 3, 2},
	}
}

func TestElementConnector(t *testing.T) {
	nv, eToV := tetSurface()
	ec, err := NewElementConnector(nv, eToV)
	require.NoError(t, err)
	require.NoError(t, ec.Verify())

	t.Run("Closed", func(t *testing.T) {
		assert.True(t, ec.IsClosed())
		assert.Len(t, ec.Edge, 6)
	})

	t.Run("SharedVertices", func(t *testing.T) {
		assert.Equal(t, 3, ec.SharedVertices(0, 0))
		// Every pair of tetrahedron faces shares an edge
		for a := 0; a < 4; a++ {
			for b := 0; b < 4; b++ {
				if a != b {
					assert.Equal(t, 2, ec.SharedVertices(a, b))
				}
			}
		}
	})

	t.Run("Neighbors", func(t *testing.T) {
		for k := 0; k < ec.K; k++ {
			for i := 0; i < 3; i++ {
				assert.NotEqual(t, -1, ec.EToE[k][i])
				assert.NotEqual(t, k, ec.EToE[k][i])
			}
		}
		assert.Equal(t, []int{0, 1, 2, 3}, ec.Touching(2))
	})
}

func TestElementConnectorOpenSurface(t *testing.T) {
	// Two triangles forming a square
	ec, err := NewElementConnector(4, [][3]int{{0, 1, 2}, {0, 2, 3}})
	require.NoError(t, err)
	require.NoError(t, ec.Verify())

	assert.False(t, ec.IsClosed())
	assert.Equal(t, 2, ec.SharedVertices(0, 1))
	// Edge opposite vertex 1 of element 0 joins 2 and 0
	assert.Equal(t, 1, ec.EToE[0][1])
	assert.Equal(t, -1, ec.EToE[0][0])
}

func TestElementConnectorInvalid(t *testing.T) {
	testCases := []struct {
		name string
		nv   int
		eToV [][3]int
	}{
		{"Empty", 3, nil},
		{"VertexOutOfRange", 3, [][3]int{{0, 1, 3}}},
		{"RepeatedVertex", 3, [][3]int{{0, 1, 1}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewElementConnector(tc.nv, tc.eToV)
			assert.Error(t, err)
		})
	}
}

func TestConvergenceFailure(t *testing.T) {
	var err error = &ConvergenceFailure{Method: "gmres", Iterations: 3, ResidualNorm: 1e-2, Tolerance: 1e-8}
	assert.ErrorIs(t, err, ErrConvergence)
	assert.Contains(t, err.Error(), "gmres")
}

func TestMaxWorkers(t *testing.T) {
	assert.Equal(t, 3, MaxWorkers(3))
	assert.GreaterOrEqual(t, MaxWorkers(AutoWorkers), 1)
}
