package element

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestShapeSets(t *testing.T) {
	testCases := []struct {
		name  string
		shape ShapeSet
	}{
		{"TriP0", NewConstantTri()},
		{"TriP1", NewLinearTri()},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			props := tc.shape.GetProperties()
			assert.Equal(t, tc.name, props.ShortName)
			assert.Equal(t, props.Np, tc.shape.Size())
			assert.Len(t, tc.shape.Gradients(), tc.shape.Size())

			// Partition of unity
			out := make([]float64, tc.shape.Size())
			for _, pt := range [][2]float64{{0.2, 0.3}, {0, 0}, {1. / 3., 1. / 3.}} {
				tc.shape.Evaluate(pt[0], pt[1], out)
				sum := 0.
				for _, v := range out {
					sum += v
				}
				assert.InDelta(t, 1.0, sum, 1e-15)
			}

			// Reference mass sums to the reference area
			m := ReferenceMass(tc.shape)
			r, c := m.Dims()
			sum := 0.
			for i := 0; i < r; i++ {
				for j := 0; j < c; j++ {
					sum += m.At(i, j)
				}
			}
			assert.InDelta(t, ReferenceArea, sum, 1e-15)
		})
	}
}

func TestLinearTriNodal(t *testing.T) {
	l := NewLinearTri()
	out := make([]float64, 3)
	for i, v := range ReferenceVertices {
		l.Evaluate(v[0], v[1], out)
		for j := range out {
			if i == j {
				assert.Equal(t, 1.0, out[j])
			} else {
				assert.Equal(t, 0.0, out[j])
			}
		}
	}
}

func TestAffineTransform(t *testing.T) {
	at, err := NewAffineTransform(r3.Vec{}, r3.Vec{X: 2}, r3.Vec{Y: 1})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, at.Area, 1e-15)
	assert.Equal(t, r3.Vec{Z: 1}, at.Normal)
	assert.InDelta(t, math.Sqrt(5), at.Diameter, 1e-15)
	assert.Equal(t, r3.Vec{X: 1, Y: 0.5}, at.MapToPhysical(0.5, 0.5))
	r, c := at.Jacobian.Dims()
	assert.Equal(t, []int{3, 2}, []int{r, c})

	t.Run("SurfaceGradient", func(t *testing.T) {
		// Hat functions of x/2 and y on this triangle
		grads := NewLinearTri().Gradients()
		g1 := at.SurfaceGradient(grads[1])
		g2 := at.SurfaceGradient(grads[2])
		assert.InDeltaSlice(t, []float64{0.5, 0, 0}, []float64{g1.X, g1.Y, g1.Z}, 1e-14)
		assert.InDeltaSlice(t, []float64{0, 1, 0}, []float64{g2.X, g2.Y, g2.Z}, 1e-14)

		// n × ∇ rotates a gradient by 90 degrees in the plane
		c2 := at.SurfaceCurl(grads[2])
		assert.InDeltaSlice(t, []float64{-1, 0, 0}, []float64{c2.X, c2.Y, c2.Z}, 1e-14)
	})

	t.Run("Degenerate", func(t *testing.T) {
		_, err := NewAffineTransform(r3.Vec{}, r3.Vec{X: 1}, r3.Vec{X: 2})
		assert.Error(t, err)
	})
}
