package element

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ElementProperties contains metadata describing a shape set
type ElementProperties struct {
	Name       string          // Full descriptive name (e.g., "Lagrange Triangle Order 1")
	ShortName  string          // Abbreviated name (e.g., "TriP1")
	Type       ElementGeometry // Element shape
	Order      int             // Polynomial order
	Np         int             // Number of local functions
	NVp        int             // Number of functions attached to vertices
	NIp        int             // Number of functions attached to the interior
	Dimensions Dimensionality
}

// ReferenceTriangle vertices, counter-clockwise
var ReferenceVertices = [3][2]float64{{0, 0}, {1, 0}, {0, 1}}

const ReferenceArea = 0.5

// ConstantTri is the single constant function on a triangle
type ConstantTri struct {
	props ElementProperties
}

func NewConstantTri() *ConstantTri {
	return &ConstantTri{
		props: ElementProperties{
			Name:       "Constant Triangle",
			ShortName:  "TriP0",
			Type:       Tri,
			Order:      0,
			Np:         1,
			NVp:        0,
			NIp:        1,
			Dimensions: D2,
		},
	}
}

func (c *ConstantTri) GetProperties() ElementProperties { return c.props }
func (c *ConstantTri) Size() int                        { return 1 }
func (c *ConstantTri) Evaluate(u, v float64, out []float64) {
	out[0] = 1
}
func (c *ConstantTri) Gradients() [][2]float64 { return [][2]float64{{0, 0}} }

// LinearTri holds the three hat functions, function i is 1 on vertex i
type LinearTri struct {
	props ElementProperties
}

func NewLinearTri() *LinearTri {
	return &LinearTri{
		props: ElementProperties{
			Name:       "Lagrange Triangle Order 1",
			ShortName:  "TriP1",
			Type:       Tri,
			Order:      1,
			Np:         3,
			NVp:        3,
			NIp:        0,
			Dimensions: D2,
		},
	}
}

func (l *LinearTri) GetProperties() ElementProperties { return l.props }
func (l *LinearTri) Size() int                        { return 3 }
func (l *LinearTri) Evaluate(u, v float64, out []float64) {
	out[0] = 1 - u - v
	out[1] = u
	out[2] = v
}
func (l *LinearTri) Gradients() [][2]float64 {
	return [][2]float64{{-1, -1}, {1, 0}, {0, 1}}
}

// ReferenceMass returns the exact reference mass matrix of s,
// M_ij = ∫ φ_i φ_j over the reference triangle
func ReferenceMass(s ShapeSet) *mat.Dense {
	switch s.GetProperties().Order {
	case 0:
		return mat.NewDense(1, 1, []float64{ReferenceArea})
	case 1:
		m := mat.NewDense(3, 3, []float64{
			2, 1, 1,
			1, 2, 1,
			1, 1, 2,
		})
		m.Scale(1./24., m)
		return m
	}
	panic(fmt.Sprintf("no reference mass for %s", s.GetProperties().ShortName))
}
