package element

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// AffineTransform maps the reference triangle onto a flat triangle in R^3:
// x(u,v) = P0 + u(P1-P0) + v(P2-P0)
type AffineTransform struct {
	Corners  [3]r3.Vec
	Normal   r3.Vec  // Unit normal, (P1-P0)x(P2-P0) orientation
	Area     float64 // Physical area, half the Jacobian determinant
	Centroid r3.Vec
	Diameter float64 // Longest edge

	// Jacobian dx/d(u,v) as a [3 × 2] matrix, columns P1-P0 and P2-P0
	Jacobian *mat.Dense

	// Inverse of the metric JᵀJ
	ginv [2][2]float64
}

func NewAffineTransform(p0, p1, p2 r3.Vec) (*AffineTransform, error) {
	a := r3.Sub(p1, p0)
	b := r3.Sub(p2, p0)
	cr := r3.Cross(a, b)
	twiceArea := r3.Norm(cr)
	if twiceArea == 0 || math.IsNaN(twiceArea) {
		return nil, fmt.Errorf("degenerate triangle %v %v %v", p0, p1, p2)
	}
	at := &AffineTransform{
		Corners:  [3]r3.Vec{p0, p1, p2},
		Normal:   r3.Scale(1/twiceArea, cr),
		Area:     0.5 * twiceArea,
		Centroid: r3.Scale(1./3., r3.Add(p0, r3.Add(p1, p2))),
		Diameter: math.Max(r3.Norm(a), math.Max(r3.Norm(b), r3.Norm(r3.Sub(p2, p1)))),
		Jacobian: mat.NewDense(3, 2, []float64{
			a.X, b.X,
			a.Y, b.Y,
			a.Z, b.Z,
		}),
	}
	g11, g12, g22 := r3.Dot(a, a), r3.Dot(a, b), r3.Dot(b, b)
	det := g11*g22 - g12*g12
	at.ginv = [2][2]float64{{g22 / det, -g12 / det}, {-g12 / det, g11 / det}}
	return at, nil
}

// JacobianDeterminant is the area ratio physical/reference-parallelogram
func (at *AffineTransform) JacobianDeterminant() float64 { return 2 * at.Area }

func (at *AffineTransform) MapToPhysical(u, v float64) r3.Vec {
	p := at.Corners[0]
	p = r3.Add(p, r3.Scale(u, r3.Sub(at.Corners[1], at.Corners[0])))
	p = r3.Add(p, r3.Scale(v, r3.Sub(at.Corners[2], at.Corners[0])))
	return p
}

// SurfaceGradient lifts a reference gradient to the tangential gradient
// J G⁻¹ ∇ref
func (at *AffineTransform) SurfaceGradient(ref [2]float64) r3.Vec {
	cu := at.ginv[0][0]*ref[0] + at.ginv[0][1]*ref[1]
	cv := at.ginv[1][0]*ref[0] + at.ginv[1][1]*ref[1]
	return r3.Add(
		r3.Scale(cu, r3.Sub(at.Corners[1], at.Corners[0])),
		r3.Scale(cv, r3.Sub(at.Corners[2], at.Corners[0])))
}

// SurfaceCurl is n × ∇Γ
func (at *AffineTransform) SurfaceCurl(ref [2]float64) r3.Vec {
	return r3.Cross(at.Normal, at.SurfaceGradient(ref))
}

func (at *AffineTransform) String() string {
	return fmt.Sprintf("Tri area=%.4e diam=%.4e centroid=(%.4f,%.4f,%.4f)",
		at.Area, at.Diameter, at.Centroid.X, at.Centroid.Y, at.Centroid.Z)
}
