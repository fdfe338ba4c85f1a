package quadrature

import "fmt"

// Rule is a quadrature rule on the reference triangle {u,v >= 0, u+v <= 1}.
// Weights sum to the reference area 1/2.
type Rule struct {
	Order int
	U, V  []float64
	W     []float64
}

func (r *Rule) Len() int { return len(r.W) }

// PointsPerDirection is the 1D Gauss point count giving exactness to
// polynomial degree `order`
func PointsPerDirection(order int) int {
	if order < 1 {
		return 1
	}
	return order/2 + 1
}

// NewTriangleRule builds the collapsed-coordinate (Stroud conical product)
// rule: Gauss-Jacobi(1,0) in the collapsed direction times Gauss-Legendre,
// exact for polynomials of total degree <= order
func NewTriangleRule(order int) (r *Rule) {
	if order < 0 {
		panic(fmt.Sprintf("negative quadrature order %d", order))
	}
	n := PointsPerDirection(order)
	xa, wa := JacobiGQ(1, 0, n-1)
	xb, wb := GaussLegendre01(n)
	r = &Rule{
		Order: order,
		U:     make([]float64, 0, n*n),
		V:     make([]float64, 0, n*n),
		W:     make([]float64, 0, n*n),
	}
	for i := range xa {
		a := 0.5 * (1 + xa[i])
		for j := range xb {
			r.U = append(r.U, a)
			r.V = append(r.V, (1-a)*xb[j])
			// du dv = (1-s)/2 ds/2 db, the (1-s) factor is the Jacobi weight
			r.W = append(r.W, wa[i]*wb[j]/4)
		}
	}
	return
}

// PairRule is a quadrature rule on the product of two reference triangles.
// Weights sum to 1/4.
type PairRule struct {
	TestU, TestV   []float64
	TrialU, TrialV []float64
	W              []float64
}

func (pr *PairRule) Len() int { return len(pr.W) }

func (pr *PairRule) add(tu, tv, su, sv, w float64) {
	pr.TestU = append(pr.TestU, tu)
	pr.TestV = append(pr.TestV, tv)
	pr.TrialU = append(pr.TrialU, su)
	pr.TrialV = append(pr.TrialV, sv)
	pr.W = append(pr.W, w)
}

// NewTensorPairRule is the product of a test and a trial triangle rule
func NewTensorPairRule(test, trial *Rule) *PairRule {
	n := test.Len() * trial.Len()
	pr := &PairRule{
		TestU:  make([]float64, 0, n),
		TestV:  make([]float64, 0, n),
		TrialU: make([]float64, 0, n),
		TrialV: make([]float64, 0, n),
		W:      make([]float64, 0, n),
	}
	for i := range test.W {
		for j := range trial.W {
			pr.add(test.U[i], test.V[i], trial.U[j], trial.V[j], test.W[i]*trial.W[j])
		}
	}
	return pr
}
