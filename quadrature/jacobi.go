package quadrature

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/mat"
)

// JacobiGQ computes the N+1 point Gauss quadrature for the weight
// (1-x)^alpha (1+x)^beta on [-1,1] by the Golub-Welsch eigenvalue method
func JacobiGQ(alpha, beta float64, N int) (X, W []float64) {
	if N == 0 {
		return []float64{-(alpha - beta) / (alpha + beta + 2.)}, []float64{gamma0(alpha, beta)}
	}

	h1 := make([]float64, N+1)
	for i := 0; i < N+1; i++ {
		h1[i] = 2*float64(i) + alpha + beta
	}

	// main diagonal: d0[i] = -(β²-α²)/((2i+α+β)*(2i+α+β+2))
	d0 := make([]float64, N+1)
	fac := beta*beta - alpha*alpha
	for i := 0; i < N+1; i++ {
		d0[i] = fac / (h1[i] * (h1[i] + 2.))
	}
	// 0/0 for the Legendre weight
	if alpha+beta < 10*1.e-16 {
		d0[0] = 0.
	}

	d1 := make([]float64, N)
	for i := 0; i < N; i++ {
		ip1 := float64(i + 1)
		d1[i] = 2.0 / (h1[i] + 2.0) * math.Sqrt(
			ip1*(ip1+alpha+beta)*(ip1+alpha)*(ip1+beta)/(h1[i]+1)/(h1[i]+3),
		)
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(newSymTriDiagonal(d0, d1), true); !ok {
		panic("eigenvalue decomposition failed")
	}
	X = eig.Values(nil)

	vv := mat.NewDense(len(X), len(X), nil)
	eig.VectorsTo(vv)
	W = make([]float64, len(X))
	g0 := gamma0(alpha, beta)
	for i := range W {
		v := vv.At(0, i)
		W[i] = v * v * g0
	}
	return X, W
}

// gamma0 is the integral of the Jacobi weight over [-1,1]
func gamma0(alpha, beta float64) float64 {
	ab1 := alpha + beta + 1.
	a1 := alpha + 1.
	b1 := beta + 1.
	return math.Gamma(a1) * math.Gamma(b1) * math.Pow(2, ab1) / ab1 / math.Gamma(ab1)
}

func newSymTriDiagonal(d0, d1 []float64) *mat.SymDense {
	n := len(d0)
	t := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		t.SetSym(i, i, d0[i])
		if i < n-1 {
			t.SetSym(i, i+1, d1[i])
		}
	}
	return t
}

// GaussLegendre01 returns the n point Gauss-Legendre rule on [0,1]
func GaussLegendre01(n int) (x, w []float64) {
	x = make([]float64, n)
	w = make([]float64, n)
	quad.Legendre{}.FixedLocations(x, w, 0, 1)
	return
}
