package solver

import (
	"math"
	"math/cmplx"

	"github.com/notargets/BEMKernel/assembly"
	"github.com/notargets/BEMKernel/numeric"
)

// krylovResult is the raw outcome of one Krylov run on A x = b
type krylovResult[R numeric.Scalar] struct {
	x          []R
	iterations int
	residual   float64   // relative
	history    []float64 // relative residual after each iteration
	converged  bool
}

// gmres is restarted GMRES with complex Givens rotations. Vectors are kept in
// the working precision of R; the small Hessenberg least-squares problem is
// solved in complex128. Convergence is decided on the true residual at the
// start of every cycle.
func gmres[R numeric.Scalar](a assembly.DiscreteOperator[R], b []R, p Parameters) krylovResult[R] {
	n := len(b)
	res := krylovResult[R]{x: make([]R, n)}
	bnorm := numeric.Norm(b)
	if bnorm == 0 {
		res.converged = true
		return res
	}
	target := p.Tolerance * bnorm

	m := min(p.Restart, n)
	V := make([][]R, m+1)
	for i := range V {
		V[i] = make([]R, n)
	}
	H := make([][]complex128, m+1)
	for i := range H {
		H[i] = make([]complex128, m)
	}
	cs := make([]float64, m)
	sn := make([]complex128, m)
	g := make([]complex128, m+1)
	r := make([]R, n)
	w := make([]R, n)

	for {
		a.MulVec(r, res.x)
		for i := range r {
			r[i] = b[i] - r[i]
		}
		beta := numeric.Norm(r)
		res.residual = beta / bnorm
		if beta <= target {
			res.converged = true
			return res
		}
		if res.iterations >= p.MaxIterations {
			return res
		}

		numeric.ScaleTo(V[0], numeric.FromFloat[R](1/beta), r)
		for i := range g {
			g[i] = 0
		}
		g[0] = complex(beta, 0)

		k := 0
		for k < m && res.iterations < p.MaxIterations {
			a.MulVec(w, V[k])
			res.iterations++
			// Modified Gram-Schmidt
			for i := 0; i <= k; i++ {
				h := numeric.Dot(V[i], w)
				H[i][k] = numeric.ToComplex(h)
				numeric.Axpy(-h, V[i], w)
			}
			hn := numeric.Norm(w)
			H[k+1][k] = complex(hn, 0)
			if hn > 0 {
				numeric.ScaleTo(V[k+1], numeric.FromFloat[R](1/hn), w)
			}

			for i := 0; i < k; i++ {
				applyGivens(cs[i], sn[i], &H[i][k], &H[i+1][k])
			}
			cs[k], sn[k] = givens(H[k][k], H[k+1][k])
			applyGivens(cs[k], sn[k], &H[k][k], &H[k+1][k])
			applyGivens(cs[k], sn[k], &g[k], &g[k+1])
			k++

			res.history = append(res.history, cmplx.Abs(g[k])/bnorm)
			if cmplx.Abs(g[k]) <= target || hn == 0 {
				break
			}
		}

		// Back substitution on the triangularized Hessenberg matrix
		y := make([]complex128, k)
		for i := k - 1; i >= 0; i-- {
			if H[i][i] == 0 {
				return res
			}
			s := g[i]
			for j := i + 1; j < k; j++ {
				s -= H[i][j] * y[j]
			}
			y[i] = s / H[i][i]
		}
		for i := 0; i < k; i++ {
			numeric.Axpy(numeric.FromComplex[R](y[i]), V[i], res.x)
		}
	}
}

// givens returns c, s with [c s; -conj(s) c] [a; b] = [ρ; 0]
func givens(a, b complex128) (float64, complex128) {
	switch {
	case b == 0:
		return 1, 0
	case a == 0:
		return 0, 1
	}
	absA := cmplx.Abs(a)
	rho := math.Hypot(absA, cmplx.Abs(b))
	return absA / rho, a / complex(absA, 0) * cmplx.Conj(b) / complex(rho, 0)
}

func applyGivens(c float64, s complex128, x, y *complex128) {
	tx := complex(c, 0)*(*x) + s*(*y)
	*y = -cmplx.Conj(s)*(*x) + complex(c, 0)*(*y)
	*x = tx
}

// cg is conjugate gradients for Hermitian positive definite A
func cg[R numeric.Scalar](a assembly.DiscreteOperator[R], b []R, p Parameters) krylovResult[R] {
	n := len(b)
	res := krylovResult[R]{x: make([]R, n)}
	bnorm := numeric.Norm(b)
	if bnorm == 0 {
		res.converged = true
		return res
	}
	target := p.Tolerance * bnorm

	r := append([]R(nil), b...)
	d := append([]R(nil), b...)
	ad := make([]R, n)
	rr := real(numeric.ToComplex(numeric.Dot(r, r)))
	for {
		res.residual = math.Sqrt(rr) / bnorm
		if math.Sqrt(rr) <= target {
			res.converged = true
			return res
		}
		if res.iterations >= p.MaxIterations {
			return res
		}
		a.MulVec(ad, d)
		res.iterations++
		dad := numeric.ToComplex(numeric.Dot(d, ad))
		if dad == 0 {
			return res
		}
		alpha := numeric.FromComplex[R](complex(rr, 0) / dad)
		numeric.Axpy(alpha, d, res.x)
		numeric.Axpy(-alpha, ad, r)
		rrNext := real(numeric.ToComplex(numeric.Dot(r, r)))
		res.history = append(res.history, math.Sqrt(rrNext)/bnorm)
		beta := numeric.FromFloat[R](rrNext / rr)
		for i := range d {
			d[i] = r[i] + beta*d[i]
		}
		rr = rrNext
	}
}
