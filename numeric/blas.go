package numeric

import "math"

// Dot returns sum_i conj(x_i)*y_i
func Dot[T Scalar](x, y []T) T {
	var sum T
	for i := range x {
		sum += Conj(x[i]) * y[i]
	}
	return sum
}

// Norm returns the Euclidean norm of x, accumulated in float64
func Norm[T Scalar](x []T) float64 {
	var sum float64
	for _, v := range x {
		z := ToComplex(v)
		sum += real(z)*real(z) + imag(z)*imag(z)
	}
	return math.Sqrt(sum)
}

// Axpy computes y += alpha*x
func Axpy[T Scalar](alpha T, x, y []T) {
	for i := range x {
		y[i] += alpha * x[i]
	}
}

// ScaleTo computes dst = alpha*x
func ScaleTo[T Scalar](dst []T, alpha T, x []T) {
	for i := range x {
		dst[i] = alpha * x[i]
	}
}

// Cast converts a slice between scalar types, rounding to the precision of U
func Cast[U, T Scalar](x []T) []U {
	out := make([]U, len(x))
	for i, v := range x {
		out[i] = FromComplex[U](ToComplex(v))
	}
	return out
}
