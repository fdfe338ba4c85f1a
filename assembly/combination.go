package assembly

import (
	"fmt"

	"github.com/notargets/BEMKernel/numeric"
)

// Combination applies Σ c_i A_i term by term without materializing the sum
type Combination[R numeric.Scalar] struct {
	terms  []DiscreteOperator[R]
	coeffs []R
}

func NewCombination[R numeric.Scalar](terms []DiscreteOperator[R], coeffs []R) (*Combination[R], error) {
	if len(terms) == 0 || len(terms) != len(coeffs) {
		return nil, fmt.Errorf("combination of %d terms with %d coefficients", len(terms), len(coeffs))
	}
	r, c := terms[0].Dims()
	for i, t := range terms[1:] {
		if tr, tc := t.Dims(); tr != r || tc != c {
			return nil, fmt.Errorf("term %d is %dx%d, expected %dx%d", i+1, tr, tc, r, c)
		}
	}
	return &Combination[R]{terms: terms, coeffs: coeffs}, nil
}

func (lc *Combination[R]) Dims() (int, int) { return lc.terms[0].Dims() }

func (lc *Combination[R]) MulVec(dst, x []R) {
	tmp := make([]R, len(dst))
	for i := range dst {
		dst[i] = 0
	}
	for k, t := range lc.terms {
		t.MulVec(tmp, x)
		numeric.Axpy(lc.coeffs[k], tmp, dst)
	}
}

func (lc *Combination[R]) DenseBlock(rows, cols []int) *DenseMatrix[R] {
	out := NewDenseMatrix[R](len(rows), len(cols), nil)
	for k, t := range lc.terms {
		numeric.Axpy(lc.coeffs[k], t.DenseBlock(rows, cols).RawData(), out.RawData())
	}
	return out
}

func (lc *Combination[R]) DoNonZero(fn func(i, j int, v R)) {
	for k, t := range lc.terms {
		c := lc.coeffs[k]
		t.DoNonZero(func(i, j int, v R) { fn(i, j, c*v) })
	}
}

// Materialize sums the terms into one dense matrix
func (lc *Combination[R]) Materialize() *DenseMatrix[R] {
	r, c := lc.Dims()
	out := NewDenseMatrix[R](r, c, nil)
	lc.DoNonZero(func(i, j int, v R) { out.data[i*c+j] += v })
	return out
}
