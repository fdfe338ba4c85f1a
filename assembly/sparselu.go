package assembly

import (
	"fmt"
	"sync"

	"github.com/edp1096/sparse"
	"github.com/notargets/BEMKernel/numeric"
)

// SparseLU is a factored square operator. Factorization happens once at
// construction, Solve may be called any number of times.
type SparseLU[R numeric.Scalar] struct {
	n       int
	complex bool
	matrix  *sparse.Matrix

	mu sync.Mutex
}

// NewSparseLU factors the stored entries of op
func NewSparseLU[R numeric.Scalar](op DiscreteOperator[R]) (*SparseLU[R], error) {
	rows, cols := op.Dims()
	if rows != cols || rows == 0 {
		return nil, fmt.Errorf("sparse LU of a %dx%d operator", rows, cols)
	}
	isComplex := numeric.TypeOf[R]().IsComplex()
	config := &sparse.Configuration{
		Real:                    true,
		Complex:                 isComplex,
		SeparatedComplexVectors: true,
		Expandable:              true,
		Translate:               false,
		ModifiedNodal:           false,
		TiesMultiplier:          5,
		PrinterWidth:            140,
		Annotate:                0,
	}
	m, err := sparse.Create(int64(rows), config)
	if err != nil {
		return nil, fmt.Errorf("sparse LU create: %w", err)
	}
	// 1-based element indexing
	op.DoNonZero(func(i, j int, v R) {
		el := m.GetElement(int64(i+1), int64(j+1))
		z := numeric.ToComplex(v)
		el.Real += real(z)
		if isComplex {
			el.Imag += imag(z)
		}
	})
	if err = m.Factor(); err != nil {
		m.Destroy()
		return nil, fmt.Errorf("sparse LU factor: %w", err)
	}
	return &SparseLU[R]{n: rows, complex: isComplex, matrix: m}, nil
}

func (lu *SparseLU[R]) Size() int { return lu.n }

// Solve returns x with A x = b
func (lu *SparseLU[R]) Solve(b []R) ([]R, error) {
	if len(b) != lu.n {
		return nil, fmt.Errorf("sparse LU solve: rhs length %d, expected %d", len(b), lu.n)
	}
	lu.mu.Lock()
	defer lu.mu.Unlock()

	rhs := make([]float64, lu.n+1)
	x := make([]R, lu.n)
	if !lu.complex {
		for i, v := range b {
			rhs[i+1] = real(numeric.ToComplex(v))
		}
		sol, err := lu.matrix.Solve(rhs)
		if err != nil {
			return nil, fmt.Errorf("sparse LU solve: %w", err)
		}
		for i := range x {
			x[i] = numeric.FromFloat[R](sol[i+1])
		}
		return x, nil
	}

	rhsImag := make([]float64, lu.n+1)
	for i, v := range b {
		z := numeric.ToComplex(v)
		rhs[i+1], rhsImag[i+1] = real(z), imag(z)
	}
	sol, solImag, err := lu.matrix.SolveComplex(rhs, rhsImag)
	if err != nil {
		return nil, fmt.Errorf("sparse LU solve: %w", err)
	}
	for i := range x {
		x[i] = numeric.FromComplex[R](complex(sol[i+1], solImag[i+1]))
	}
	return x, nil
}

// Destroy releases the factorization
func (lu *SparseLU[R]) Destroy() {
	lu.mu.Lock()
	defer lu.mu.Unlock()
	if lu.matrix != nil {
		lu.matrix.Destroy()
		lu.matrix = nil
	}
}
