package assembly

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/notargets/BEMKernel/numeric"
	"gonum.org/v1/gonum/mat"
)

// DiscreteOperator is an assembled (or assemblable) linear map. Storage is an
// implementation choice behind this contract.
type DiscreteOperator[R numeric.Scalar] interface {
	Dims() (rows, cols int)

	// MulVec computes dst = A x
	MulVec(dst, x []R)

	// DenseBlock materializes the rows × cols sub-block
	DenseBlock(rows, cols []int) *DenseMatrix[R]

	// DoNonZero calls fn for every stored entry
	DoNonZero(fn func(i, j int, v R))
}

// DenseMatrix is a row-major dense operator
type DenseMatrix[R numeric.Scalar] struct {
	rows, cols int
	data       []R
}

func NewDenseMatrix[R numeric.Scalar](rows, cols int, data []R) *DenseMatrix[R] {
	if data == nil {
		data = make([]R, rows*cols)
	}
	if len(data) != rows*cols {
		panic(fmt.Sprintf("dense matrix %dx%d with %d values", rows, cols, len(data)))
	}
	return &DenseMatrix[R]{rows: rows, cols: cols, data: data}
}

func (d *DenseMatrix[R]) Dims() (int, int)  { return d.rows, d.cols }
func (d *DenseMatrix[R]) At(i, j int) R     { return d.data[i*d.cols+j] }
func (d *DenseMatrix[R]) Set(i, j int, v R) { d.data[i*d.cols+j] = v }
func (d *DenseMatrix[R]) RawRow(i int) []R  { return d.data[i*d.cols : (i+1)*d.cols] }
func (d *DenseMatrix[R]) RawData() []R      { return d.data }

func (d *DenseMatrix[R]) MulVec(dst, x []R) {
	checkMulVec(d.rows, d.cols, dst, x)
	for i := 0; i < d.rows; i++ {
		var sum R
		row := d.data[i*d.cols : (i+1)*d.cols]
		for j, v := range row {
			sum += v * x[j]
		}
		dst[i] = sum
	}
}

func (d *DenseMatrix[R]) DenseBlock(rows, cols []int) *DenseMatrix[R] {
	b := NewDenseMatrix[R](len(rows), len(cols), nil)
	for i, r := range rows {
		for j, c := range cols {
			b.data[i*b.cols+j] = d.data[r*d.cols+c]
		}
	}
	return b
}

func (d *DenseMatrix[R]) DoNonZero(fn func(i, j int, v R)) {
	var zero R
	for i := 0; i < d.rows; i++ {
		for j := 0; j < d.cols; j++ {
			if v := d.data[i*d.cols+j]; v != zero {
				fn(i, j, v)
			}
		}
	}
}

// RealPart copies the real parts into a gonum matrix
func (d *DenseMatrix[R]) RealPart() *mat.Dense {
	m := mat.NewDense(d.rows, d.cols, nil)
	for i := 0; i < d.rows; i++ {
		for j := 0; j < d.cols; j++ {
			m.Set(i, j, real(numeric.ToComplex(d.data[i*d.cols+j])))
		}
	}
	return m
}

// ImagPart copies the imaginary parts into a gonum matrix
func (d *DenseMatrix[R]) ImagPart() *mat.Dense {
	m := mat.NewDense(d.rows, d.cols, nil)
	for i := 0; i < d.rows; i++ {
		for j := 0; j < d.cols; j++ {
			m.Set(i, j, imag(numeric.ToComplex(d.data[i*d.cols+j])))
		}
	}
	return m
}

// SparseMatrix stores a real-valued operator, e.g. a mass matrix, in CSR
// form and applies it in the working precision of R
type SparseMatrix[R numeric.Scalar] struct {
	csr *sparse.CSR
}

// NewSparseMatrix builds CSR storage from a DOK accumulator
func NewSparseMatrix[R numeric.Scalar](dok *sparse.DOK) *SparseMatrix[R] {
	return &SparseMatrix[R]{csr: dok.ToCSR()}
}

func (s *SparseMatrix[R]) Dims() (int, int) { return s.csr.Dims() }
func (s *SparseMatrix[R]) NNZ() int         { return s.csr.NNZ() }
func (s *SparseMatrix[R]) At(i, j int) R    { return numeric.FromFloat[R](s.csr.At(i, j)) }

func (s *SparseMatrix[R]) MulVec(dst, x []R) {
	r, c := s.csr.Dims()
	checkMulVec(r, c, dst, x)
	for i := range dst {
		dst[i] = 0
	}
	s.csr.DoNonZero(func(i, j int, v float64) {
		dst[i] += numeric.FromFloat[R](v) * x[j]
	})
}

func (s *SparseMatrix[R]) DenseBlock(rows, cols []int) *DenseMatrix[R] {
	b := NewDenseMatrix[R](len(rows), len(cols), nil)
	for i, r := range rows {
		for j, c := range cols {
			b.Set(i, j, s.At(r, c))
		}
	}
	return b
}

func (s *SparseMatrix[R]) DoNonZero(fn func(i, j int, v R)) {
	s.csr.DoNonZero(func(i, j int, v float64) {
		fn(i, j, numeric.FromFloat[R](v))
	})
}

// ToDense materializes any discrete operator
func ToDense[R numeric.Scalar](op DiscreteOperator[R]) *DenseMatrix[R] {
	if d, ok := op.(*DenseMatrix[R]); ok {
		return d
	}
	r, c := op.Dims()
	d := NewDenseMatrix[R](r, c, nil)
	op.DoNonZero(func(i, j int, v R) { d.data[i*c+j] += v })
	return d
}

func checkMulVec[R numeric.Scalar](rows, cols int, dst, x []R) {
	if len(dst) != rows || len(x) != cols {
		panic(fmt.Sprintf("MulVec: operator %dx%d, dst %d, x %d", rows, cols, len(dst), len(x)))
	}
}
