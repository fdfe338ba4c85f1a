package assembly

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/notargets/BEMKernel/numeric"
	"github.com/notargets/BEMKernel/quadrature"
	"github.com/notargets/BEMKernel/space"
	"github.com/notargets/BEMKernel/utils"
)

// LocalMass integrates ψ_a φ_b over element k into out[a*nTrial+b]
func LocalMass(test, trial *space.Space, rule *quadrature.Rule, k int, out []float64) {
	tShape, sShape := test.Shape(), trial.Shape()
	nT, nS := tShape.Size(), sShape.Size()
	for i := range out[:nT*nS] {
		out[i] = 0
	}
	var tv, sv [3]float64
	for q, w := range rule.W {
		tShape.Evaluate(rule.U[q], rule.V[q], tv[:nT])
		sShape.Evaluate(rule.U[q], rule.V[q], sv[:nS])
		for a := 0; a < nT; a++ {
			for b := 0; b < nS; b++ {
				out[a*nS+b] += w * tv[a] * sv[b]
			}
		}
	}
	jac := test.Mesh().Element(k).JacobianDeterminant()
	for i := range out[:nT*nS] {
		out[i] *= jac
	}
}

// AssembleMass assembles ⟨ψ_i, φ_j⟩ between the test and trial spaces. Basis
// functions are real polynomials, so the entries are real for every R.
func AssembleMass[R numeric.Scalar](ctx *Context[R], test, trial *space.Space) (DiscreteOperator[R], error) {
	if !test.SameMesh(trial) {
		return nil, fmt.Errorf("%w: mass matrix between spaces on different meshes", utils.ErrConfiguration)
	}
	m := test.Mesh()
	rows, cols := test.GlobalDofCount(), trial.GlobalDofCount()
	rule := ctx.Strategy().SingleRule()
	nS := trial.Shape().Size()
	local := make([]float64, test.Shape().Size()*nS)

	var add func(i, j int, v float64)
	var dok *sparse.DOK
	var dense *DenseMatrix[R]
	if ctx.Options().SparseStorageOfMassMatrices {
		dok = sparse.NewDOK(rows, cols)
		add = func(i, j int, v float64) { dok.Set(i, j, dok.At(i, j)+v) }
	} else {
		dense = NewDenseMatrix[R](rows, cols, nil)
		add = func(i, j int, v float64) { dense.data[i*cols+j] += numeric.FromFloat[R](v) }
	}

	for k := 0; k < m.NumElements(); k++ {
		LocalMass(test, trial, rule, k, local)
		trialDofs := trial.LocalDofs(k)
		for a, gi := range test.LocalDofs(k) {
			for b, gj := range trialDofs {
				add(gi, gj, local[a*nS+b])
			}
		}
	}

	if dok != nil {
		sm := NewSparseMatrix[R](dok)
		ctx.report("assembled mass matrix", "size", fmt.Sprintf("%dx%d", rows, cols), "nnz", sm.NNZ())
		return sm, nil
	}
	ctx.report("assembled mass matrix", "size", fmt.Sprintf("%dx%d", rows, cols), "storage", "dense")
	return dense, nil
}
