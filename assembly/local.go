package assembly

import (
	"fmt"

	"github.com/notargets/BEMKernel/kernel"
	"github.com/notargets/BEMKernel/quadrature"
	"github.com/notargets/BEMKernel/space"
	"gonum.org/v1/gonum/spatial/r3"
)

// LocalAssembler integrates a bilinear form over one element pair
type LocalAssembler interface {
	TestSpace() *space.Space
	TrialSpace() *space.Space

	// EvaluatePair writes the local block of the (test, trial) element pair
	// into out[a*nTrial+b] for local test function a and trial function b
	EvaluatePair(test, trial int, rule *quadrature.PairRule, out []complex128)
}

// KernelAssembler is the local assembler of ⟨ψ, K φ⟩ for an integral kernel.
// Hypersingular kernels use the integrated-by-parts form
// ∫∫ G [curlψ·curlφ + c (n_x·n_y) ψ φ].
type KernelAssembler struct {
	kernel      *kernel.Kernel
	test, trial *space.Space
}

func NewKernelAssembler(kr *kernel.Kernel, test, trial *space.Space) (*KernelAssembler, error) {
	if !test.SameMesh(trial) {
		return nil, fmt.Errorf("test and trial spaces live on different meshes")
	}
	return &KernelAssembler{kernel: kr, test: test, trial: trial}, nil
}

func (ka *KernelAssembler) TestSpace() *space.Space  { return ka.test }
func (ka *KernelAssembler) TrialSpace() *space.Space { return ka.trial }
func (ka *KernelAssembler) Kernel() *kernel.Kernel   { return ka.kernel }

func (ka *KernelAssembler) EvaluatePair(test, trial int, rule *quadrature.PairRule, out []complex128) {
	m := ka.test.Mesh()
	ti, tj := m.Element(test), m.Element(trial)
	tShape, sShape := ka.test.Shape(), ka.trial.Shape()
	nT, nS := tShape.Size(), sShape.Size()
	for i := range out[:nT*nS] {
		out[i] = 0
	}

	var tv, sv [3]float64
	hyper := ka.kernel.SurfaceDerivatives() > 0
	var tCurl, sCurl []r3.Vec
	var coupling complex128
	if hyper {
		tCurl, sCurl = ka.test.SurfaceCurls(test), ka.trial.SurfaceCurls(trial)
		coupling = ka.kernel.NormalCoupling() * complex(r3.Dot(ti.Normal, tj.Normal), 0)
	}

	for q, w := range rule.W {
		x := ti.MapToPhysical(rule.TestU[q], rule.TestV[q])
		y := tj.MapToPhysical(rule.TrialU[q], rule.TrialV[q])
		kw := ka.kernel.Evaluate(x, y, ti.Normal, tj.Normal) * complex(w, 0)
		tShape.Evaluate(rule.TestU[q], rule.TestV[q], tv[:nT])
		sShape.Evaluate(rule.TrialU[q], rule.TrialV[q], sv[:nS])
		for a := 0; a < nT; a++ {
			for b := 0; b < nS; b++ {
				if hyper {
					out[a*nS+b] += kw * (complex(r3.Dot(tCurl[a], sCurl[b]), 0) + coupling*complex(tv[a]*sv[b], 0))
				} else {
					out[a*nS+b] += kw * complex(tv[a]*sv[b], 0)
				}
			}
		}
	}

	jac := complex(ti.JacobianDeterminant()*tj.JacobianDeterminant(), 0)
	for i := range out[:nT*nS] {
		out[i] *= jac
	}
}
