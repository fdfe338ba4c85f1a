package kernel

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/notargets/BEMKernel/utils"
	"gonum.org/v1/gonum/spatial/r3"
)

// Family is the governing equation
type Family uint8

const (
	Laplace Family = iota
	Helmholtz
	ModifiedHelmholtz
)

func (f Family) String() string {
	switch f {
	case Laplace:
		return "Laplace"
	case Helmholtz:
		return "Helmholtz"
	case ModifiedHelmholtz:
		return "ModifiedHelmholtz"
	}
	return fmt.Sprintf("Family(%d)", uint8(f))
}

// Form is the layer potential derived from the Green's function
type Form uint8

const (
	SingleLayer Form = iota
	DoubleLayer
	AdjointDoubleLayer
	Hypersingular
)

func (f Form) String() string {
	switch f {
	case SingleLayer:
		return "SingleLayer"
	case DoubleLayer:
		return "DoubleLayer"
	case AdjointDoubleLayer:
		return "AdjointDoubleLayer"
	case Hypersingular:
		return "Hypersingular"
	}
	return fmt.Sprintf("Form(%d)", uint8(f))
}

// Kernel evaluates G_k(x,y) = e^{ikr}/(4πr) and its normal derivatives.
// Helmholtz uses k directly, modified Helmholtz k = iκ, Laplace k = 0.
type Kernel struct {
	Family     Family
	Form       Form
	WaveNumber complex128 // k for Helmholtz, κ for modified Helmholtz, unused for Laplace

	k complex128
}

func New(family Family, form Form, waveNumber complex128) (*Kernel, error) {
	if family > ModifiedHelmholtz || form > Hypersingular {
		return nil, fmt.Errorf("%w: unknown kernel %v/%v", utils.ErrConfiguration, family, form)
	}
	if cmplx.IsNaN(waveNumber) || cmplx.IsInf(waveNumber) {
		return nil, fmt.Errorf("%w: wave number %v", utils.ErrConfiguration, waveNumber)
	}
	kr := &Kernel{Family: family, Form: form, WaveNumber: waveNumber}
	switch family {
	case Laplace:
		kr.WaveNumber = 0
	case Helmholtz:
		kr.k = waveNumber
	case ModifiedHelmholtz:
		kr.k = 1i * waveNumber
	}
	return kr, nil
}

// EffectiveWaveNumber is k in e^{ikr}
func (kr *Kernel) EffectiveWaveNumber() complex128 { return kr.k }

// RequiresComplex reports whether values can be complex. Helmholtz always
// needs a complex result type, modified Helmholtz only for complex κ.
func (kr *Kernel) RequiresComplex() bool {
	switch kr.Family {
	case Helmholtz:
		return true
	case ModifiedHelmholtz:
		return imag(kr.WaveNumber) != 0
	}
	return false
}

// IsSymmetric reports whether K(x,y) = K(y,x) with normals exchanged
func (kr *Kernel) IsSymmetric() bool {
	return kr.Form == SingleLayer || kr.Form == Hypersingular
}

// SurfaceDerivatives is the number of tangential derivatives moved onto each
// of the test and trial functions
func (kr *Kernel) SurfaceDerivatives() int {
	if kr.Form == Hypersingular {
		return 1
	}
	return 0
}

// Green returns G_k at distance r
func (kr *Kernel) Green(r float64) complex128 {
	if kr.k == 0 {
		return complex(1/(4*math.Pi*r), 0)
	}
	return cmplx.Exp(1i*kr.k*complex(r, 0)) / complex(4*math.Pi*r, 0)
}

// Evaluate returns the kernel at test point x and trial point y with unit
// normals nx, ny. For the hypersingular form the value is the weakly
// singular G_k of the integrated-by-parts (Maue) form.
func (kr *Kernel) Evaluate(x, y, nx, ny r3.Vec) complex128 {
	d := r3.Sub(x, y)
	r := r3.Norm(d)
	if r == 0 {
		return 0
	}
	g := kr.Green(r)
	switch kr.Form {
	case DoubleLayer:
		return g * (1 - 1i*kr.k*complex(r, 0)) * complex(r3.Dot(ny, d)/(r*r), 0)
	case AdjointDoubleLayer:
		return -g * (1 - 1i*kr.k*complex(r, 0)) * complex(r3.Dot(nx, d)/(r*r), 0)
	}
	return g
}

// NormalCoupling is the factor c in the Maue form
// ∫∫ G [curlψ·curlφ + c (n_x·n_y) ψ φ], c = -k²
func (kr *Kernel) NormalCoupling() complex128 {
	return -kr.k * kr.k
}

func (kr *Kernel) String() string {
	if kr.Family == Laplace {
		return fmt.Sprintf("%v %v", kr.Family, kr.Form)
	}
	return fmt.Sprintf("%v %v (wave number %v)", kr.Family, kr.Form, kr.WaveNumber)
}
