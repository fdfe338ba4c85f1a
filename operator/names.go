package operator

import (
	"fmt"

	"github.com/notargets/BEMKernel/kernel"
	"github.com/notargets/BEMKernel/utils"
)

// KernelName selects one of the fixed boundary operators
type KernelName uint8

const (
	Laplace3dSingleLayer KernelName = iota
	Laplace3dDoubleLayer
	Laplace3dAdjointDoubleLayer
	Laplace3dHypersingular
	Helmholtz3dSingleLayer
	Helmholtz3dDoubleLayer
	Helmholtz3dAdjointDoubleLayer
	Helmholtz3dHypersingular
	ModifiedHelmholtz3dSingleLayer
	ModifiedHelmholtz3dDoubleLayer
	ModifiedHelmholtz3dAdjointDoubleLayer
	ModifiedHelmholtz3dHypersingular
	Identity
)

var kernelNames = [...]string{
	Laplace3dSingleLayer:                  "laplace3dSingleLayerBoundaryOperator",
	Laplace3dDoubleLayer:                  "laplace3dDoubleLayerBoundaryOperator",
	Laplace3dAdjointDoubleLayer:           "laplace3dAdjointDoubleLayerBoundaryOperator",
	Laplace3dHypersingular:                "laplace3dHypersingularBoundaryOperator",
	Helmholtz3dSingleLayer:                "helmholtz3dSingleLayerBoundaryOperator",
	Helmholtz3dDoubleLayer:                "helmholtz3dDoubleLayerBoundaryOperator",
	Helmholtz3dAdjointDoubleLayer:         "helmholtz3dAdjointDoubleLayerBoundaryOperator",
	Helmholtz3dHypersingular:              "helmholtz3dHypersingularBoundaryOperator",
	ModifiedHelmholtz3dSingleLayer:        "modifiedHelmholtz3dSingleLayerBoundaryOperator",
	ModifiedHelmholtz3dDoubleLayer:        "modifiedHelmholtz3dDoubleLayerBoundaryOperator",
	ModifiedHelmholtz3dAdjointDoubleLayer: "modifiedHelmholtz3dAdjointDoubleLayerBoundaryOperator",
	ModifiedHelmholtz3dHypersingular:      "modifiedHelmholtz3dHypersingularBoundaryOperator",
	Identity:                              "identityOperator",
}

func (kn KernelName) String() string {
	if int(kn) < len(kernelNames) {
		return kernelNames[kn]
	}
	return fmt.Sprintf("KernelName(%d)", uint8(kn))
}

// ParseKernelName is the inverse of String
func ParseKernelName(name string) (KernelName, error) {
	for i, n := range kernelNames {
		if n == name {
			return KernelName(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown operator %q", utils.ErrConfiguration, name)
}

// KernelNames lists every selector in declaration order
func KernelNames() []KernelName {
	names := make([]KernelName, len(kernelNames))
	for i := range names {
		names[i] = KernelName(i)
	}
	return names
}

func (kn KernelName) IsIdentity() bool { return kn == Identity }

// NeedsWaveNumber reports whether the operator takes a wave number
func (kn KernelName) NeedsWaveNumber() bool {
	return kn >= Helmholtz3dSingleLayer && kn <= ModifiedHelmholtz3dHypersingular
}

// kernelOf splits an integral operator selector into family and form
func (kn KernelName) kernelOf() (kernel.Family, kernel.Form) {
	return kernel.Family(kn / 4), kernel.Form(kn % 4)
}
