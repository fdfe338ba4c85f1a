package space

import (
	"fmt"
	"strings"

	"github.com/notargets/BEMKernel/element"
	"github.com/notargets/BEMKernel/mesh"
	"github.com/notargets/BEMKernel/numeric"
	"github.com/notargets/BEMKernel/utils"
	"gonum.org/v1/gonum/spatial/r3"
)

// Kind is the family of scalar basis functions
type Kind uint8

const (
	PiecewiseConstant Kind = iota
	PiecewiseLinearContinuous
	PiecewiseLinearDiscontinuous
)

func (k Kind) String() string {
	switch k {
	case PiecewiseConstant:
		return "PiecewiseConstantScalarSpace"
	case PiecewiseLinearContinuous:
		return "PiecewiseLinearContinuousScalarSpace"
	case PiecewiseLinearDiscontinuous:
		return "PiecewiseLinearDiscontinuousScalarSpace"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Space is an immutable scalar function space on a triangle mesh. The
// support of every basis function follows from mesh connectivity alone.
type Space struct {
	kind  Kind
	basis numeric.Type
	mesh  *mesh.Mesh
	shape element.ShapeSet

	localToGlobal [][]int // [K][local function] → global DOF
	dofCount      int
	dofPositions  []r3.Vec
}

func New(kind Kind, basis numeric.Type, m *mesh.Mesh) (*Space, error) {
	if !basis.Valid() {
		return nil, fmt.Errorf("%w: basis type %v", utils.ErrTypeMismatch, basis)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: space requires a mesh", utils.ErrConfiguration)
	}
	sp := &Space{kind: kind, basis: basis, mesh: m}
	switch kind {
	case PiecewiseConstant:
		sp.shape = element.NewConstantTri()
		sp.buildConstant()
	case PiecewiseLinearContinuous:
		sp.shape = element.NewLinearTri()
		sp.buildContinuous()
	case PiecewiseLinearDiscontinuous:
		sp.shape = element.NewLinearTri()
		sp.buildDiscontinuous()
	default:
		return nil, fmt.Errorf("%w: unknown space kind %v", utils.ErrConfiguration, kind)
	}
	return sp, nil
}

func NewPiecewiseConstantScalarSpace(basis numeric.Type, m *mesh.Mesh) (*Space, error) {
	return New(PiecewiseConstant, basis, m)
}

func NewPiecewiseLinearContinuousScalarSpace(basis numeric.Type, m *mesh.Mesh) (*Space, error) {
	return New(PiecewiseLinearContinuous, basis, m)
}

func NewPiecewiseLinearDiscontinuousScalarSpace(basis numeric.Type, m *mesh.Mesh) (*Space, error) {
	return New(PiecewiseLinearDiscontinuous, basis, m)
}

// One DOF per element at the centroid
func (sp *Space) buildConstant() {
	K := sp.mesh.NumElements()
	sp.dofCount = K
	sp.localToGlobal = make([][]int, K)
	sp.dofPositions = make([]r3.Vec, K)
	for k := 0; k < K; k++ {
		sp.localToGlobal[k] = []int{k}
		sp.dofPositions[k] = sp.mesh.Element(k).Centroid
	}
}

// One DOF per referenced vertex, numbered in vertex order
func (sp *Space) buildContinuous() {
	vertexDof := make([]int, sp.mesh.NumVertices())
	for v := range vertexDof {
		vertexDof[v] = -1
		if sp.mesh.VertexValence(v) > 0 {
			vertexDof[v] = sp.dofCount
			sp.dofPositions = append(sp.dofPositions, sp.mesh.Vertex(v))
			sp.dofCount++
		}
	}
	sp.localToGlobal = make([][]int, sp.mesh.NumElements())
	for k := range sp.localToGlobal {
		tri := sp.mesh.ElementVertices(k)
		sp.localToGlobal[k] = []int{vertexDof[tri[0]], vertexDof[tri[1]], vertexDof[tri[2]]}
	}
}

// Three DOFs per element, element-major
func (sp *Space) buildDiscontinuous() {
	K := sp.mesh.NumElements()
	sp.dofCount = 3 * K
	sp.localToGlobal = make([][]int, K)
	sp.dofPositions = make([]r3.Vec, 0, 3*K)
	for k := 0; k < K; k++ {
		sp.localToGlobal[k] = []int{3 * k, 3*k + 1, 3*k + 2}
		for _, c := range sp.mesh.Element(k).Corners {
			sp.dofPositions = append(sp.dofPositions, c)
		}
	}
}

func (sp *Space) Kind() Kind                   { return sp.kind }
func (sp *Space) BasisType() numeric.Type      { return sp.basis }
func (sp *Space) Mesh() *mesh.Mesh             { return sp.mesh }
func (sp *Space) Shape() element.ShapeSet      { return sp.shape }
func (sp *Space) GlobalDofCount() int          { return sp.dofCount }
func (sp *Space) Order() int                   { return sp.shape.GetProperties().Order }
func (sp *Space) IsDiscontinuous() bool        { return sp.kind != PiecewiseLinearContinuous }
func (sp *Space) GlobalDofPositions() []r3.Vec { return append([]r3.Vec(nil), sp.dofPositions...) }

// LocalDofs returns the global DOF of each local function on element k.
// The returned slice is shared and must not be modified.
func (sp *Space) LocalDofs(k int) []int { return sp.localToGlobal[k] }

// SurfaceCurls returns n × ∇Γφ for each local function on element k
func (sp *Space) SurfaceCurls(k int) []r3.Vec {
	el := sp.mesh.Element(k)
	grads := sp.shape.Gradients()
	curls := make([]r3.Vec, len(grads))
	for i, g := range grads {
		curls[i] = el.SurfaceCurl(g)
	}
	return curls
}

// SameMesh reports whether both spaces live on the same mesh instance
func (sp *Space) SameMesh(other *Space) bool { return sp.mesh == other.mesh }

func (sp *Space) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%v (%v)\n", sp.kind, sp.basis))
	sb.WriteString(fmt.Sprintf("  Elements: %d\n", sp.mesh.NumElements()))
	sb.WriteString(fmt.Sprintf("  Local functions: %d\n", sp.shape.Size()))
	sb.WriteString(fmt.Sprintf("  Global DOFs: %d\n", sp.dofCount))
	return sb.String()
}
