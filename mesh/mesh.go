package mesh

import (
	"fmt"
	"strings"

	"github.com/notargets/BEMKernel/element"
	"github.com/notargets/BEMKernel/utils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is an immutable oriented triangle surface. Element normals follow the
// right hand rule on the vertex order of each element. State is reachable only
// through accessors, which return copies of anything mutable.
type Mesh struct {
	numElements int
	numVertices int

	vertices *mat.Dense // [numVertices × 3]
	eToV     [][3]int   // [K][3] element to vertex

	elements     []*element.AffineTransform // Geometry per element
	connectivity *utils.ElementConnector
}

// NewMesh validates and copies the input. Only triangles are supported,
// quadrilateral connectivity is rejected.
func NewMesh(vertices [][3]float64, eToV [][]int) (*Mesh, error) {
	if len(vertices) == 0 || len(eToV) == 0 {
		return nil, fmt.Errorf("%w: empty mesh (%d vertices, %d elements)",
			utils.ErrConfiguration, len(vertices), len(eToV))
	}
	m := &Mesh{
		numElements: len(eToV),
		numVertices: len(vertices),
		vertices:    mat.NewDense(len(vertices), 3, nil),
		eToV:        make([][3]int, len(eToV)),
		elements:    make([]*element.AffineTransform, len(eToV)),
	}
	for i, v := range vertices {
		m.vertices.SetRow(i, v[:])
	}
	for k, conn := range eToV {
		if len(conn) != 3 {
			return nil, fmt.Errorf("%w: element %d has %d vertices, only triangles are supported",
				utils.ErrConfiguration, k, len(conn))
		}
		copy(m.eToV[k][:], conn)
	}

	var err error
	if m.connectivity, err = utils.NewElementConnector(m.numVertices, m.eToV); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrConfiguration, err)
	}
	if err = m.connectivity.Verify(); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrConfiguration, err)
	}
	for k, tri := range m.eToV {
		m.elements[k], err = element.NewAffineTransform(m.Vertex(tri[0]), m.Vertex(tri[1]), m.Vertex(tri[2]))
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", utils.ErrConfiguration, k, err)
		}
	}
	return m, nil
}

func (m *Mesh) NumElements() int { return m.numElements }
func (m *Mesh) NumVertices() int { return m.numVertices }

func (m *Mesh) Vertex(i int) r3.Vec {
	return r3.Vec{X: m.vertices.At(i, 0), Y: m.vertices.At(i, 1), Z: m.vertices.At(i, 2)}
}

// Element returns the geometry of element k. AffineTransform is treated as
// read-only by every caller.
func (m *Mesh) Element(k int) *element.AffineTransform { return m.elements[k] }

// ElementVertices returns the global vertex indices of element k
func (m *Mesh) ElementVertices(k int) [3]int { return m.eToV[k] }

// MapToPhysical maps reference coordinates on element k into R^3
func (m *Mesh) MapToPhysical(k int, u, v float64) r3.Vec {
	return m.elements[k].MapToPhysical(u, v)
}

func (m *Mesh) IsClosed() bool { return m.connectivity.IsClosed() }

func (m *Mesh) SharedVertices(a, b int) int { return m.connectivity.SharedVertices(a, b) }

// Touching returns the elements sharing at least one vertex with k, k
// included, ascending
func (m *Mesh) Touching(k int) []int { return m.connectivity.Touching(k) }

// VertexValence is the number of elements incident to vertex v
func (m *Mesh) VertexValence(v int) int { return len(m.connectivity.VToE[v]) }

func (m *Mesh) NumEdges() int { return len(m.connectivity.Edge) }

func (m *Mesh) Areas() []float64 {
	areas := make([]float64, m.numElements)
	for k, el := range m.elements {
		areas[k] = el.Area
	}
	return areas
}

func (m *Mesh) TotalArea() float64 { return floats.Sum(m.Areas()) }

// MaxDiameter is the longest element edge in the mesh
func (m *Mesh) MaxDiameter() float64 {
	d := make([]float64, m.numElements)
	for k, el := range m.elements {
		d[k] = el.Diameter
	}
	return floats.Max(d)
}

func (m *Mesh) String() string {
	var sb strings.Builder
	sb.WriteString("Triangle Surface Mesh\n")
	sb.WriteString(fmt.Sprintf("  Vertices: %d\n", m.numVertices))
	sb.WriteString(fmt.Sprintf("  Elements: %d\n", m.numElements))
	sb.WriteString(fmt.Sprintf("  Edges: %d\n", m.NumEdges()))
	sb.WriteString(fmt.Sprintf("  Closed: %v\n", m.IsClosed()))
	sb.WriteString(fmt.Sprintf("  Total area: %.6e\n", m.TotalArea()))
	sb.WriteString(fmt.Sprintf("  Max diameter: %.6e\n", m.MaxDiameter()))
	return sb.String()
}
