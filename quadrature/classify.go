package quadrature

import (
	"fmt"
	"math"

	"github.com/notargets/BEMKernel/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// Regime is the integration regime of an element pair
type Regime uint8

const (
	Regular Regime = iota
	NearSingular
	Singular
)

func (r Regime) String() string {
	switch r {
	case Regular:
		return "regular"
	case NearSingular:
		return "near-singular"
	case Singular:
		return "singular"
	}
	return fmt.Sprintf("Regime(%d)", uint8(r))
}

// Adjacency is the topological relation of an element pair
type Adjacency uint8

const (
	Disjoint Adjacency = iota
	SharedVertex
	SharedEdge
	Coincident
)

func (a Adjacency) String() string {
	switch a {
	case Disjoint:
		return "disjoint"
	case SharedVertex:
		return "vertex"
	case SharedEdge:
		return "edge"
	case Coincident:
		return "coincident"
	}
	return fmt.Sprintf("Adjacency(%d)", uint8(a))
}

// Interaction is the classification of a (test, trial) element pair
type Interaction struct {
	Regime    Regime
	Adjacency Adjacency
	Order     int
}

// Classify assigns exactly one regime to an element pair. Touching elements
// are singular; others are near-singular when their centroids are closer than
// NearFieldFactor times the larger diameter, which never holds for a negative
// factor.
func (s *Strategy) Classify(m *mesh.Mesh, test, trial int) Interaction {
	switch m.SharedVertices(test, trial) {
	case 3:
		return Interaction{Regime: Singular, Adjacency: Coincident, Order: s.accuracy.SingularOrder}
	case 2:
		return Interaction{Regime: Singular, Adjacency: SharedEdge, Order: s.accuracy.SingularOrder}
	case 1:
		return Interaction{Regime: Singular, Adjacency: SharedVertex, Order: s.accuracy.SingularOrder}
	}
	a, b := m.Element(test), m.Element(trial)
	dist := r3.Norm(r3.Sub(a.Centroid, b.Centroid))
	if dist < s.accuracy.NearFieldFactor*math.Max(a.Diameter, b.Diameter) {
		return Interaction{Regime: NearSingular, Adjacency: Disjoint, Order: s.accuracy.NearSingularOrder}
	}
	return Interaction{Regime: Regular, Adjacency: Disjoint, Order: s.accuracy.RegularOrder}
}
