package utils

import (
	"fmt"
	"sort"
)

// ElementConnector holds the vertex and edge adjacency of a triangulated
// surface
type ElementConnector struct {
	K           int // Total elements
	NumVertices int

	// Input connectivity
	EToV [][3]int // Element → its three vertex indices

	// Derived adjacency
	VToE [][]int          // Vertex → elements touching it, ascending
	EToE [][3]int         // Element, local edge → neighbor element (-1 on an open edge)
	Edge map[[2]int][]int // Sorted vertex pair → elements sharing that edge
}

// NewElementConnector builds adjacency from element to vertex connectivity
func NewElementConnector(numVertices int, EToV [][3]int) (*ElementConnector, error) {
	if numVertices <= 0 || len(EToV) == 0 {
		return nil, fmt.Errorf("invalid dimensions: K=%d, NumVertices=%d", len(EToV), numVertices)
	}
	ec := &ElementConnector{
		K:           len(EToV),
		NumVertices: numVertices,
		EToV:        EToV,
	}
	for k, tri := range EToV {
		for _, v := range tri {
			if v < 0 || v >= numVertices {
				return nil, fmt.Errorf("element %d references vertex %d outside [0,%d)", k, v, numVertices)
			}
		}
		if tri[0] == tri[1] || tri[1] == tri[2] || tri[0] == tri[2] {
			return nil, fmt.Errorf("element %d has repeated vertices %v", k, tri)
		}
	}
	ec.buildVertexMap()
	ec.buildEdgeMap()
	return ec, nil
}

func (ec *ElementConnector) buildVertexMap() {
	ec.VToE = make([][]int, ec.NumVertices)
	for k, tri := range ec.EToV {
		for _, v := range tri {
			ec.VToE[v] = append(ec.VToE[v], k)
		}
	}
}

// Local edge i joins vertices i+1 and i+2, i.e. it is opposite vertex i
func (ec *ElementConnector) buildEdgeMap() {
	ec.Edge = make(map[[2]int][]int)
	for k, tri := range ec.EToV {
		for i := 0; i < 3; i++ {
			key := EdgeKey(tri[(i+1)%3], tri[(i+2)%3])
			ec.Edge[key] = append(ec.Edge[key], k)
		}
	}
	ec.EToE = make([][3]int, ec.K)
	for k, tri := range ec.EToV {
		for i := 0; i < 3; i++ {
			ec.EToE[k][i] = -1
			for _, nb := range ec.Edge[EdgeKey(tri[(i+1)%3], tri[(i+2)%3])] {
				if nb != k {
					ec.EToE[k][i] = nb
					break
				}
			}
		}
	}
}

// EdgeKey is the canonical (sorted) form of an edge
func EdgeKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// SharedVertices counts vertices common to elements a and b
func (ec *ElementConnector) SharedVertices(a, b int) int {
	n := 0
	for _, va := range ec.EToV[a] {
		for _, vb := range ec.EToV[b] {
			if va == vb {
				n++
			}
		}
	}
	return n
}

// Touching returns every element sharing at least one vertex with k,
// including k itself, ascending
func (ec *ElementConnector) Touching(k int) []int {
	seen := make(map[int]struct{})
	for _, v := range ec.EToV[k] {
		for _, e := range ec.VToE[v] {
			seen[e] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for e := range seen {
		out = append(out, e)
	}
	sort.Ints(out)
	return out
}

// IsClosed reports whether every edge is shared by exactly two elements
func (ec *ElementConnector) IsClosed() bool {
	for _, elems := range ec.Edge {
		if len(elems) != 2 {
			return false
		}
	}
	return true
}

// Verify checks adjacency consistency
func (ec *ElementConnector) Verify() error {
	// Manifold: no edge shared by more than two elements
	for key, elems := range ec.Edge {
		if len(elems) > 2 {
			return fmt.Errorf("non-manifold edge %v shared by %d elements", key, len(elems))
		}
	}

	// Symmetry: if k sees nb across an edge, nb sees k
	for k := 0; k < ec.K; k++ {
		for i := 0; i < 3; i++ {
			nb := ec.EToE[k][i]
			if nb < 0 {
				continue
			}
			found := false
			for j := 0; j < 3; j++ {
				if ec.EToE[nb][j] == k {
					found = true
				}
			}
			if !found {
				return fmt.Errorf("asymmetric neighbor: %d -> %d", k, nb)
			}
		}
	}

	// Conservation: vertex incidences equal 3K
	total := 0
	for _, elems := range ec.VToE {
		total += len(elems)
	}
	if total != 3*ec.K {
		return fmt.Errorf("conservation error: %d vertex incidences != %d", total, 3*ec.K)
	}
	return nil
}
