package quadrature

import (
	"fmt"

	"github.com/notargets/BEMKernel/element"
	"github.com/notargets/BEMKernel/mesh"
)

// Sauter–Schwab rules for touching element pairs. Both elements are charted
// on Ŝ = {0 <= s2 <= s1 <= 1}; the singular set is pulled back to a face of
// the unit 4-cube where the Jacobian vanishes to the order of the kernel
// singularity, so tensor Gauss-Legendre converges exponentially.
//
// A chart (a, b, c) maps the corners (0,0), (1,0), (1,1) of Ŝ onto reference
// vertices a, b, c: p = V_a + s1 (V_b - V_a) + s2 (V_c - V_b). Its Jacobian
// determinant is one, so weights carry over unscaled.
type chart [3]int

var identityChart = chart{0, 1, 2}

func (c chart) index() int { return (c[0]*3+c[1])*3 + c[2] }

func (c chart) toReference(s [2]float64) (u, v float64) {
	a, b, d := element.ReferenceVertices[c[0]], element.ReferenceVertices[c[1]], element.ReferenceVertices[c[2]]
	u = a[0] + s[0]*(b[0]-a[0]) + s[1]*(d[0]-b[0])
	v = a[1] + s[0]*(b[1]-a[1]) + s[1]*(d[1]-b[1])
	return
}

// singularPoints is the Gauss point count per cube direction
func singularPoints(order int) int { return order + 1 }

// sauterSchwab emits the images in Ŝ×Ŝ of one cube point (ξ, η1, η2, η3)
// for every subdomain of the given adjacency, with the Jacobian of each map
func sauterSchwab(adj Adjacency, xi, e1, e2, e3 float64, emit func(x, y [2]float64, jac float64)) {
	switch adj {
	case Coincident:
		jac := xi * xi * xi * e1 * e1 * e2
		emit([2]float64{xi, xi * (1 - e1 + e1*e2)}, [2]float64{xi * (1 - e1*e2*e3), xi * (1 - e1)}, jac)
		emit([2]float64{xi * (1 - e1*e2*e3), xi * (1 - e1)}, [2]float64{xi, xi * (1 - e1 + e1*e2)}, jac)
		emit([2]float64{xi, xi * e1 * (1 - e2 + e2*e3)}, [2]float64{xi * (1 - e1*e2), xi * e1 * (1 - e2)}, jac)
		emit([2]float64{xi * (1 - e1*e2), xi * e1 * (1 - e2)}, [2]float64{xi, xi * e1 * (1 - e2 + e2*e3)}, jac)
		emit([2]float64{xi * (1 - e1*e2*e3), xi * e1 * (1 - e2*e3)}, [2]float64{xi, xi * e1 * (1 - e2)}, jac)
		emit([2]float64{xi, xi * e1 * (1 - e2)}, [2]float64{xi * (1 - e1*e2*e3), xi * e1 * (1 - e2*e3)}, jac)
	case SharedEdge:
		// Common edge is s2 = 0 in both charts
		jac := xi * xi * xi * e1 * e1
		emit([2]float64{xi, xi * e1 * e3}, [2]float64{xi * (1 - e1*e2), xi * e1 * (1 - e2)}, jac)
		jac *= e2
		emit([2]float64{xi, xi * e1}, [2]float64{xi * (1 - e1*e2*e3), xi * e1 * e2 * (1 - e3)}, jac)
		emit([2]float64{xi * (1 - e1*e2), xi * e1 * (1 - e2)}, [2]float64{xi, xi * e1 * e2 * e3}, jac)
		emit([2]float64{xi * (1 - e1*e2*e3), xi * e1 * e2 * (1 - e3)}, [2]float64{xi, xi * e1}, jac)
		emit([2]float64{xi * (1 - e1*e2*e3), xi * e1 * (1 - e2*e3)}, [2]float64{xi, xi * e1 * e2}, jac)
	case SharedVertex:
		// Common vertex is the origin of both charts
		jac := xi * xi * xi * e2
		emit([2]float64{xi, xi * e1}, [2]float64{xi * e2, xi * e2 * e3}, jac)
		emit([2]float64{xi * e2, xi * e2 * e3}, [2]float64{xi, xi * e1}, jac)
	default:
		panic(fmt.Sprintf("no singular rule for %v pairs", adj))
	}
}

// newSingularPairRule tensorizes the 1D rule (xi, wxi) over the 4-cube. With
// swap set the first chart belongs to the trial element.
func newSingularPairRule(adj Adjacency, xi, wxi []float64, test, trial chart, swap bool) *PairRule {
	pr := &PairRule{}
	for a := range xi {
		for b := range xi {
			for c := range xi {
				for d := range xi {
					w := wxi[a] * wxi[b] * wxi[c] * wxi[d]
					sauterSchwab(adj, xi[a], xi[b], xi[c], xi[d], func(x, y [2]float64, jac float64) {
						if swap {
							x, y = y, x
						}
						tu, tv := test.toReference(x)
						su, sv := trial.toReference(y)
						pr.add(tu, tv, su, sv, w*jac)
					})
				}
			}
		}
	}
	return pr
}

func localIndex(tri [3]int, v int) int {
	for i, g := range tri {
		if g == v {
			return i
		}
	}
	return -1
}

// singularCharts orients both elements of a touching pair so that the shared
// vertex or edge sits where the Sauter–Schwab maps expect it. The first chart
// always belongs to the element with the lower index, which makes the rule of
// (l, k) the exact transpose of the rule of (k, l).
func singularCharts(m *mesh.Mesh, test, trial int, adj Adjacency) (tc, sc chart, swap bool) {
	if adj == Coincident {
		return identityChart, identityChart, false
	}
	tv, sv := m.ElementVertices(test), m.ElementVertices(trial)
	var shared []int
	for _, v := range tv {
		if localIndex(sv, v) >= 0 {
			shared = append(shared, v)
		}
	}
	orient := func(tri [3]int) chart {
		a := localIndex(tri, shared[0])
		if adj == SharedVertex {
			return chart{a, (a + 1) % 3, (a + 2) % 3}
		}
		// Edge from the lower to the higher global vertex index
		p, q := shared[0], shared[1]
		if p > q {
			p, q = q, p
		}
		a, b := localIndex(tri, p), localIndex(tri, q)
		return chart{a, b, 3 - a - b}
	}
	return orient(tv), orient(sv), test > trial
}
