package mesh

import (
	"fmt"
	"math"

	"github.com/notargets/BEMKernel/utils"
	"gonum.org/v1/gonum/spatial/r3"
)

// NewIcosphere subdivides an icosahedron `refinements` times, projecting new
// vertices onto the sphere of the given radius. Normals point outward.
func NewIcosphere(refinements int, radius float64) (m *Mesh) {
	if refinements < 0 || radius <= 0 {
		panic(fmt.Sprintf("invalid icosphere: refinements=%d radius=%g", refinements, radius))
	}
	t := (1 + math.Sqrt(5)) / 2
	verts := []r3.Vec{
		{X: -1, Y: t}, {X: 1, Y: t}, {X: -1, Y: -t}, {X: 1, Y: -t},
		{Y: -1, Z: t}, {Y: 1, Z: t}, {Y: -1, Z: -t}, {Y: 1, Z: -t},
		{X: t, Z: -1}, {X: t, Z: 1}, {X: -t, Z: -1}, {X: -t, Z: 1},
	}
	for i := range verts {
		verts[i] = r3.Unit(verts[i])
	}
	faces := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}

	for r := 0; r < refinements; r++ {
		midpoints := make(map[[2]int]int)
		midpoint := func(a, b int) int {
			key := utils.EdgeKey(a, b)
			if idx, ok := midpoints[key]; ok {
				return idx
			}
			verts = append(verts, r3.Unit(r3.Add(verts[a], verts[b])))
			midpoints[key] = len(verts) - 1
			return len(verts) - 1
		}
		next := make([][3]int, 0, 4*len(faces))
		for _, f := range faces {
			a, b, c := midpoint(f[0], f[1]), midpoint(f[1], f[2]), midpoint(f[2], f[0])
			next = append(next,
				[3]int{f[0], a, c},
				[3]int{f[1], b, a},
				[3]int{f[2], c, b},
				[3]int{a, b, c})
		}
		faces = next
	}

	vertices := make([][3]float64, len(verts))
	for i, v := range verts {
		v = r3.Scale(radius, v)
		vertices[i] = [3]float64{v.X, v.Y, v.Z}
	}
	eToV := make([][]int, len(faces))
	for k, f := range faces {
		// Orient outward
		n := r3.Cross(r3.Sub(verts[f[1]], verts[f[0]]), r3.Sub(verts[f[2]], verts[f[0]]))
		if r3.Dot(n, verts[f[0]]) < 0 {
			f[1], f[2] = f[2], f[1]
		}
		eToV[k] = []int{f[0], f[1], f[2]}
	}
	var err error
	if m, err = NewMesh(vertices, eToV); err != nil {
		panic(err)
	}
	return
}

// NewFlatGrid triangulates the rectangle [0,lx]×[0,ly] in the z=0 plane with
// nx×ny cells, two triangles per cell, normals along +z
func NewFlatGrid(nx, ny int, lx, ly float64) (m *Mesh) {
	if nx < 1 || ny < 1 || lx <= 0 || ly <= 0 {
		panic(fmt.Sprintf("invalid grid: %dx%d cells on %gx%g", nx, ny, lx, ly))
	}
	vertices := make([][3]float64, 0, (nx+1)*(ny+1))
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			vertices = append(vertices, [3]float64{lx * float64(i) / float64(nx), ly * float64(j) / float64(ny), 0})
		}
	}
	vid := func(i, j int) int { return j*(nx+1) + i }
	eToV := make([][]int, 0, 2*nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			eToV = append(eToV,
				[]int{vid(i, j), vid(i+1, j), vid(i+1, j+1)},
				[]int{vid(i, j), vid(i+1, j+1), vid(i, j+1)})
		}
	}
	var err error
	if m, err = NewMesh(vertices, eToV); err != nil {
		panic(err)
	}
	return
}
