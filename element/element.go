package element

type Dimensionality uint8

const (
	D0 Dimensionality = iota // Points
	D1                       // Lines, edges
	D2                       // Triangles, quadrilaterals
	D3                       // Volumes
)

type ElementGeometry uint8

const (
	Tri ElementGeometry = iota
	Rectangle
	Line
)

func (g ElementGeometry) String() string {
	switch g {
	case Tri:
		return "Tri"
	case Rectangle:
		return "Rectangle"
	case Line:
		return "Line"
	}
	return "Unknown"
}

// ShapeSet is a set of local basis functions on the reference triangle
// {u,v >= 0, u+v <= 1}. Implemented once per polynomial family.
type ShapeSet interface {
	GetProperties() ElementProperties

	// Size is the number of local functions
	Size() int

	// Evaluate writes the value of each local function at (u,v) into out,
	// which must have length Size()
	Evaluate(u, v float64, out []float64)

	// Gradients returns the reference gradients (d/du, d/dv) of each local
	// function. Both supported families have constant gradients.
	Gradients() [][2]float64
}
