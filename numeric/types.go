package numeric

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"github.com/notargets/BEMKernel/utils"
)

// Type identifies one of the closed set of scalar fields an entity can be
// templated on
type Type uint8

const (
	Float32 Type = iota + 1
	Float64
	Complex64
	Complex128
)

// Scalar is the type-parameter form of Type. Result types of contexts,
// operators, grid functions and solvers are carried at compile time as one
// of these.
type Scalar interface {
	float32 | float64 | complex64 | complex128
}

func (t Type) String() string {
	switch t {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Complex64:
		return "complex64"
	case Complex128:
		return "complex128"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// Valid reports whether t is one of the four recognized types
func (t Type) Valid() bool {
	return t >= Float32 && t <= Complex128
}

func (t Type) IsComplex() bool {
	return t == Complex64 || t == Complex128
}

// RealPart returns the real type with the same width as t
func (t Type) RealPart() Type {
	switch t {
	case Complex64:
		return Float32
	case Complex128:
		return Float64
	default:
		return t
	}
}

// Epsilon is the unit round-off of the working precision of t
func (t Type) Epsilon() float64 {
	if t.RealPart() == Float32 {
		return float64(math.Nextafter32(1, 2) - 1)
	}
	return math.Nextafter(1, 2) - 1
}

// Parse converts the lower case type names used by scripting front-ends
func Parse(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "float32":
		return Float32, nil
	case "float64":
		return Float64, nil
	case "complex64":
		return Complex64, nil
	case "complex128":
		return Complex128, nil
	}
	return 0, fmt.Errorf("%w: unknown numeric type %q", utils.ErrTypeMismatch, name)
}

// TypeOf returns the runtime tag of the type parameter T
func TypeOf[T Scalar]() Type {
	var zero T
	switch any(zero).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case complex64:
		return Complex64
	default:
		return Complex128
	}
}

// Pair binds a basis function type to a result type. The only way to obtain
// a Pair is NewPair, so a Pair value is always a permitted combination.
type Pair struct {
	basis, result Type
}

// NewPair validates a basis/result combination. Allowed:
//
//	basis       result
//	float32     float32 or complex64
//	float64     float64 or complex128
//	complex64   complex64
//	complex128  complex128
func NewPair(basis, result Type) (Pair, error) {
	if !basis.Valid() || !result.Valid() {
		return Pair{}, fmt.Errorf("%w: invalid numeric types (%v, %v)",
			utils.ErrTypeMismatch, basis, result)
	}
	ok := false
	switch basis {
	case Float32:
		ok = result == Float32 || result == Complex64
	case Float64:
		ok = result == Float64 || result == Complex128
	case Complex64, Complex128:
		ok = result == basis
	}
	if !ok {
		return Pair{}, fmt.Errorf("%w: basis type %v cannot be combined with result type %v",
			utils.ErrTypeMismatch, basis, result)
	}
	return Pair{basis: basis, result: result}, nil
}

func (p Pair) Basis() Type  { return p.basis }
func (p Pair) Result() Type { return p.result }

// IsZero reports whether p was never initialized through NewPair
func (p Pair) IsZero() bool { return p.basis == 0 }

func (p Pair) String() string {
	return fmt.Sprintf("(%v, %v)", p.basis, p.result)
}

// FromComplex rounds z into the working precision of T. The imaginary part is
// discarded for real T.
func FromComplex[T Scalar](z complex128) T {
	var zero T
	switch any(zero).(type) {
	case float32:
		return any(float32(real(z))).(T)
	case float64:
		return any(real(z)).(T)
	case complex64:
		return any(complex64(z)).(T)
	default:
		return any(z).(T)
	}
}

// FromFloat converts a real value into T
func FromFloat[T Scalar](x float64) T {
	return FromComplex[T](complex(x, 0))
}

// ToComplex widens v to complex128
func ToComplex[T Scalar](v T) complex128 {
	switch x := any(v).(type) {
	case float32:
		return complex(float64(x), 0)
	case float64:
		return complex(x, 0)
	case complex64:
		return complex128(x)
	case complex128:
		return x
	}
	return 0
}

// Conj returns the complex conjugate of v, v itself for real T
func Conj[T Scalar](v T) T {
	switch x := any(v).(type) {
	case complex64:
		return any(complex(real(x), -imag(x))).(T)
	case complex128:
		return any(cmplx.Conj(x)).(T)
	}
	return v
}

// Abs returns |v|
func Abs[T Scalar](v T) float64 {
	return cmplx.Abs(ToComplex(v))
}
