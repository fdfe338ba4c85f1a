package operator

import (
	"fmt"
	"strings"
	"sync"

	"github.com/notargets/BEMKernel/assembly"
	"github.com/notargets/BEMKernel/numeric"
	"github.com/notargets/BEMKernel/space"
	"github.com/notargets/BEMKernel/utils"
)

// LinearCombination is Σ c_i A_i over operators sharing one assembly context
// and the same domain, range and dual-to-range spaces, e.g. -1/2 I + K. With JointAssembly on, the weak
// form is one dense matrix; otherwise terms are applied one by one.
type LinearCombination[R numeric.Scalar] struct {
	terms  []BoundaryOperator[R]
	coeffs []R

	once     sync.Once
	weakForm assembly.DiscreteOperator[R]
	err      error
}

// Sum returns a + b
func Sum[R numeric.Scalar](a, b BoundaryOperator[R]) (*LinearCombination[R], error) {
	if err := compatible(a, b); err != nil {
		return nil, err
	}
	ta, ca := expand(a)
	tb, cb := expand(b)
	return &LinearCombination[R]{
		terms:  append(ta, tb...),
		coeffs: append(ca, cb...),
	}, nil
}

// Scale returns alpha*op
func Scale[R numeric.Scalar](alpha R, op BoundaryOperator[R]) *LinearCombination[R] {
	terms, coeffs := expand(op)
	for i := range coeffs {
		coeffs[i] *= alpha
	}
	return &LinearCombination[R]{terms: terms, coeffs: coeffs}
}

// expand flattens nested combinations into fresh term and coefficient slices
func expand[R numeric.Scalar](op BoundaryOperator[R]) ([]BoundaryOperator[R], []R) {
	if lc, ok := op.(*LinearCombination[R]); ok {
		return append([]BoundaryOperator[R](nil), lc.terms...), append([]R(nil), lc.coeffs...)
	}
	return []BoundaryOperator[R]{op}, []R{1}
}

func compatible[R numeric.Scalar](a, b BoundaryOperator[R]) error {
	if a == nil || b == nil {
		return fmt.Errorf("%w: sum of a nil operator", utils.ErrConfiguration)
	}
	if a.BasisType() != b.BasisType() {
		return fmt.Errorf("%w: sum of operators with basis types %v and %v",
			utils.ErrTypeMismatch, a.BasisType(), b.BasisType())
	}
	if a.Domain() != b.Domain() || a.Range() != b.Range() || a.DualToRange() != b.DualToRange() {
		return fmt.Errorf("%w: sum of %s and %s with different spaces", utils.ErrConfiguration, a.Label(), b.Label())
	}
	// the combined weak form is assembled under one context's options
	if a.Context() != b.Context() {
		return fmt.Errorf("%w: sum of %s and %s built in different contexts", utils.ErrConfiguration, a.Label(), b.Label())
	}
	return nil
}

func (lc *LinearCombination[R]) Label() string {
	parts := make([]string, len(lc.terms))
	for i, t := range lc.terms {
		parts[i] = fmt.Sprintf("%v*%s", lc.coeffs[i], t.Label())
	}
	return strings.Join(parts, " + ")
}

func (lc *LinearCombination[R]) Context() *assembly.Context[R] { return lc.terms[0].Context() }
func (lc *LinearCombination[R]) Domain() *space.Space          { return lc.terms[0].Domain() }
func (lc *LinearCombination[R]) Range() *space.Space           { return lc.terms[0].Range() }
func (lc *LinearCombination[R]) DualToRange() *space.Space     { return lc.terms[0].DualToRange() }
func (lc *LinearCombination[R]) BasisType() numeric.Type       { return lc.terms[0].BasisType() }
func (lc *LinearCombination[R]) ResultType() numeric.Type      { return lc.terms[0].ResultType() }

// Terms returns the flattened operators and their coefficients
func (lc *LinearCombination[R]) Terms() ([]BoundaryOperator[R], []R) {
	return append([]BoundaryOperator[R](nil), lc.terms...), append([]R(nil), lc.coeffs...)
}

func (lc *LinearCombination[R]) WeakForm() (assembly.DiscreteOperator[R], error) {
	lc.once.Do(func() {
		forms := make([]assembly.DiscreteOperator[R], len(lc.terms))
		for i, t := range lc.terms {
			if forms[i], lc.err = t.WeakForm(); lc.err != nil {
				return
			}
		}
		var comb *assembly.Combination[R]
		if comb, lc.err = assembly.NewCombination(forms, lc.coeffs); lc.err != nil {
			lc.err = fmt.Errorf("%w: %v", utils.ErrConfiguration, lc.err)
			return
		}
		lc.weakForm = comb
		if lc.Context().Options().JointAssembly {
			lc.weakForm = comb.Materialize()
		}
	})
	return lc.weakForm, lc.err
}

func (lc *LinearCombination[R]) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Linear combination of %d operators\n", len(lc.terms)))
	for i, t := range lc.terms {
		sb.WriteString(fmt.Sprintf("  %v × %s\n", lc.coeffs[i], t.Label()))
	}
	return sb.String()
}
