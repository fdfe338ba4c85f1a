package quadrature

import (
	"fmt"
	"strings"
	"sync"

	"github.com/notargets/BEMKernel/mesh"
	"github.com/notargets/BEMKernel/numeric"
	"github.com/notargets/BEMKernel/utils"
)

// Strategy selects and builds quadrature rules for element pairs. Reference
// rules are built at most once per key and shared by all callers; the
// strategy is safe for concurrent use.
type Strategy struct {
	pair     numeric.Pair
	accuracy AccuracyOptions

	mu    sync.Mutex
	cache map[ruleKey]*ruleEntry
}

type ruleKind uint8

const (
	triangleKind ruleKind = iota
	tensorKind
	legendreKind
	singularKind
)

type ruleKey struct {
	kind       ruleKind
	order, aux int
}

type ruleEntry struct {
	once sync.Once
	tri  *Rule
	pair *PairRule
	x, w []float64
}

// NewStrategy validates the numeric pair and the accuracy options. Zero
// accuracy fields take their defaults.
func NewStrategy(basis, result numeric.Type, accuracy AccuracyOptions) (*Strategy, error) {
	pair, err := numeric.NewPair(basis, result)
	if err != nil {
		return nil, fmt.Errorf("quadrature strategy: %w", err)
	}
	accuracy = accuracy.WithDefaults()
	if err = accuracy.Validate(); err != nil {
		return nil, fmt.Errorf("quadrature strategy: %w", err)
	}
	return &Strategy{
		pair:     pair,
		accuracy: accuracy,
		cache:    make(map[ruleKey]*ruleEntry),
	}, nil
}

func (s *Strategy) Pair() numeric.Pair        { return s.pair }
func (s *Strategy) Accuracy() AccuracyOptions { return s.accuracy }
func (s *Strategy) BasisType() numeric.Type   { return s.pair.Basis() }
func (s *Strategy) ResultType() numeric.Type  { return s.pair.Result() }

func (s *Strategy) entry(key ruleKey, build func(e *ruleEntry)) *ruleEntry {
	s.mu.Lock()
	e, ok := s.cache[key]
	if !ok {
		e = &ruleEntry{}
		s.cache[key] = e
	}
	s.mu.Unlock()
	e.once.Do(func() { build(e) })
	return e
}

// CacheSize is the number of reference rules built so far
func (s *Strategy) CacheSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}

// TriangleRule returns the shared triangle rule of the given order
func (s *Strategy) TriangleRule(order int) *Rule {
	return s.entry(ruleKey{kind: triangleKind, order: order}, func(e *ruleEntry) {
		e.tri = NewTriangleRule(order)
	}).tri
}

// SingleRule integrates over one element, e.g. mass matrices and projections
func (s *Strategy) SingleRule() *Rule {
	return s.TriangleRule(s.accuracy.SingleElementOrder)
}

func (s *Strategy) tensorRule(order int) *PairRule {
	return s.entry(ruleKey{kind: tensorKind, order: order, aux: order}, func(e *ruleEntry) {
		r := s.TriangleRule(order)
		e.pair = NewTensorPairRule(r, r)
	}).pair
}

func (s *Strategy) legendre(n int) (x, w []float64) {
	e := s.entry(ruleKey{kind: legendreKind, order: n}, func(e *ruleEntry) {
		e.x, e.w = GaussLegendre01(n)
	})
	return e.x, e.w
}

// PairRule classifies the pair and returns a rule for it
func (s *Strategy) PairRule(m *mesh.Mesh, test, trial int) (*PairRule, Interaction) {
	in := s.Classify(m, test, trial)
	return s.Rule(m, test, trial, in), in
}

// Rule returns the rule for an already classified pair. Rules depend only on
// the regime, the order and, for touching pairs, on how the shared vertices
// sit in each element, so all of them are shared reference data.
func (s *Strategy) Rule(m *mesh.Mesh, test, trial int, in Interaction) *PairRule {
	if in.Regime != Singular {
		return s.tensorRule(in.Order)
	}
	tc, sc, swap := singularCharts(m, test, trial, in.Adjacency)
	aux := (int(in.Adjacency)*27+tc.index())*27 + sc.index()
	aux *= 2
	if swap {
		aux++
	}
	return s.entry(ruleKey{kind: singularKind, order: in.Order, aux: aux}, func(e *ruleEntry) {
		xi, wxi := s.legendre(singularPoints(in.Order))
		e.pair = newSingularPairRule(in.Adjacency, xi, wxi, tc, sc, swap)
	}).pair
}

// CheckSupport reports whether kernels carrying `derivatives` tangential
// derivatives on each side can be integrated on the given bases. Derivative
// transfer by integration by parts needs globally continuous, at least
// linear, bases.
func (s *Strategy) CheckSupport(derivatives int, testOrder, trialOrder int, testContinuous, trialContinuous bool) error {
	switch {
	case derivatives < 0 || derivatives > 1:
		return fmt.Errorf("%w: kernels with %d surface derivatives", utils.ErrSingularityHandling, derivatives)
	case derivatives == 0:
		return nil
	case testOrder < 1 || trialOrder < 1:
		return fmt.Errorf("%w: surface derivatives of order-0 bases vanish (test order %d, trial order %d)",
			utils.ErrSingularityHandling, testOrder, trialOrder)
	case !testContinuous || !trialContinuous:
		return fmt.Errorf("%w: integration by parts requires continuous test and trial bases",
			utils.ErrSingularityHandling)
	}
	return nil
}

func (s *Strategy) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Numerical quadrature strategy %v\n", s.pair))
	sb.WriteString(fmt.Sprintf("  Regular order: %d\n", s.accuracy.RegularOrder))
	sb.WriteString(fmt.Sprintf("  Near-singular order: %d (factor %.2f)\n",
		s.accuracy.NearSingularOrder, s.accuracy.NearFieldFactor))
	sb.WriteString(fmt.Sprintf("  Singular order: %d\n", s.accuracy.SingularOrder))
	sb.WriteString(fmt.Sprintf("  Single element order: %d\n", s.accuracy.SingleElementOrder))
	return sb.String()
}
