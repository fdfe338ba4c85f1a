package assembly

import (
	"fmt"
	"math"
	"math/cmplx"
	"time"

	"github.com/notargets/BEMKernel/numeric"
	"github.com/notargets/BEMKernel/partitions"
	"github.com/notargets/BEMKernel/quadrature"
	"github.com/notargets/BEMKernel/utils"
	"github.com/sourcegraph/conc/pool"
)

// Partitions per worker, so uneven blocks still balance
const partitionsPerWorker = 4

// SingularCache holds the integrated local blocks of touching element pairs.
// It is filled before any parallel work starts and is read-only afterwards.
type SingularCache struct {
	blocks map[[2]int][]complex128
}

func (sc *SingularCache) Len() int { return len(sc.blocks) }

func (sc *SingularCache) Block(test, trial int) ([]complex128, bool) {
	b, ok := sc.blocks[[2]int{test, trial}]
	return b, ok
}

// BuildSingularCache integrates every singular pair of la, single-threaded
func BuildSingularCache(strategy *quadrature.Strategy, la LocalAssembler) (*SingularCache, error) {
	test, trial := la.TestSpace(), la.TrialSpace()
	m := test.Mesh()
	n := test.Shape().Size() * trial.Shape().Size()
	sc := &SingularCache{blocks: make(map[[2]int][]complex128)}
	for k := 0; k < m.NumElements(); k++ {
		for _, l := range m.Touching(k) {
			in := strategy.Classify(m, k, l)
			if in.Regime != quadrature.Singular {
				continue
			}
			block := make([]complex128, n)
			la.EvaluatePair(k, l, strategy.Rule(m, k, l, in), block)
			if err := checkFinite(block, k, l, in); err != nil {
				return nil, err
			}
			sc.blocks[[2]int{k, l}] = block
		}
	}
	return sc, nil
}

// AssemblyStats summarizes one weak form assembly
type AssemblyStats struct {
	Label       string
	Rows, Cols  int
	Pairs       [3]int // Indexed by quadrature.Regime
	CachedPairs int
	Partitions  int
	Workers     int
	Elapsed     time.Duration
}

// rowBuffer is the private output of one partition: global row → full row
type rowBuffer struct {
	rows   map[int][]complex128
	order  []int
	pairs  [3]int
	cached int
}

func (rb *rowBuffer) row(i, cols int) []complex128 {
	r, ok := rb.rows[i]
	if !ok {
		r = make([]complex128, cols)
		rb.rows[i] = r
		rb.order = append(rb.order, i)
	}
	return r
}

// AssembleWeakForm assembles the dense matrix of la. Test elements are split
// into partitions assembled concurrently, each writing only its own row
// buffer; buffers are merged in partition order so the result does not
// depend on scheduling.
func AssembleWeakForm[R numeric.Scalar](ctx *Context[R], la LocalAssembler, cache *SingularCache,
	label string) (*DenseMatrix[R], *AssemblyStats, error) {
	start := time.Now()
	test, trial := la.TestSpace(), la.TrialSpace()
	m := test.Mesh()
	rows, cols := test.GlobalDofCount(), trial.GlobalDofCount()
	workers := ctx.Options().Workers()

	pb := partitions.PartitionBuilder{
		NumElements:         m.NumElements(),
		TargetPartitionSize: int(math.Ceil(float64(m.NumElements()) / float64(partitionsPerWorker*workers))),
		MinPartitions:       workers,
		Strategy:            partitions.BlockPartition,
	}
	layout, err := pb.BuildPartitions()
	if err != nil {
		return nil, nil, fmt.Errorf("assembly of %s: %w", label, err)
	}

	buffers := make([]*rowBuffer, layout.NumPartitions)
	p := pool.New().WithMaxGoroutines(workers).WithErrors()
	for i := range layout.Partitions {
		part := &layout.Partitions[i]
		p.Go(func() error {
			buf, err := assemblePartition(ctx.Strategy(), la, cache, part.Elements, cols)
			if err != nil {
				return err
			}
			buffers[part.ID] = buf
			return nil
		})
	}
	if err = p.Wait(); err != nil {
		return nil, nil, fmt.Errorf("assembly of %s: %w", label, err)
	}

	stats := &AssemblyStats{
		Label:      label,
		Rows:       rows,
		Cols:       cols,
		Partitions: layout.NumPartitions,
		Workers:    workers,
	}
	acc := make([]complex128, rows*cols)
	for _, buf := range buffers {
		for _, i := range buf.order {
			dst := acc[i*cols : (i+1)*cols]
			for j, v := range buf.rows[i] {
				dst[j] += v
			}
		}
		for r := range stats.Pairs {
			stats.Pairs[r] += buf.pairs[r]
		}
		stats.CachedPairs += buf.cached
	}
	out := NewDenseMatrix[R](rows, cols, nil)
	for i, v := range acc {
		out.data[i] = numeric.FromComplex[R](v)
	}
	stats.Elapsed = time.Since(start)

	ctx.report("assembled weak form",
		"operator", label,
		"size", fmt.Sprintf("%dx%d", rows, cols),
		"regular", stats.Pairs[quadrature.Regular],
		"near_singular", stats.Pairs[quadrature.NearSingular],
		"singular", stats.Pairs[quadrature.Singular],
		"cached", stats.CachedPairs,
		"partitions", stats.Partitions,
		"imbalance", fmt.Sprintf("%.2f", layout.PartitionStatistics().Imbalance),
		"workers", stats.Workers,
		"elapsed", stats.Elapsed)
	return out, stats, nil
}

func assemblePartition(strategy *quadrature.Strategy, la LocalAssembler, cache *SingularCache,
	elements []int, cols int) (*rowBuffer, error) {
	test, trial := la.TestSpace(), la.TrialSpace()
	m := test.Mesh()
	nS := trial.Shape().Size()
	buf := &rowBuffer{rows: make(map[int][]complex128)}
	scratch := make([]complex128, test.Shape().Size()*nS)

	for _, k := range elements {
		testDofs := test.LocalDofs(k)
		for l := 0; l < m.NumElements(); l++ {
			in := strategy.Classify(m, k, l)
			buf.pairs[in.Regime]++

			block := scratch
			cached := false
			if in.Regime == quadrature.Singular && cache != nil {
				block, cached = cache.Block(k, l)
			}
			if cached {
				buf.cached++
			} else {
				block = scratch
				la.EvaluatePair(k, l, strategy.Rule(m, k, l, in), block)
				if err := checkFinite(block, k, l, in); err != nil {
					return nil, err
				}
			}

			trialDofs := trial.LocalDofs(l)
			for a, gi := range testDofs {
				row := buf.row(gi, cols)
				for b, gj := range trialDofs {
					row[gj] += block[a*nS+b]
				}
			}
		}
	}
	return buf, nil
}

func checkFinite(block []complex128, test, trial int, in quadrature.Interaction) error {
	for _, v := range block {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			return fmt.Errorf("%w: non-finite integral for %v pair (%d,%d), adjacency %v",
				utils.ErrSingularityHandling, in.Regime, test, trial, in.Adjacency)
		}
	}
	return nil
}
