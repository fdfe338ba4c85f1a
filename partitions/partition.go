package partitions

import (
	"fmt"
	"math"
)

// Partition is a block of test elements assembled together by one worker
type Partition struct {
	// Unique identifier for this partition
	ID int

	// Element membership
	Elements    []int // Global element indices in this partition, ascending
	NumElements int   // Actual number of elements
	MaxElements int   // Largest partition size in the layout
}

// PartitionLayout manages the decomposition of the test elements
type PartitionLayout struct {
	// All partitions, in merge order
	Partitions []Partition

	// Global sizing information
	KpartMax      int // max(NumElements) across all partitions
	TotalElements int // Sum of all elements across partitions
	NumPartitions int

	// Element to partition mapping
	EToP []int // Length TotalElements: element k belongs to partition EToP[k]
}

// GetPartition returns the partition containing element k
func (pl *PartitionLayout) GetPartition(elementID int) int {
	if elementID < 0 || elementID >= len(pl.EToP) {
		return -1
	}
	return pl.EToP[elementID]
}

// ValidateLayout checks partition consistency
func (pl *PartitionLayout) ValidateLayout() error {
	// Verify KpartMax
	actualMax := 0
	for _, p := range pl.Partitions {
		if p.NumElements > actualMax {
			actualMax = p.NumElements
		}
		if p.MaxElements != pl.KpartMax {
			return fmt.Errorf("partition %d: MaxElements %d != KpartMax %d",
				p.ID, p.MaxElements, pl.KpartMax)
		}
	}
	if actualMax != pl.KpartMax {
		return fmt.Errorf("computed KpartMax %d != stored KpartMax %d",
			actualMax, pl.KpartMax)
	}

	// Every element belongs to exactly one partition, and EToP agrees
	if len(pl.EToP) != pl.TotalElements {
		return fmt.Errorf("EToP length %d != TotalElements %d", len(pl.EToP), pl.TotalElements)
	}
	owned := make([]int, pl.TotalElements)
	for _, p := range pl.Partitions {
		if len(p.Elements) != p.NumElements {
			return fmt.Errorf("partition %d: %d elements listed, NumElements %d",
				p.ID, len(p.Elements), p.NumElements)
		}
		for _, k := range p.Elements {
			if k < 0 || k >= pl.TotalElements {
				return fmt.Errorf("partition %d: element %d out of range", p.ID, k)
			}
			if pl.EToP[k] != p.ID {
				return fmt.Errorf("element %d listed in partition %d, EToP says %d", k, p.ID, pl.EToP[k])
			}
			owned[k]++
		}
	}
	for k, n := range owned {
		if n != 1 {
			return fmt.Errorf("element %d owned by %d partitions", k, n)
		}
	}
	return nil
}

type PartitionStats struct {
	NumPartitions int
	MinElements   int
	MaxElements   int
	AvgElements   float64
	Imbalance     float64 // MaxElements / AvgElements
}

// PartitionStatistics computes load balance metrics
func (pl *PartitionLayout) PartitionStatistics() PartitionStats {
	stats := PartitionStats{
		NumPartitions: pl.NumPartitions,
		MinElements:   math.MaxInt32,
		MaxElements:   0,
		AvgElements:   float64(pl.TotalElements) / float64(pl.NumPartitions),
	}

	for _, p := range pl.Partitions {
		if p.NumElements < stats.MinElements {
			stats.MinElements = p.NumElements
		}
		if p.NumElements > stats.MaxElements {
			stats.MaxElements = p.NumElements
		}
	}

	stats.Imbalance = float64(stats.MaxElements) / stats.AvgElements

	return stats
}
