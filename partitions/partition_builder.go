package partitions

import (
	"fmt"
	"math"
)

// PartitionBuilder splits the test elements of an assembly into blocks
type PartitionBuilder struct {
	NumElements int

	// Partitioning parameters
	TargetPartitionSize int // Desired elements per partition
	MinPartitions       int // Lower bound, e.g. the worker count
	Strategy            PartitionStrategy
}

// PartitionStrategy defines how elements are grouped
type PartitionStrategy int

const (
	BlockPartition PartitionStrategy = iota // Consecutive elements
	RoundRobin                              // Distribute cyclically
)

func (ps PartitionStrategy) String() string {
	switch ps {
	case BlockPartition:
		return "block"
	case RoundRobin:
		return "round-robin"
	}
	return fmt.Sprintf("PartitionStrategy(%d)", int(ps))
}

// BuildPartitions creates a validated partition layout
func (pb *PartitionBuilder) BuildPartitions() (*PartitionLayout, error) {
	if pb.NumElements <= 0 {
		return nil, fmt.Errorf("cannot partition %d elements", pb.NumElements)
	}

	// Determine number of partitions needed
	numPartitions := pb.calculateNumPartitions()

	// Partition the elements
	eToP, err := pb.partitionElements(numPartitions)
	if err != nil {
		return nil, err
	}

	// Create partition structures
	partitions := pb.createPartitions(eToP, numPartitions)

	kpartMax := pb.calculateKpartMax(partitions)
	for i := range partitions {
		partitions[i].MaxElements = kpartMax
	}

	layout := &PartitionLayout{
		Partitions:    partitions,
		KpartMax:      kpartMax,
		TotalElements: pb.NumElements,
		NumPartitions: numPartitions,
		EToP:          eToP,
	}

	if err := layout.ValidateLayout(); err != nil {
		return nil, fmt.Errorf("invalid partition layout: %w", err)
	}

	return layout, nil
}

// calculateNumPartitions determines the partition count
func (pb *PartitionBuilder) calculateNumPartitions() int {
	numPartitions := 1
	if pb.TargetPartitionSize > 0 {
		numPartitions = int(math.Ceil(float64(pb.NumElements) / float64(pb.TargetPartitionSize)))
	}
	if numPartitions < pb.MinPartitions {
		numPartitions = pb.MinPartitions
	}
	// No empty partitions
	if numPartitions > pb.NumElements {
		numPartitions = pb.NumElements
	}
	if numPartitions < 1 {
		numPartitions = 1
	}
	return numPartitions
}

// partitionElements assigns elements to partitions
func (pb *PartitionBuilder) partitionElements(numPartitions int) ([]int, error) {
	eToP := make([]int, pb.NumElements)

	switch pb.Strategy {
	case BlockPartition:
		// Sizes differ by at most one, larger blocks first
		base, extra := pb.NumElements/numPartitions, pb.NumElements%numPartitions
		k := 0
		for p := 0; p < numPartitions; p++ {
			size := base
			if p < extra {
				size++
			}
			for i := 0; i < size; i++ {
				eToP[k] = p
				k++
			}
		}

	case RoundRobin:
		for i := 0; i < pb.NumElements; i++ {
			eToP[i] = i % numPartitions
		}

	default:
		return nil, fmt.Errorf("unknown partition strategy %v", pb.Strategy)
	}

	return eToP, nil
}

// createPartitions builds partition structures from element assignments
func (pb *PartitionBuilder) createPartitions(eToP []int, numPartitions int) []Partition {
	partitions := make([]Partition, numPartitions)
	for i := range partitions {
		partitions[i] = Partition{
			ID:       i,
			Elements: make([]int, 0),
		}
	}

	for elem, part := range eToP {
		partitions[part].Elements = append(partitions[part].Elements, elem)
		partitions[part].NumElements++
	}

	return partitions
}

// calculateKpartMax finds maximum elements across all partitions
func (pb *PartitionBuilder) calculateKpartMax(partitions []Partition) int {
	kpartMax := 0
	for _, p := range partitions {
		if p.NumElements > kpartMax {
			kpartMax = p.NumElements
		}
	}
	return kpartMax
}
