package quadrature

import (
	"fmt"
	"math"

	"github.com/notargets/BEMKernel/utils"
)

// AccuracyOptions maps each interaction regime to a quadrature order. Zero
// fields take their defaults, NearFieldFactor included; a negative
// NearFieldFactor (see NoNearField) classifies every non-touching pair as
// regular.
type AccuracyOptions struct {
	RegularOrder       int     `yaml:"regular_order" mapstructure:"regular_order"`
	NearSingularOrder  int     `yaml:"near_singular_order" mapstructure:"near_singular_order"`
	SingularOrder      int     `yaml:"singular_order" mapstructure:"singular_order"`
	SingleElementOrder int     `yaml:"single_element_order" mapstructure:"single_element_order"`
	NearFieldFactor    float64 `yaml:"near_field_factor" mapstructure:"near_field_factor"`
}

func DefaultAccuracyOptions() AccuracyOptions {
	return AccuracyOptions{
		RegularOrder:       4,
		NearSingularOrder:  8,
		SingularOrder:      6,
		SingleElementOrder: 4,
		NearFieldFactor:    2.0,
	}
}

// NoNearField turns off near-singular classification
const NoNearField = -1.0

// WithDefaults fills zero fields from DefaultAccuracyOptions
func (ao AccuracyOptions) WithDefaults() AccuracyOptions {
	def := DefaultAccuracyOptions()
	if ao.RegularOrder == 0 {
		ao.RegularOrder = def.RegularOrder
	}
	if ao.NearSingularOrder == 0 {
		ao.NearSingularOrder = def.NearSingularOrder
	}
	if ao.SingularOrder == 0 {
		ao.SingularOrder = def.SingularOrder
	}
	if ao.SingleElementOrder == 0 {
		ao.SingleElementOrder = def.SingleElementOrder
	}
	if ao.NearFieldFactor == 0 {
		ao.NearFieldFactor = def.NearFieldFactor
	}
	return ao
}

const MaxOrder = 40

func (ao AccuracyOptions) Validate() error {
	orders := []struct {
		name  string
		value int
	}{
		{"regular_order", ao.RegularOrder},
		{"near_singular_order", ao.NearSingularOrder},
		{"singular_order", ao.SingularOrder},
		{"single_element_order", ao.SingleElementOrder},
	}
	for _, o := range orders {
		if o.value < 1 || o.value > MaxOrder {
			return fmt.Errorf("%w: %s=%d outside [1,%d]", utils.ErrConfiguration, o.name, o.value, MaxOrder)
		}
	}
	if ao.NearSingularOrder < ao.RegularOrder {
		return fmt.Errorf("%w: near_singular_order %d below regular_order %d",
			utils.ErrConfiguration, ao.NearSingularOrder, ao.RegularOrder)
	}
	if math.IsNaN(ao.NearFieldFactor) || math.IsInf(ao.NearFieldFactor, 0) {
		return fmt.Errorf("%w: near_field_factor %g is not finite", utils.ErrConfiguration, ao.NearFieldFactor)
	}
	return nil
}
