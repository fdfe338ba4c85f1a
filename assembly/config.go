package assembly

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-viper/mapstructure/v2"
	"github.com/notargets/BEMKernel/quadrature"
	"github.com/notargets/BEMKernel/utils"
	"gopkg.in/yaml.v3"
)

// ConfigVersion is the only options document version understood
const ConfigVersion = 1

// Config is the versioned options document:
//
//	version: 1
//	assembly:
//	  mode: dense
//	  max_thread_count: -1
//	  verbosity: default
//	  singular_integral_caching: true
//	  sparse_storage_of_mass_matrices: true
//	  joint_assembly: false
//	accuracy:
//	  regular_order: 4
//	  near_singular_order: 8
//	  singular_order: 6
//	  single_element_order: 4
//	  near_field_factor: 2.0
type Config struct {
	Version  int                        `yaml:"version" mapstructure:"version"`
	Assembly AssemblyOptions            `yaml:"assembly" mapstructure:"assembly"`
	Accuracy quadrature.AccuracyOptions `yaml:"accuracy" mapstructure:"accuracy"`
}

func DefaultConfig() *Config {
	return &Config{
		Version:  ConfigVersion,
		Assembly: DefaultAssemblyOptions(),
		Accuracy: quadrature.DefaultAccuracyOptions(),
	}
}

// LoadOptions reads a YAML options document. Keys not listed in Config are
// rejected. Omitted keys keep their defaults.
func LoadOptions(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Version = 0
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: options document: %v", utils.ErrConfiguration, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseOptions decodes the same keys from a nested map, e.g. the settings of
// a viper instance. Unused keys are rejected.
func ParseOptions(settings map[string]any) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Version = 0
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.TextUnmarshallerHookFunc(),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
		Result:           cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrConfiguration, err)
	}
	if err = dec.Decode(settings); err != nil {
		return nil, fmt.Errorf("%w: options: %v", utils.ErrConfiguration, err)
	}
	if err = cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Version != ConfigVersion {
		return fmt.Errorf("%w: options version %d, expected %d", utils.ErrConfiguration, c.Version, ConfigVersion)
	}
	if err := c.Assembly.Validate(); err != nil {
		return err
	}
	c.Accuracy = c.Accuracy.WithDefaults()
	return c.Accuracy.Validate()
}
