package assembly

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/notargets/BEMKernel/utils"
	"gopkg.in/yaml.v3"
)

// Mode selects the storage of assembled weak forms
type Mode uint8

const (
	Dense Mode = iota
	ACA        // Recognized, not supported
)

func (m Mode) String() string {
	switch m {
	case Dense:
		return "dense"
	case ACA:
		return "aca"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "dense":
		*m = Dense
	case "aca":
		*m = ACA
	default:
		return fmt.Errorf("%w: unknown assembly mode %q", utils.ErrConfiguration, text)
	}
	return nil
}

func (m *Mode) UnmarshalYAML(value *yaml.Node) error { return m.UnmarshalText([]byte(value.Value)) }

// Verbosity controls how much the assembler reports
type Verbosity uint8

const (
	VerbosityLow Verbosity = iota
	VerbosityDefault
	VerbosityHigh
)

func (v Verbosity) String() string {
	switch v {
	case VerbosityLow:
		return "low"
	case VerbosityDefault:
		return "default"
	case VerbosityHigh:
		return "high"
	}
	return fmt.Sprintf("Verbosity(%d)", uint8(v))
}

func (v Verbosity) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *Verbosity) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "low":
		*v = VerbosityLow
	case "default":
		*v = VerbosityDefault
	case "high":
		*v = VerbosityHigh
	default:
		return fmt.Errorf("%w: unknown verbosity %q", utils.ErrConfiguration, text)
	}
	return nil
}

func (v *Verbosity) UnmarshalYAML(value *yaml.Node) error { return v.UnmarshalText([]byte(value.Value)) }

// LogLevel is the level assembly reports are written at. Low verbosity
// reports nothing, so its level sits above Fatal.
func (v Verbosity) LogLevel() log.Level {
	switch v {
	case VerbosityHigh:
		return log.InfoLevel
	case VerbosityDefault:
		return log.DebugLevel
	}
	return log.FatalLevel + 1
}

// AssemblyOptions configures how weak forms are assembled
type AssemblyOptions struct {
	Mode                        Mode      `yaml:"mode" mapstructure:"mode"`
	MaxThreadCount              int       `yaml:"max_thread_count" mapstructure:"max_thread_count"`
	Verbosity                   Verbosity `yaml:"verbosity" mapstructure:"verbosity"`
	SingularIntegralCaching     bool      `yaml:"singular_integral_caching" mapstructure:"singular_integral_caching"`
	SparseStorageOfMassMatrices bool      `yaml:"sparse_storage_of_mass_matrices" mapstructure:"sparse_storage_of_mass_matrices"`
	JointAssembly               bool      `yaml:"joint_assembly" mapstructure:"joint_assembly"`
}

func DefaultAssemblyOptions() AssemblyOptions {
	return AssemblyOptions{
		Mode:                        Dense,
		MaxThreadCount:              utils.AutoWorkers,
		Verbosity:                   VerbosityDefault,
		SingularIntegralCaching:     true,
		SparseStorageOfMassMatrices: true,
		JointAssembly:               false,
	}
}

func (ao AssemblyOptions) Validate() error {
	switch ao.Mode {
	case Dense:
	case ACA:
		return fmt.Errorf("%w: ACA assembly is not available, use dense mode", utils.ErrConfiguration)
	default:
		return fmt.Errorf("%w: unknown assembly mode %v", utils.ErrConfiguration, ao.Mode)
	}
	if ao.MaxThreadCount == 0 || ao.MaxThreadCount < utils.AutoWorkers {
		return fmt.Errorf("%w: max_thread_count must be positive or %d (auto), got %d",
			utils.ErrConfiguration, utils.AutoWorkers, ao.MaxThreadCount)
	}
	if ao.Verbosity > VerbosityHigh {
		return fmt.Errorf("%w: unknown verbosity %v", utils.ErrConfiguration, ao.Verbosity)
	}
	return nil
}

// Workers resolves MaxThreadCount
func (ao AssemblyOptions) Workers() int { return utils.MaxWorkers(ao.MaxThreadCount) }
