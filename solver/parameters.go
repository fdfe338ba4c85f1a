package solver

import (
	"fmt"
	"strings"

	"github.com/notargets/BEMKernel/utils"
	"gopkg.in/yaml.v3"
)

// Method is the Krylov iteration
type Method uint8

const (
	GMRES Method = iota
	CG
)

func (m Method) String() string {
	switch m {
	case GMRES:
		return "gmres"
	case CG:
		return "cg"
	}
	return fmt.Sprintf("Method(%d)", uint8(m))
}

func (m Method) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Method) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "gmres":
		*m = GMRES
	case "cg":
		*m = CG
	default:
		return fmt.Errorf("%w: unknown solver method %q", utils.ErrConfiguration, text)
	}
	return nil
}

func (m *Method) UnmarshalYAML(node *yaml.Node) error {
	return m.UnmarshalText([]byte(node.Value))
}

// DefaultTolerance is the relative residual used by NewDefaultIterativeSolver
const DefaultTolerance = 1e-5

// Parameters configure an iterative solve. Tolerance bounds the relative
// residual ‖b - A x‖ / ‖b‖; Restart is the GMRES cycle length.
type Parameters struct {
	Method        Method  `yaml:"method" mapstructure:"method"`
	Tolerance     float64 `yaml:"tolerance" mapstructure:"tolerance"`
	MaxIterations int     `yaml:"max_iterations" mapstructure:"max_iterations"`
	Restart       int     `yaml:"restart" mapstructure:"restart"`
}

// DefaultGmresParameters is the GMRES preset for a relative tolerance
func DefaultGmresParameters(tolerance float64) Parameters {
	return Parameters{
		Method:        GMRES,
		Tolerance:     tolerance,
		MaxIterations: 1000,
		Restart:       100,
	}
}

// DefaultCgParameters is the CG preset for a relative tolerance. CG is only
// valid for Hermitian positive definite weak forms.
func DefaultCgParameters(tolerance float64) Parameters {
	return Parameters{
		Method:        CG,
		Tolerance:     tolerance,
		MaxIterations: 1000,
	}
}

func (p Parameters) Validate() error {
	switch {
	case p.Method != GMRES && p.Method != CG:
		return fmt.Errorf("%w: solver method %v", utils.ErrConfiguration, p.Method)
	case !(p.Tolerance > 0 && p.Tolerance < 1):
		return fmt.Errorf("%w: tolerance %g outside (0,1)", utils.ErrConfiguration, p.Tolerance)
	case p.MaxIterations < 1:
		return fmt.Errorf("%w: max_iterations %d", utils.ErrConfiguration, p.MaxIterations)
	case p.Method == GMRES && p.Restart < 1:
		return fmt.Errorf("%w: gmres restart %d", utils.ErrConfiguration, p.Restart)
	}
	return nil
}
