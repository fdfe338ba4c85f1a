package assembly

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/notargets/BEMKernel/numeric"
	"github.com/notargets/BEMKernel/quadrature"
	"github.com/notargets/BEMKernel/utils"
)

// Context binds a quadrature strategy and assembly options to the result
// type R. It holds no mesh data and may outlive every operator built from it.
type Context[R numeric.Scalar] struct {
	id       uuid.UUID
	strategy *quadrature.Strategy
	options  AssemblyOptions
}

func NewContext[R numeric.Scalar](strategy *quadrature.Strategy, options AssemblyOptions) (*Context[R], error) {
	if strategy == nil {
		return nil, fmt.Errorf("%w: context requires a quadrature strategy", utils.ErrConfiguration)
	}
	if rt := numeric.TypeOf[R](); rt != strategy.ResultType() {
		return nil, fmt.Errorf("%w: context result type %v, strategy result type %v",
			utils.ErrTypeMismatch, rt, strategy.ResultType())
	}
	if err := options.Validate(); err != nil {
		return nil, err
	}
	return &Context[R]{
		id:       uuid.New(),
		strategy: strategy,
		options:  options,
	}, nil
}

func (c *Context[R]) ID() uuid.UUID                  { return c.id }
func (c *Context[R]) Strategy() *quadrature.Strategy { return c.strategy }
func (c *Context[R]) Options() AssemblyOptions       { return c.options }
func (c *Context[R]) BasisType() numeric.Type        { return c.strategy.BasisType() }
func (c *Context[R]) ResultType() numeric.Type       { return c.strategy.ResultType() }
func (c *Context[R]) Pair() numeric.Pair             { return c.strategy.Pair() }

// Logger returns a logger tagged with this context
func (c *Context[R]) Logger() *log.Logger {
	return utils.Component("assembly").With("context", c.id.String()[:8])
}

// report logs at the level selected by the verbosity option
func (c *Context[R]) report(msg string, keyvals ...any) {
	lvl := c.options.Verbosity.LogLevel()
	if lvl > log.FatalLevel {
		return
	}
	c.Logger().Log(lvl, msg, keyvals...)
}

func (c *Context[R]) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Assembly context %s %v\n", c.id, c.Pair()))
	sb.WriteString(fmt.Sprintf("  Mode: %v\n", c.options.Mode))
	sb.WriteString(fmt.Sprintf("  Workers: %d\n", c.options.Workers()))
	sb.WriteString(fmt.Sprintf("  Singular integral caching: %v\n", c.options.SingularIntegralCaching))
	sb.WriteString(fmt.Sprintf("  Sparse mass matrices: %v\n", c.options.SparseStorageOfMassMatrices))
	sb.WriteString(fmt.Sprintf("  Joint assembly: %v\n", c.options.JointAssembly))
	sb.WriteString(c.strategy.String())
	return sb.String()
}
