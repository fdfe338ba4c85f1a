// Command bemsolve assembles a boundary operator on an icosphere and solves
// op φ = g for a constant right-hand side g.
package main

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/notargets/BEMKernel/assembly"
	"github.com/notargets/BEMKernel/function"
	"github.com/notargets/BEMKernel/mesh"
	"github.com/notargets/BEMKernel/numeric"
	"github.com/notargets/BEMKernel/operator"
	"github.com/notargets/BEMKernel/quadrature"
	"github.com/notargets/BEMKernel/solver"
	"github.com/notargets/BEMKernel/space"
	"github.com/notargets/BEMKernel/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "bemsolve",
	Short: "Galerkin boundary element solve on a sphere",
	Long: `bemsolve discretizes the unit icosphere, assembles the named boundary
operator and solves op φ = g for a constant g with GMRES or CG.
Assembly and quadrature options are read from --options (yaml, json or toml).`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return utils.Configure(viper.GetString("log-level"), os.Stderr)
	},
	RunE: runSolve,
}

var kernelsCmd = &cobra.Command{
	Use:   "kernels",
	Short: "List operator names",
	Run: func(_ *cobra.Command, _ []string) {
		for _, kn := range operator.KernelNames() {
			fmt.Println(kn)
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.Flags()
	f.String("kernel", operator.Laplace3dSingleLayer.String(), "operator name, see 'bemsolve kernels'")
	f.Float64("k", 1, "real part of the wave number")
	f.Float64("k-imag", 0, "imaginary part of the wave number")
	f.String("space", "p0", "discrete space: p0, p1 or dp1")
	f.String("result", "float64", "result type: float32, float64, complex64 or complex128")
	f.Int("refinements", 2, "icosphere refinement level")
	f.Float64("radius", 1, "sphere radius")
	f.Float64("rhs", 1, "constant right-hand side")
	f.String("method", "gmres", "iterative method: gmres or cg")
	f.Float64("tolerance", solver.DefaultTolerance, "relative residual tolerance")
	f.Int("max-iterations", 1000, "iteration limit")
	f.Int("restart", 100, "GMRES restart length")
	f.String("options", "", "assembly and accuracy options file")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")

	if err := viper.BindPFlags(f); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding flags: %v\n", err)
		os.Exit(1)
	}
	if err := viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding log-level flag: %v\n", err)
		os.Exit(1)
	}
	viper.SetEnvPrefix("BEM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(kernelsCmd)
}

// loadConfig reads the options file through a separate viper instance so
// that only option keys reach the decoder
func loadConfig(path string) (*assembly.Config, error) {
	if path == "" {
		return assembly.DefaultConfig(), nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrConfiguration, err)
	}
	return assembly.ParseOptions(v.AllSettings())
}

func parseKind(name string) (space.Kind, error) {
	switch strings.ToLower(name) {
	case "p0":
		return space.PiecewiseConstant, nil
	case "p1":
		return space.PiecewiseLinearContinuous, nil
	case "dp1":
		return space.PiecewiseLinearDiscontinuous, nil
	}
	return 0, fmt.Errorf("%w: unknown space %q", utils.ErrConfiguration, name)
}

// buildMesh checks the sphere flags before they reach the generator, which
// panics on bad input
func buildMesh(refinements int, radius float64) (*mesh.Mesh, error) {
	if refinements < 0 {
		return nil, fmt.Errorf("%w: --refinements %d is negative", utils.ErrConfiguration, refinements)
	}
	if !(radius > 0) || math.IsInf(radius, 1) {
		return nil, fmt.Errorf("%w: --radius %g must be positive and finite", utils.ErrConfiguration, radius)
	}
	return mesh.NewIcosphere(refinements, radius), nil
}

func runSolve(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true
	result, err := numeric.Parse(viper.GetString("result"))
	if err != nil {
		return err
	}
	switch result {
	case numeric.Float32:
		return solve[float32](result)
	case numeric.Float64:
		return solve[float64](result)
	case numeric.Complex64:
		return solve[complex64](result)
	default:
		return solve[complex128](result)
	}
}

func solve[R numeric.Scalar](result numeric.Type) error {
	logger := utils.Component("bemsolve")

	cfg, err := loadConfig(viper.GetString("options"))
	if err != nil {
		return err
	}
	name, err := operator.ParseKernelName(viper.GetString("kernel"))
	if err != nil {
		return err
	}
	kind, err := parseKind(viper.GetString("space"))
	if err != nil {
		return err
	}
	var method solver.Method
	if err = method.UnmarshalText([]byte(viper.GetString("method"))); err != nil {
		return err
	}
	params := solver.Parameters{
		Method:        method,
		Tolerance:     viper.GetFloat64("tolerance"),
		MaxIterations: viper.GetInt("max-iterations"),
		Restart:       viper.GetInt("restart"),
	}

	basis := result.RealPart()
	strategy, err := quadrature.NewStrategy(basis, result, cfg.Accuracy)
	if err != nil {
		return err
	}
	ctx, err := assembly.NewContext[R](strategy, cfg.Assembly)
	if err != nil {
		return err
	}

	m, err := buildMesh(viper.GetInt("refinements"), viper.GetFloat64("radius"))
	if err != nil {
		return err
	}
	sp, err := space.New(kind, basis, m)
	if err != nil {
		return err
	}
	logger.Info("discretized", "elements", m.NumElements(), "space", sp)

	op, err := operator.New(ctx, name, sp, sp, sp, complex(viper.GetFloat64("k"), viper.GetFloat64("k-imag")))
	if err != nil {
		return err
	}
	g := numeric.FromFloat[R](viper.GetFloat64("rhs"))
	rhs, err := function.FromSurfaceNormalIndependentFunction(ctx, sp, sp,
		func(_ []float64, res []R) { res[0] = g }, function.WorldDimension, function.ScalarDimension)
	if err != nil {
		return err
	}

	s, err := solver.NewIterativeSolver(op, rhs, params)
	if err != nil {
		return err
	}
	res, err := s.Solve()
	if err != nil {
		return err
	}
	norm, err := res.Solution.L2Norm()
	if err != nil {
		return err
	}

	coeffs := res.Solution.Coefficients()
	var mean complex128
	for _, c := range coeffs {
		mean += numeric.ToComplex(c)
	}
	mean /= complex(float64(len(coeffs)), 0)

	fmt.Printf("operator    %s\n", op.Label())
	fmt.Printf("types       %v\n", ctx.Pair())
	fmt.Printf("dofs        %d\n", sp.GlobalDofCount())
	fmt.Printf("method      %v\n", res.Method)
	fmt.Printf("iterations  %d\n", res.Iterations)
	fmt.Printf("residual    %.3e\n", res.ResidualNorm)
	fmt.Printf("elapsed     %v\n", res.Elapsed)
	fmt.Printf("mean(φ)     %v\n", mean)
	fmt.Printf("|φ|_L2      %.6g\n", norm)
	return nil
}
