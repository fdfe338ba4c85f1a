package assembly

import (
	"strings"
	"testing"

	"github.com/notargets/BEMKernel/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemblyOptionsValidate(t *testing.T) {
	require.NoError(t, DefaultAssemblyOptions().Validate())

	testCases := []struct {
		name   string
		mutate func(o *AssemblyOptions)
	}{
		{"ACA", func(o *AssemblyOptions) { o.Mode = ACA }},
		{"UnknownMode", func(o *AssemblyOptions) { o.Mode = Mode(7) }},
		{"ZeroThreads", func(o *AssemblyOptions) { o.MaxThreadCount = 0 }},
		{"NegativeThreads", func(o *AssemblyOptions) { o.MaxThreadCount = -3 }},
		{"UnknownVerbosity", func(o *AssemblyOptions) { o.Verbosity = Verbosity(5) }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			o := DefaultAssemblyOptions()
			tc.mutate(&o)
			assert.ErrorIs(t, o.Validate(), utils.ErrConfiguration)
		})
	}
}

func TestLoadOptions(t *testing.T) {
	doc := `
version: 1
assembly:
  max_thread_count: 2
  verbosity: high
  singular_integral_caching: false
accuracy:
  regular_order: 6
`
	cfg, err := LoadOptions(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, Dense, cfg.Assembly.Mode)
	assert.Equal(t, 2, cfg.Assembly.MaxThreadCount)
	assert.Equal(t, VerbosityHigh, cfg.Assembly.Verbosity)
	assert.False(t, cfg.Assembly.SingularIntegralCaching)
	assert.True(t, cfg.Assembly.SparseStorageOfMassMatrices)
	assert.Equal(t, 6, cfg.Accuracy.RegularOrder)
	assert.Equal(t, 8, cfg.Accuracy.NearSingularOrder)

	testCases := []struct {
		name string
		doc  string
	}{
		{"UnknownAssemblyKey", "version: 1\nassembly:\n  eps: 1e-4\n"},
		{"UnknownAccuracyKey", "version: 1\naccuracy:\n  quadrature_order: 3\n"},
		{"UnknownSection", "version: 1\nsolver:\n  tol: 1\n"},
		{"MissingVersion", "assembly:\n  mode: dense\n"},
		{"FutureVersion", "version: 2\n"},
		{"UnknownMode", "version: 1\nassembly:\n  mode: hmatrix\n"},
		{"ACA", "version: 1\nassembly:\n  mode: aca\n"},
		{"BadOrder", "version: 1\naccuracy:\n  singular_order: -2\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadOptions(strings.NewReader(tc.doc))
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, utils.ErrConfiguration)
		})
	}
}

func TestParseOptions(t *testing.T) {
	cfg, err := ParseOptions(map[string]any{
		"version": 1,
		"assembly": map[string]any{
			"mode":             "dense",
			"max_thread_count": "3",
			"joint_assembly":   true,
		},
		"accuracy": map[string]any{
			"near_field_factor": 1.5,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Assembly.MaxThreadCount)
	assert.True(t, cfg.Assembly.JointAssembly)
	assert.Equal(t, 1.5, cfg.Accuracy.NearFieldFactor)
	assert.Equal(t, 4, cfg.Accuracy.RegularOrder)

	_, err = ParseOptions(map[string]any{
		"version":  1,
		"assembly": map[string]any{"threads": 4},
	})
	assert.ErrorIs(t, err, utils.ErrConfiguration)

	_, err = ParseOptions(map[string]any{
		"version":  1,
		"assembly": map[string]any{"verbosity": "loud"},
	})
	assert.ErrorIs(t, err, utils.ErrConfiguration)
}

func TestVerbosityLogLevel(t *testing.T) {
	assert.Less(t, VerbosityHigh.LogLevel(), VerbosityLow.LogLevel())
	assert.Less(t, VerbosityDefault.LogLevel(), VerbosityHigh.LogLevel())
}
