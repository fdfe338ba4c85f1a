package utils

import (
	"bytes"
	"os"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name, level string
		want        log.Level
	}{
		{"Empty", "", log.InfoLevel},
		{"Debug", "debug", log.DebugLevel},
		{"UpperCase", "WARN", log.WarnLevel},
		{"Padded", " error ", log.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.level)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	_, err := ParseLevel("verbose")
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.ErrorIs(t, err, log.ErrInvalidLevel)
}

func TestConfigure(t *testing.T) {
	logger := Logger
	t.Cleanup(func() {
		Logger.SetOutput(os.Stderr)
		Logger.SetLevel(log.InfoLevel)
	})
	t.Setenv("BEM_LOG_LEVEL", "")

	var buf bytes.Buffer
	require.NoError(t, Configure("warn", &buf))
	assert.Same(t, logger, Logger)
	assert.Equal(t, log.WarnLevel, Logger.GetLevel())

	Component("test").Info("hidden")
	Component("test").Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "component=test")

	assert.ErrorIs(t, Configure("loud", &bytes.Buffer{}), ErrConfiguration)
	assert.Equal(t, log.WarnLevel, Logger.GetLevel())

	t.Setenv("BEM_LOG_LEVEL", "debug")
	require.NoError(t, Configure("", &buf))
	assert.Equal(t, log.DebugLevel, Logger.GetLevel())
}
