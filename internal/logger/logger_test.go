package logger

import (
	"testing"

	"gyandeep/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestGetBeforeInitializeIsUsable(t *testing.T) {
	assert.NotNil(t, Get())
	Get().Info("logged to nowhere")
}

func TestInitializeLevels(t *testing.T) {
	tests := map[string]struct {
		cfg       config.LoggerConfig
		wantDebug bool
	}{
		"debug console":   {cfg: config.LoggerConfig{Level: "debug", Env: "development"}, wantDebug: true},
		"info production": {cfg: config.LoggerConfig{Level: "info", Env: "production"}, wantDebug: false},
		"unknown level":   {cfg: config.LoggerConfig{Level: "loud"}, wantDebug: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, Initialize(tc.cfg))
			assert.Equal(t, tc.wantDebug, Get().Core().Enabled(zapcore.DebugLevel))
			assert.True(t, Get().Core().Enabled(zapcore.ErrorLevel))
		})
	}
}
