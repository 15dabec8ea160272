package logger

import (
	"lms_backend/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		mode string
		lvl  string
		want zap.AtomicLevel
	}{
		{"debug mode wins", "debug", "error", zap.NewAtomicLevelAt(zap.DebugLevel)},
		{"release warn", "release", "warn", zap.NewAtomicLevelAt(zap.WarnLevel)},
		{"invalid falls back", "release", "loud", zap.NewAtomicLevelAt(zap.InfoLevel)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Server.Mode = tt.mode
			cfg.Log.Level = tt.lvl
			assert.Equal(t, tt.want.Level(), ParseLevel(cfg))
		})
	}
}

func TestLogUsableBeforeInit(t *testing.T) {
	assert.NotPanics(t, func() {
		Log.Info("not initialised yet")
	})
}
