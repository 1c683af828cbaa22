package app

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/searchktools/mini-server/config"
)

func TestNewLoggerLevel(t *testing.T) {
	tests := []struct {
		level string
		env   string
		want  zerolog.Level
	}{
		{"debug", "development", zerolog.DebugLevel},
		{"warn", "production", zerolog.WarnLevel},
		{"", "production", zerolog.InfoLevel},
		{"bogus", "development", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		logger := NewLogger(&config.Config{LogLevel: tt.level, Env: tt.env})
		if got := logger.GetLevel(); got != tt.want {
			t.Errorf("level %q: expected %v, got %v", tt.level, tt.want, got)
		}
	}
}

func TestNewBuildsEngine(t *testing.T) {
	cfg := &config.Config{Port: 0, PoolSize: 2, LogLevel: "error", Env: "production"}

	application := New(cfg)
	if application.Engine() == nil {
		t.Fatal("Expected engine")
	}

	stats := application.Engine().Stats()
	if stats.Workers.NumWorkers != 2 {
		t.Errorf("Expected 2 workers, got %d", stats.Workers.NumWorkers)
	}
	if err := application.Engine().Close(); err != nil {
		t.Errorf("Close error: %v", err)
	}
}
