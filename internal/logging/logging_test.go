package logging_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/joe/fetch-files/internal/logging"
)

func TestSetup_LevelFiltering(t *testing.T) {
	tests := []struct {
		level       string
		wantDebug   bool
		wantWarning bool
	}{
		{level: "debug", wantDebug: true, wantWarning: true},
		{level: "info", wantDebug: false, wantWarning: true},
		{level: "warn", wantDebug: false, wantWarning: true},
		{level: "error", wantDebug: false, wantWarning: false},
		{level: "bogus", wantDebug: false, wantWarning: true}, // falls back to info
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := logging.Setup(tt.level, "text")

			ctx := context.Background()
			if got := logger.Enabled(ctx, slog.LevelDebug); got != tt.wantDebug {
				t.Errorf("Enabled(debug) = %v, want %v", got, tt.wantDebug)
			}
			if got := logger.Enabled(ctx, slog.LevelWarn); got != tt.wantWarning {
				t.Errorf("Enabled(warn) = %v, want %v", got, tt.wantWarning)
			}
		})
	}
}

func TestSetup_InstallsDefaultLogger(t *testing.T) {
	logger := logging.Setup("info", "json")

	if slog.Default() != logger {
		t.Error("Setup should install the returned logger as the default")
	}
}
