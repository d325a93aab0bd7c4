package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestNewLoggerLevelSelection(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		debugOn bool
	}{
		{"explicit debug", Config{ServiceName: "reelist", Environment: "prod", Level: "debug"}, true},
		{"explicit warn", Config{ServiceName: "reelist", Environment: "dev", Level: "warn"}, false},
		{"unset level in dev", Config{ServiceName: "reelist", Environment: "dev"}, true},
		{"unset level in prod", Config{ServiceName: "reelist", Environment: "prod"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logger := NewLogger(tc.cfg)
			if got := logger.Enabled(context.Background(), slog.LevelDebug); got != tc.debugOn {
				t.Fatalf("debug enabled = %v, want %v", got, tc.debugOn)
			}
		})
	}
}
