package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tictac-arena/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInitSetsLevelAndFile(t *testing.T) {
	prevLevel := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(prevLevel)
	defer Init(config.LogConfig{Level: "info"})

	path := filepath.Join(t.TempDir(), "arena.log")
	Init(config.LogConfig{Level: "warn", File: path, MaxMB: 1})

	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Fatalf("global level = %v, want warn", zerolog.GlobalLevel())
	}
	log.Warn().Str("session_id", "s1").Msg("grace_armed")

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "grace_armed") {
		t.Fatalf("expected log file to contain message, got %q", string(b))
	}
}

func TestInitUnknownLevelFallsBackToInfo(t *testing.T) {
	prevLevel := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(prevLevel)

	Init(config.LogConfig{Level: "loud"})
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Fatalf("global level = %v, want info", zerolog.GlobalLevel())
	}
	if Writer() != os.Stdout {
		t.Fatal("expected stdout writer without LOG_FILE")
	}
}
