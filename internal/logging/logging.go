package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"tictac-arena/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	writerMu sync.RWMutex
	writer   io.Writer = os.Stdout
	fileOut  *sizeLimitedWriter
)

// Init configures the global zerolog logger. It is safe to call more than
// once; a previously opened log file is closed first.
func Init(cfg config.LogConfig) {
	level := zerolog.InfoLevel
	if v := strings.TrimSpace(cfg.Level); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	writerMu.Lock()
	if fileOut != nil {
		_ = fileOut.Close()
		fileOut = nil
	}
	var base io.Writer = os.Stdout
	var fileErr error
	if cfg.File != "" {
		w, err := newSizeLimitedWriter(cfg.File, cfg.MaxMB)
		if err != nil {
			fileErr = err
		} else {
			fileOut = w
			base = io.MultiWriter(os.Stdout, w)
		}
	}
	writer = base
	writerMu.Unlock()

	var output io.Writer = base
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: base}
	}

	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(output).With().Timestamp().Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger
	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", cfg.File).Msg("log file unavailable; stdout only")
	}
}

// Writer returns the raw sink chosen by Init, for loggers outside zerolog.
func Writer() io.Writer {
	writerMu.RLock()
	defer writerMu.RUnlock()
	return writer
}
