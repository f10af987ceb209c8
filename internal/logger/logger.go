package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/artepuradesign/xapipainel-sub004/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Init configura o logger global do zerolog.
func Init(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	log.Logger = zerolog.New(Writer(cfg)).With().Timestamp().Logger()
}

// Writer monta a saída: console legível ou JSON, e arquivo rotacionado quando LOG_FILE existir.
func Writer(cfg config.LogConfig) io.Writer {
	var out io.Writer = os.Stderr
	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	if cfg.File == "" {
		return out
	}

	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	// arquivo sempre em JSON
	return zerolog.MultiLevelWriter(out, file)
}
