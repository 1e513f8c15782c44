// Package logging builds the zap logger shared by the CLI and the server.
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls log level, format and optional file rotation.
type Config struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level" default:"info" validate:"oneof=debug info warn error"`
	// JSON selects the JSON encoder instead of the console one.
	JSON bool `mapstructure:"json"`
	// File, when set, sends logs to a rotated file instead of stderr.
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" default:"100" validate:"min=1"`
	MaxBackups int    `mapstructure:"max_backups" default:"3" validate:"min=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" default:"28" validate:"min=0"`
	Compress   bool   `mapstructure:"compress"`
}

// New creates a logger from cfg.  Output goes to stderr unless File is
// set.  The returned closer releases the rotation writer.
func New(cfg Config) (*zap.Logger, io.Closer, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: %w", err)
	}
	w := sink(cfg)
	return newWithWriter(cfg, level, w), w, nil
}

type writeCloser interface {
	zapcore.WriteSyncer
	io.Closer
}

// rotating adapts lumberjack to zapcore.WriteSyncer.  lumberjack writes
// straight to the file, so Sync has nothing to flush.
type rotating struct{ *lumberjack.Logger }

func (rotating) Sync() error { return nil }

type stderr struct{}

func (stderr) Write(p []byte) (int, error) { return os.Stderr.Write(p) }
func (stderr) Sync() error                 { return nil }
func (stderr) Close() error                { return nil }

func sink(cfg Config) writeCloser {
	if cfg.File == "" {
		return stderr{}
	}
	return rotating{&lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}}
}

func newWithWriter(cfg Config, level zapcore.Level, w zapcore.WriteSyncer) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if cfg.JSON {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, w, zap.NewAtomicLevelAt(level))
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}
