// Package logging provides the module's structured logger, a thin
// configuration layer over zap with an optional rotating file sink.
package logging

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileConfig holds rotating-file sink settings.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

var (
	mu  sync.RWMutex
	log = newConsole(zapcore.InfoLevel)
)

func newConsole(lvl zapcore.Level) *zap.Logger {
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		MessageKey:       "msg",
		EncodeTime:       zapcore.TimeEncoderOfLayout("15:04:05"),
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		ConsoleSeparator: " ",
	})
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(os.Stderr), lvl))
}

// Configure replaces the module logger. An empty FileConfig.Path keeps
// output on stderr only.
func Configure(level string, fileCfg FileConfig) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}
	cores := []zapcore.Core{newConsole(lvl).Core()}
	if fileCfg.Path != "" {
		sink := &lumberjack.Logger{
			Filename:   fileCfg.Path,
			MaxSize:    fileCfg.MaxSizeMB,
			MaxBackups: fileCfg.MaxBackups,
			MaxAge:     fileCfg.MaxAgeDays,
		}
		enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(sink), lvl))
	}
	mu.Lock()
	log = zap.New(zapcore.NewTee(cores...))
	mu.Unlock()
	return nil
}

// L returns the current module logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// SetLogger swaps in a caller-supplied logger, e.g. zap.NewNop() in tests.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	log = l
	mu.Unlock()
}
