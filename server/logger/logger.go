package logger

import (
	"os"
	"sync"

	"github.com/vitahq/vita/shared"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	coreMu     sync.RWMutex
	activeCore = newCore(shared.LogConfig{})
)

// NewLogger returns a logger writing through the shared core, so loggers
// created at package init also follow a later Configure call.
func NewLogger() *zap.SugaredLogger {
	return zap.New(&sharedCore{}, zap.AddCaller(), zap.Development()).Sugar()
}

// Configure swaps the core behind every logger. When 'cfg.File' is set
// every entry is also written as JSON to a size-rotated log file.
func Configure(cfg shared.LogConfig) {
	core := newCore(cfg)

	coreMu.Lock()
	defer coreMu.Unlock()

	activeCore.Sync()
	activeCore = core
}

func newCore(cfg shared.LogConfig) zapcore.Core {
	consoleConfig := zap.NewDevelopmentEncoderConfig()
	consoleConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	console := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleConfig), zapcore.Lock(os.Stderr), zap.DebugLevel)

	if cfg.File == "" {
		return console
	}

	fileConfig := zap.NewProductionEncoderConfig()
	fileConfig.TimeKey = "timestamp"
	fileConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	writer := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    valueOrDefault(cfg.MaxSizeMB, 100),
		MaxBackups: valueOrDefault(cfg.MaxBackups, 3),
		Compress:   true,
	}

	return zapcore.NewTee(
		console,
		zapcore.NewCore(zapcore.NewJSONEncoder(fileConfig), zapcore.AddSync(writer), zap.InfoLevel),
	)
}

func currentCore() zapcore.Core {
	coreMu.RLock()
	defer coreMu.RUnlock()

	return activeCore
}

// sharedCore forwards every entry to the active core
type sharedCore struct {
	fields []zapcore.Field
}

func (c *sharedCore) Enabled(level zapcore.Level) bool {
	return currentCore().Enabled(level)
}

func (c *sharedCore) With(fields []zapcore.Field) zapcore.Core {
	combined := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	combined = append(combined, c.fields...)
	return &sharedCore{fields: append(combined, fields...)}
}

func (c *sharedCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	return c.target().Check(entry, checked)
}

func (c *sharedCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	return c.target().Write(entry, fields)
}

func (c *sharedCore) Sync() error {
	return currentCore().Sync()
}

func (c *sharedCore) target() zapcore.Core {
	core := currentCore()
	if len(c.fields) > 0 {
		core = core.With(c.fields)
	}
	return core
}

func valueOrDefault(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}
