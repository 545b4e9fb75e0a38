package logging

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap sugared logger with the small surface the pipeline
// uses: plain info lines, verbose-only lines, and timing helpers.
type Logger struct {
	sugar   *zap.SugaredLogger
	verbose bool
}

// New builds a console logger writing to stderr. Verbose enables debug-level
// output and timing measurements.
func New(verbose bool) Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true

	base, err := cfg.Build()
	if err != nil {
		// zap's development config cannot fail to build with these options.
		base = zap.NewNop()
	}

	return Logger{sugar: base.Sugar(), verbose: verbose}
}

// Nop returns a logger that discards everything; test helper.
func Nop() Logger {
	return Logger{sugar: zap.NewNop().Sugar()}
}

func (l Logger) Infof(format string, args ...any) {
	if l.sugar == nil {
		return
	}
	l.sugar.Infof(format, args...)
}

func (l Logger) Warnf(format string, args ...any) {
	if l.sugar == nil {
		return
	}
	l.sugar.Warnf(format, args...)
}

func (l Logger) Verbosef(format string, args ...any) {
	if l.sugar == nil {
		return
	}
	l.sugar.Debugf(format, args...)
}

// Measure returns a stop function that logs the elapsed time when called.
func (l Logger) Measure(label string) func() {
	if !l.verbose || l.sugar == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		elapsed := time.Since(start).Round(time.Millisecond)
		l.sugar.Debugf("%s took %s", label, elapsed)
	}
}

// Sync flushes buffered log entries.
func (l Logger) Sync() {
	if l.sugar != nil {
		_ = l.sugar.Sync()
	}
}
