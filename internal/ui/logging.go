package ui

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	Debug bool
	s     *zap.SugaredLogger
}

func NewLogger(debug bool) *Logger {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Sampling = nil
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	z, err := cfg.Build()
	if err != nil {
		z = zap.NewNop()
	}

	return &Logger{Debug: debug, s: z.Sugar()}
}

// NewLoggerFrom wraps an existing zap logger, e.g. an observer core in tests.
func NewLoggerFrom(z *zap.Logger, debug bool) *Logger {
	return &Logger{Debug: debug, s: z.Sugar()}
}

func Nop() *Logger {
	return &Logger{s: zap.NewNop().Sugar()}
}

func (l *Logger) Debugf(format string, args ...any) {
	if l.Debug {
		l.s.Debugf(format, args...)
	}
}

func (l *Logger) Infof(format string, args ...any) {
	l.s.Infof(format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.s.Warnf(format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.s.Errorf(format, args...)
}

func (l *Logger) Sync() {
	_ = l.s.Sync()
}
