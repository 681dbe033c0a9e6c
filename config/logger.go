package config

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel maps the --verbose counter to a zap level.
func LogLevel(verbose int) zapcore.Level {
	switch {
	case verbose >= 3:
		return zapcore.DebugLevel
	case verbose == 2:
		return zapcore.InfoLevel
	default:
		return zapcore.WarnLevel
	}
}

// NewLogger builds a console logger writing to stderr.
func NewLogger(verbose int) *zap.Logger {
	return newLogger(os.Stderr, verbose)
}

func newLogger(w io.Writer, verbose int) *zap.Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoder := zapcore.NewConsoleEncoder(encoderConfig)

	core := zapcore.NewCore(
		encoder,
		zapcore.AddSync(w),
		LogLevel(verbose),
	)

	return zap.New(core)
}
