// Package observability builds the process logger.
package observability

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/illuscio-dev/mimerender-go/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/xerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogger builds a zap.Logger from logConfig and sets it as the global logger.
// File outputs rotate through lumberjack when rotation is enabled. The caller should
// defer logger.Sync().
func SetupLogger(logConfig config.LogConfig) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(ParseLevel(logConfig.Level))

	encoderConfig := encoderConfig(logConfig.Development)
	var encoder zapcore.Encoder
	if strings.ToLower(logConfig.Format) == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	cores := make([]zapcore.Core, 0, len(logConfig.Outputs))
	for _, output := range logConfig.Outputs {
		syncer, err := writeSyncer(output, logConfig.Rotation)
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(encoder, syncer, level))
	}

	options := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)}
	if logConfig.Development {
		options = append(options, zap.Development())
	}

	logger := zap.New(zapcore.NewTee(cores...), options...)
	zap.ReplaceGlobals(logger)
	return logger, nil
}

// ParseLevel maps a configured level name to a zap level, defaulting to info.
func ParseLevel(name string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zap.DebugLevel
	case "warn", "warning":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

func writeSyncer(output string, rotation config.RotationConfig) (zapcore.WriteSyncer, error) {
	switch strings.ToLower(output) {
	case "stdout":
		return zapcore.AddSync(os.Stdout), nil
	case "stderr":
		return zapcore.AddSync(os.Stderr), nil
	}

	if rotation.Enable {
		filename := output
		if strings.TrimSpace(rotation.Filename) != "" {
			filename = rotation.Filename
		}
		return zapcore.AddSync(&lumberjack.Logger{
			Filename:   filename,
			MaxSize:    atLeast(rotation.MaxSizeMB, 10),
			MaxBackups: atLeast(rotation.MaxBackups, 1),
			MaxAge:     atLeast(rotation.MaxAgeDays, 7),
			Compress:   rotation.Compress,
		}), nil
	}

	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, xerrors.Errorf("create log dir: %w", err)
		}
	}
	file, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, xerrors.Errorf("open log output: %w", err)
	}
	return zapcore.AddSync(file), nil
}

func encoderConfig(development bool) zapcore.EncoderConfig {
	if development {
		encoderConfig := zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return encoderConfig
	}
	return zap.NewProductionEncoderConfig()
}

func atLeast(value int, floor int) int {
	if value > floor {
		return value
	}
	return floor
}
