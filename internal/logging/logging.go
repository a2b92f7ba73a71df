package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/alert-bot/internal/domain"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logDirMode    = 0o755
	maxSizeMB     = 10
	maxBackups    = 3
	maxAgeDays    = 14
	levelFieldKey = "level"
)

// ParseLevel accepts zap level names as well as the Python-style names found in
// older config files (WARNING, CRITICAL).
func ParseLevel(raw string) (zapcore.Level, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	switch normalized {
	case "":
		return zapcore.InfoLevel, nil
	case "warning":
		return zapcore.WarnLevel, nil
	case "critical", "fatal":
		return zapcore.FatalLevel, nil
	}

	level, err := zapcore.ParseLevel(normalized)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("parse logging level %q: %w", raw, err)
	}

	return level, nil
}

// New builds the process logger. Console output goes to out; when cfg.File is set
// the same entries are also written as JSON to a size-rotated file.
func New(cfg domain.LoggingConfig, out io.Writer) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = os.Stderr
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.LevelKey = levelFieldKey

	var encoder zapcore.Encoder
	switch strings.ToLower(cfg.Format) {
	case "", domain.LoggingFormatConsole:
		consoleCfg := encoderCfg
		consoleCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(consoleCfg)
	case domain.LoggingFormatJSON:
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	default:
		return nil, fmt.Errorf("unsupported logging format %q", cfg.Format)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(out)), level),
	}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), logDirMode); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		rotated := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), rotated, level))
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}
