// Package logger implements the logger handler, which writes each record to
// the daemon's structured log.
package logger

import (
	"context"
	"fmt"

	"github.com/bnema/alert-bot/internal/adapters/handlers/params"
	"github.com/bnema/alert-bot/internal/adapters/wire"
	"github.com/bnema/alert-bot/internal/domain"
	"github.com/bnema/alert-bot/internal/logging"
	"github.com/bnema/alert-bot/internal/ports"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const TypeName = "logger"

type Params struct {
	Level string `param:"level"`
}

type Handler struct {
	logger *zap.Logger
	level  zapcore.Level
}

var _ ports.AlertHandler = (*Handler)(nil)

// Constructor returns the logger type's constructor bound to base.
func Constructor(base *zap.Logger) ports.HandlerConstructor {
	return func(raw map[string]any) (ports.AlertHandler, error) {
		var p Params
		if err := params.Decode(raw, &p); err != nil {
			return nil, err
		}

		level := zapcore.InfoLevel
		if p.Level != "" {
			parsed, err := logging.ParseLevel(p.Level)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", domain.ErrHandlerMisconfigured, err)
			}
			level = parsed
		}
		// records never terminate the daemon
		if level > zapcore.ErrorLevel {
			level = zapcore.ErrorLevel
		}

		return New(base, level), nil
	}
}

func New(base *zap.Logger, level zapcore.Level) *Handler {
	if base == nil {
		base = zap.NewNop()
	}

	return &Handler{logger: base.Named("handler"), level: level}
}

func (h *Handler) Handle(_ context.Context, record domain.Record) error {
	if ce := h.logger.Check(h.level, "received record"); ce != nil {
		ce.Write(
			zap.String("subject", record.Subject),
			zap.String("body", record.Body),
			zap.String("timestamp", wire.FormatTimestamp(record.Timestamp)),
		)
	}

	return nil
}
