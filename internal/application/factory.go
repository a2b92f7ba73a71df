package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/alert-bot/internal/domain"
	"github.com/bnema/alert-bot/internal/ports"
	"go.uber.org/zap"
)

// SkippedHandler records why an instance was not created.
type SkippedHandler struct {
	Name string
	Type string
	Err  error
}

type CreateReport struct {
	Created []string
	Skipped []SkippedHandler
}

type HandlerFactory struct {
	registry *Registry
	resolver ports.ParamResolver
	logger   *zap.Logger
}

func NewHandlerFactory(registry *Registry, resolver ports.ParamResolver, logger *zap.Logger) *HandlerFactory {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &HandlerFactory{registry: registry, resolver: resolver, logger: logger}
}

// Create builds every default and configured handler instance. Configuration
// problems skip the instance; any other constructor failure aborts startup.
func (f *HandlerFactory) Create(ctx context.Context, cfg domain.Config) (CreateReport, error) {
	var report CreateReport

	for _, name := range cfg.InstanceNames() {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		handlerCfg := cfg.HandlerConfigFor(name)
		log := f.logger.With(zap.String("handler", name), zap.String("type", handlerCfg.Type))

		skip := func(err error) {
			report.Skipped = append(report.Skipped, SkippedHandler{Name: name, Type: handlerCfg.Type, Err: err})
		}

		ctor, ok := f.registry.Type(handlerCfg.Type)
		if !ok {
			err := fmt.Errorf("%w: %s", domain.ErrUnknownHandlerType, handlerCfg.Type)
			log.Error("failed to construct handler", zap.Error(err))
			skip(err)
			continue
		}

		params := handlerCfg.Config
		if f.resolver != nil {
			resolved, err := f.resolver.Resolve(ctx, params)
			if err != nil {
				err = fmt.Errorf("%w: resolve parameters: %w", domain.ErrHandlerMisconfigured, err)
				log.Error("could not load handler: misconfigured", zap.Error(err))
				skip(err)
				continue
			}
			params = resolved
		}

		handler, err := ctor(params)
		if err != nil {
			if errors.Is(err, domain.ErrHandlerMisconfigured) {
				log.Error("could not load handler: misconfigured", zap.Error(err))
				skip(err)
				continue
			}
			return report, fmt.Errorf("construct handler %s: %w", name, err)
		}
		if handler == nil {
			return report, fmt.Errorf("construct handler %s: constructor returned no handler", name)
		}

		f.registry.SetInstance(name, handler)
		report.Created = append(report.Created, name)
		log.Info("handler ready")
	}

	return report, nil
}
