package ports

import (
	"context"

	"github.com/bnema/alert-bot/internal/domain"
)

// AlertHandler delivers one record. Implementations may perform arbitrary side
// effects and may fail; the dispatcher logs failures and carries on.
type AlertHandler interface {
	Handle(ctx context.Context, record domain.Record) error
}

// HandlerConstructor builds a handler instance from its configured parameters.
// Errors wrapping domain.ErrHandlerMisconfigured mark a configuration problem.
type HandlerConstructor func(params map[string]any) (AlertHandler, error)

// Plugin is one handler type advertised by a PluginSource. Load returns the
// value to validate against the handler capability.
type Plugin struct {
	Name   string
	Source string
	Load   func() (any, error)
}

type PluginSource interface {
	Discover(ctx context.Context) ([]Plugin, error)
}
