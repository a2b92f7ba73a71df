// Package builtin lists the handler types compiled into alert-bot.
package builtin

import (
	"github.com/bnema/alert-bot/internal/adapters/handlers/console"
	"github.com/bnema/alert-bot/internal/adapters/handlers/logger"
	"github.com/bnema/alert-bot/internal/adapters/handlers/notify"
	"github.com/bnema/alert-bot/internal/adapters/handlers/telegram"
	"github.com/bnema/alert-bot/internal/adapters/handlers/webhook"
	"github.com/bnema/alert-bot/internal/ports"
	"go.uber.org/zap"
)

// Type is one built-in handler type. A nil Available means always available.
type Type struct {
	Name      string
	Ctor      ports.HandlerConstructor
	Available func() error
}

type Registrar interface {
	RegisterIfAvailable(name string, ctor ports.HandlerConstructor, available func() error)
}

func Types(log *zap.Logger) []Type {
	return []Type{
		{Name: console.TypeName, Ctor: console.New},
		{Name: logger.TypeName, Ctor: logger.Constructor(log)},
		{Name: telegram.TypeName, Ctor: telegram.New},
		{Name: webhook.TypeName, Ctor: webhook.New},
		{Name: notify.TypeName, Ctor: notify.New, Available: notify.Available},
	}
}

// Register adds every built-in type to r.
func Register(r Registrar, log *zap.Logger) {
	for _, t := range Types(log) {
		r.RegisterIfAvailable(t.Name, t.Ctor, t.Available)
	}
}
