package ports

import (
	"context"

	"github.com/bnema/alert-bot/internal/domain"
)

type ConfigRepository interface {
	Path() string
	Exists() (bool, error)
	Load(ctx context.Context) (domain.Config, error)
	Save(ctx context.Context, cfg domain.Config) error
}
