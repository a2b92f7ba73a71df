package application

import (
	"context"
	"fmt"

	"github.com/bnema/alert-bot/internal/domain"
	"github.com/bnema/alert-bot/internal/ports"
)

// ConfigService backs the config commands and the configuration every other
// command starts from.
type ConfigService struct {
	repo ports.ConfigRepository
}

func NewConfigService(repo ports.ConfigRepository) *ConfigService {
	return &ConfigService{repo: repo}
}

func (s *ConfigService) Path() string {
	return s.repo.Path()
}

// Load returns the configuration, writing defaults when the file is missing.
func (s *ConfigService) Load(ctx context.Context) (domain.Config, error) {
	cfg, err := s.repo.Load(ctx)
	if err != nil {
		return domain.Config{}, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

// Init writes the default configuration. An existing file is left alone unless
// force is set; written reports whether anything was saved.
func (s *ConfigService) Init(ctx context.Context, force bool) (written bool, err error) {
	if !force {
		exists, err := s.repo.Exists()
		if err != nil {
			return false, err
		}
		if exists {
			return false, nil
		}
	}

	if err := s.repo.Save(ctx, domain.DefaultConfig()); err != nil {
		return false, fmt.Errorf("save config: %w", err)
	}

	return true, nil
}
