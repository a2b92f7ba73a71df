package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/bnema/alert-bot/internal/adapters/handlers/builtin"
	"github.com/bnema/alert-bot/internal/adapters/plugins/execdir"
	statusadapter "github.com/bnema/alert-bot/internal/adapters/render/status"
	tomlrepo "github.com/bnema/alert-bot/internal/adapters/repo/toml"
	chainstore "github.com/bnema/alert-bot/internal/adapters/secrets/chain"
	"github.com/bnema/alert-bot/internal/adapters/secrets/resolver"
	"github.com/bnema/alert-bot/internal/application"
	"github.com/bnema/alert-bot/internal/domain"
	"github.com/bnema/alert-bot/internal/ports"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	dotEnvFile = ".env"
	secretsDir = "secrets"
)

// app carries what every command needs. The configuration itself is loaded per
// command because the --config flag is only known after parsing.
type app struct {
	settings       *viper.Viper
	statusRenderer func(application.Status) (string, error)
	httpClient     *http.Client
	clock          ports.Clock
}

type loadedConfig struct {
	repo   *tomlrepo.Repository
	config domain.Config
}

func wireApp(settings *viper.Viper) *app {
	return &app{
		settings:       settings,
		statusRenderer: statusadapter.Render,
		httpClient:     http.DefaultClient,
		clock:          ports.SystemClock{},
	}
}

// loadConfig resolves the config path, loads the .env file next to it and reads
// the configuration, writing defaults on first use.
func (a *app) loadConfig(ctx context.Context) (loadedConfig, error) {
	repo, err := tomlrepo.NewRepository(a.settings)
	if err != nil {
		return loadedConfig{}, fmt.Errorf("wire config repository: %w", err)
	}

	if err := loadDotEnv(filepath.Join(repo.Dir(), dotEnvFile)); err != nil {
		return loadedConfig{}, err
	}

	cfg, err := application.NewConfigService(repo).Load(ctx)
	if err != nil {
		return loadedConfig{}, err
	}

	return loadedConfig{repo: repo, config: cfg}, nil
}

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}

	return nil
}

// newRegistry registers the built-in handler types and, when enabled, the
// executables found in the plugin directory.
func (a *app) newRegistry(ctx context.Context, cfg domain.Config, logger *zap.Logger) (*application.Registry, error) {
	registry := application.NewRegistry(logger)
	builtin.Register(registry, logger)

	if cfg.Tool.AllowPlugins {
		count, err := registry.DiscoverPlugins(ctx, execdir.NewSource(cfg.Tool.PluginDir))
		if err != nil {
			return nil, err
		}
		logger.Debug("plugins registered", zap.Int("count", count), zap.String("dir", cfg.Tool.PluginDir))
	}

	return registry, nil
}

func (a *app) paramResolver(loaded loadedConfig) (ports.ParamResolver, error) {
	store, err := chainstore.NewPassFirstWithFileFallback(filepath.Join(loaded.repo.Dir(), secretsDir))
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	return resolver.New(store), nil
}
