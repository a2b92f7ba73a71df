package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bnema/alert-bot/internal/domain"
	"github.com/bnema/alert-bot/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	ConfigPathKey   = "config.path"
	EnvPrefix       = "ALERT_BOT"
	configDirName   = "alert-bot"
	configFileName  = "config.toml"
	configFileMode  = 0o600
	configDirMode   = 0o700
	tempFilePattern = ".config-*.toml.tmp"
	pluginDirName   = "plugins"
)

// Repository loads and saves the TOML configuration file. The path comes from
// viper: an explicit config.path value, then ALERT_BOT_CONFIG_PATH, then the
// XDG default.
type Repository struct {
	path string
	mu   *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.ConfigRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	defaultPath, err := DefaultPath()
	if err != nil {
		return nil, err
	}

	cfg.SetEnvPrefix(EnvPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := cfg.BindEnv(ConfigPathKey); err != nil {
		return nil, fmt.Errorf("bind config path env: %w", err)
	}
	cfg.SetDefault(ConfigPathKey, defaultPath)

	path := cfg.GetString(ConfigPathKey)
	if path == "" {
		return nil, errors.New("config path is empty")
	}
	path, err = normalizePath(path)
	if err != nil {
		return nil, err
	}

	return &Repository{path: path, mu: lockForPath(path)}, nil
}

// DefaultPath is $XDG_CONFIG_HOME/alert-bot/config.toml, falling back to
// ~/.config/alert-bot/config.toml.
func DefaultPath() (string, error) {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, configDirName, configFileName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", configDirName, configFileName), nil
}

func (r *Repository) Path() string {
	return r.path
}

func (r *Repository) Dir() string {
	return filepath.Dir(r.path)
}

// Exists reports whether the configuration file is present.
func (r *Repository) Exists() (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, err := os.Stat(r.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat config file: %w", err)
	}

	return true, nil
}

// Load reads the configuration file. A missing file is created with the
// defaults. An empty plugin_dir resolves to the plugins directory next to the
// file.
func (r *Repository) Load(ctx context.Context) (domain.Config, error) {
	if err := ctx.Err(); err != nil {
		return domain.Config{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, found, err := r.readSchema()
	if err != nil {
		return domain.Config{}, err
	}
	if !found {
		if err := r.writeSchema(file); err != nil {
			return domain.Config{}, err
		}
	}

	cfg := fromSchema(file)
	if cfg.Tool.PluginDir == "" {
		cfg.Tool.PluginDir = filepath.Join(r.Dir(), pluginDirName)
	}

	return cfg, nil
}

func (r *Repository) Save(ctx context.Context, cfg domain.Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	file := toSchema(cfg)
	file.applyDefaults()
	if err := file.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.writeSchema(file)
}

func (r *Repository) readSchema() (fileSchema, bool, error) {
	file := defaultSchema()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return file, false, nil
		}
		return fileSchema{}, false, fmt.Errorf("read config file: %w", err)
	}

	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, false, fmt.Errorf("decode config file %s: %w", r.path, err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, false, err
	}
	file.applyDefaults()
	if err := file.validate(); err != nil {
		return fileSchema{}, false, err
	}

	return file, true, nil
}

func normalizePath(path string) (string, error) {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(homeDir, rest)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.path), configDirMode); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode config file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp config file: %w", err)
	}

	if err := tempFile.Chmod(configFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp config file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp config file: %w", err)
	}

	if err := os.Rename(tempName, r.path); err != nil {
		return fmt.Errorf("replace config file: %w", err)
	}

	cleanup = false

	return nil
}
