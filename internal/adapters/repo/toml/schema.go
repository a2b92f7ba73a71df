package toml

import (
	"fmt"

	"github.com/bnema/alert-bot/internal/domain"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version  int                      `toml:"version"`
	Tool     toolSchema               `toml:"tool"`
	Handlers map[string]handlerSchema `toml:"handlers,omitempty"`
}

type toolSchema struct {
	FIFOPath      string   `toml:"fifo_path"`
	Handlers      []string `toml:"handlers"`
	PIDFile       string   `toml:"pid_file"`
	AllowPlugins  bool     `toml:"allow_plugins"`
	PluginDir     string   `toml:"plugin_dir"`
	MetricsAddr   string   `toml:"metrics_addr"`
	LoggingLevel  string   `toml:"logging_level"`
	LoggingFormat string   `toml:"logging_format"`
	LogFile       string   `toml:"log_file"`
}

type handlerSchema struct {
	Type   string         `toml:"type"`
	Config map[string]any `toml:"config,omitempty"`
}

// defaultSchema is the starting point for decoding so keys missing from the file
// keep their default values.
func defaultSchema() fileSchema {
	return toSchema(domain.DefaultConfig())
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
	if s.Tool.Handlers == nil {
		s.Tool.Handlers = []string{}
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported config schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

func (s fileSchema) validate() error {
	if s.Tool.FIFOPath == "" {
		return fmt.Errorf("%w: tool.fifo_path is empty", domain.ErrInvalidConfig)
	}
	if s.Tool.PIDFile == "" {
		return fmt.Errorf("%w: tool.pid_file is empty", domain.ErrInvalidConfig)
	}
	switch s.Tool.LoggingFormat {
	case domain.LoggingFormatConsole, domain.LoggingFormatJSON:
	default:
		return fmt.Errorf("%w: tool.logging_format %q is not console or json", domain.ErrInvalidConfig, s.Tool.LoggingFormat)
	}

	return nil
}

func toSchema(cfg domain.Config) fileSchema {
	handlers := make(map[string]handlerSchema, len(cfg.Handlers))
	for name, hc := range cfg.Handlers {
		handlers[name] = handlerSchema{Type: hc.Type, Config: hc.Config}
	}

	return fileSchema{
		Version: currentSchemaVersion,
		Tool: toolSchema{
			FIFOPath:      cfg.Tool.ChannelPath,
			Handlers:      append([]string{}, cfg.Tool.DefaultHandlers...),
			PIDFile:       cfg.Tool.PIDFile,
			AllowPlugins:  cfg.Tool.AllowPlugins,
			PluginDir:     cfg.Tool.PluginDir,
			MetricsAddr:   cfg.Tool.MetricsAddr,
			LoggingLevel:  cfg.Tool.Logging.Level,
			LoggingFormat: cfg.Tool.Logging.Format,
			LogFile:       cfg.Tool.Logging.File,
		},
		Handlers: handlers,
	}
}

func fromSchema(s fileSchema) domain.Config {
	handlers := make(map[string]domain.HandlerConfig, len(s.Handlers))
	for name, hs := range s.Handlers {
		config := hs.Config
		if config == nil {
			config = map[string]any{}
		}
		handlerType := hs.Type
		if handlerType == "" {
			handlerType = name
		}
		handlers[name] = domain.HandlerConfig{Type: handlerType, Config: config}
	}

	return domain.Config{
		Tool: domain.ToolConfig{
			ChannelPath:     s.Tool.FIFOPath,
			DefaultHandlers: append([]string{}, s.Tool.Handlers...),
			PIDFile:         s.Tool.PIDFile,
			AllowPlugins:    s.Tool.AllowPlugins,
			PluginDir:       s.Tool.PluginDir,
			MetricsAddr:     s.Tool.MetricsAddr,
			Logging: domain.LoggingConfig{
				Level:  s.Tool.LoggingLevel,
				Format: s.Tool.LoggingFormat,
				File:   s.Tool.LogFile,
			},
		},
		Handlers: handlers,
	}
}
