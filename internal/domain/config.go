package domain

import "sort"

const (
	DefaultChannelPath   = "/tmp/alert-bot.fifo"
	DefaultPIDFile       = "/tmp/alert-bot-daemon.pid"
	DefaultLoggingLevel  = "INFO"
	DefaultLoggingFormat = "console"
	DefaultHandlerLogger = "logger"
	LoggingFormatJSON    = "json"
	LoggingFormatConsole = "console"
)

type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

type ToolConfig struct {
	ChannelPath     string
	DefaultHandlers []string
	PIDFile         string
	AllowPlugins    bool
	PluginDir       string
	MetricsAddr     string
	Logging         LoggingConfig
}

// HandlerConfig describes how to construct one handler instance. Config is passed
// verbatim to the constructor registered for Type.
type HandlerConfig struct {
	Type   string
	Config map[string]any
}

type Config struct {
	Tool     ToolConfig
	Handlers map[string]HandlerConfig
}

func DefaultToolConfig() ToolConfig {
	return ToolConfig{
		ChannelPath:     DefaultChannelPath,
		DefaultHandlers: []string{DefaultHandlerLogger},
		PIDFile:         DefaultPIDFile,
		Logging: LoggingConfig{
			Level:  DefaultLoggingLevel,
			Format: DefaultLoggingFormat,
		},
	}
}

func DefaultConfig() Config {
	return Config{
		Tool:     DefaultToolConfig(),
		Handlers: map[string]HandlerConfig{},
	}
}

// HandlerConfigFor returns the explicit config for an instance name, or a config
// whose type is the instance name itself.
func (c Config) HandlerConfigFor(instance string) HandlerConfig {
	if hc, ok := c.Handlers[instance]; ok {
		if hc.Config == nil {
			hc.Config = map[string]any{}
		}
		return hc
	}

	return HandlerConfig{Type: instance, Config: map[string]any{}}
}

// InstanceNames is the set of handler instances to build: every default handler
// and every configured entry.
func (c Config) InstanceNames() []string {
	configured := make([]string, 0, len(c.Handlers))
	for name := range c.Handlers {
		configured = append(configured, name)
	}
	sort.Strings(configured)

	return DispatchSet(c.Tool.DefaultHandlers, configured)
}
