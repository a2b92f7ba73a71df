package application

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bnema/alert-bot/internal/ports"
	"go.uber.org/zap"
)

// Registry maps handler type names to constructors and handler instance names to
// constructed handlers. Both tables are filled during startup and only read once
// the daemon loop runs.
type Registry struct {
	mu        sync.RWMutex
	types     map[string]ports.HandlerConstructor
	instances map[string]ports.AlertHandler
	logger    *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Registry{
		types:     make(map[string]ports.HandlerConstructor),
		instances: make(map[string]ports.AlertHandler),
		logger:    logger,
	}
}

// RegisterType binds name to ctor. A later registration for the same name wins.
func (r *Registry) RegisterType(name string, ctor ports.HandlerConstructor) {
	if name == "" || ctor == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[name] = ctor
}

// RegisterIfAvailable registers ctor only when available reports no error. An
// unavailable type is left out silently apart from a debug entry.
func (r *Registry) RegisterIfAvailable(name string, ctor ports.HandlerConstructor, available func() error) {
	if available != nil {
		if err := available(); err != nil {
			r.logger.Debug("handler type unavailable", zap.String("type", name), zap.Error(err))
			return
		}
	}

	r.RegisterType(name, ctor)
}

// DiscoverPlugins loads every plugin advertised by source and registers the ones
// that provide an alert handler. Plugins that fail to load or provide something
// else are skipped with a warning.
func (r *Registry) DiscoverPlugins(ctx context.Context, source ports.PluginSource) (int, error) {
	plugins, err := source.Discover(ctx)
	if err != nil {
		return 0, fmt.Errorf("discover plugins: %w", err)
	}

	registered := 0
	for _, plugin := range plugins {
		log := r.logger.With(zap.String("plugin", plugin.Name), zap.String("source", plugin.Source))
		if plugin.Name == "" || plugin.Load == nil {
			log.Warn("cannot register handler: incomplete plugin descriptor")
			continue
		}

		loaded, err := plugin.Load()
		if err != nil {
			log.Warn("cannot register handler: plugin failed to load", zap.Error(err))
			continue
		}

		ctor, ok := asConstructor(loaded)
		if !ok {
			log.Warn("cannot register handler: is not an alert handler", zap.String("kind", fmt.Sprintf("%T", loaded)))
			continue
		}

		r.RegisterType(plugin.Name, ctor)
		log.Debug("registered plugin handler type")
		registered++
	}

	return registered, nil
}

func asConstructor(loaded any) (ports.HandlerConstructor, bool) {
	switch v := loaded.(type) {
	case ports.HandlerConstructor:
		return v, v != nil
	case func(map[string]any) (ports.AlertHandler, error):
		return v, v != nil
	case ports.AlertHandler:
		return func(map[string]any) (ports.AlertHandler, error) { return v, nil }, true
	default:
		return nil, false
	}
}

func (r *Registry) Type(name string) (ports.HandlerConstructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ctor, ok := r.types[name]
	return ctor, ok
}

func (r *Registry) Instance(name string) (ports.AlertHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handler, ok := r.instances[name]
	return handler, ok
}

func (r *Registry) SetInstance(name string, handler ports.AlertHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances[name] = handler
}

func (r *Registry) TypeNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return sortedKeys(r.types)
}

func (r *Registry) InstanceNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return sortedKeys(r.instances)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}
