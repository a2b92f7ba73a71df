// Package resolver expands secret references in handler parameters. A string
// value "env:NAME" is replaced by the environment variable NAME and
// "secret:KEY" by the secret store entry KEY. Other values pass through.
package resolver

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/bnema/alert-bot/internal/domain"
	"github.com/bnema/alert-bot/internal/ports"
)

const (
	envPrefix    = "env:"
	secretPrefix = "secret:"
)

type Resolver struct {
	store     ports.SecretStore
	lookupEnv func(string) (string, bool)
}

var _ ports.ParamResolver = (*Resolver)(nil)

// New returns a resolver backed by store. A nil store makes every secret:
// reference fail.
func New(store ports.SecretStore) *Resolver {
	return &Resolver{store: store, lookupEnv: os.LookupEnv}
}

// Resolve returns a copy of params with every reference replaced. params itself
// is left untouched.
func (r *Resolver) Resolve(ctx context.Context, params map[string]any) (map[string]any, error) {
	if params == nil {
		return nil, nil
	}

	resolved, err := r.resolveValue(ctx, "", params)
	if err != nil {
		return nil, err
	}

	return resolved.(map[string]any), nil
}

func (r *Resolver) resolveValue(ctx context.Context, path string, value any) (any, error) {
	switch v := value.(type) {
	case string:
		return r.resolveString(ctx, path, v)
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			resolved, err := r.resolveValue(ctx, join(path, key), item)
			if err != nil {
				return nil, err
			}
			out[key] = resolved
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			resolved, err := r.resolveValue(ctx, fmt.Sprintf("%s[%d]", path, i), item)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil
	default:
		return value, nil
	}
}

func (r *Resolver) resolveString(ctx context.Context, path, value string) (string, error) {
	switch {
	case strings.HasPrefix(value, envPrefix):
		name := strings.TrimPrefix(value, envPrefix)
		if name == "" {
			return "", fmt.Errorf("parameter %s: %w: %q", path, domain.ErrUnsupportedSecretRef, value)
		}
		resolved, ok := r.lookupEnv(name)
		if !ok {
			return "", fmt.Errorf("parameter %s: environment variable %s: %w", path, name, domain.ErrSecretNotFound)
		}
		return resolved, nil

	case strings.HasPrefix(value, secretPrefix):
		key := strings.TrimPrefix(value, secretPrefix)
		if key == "" {
			return "", fmt.Errorf("parameter %s: %w: %q", path, domain.ErrUnsupportedSecretRef, value)
		}
		if r.store == nil {
			return "", fmt.Errorf("parameter %s: no secret store configured: %w", path, domain.ErrSecretNotFound)
		}
		resolved, err := r.store.Get(ctx, key)
		if err != nil {
			return "", fmt.Errorf("parameter %s: %w", path, err)
		}
		return resolved, nil

	default:
		return value, nil
	}
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
