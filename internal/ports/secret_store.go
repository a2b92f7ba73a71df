package ports

import "context"

type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
}

// ParamResolver replaces secret references inside handler parameters.
type ParamResolver interface {
	Resolve(ctx context.Context, params map[string]any) (map[string]any, error)
}
