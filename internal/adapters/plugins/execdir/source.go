// Package execdir discovers handler plugins as executables named
// alert-bot-handler-<type> inside one directory.
package execdir

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bnema/alert-bot/internal/adapters/handlers/execplugin"
	"github.com/bnema/alert-bot/internal/ports"
)

const Prefix = "alert-bot-handler-"

// NotExecutable describes a plugin candidate that cannot be run. It is loaded
// in place of a constructor so the registry rejects it.
type NotExecutable struct {
	Path string
	Mode os.FileMode
}

type Source struct {
	dir string
}

var _ ports.PluginSource = (*Source)(nil)

func NewSource(dir string) *Source {
	return &Source{dir: dir}
}

// Discover lists plugin candidates in name order. A missing directory yields no
// plugins.
func (s *Source) Discover(ctx context.Context) ([]ports.Plugin, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read plugin dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	plugins := make([]ports.Plugin, 0, len(entries))
	for _, entry := range entries {
		name, ok := strings.CutPrefix(entry.Name(), Prefix)
		if !ok || name == "" || entry.IsDir() {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		plugins = append(plugins, ports.Plugin{
			Name:   name,
			Source: path,
			Load:   func() (any, error) { return load(path) },
		})
	}

	return plugins, nil
}

func load(path string) (any, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat plugin: %w", err)
	}
	if !info.Mode().IsRegular() || info.Mode().Perm()&0o111 == 0 {
		return NotExecutable{Path: path, Mode: info.Mode()}, nil
	}

	return execplugin.Constructor(path), nil
}
