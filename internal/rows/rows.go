// Package rows loads participant comment rows from already-mapped
// input files. Column-mapping validation is the upstream collaborator's
// concern; loaders here read fixed columns only.
package rows

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/AIObjectives/tttc-light-js-sub001/internal/domain"
)

// Loader parses one input format into source rows.
type Loader interface {
	Name() string
	Load(ctx context.Context, r io.Reader) ([]domain.SourceRow, error)
}

// Registry keeps a mapping from format names to their loaders.
type Registry struct {
	loaders map[string]Loader
}

// NewRegistry builds a registry with the built-in loaders.
func NewRegistry() *Registry {
	registry := &Registry{loaders: map[string]Loader{}}
	registry.Register(JSONLoader{})
	registry.Register(CSVLoader{})
	return registry
}

// Register adds or replaces a loader implementation.
func (r *Registry) Register(loader Loader) {
	if r.loaders == nil {
		r.loaders = map[string]Loader{}
	}
	r.loaders[loader.Name()] = loader
}

// Resolve returns a loader by format name or an error if it is absent.
func (r *Registry) Resolve(name string) (Loader, error) {
	if loader, ok := r.loaders[name]; ok {
		return loader, nil
	}
	return nil, fmt.Errorf("row format %s is not registered", name)
}

// LoadFile picks the loader from the file extension and reads the rows.
func (r *Registry) LoadFile(ctx context.Context, path string) ([]domain.SourceRow, error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	loader, err := r.Resolve(format)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rows file: %w", err)
	}
	defer f.Close()

	rows, err := loader.Load(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("load %s rows from %s: %w", format, path, err)
	}
	return rows, nil
}
