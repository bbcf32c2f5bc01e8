// Package file serves papers from a local mirror directory laid out the way
// the remote archive is: one "<identifier>.pdf" per document.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/yanNotDev/search-past-papers/internal/registry"
)

type handler struct{}

func New() *handler             { return &handler{} }
func (h *handler) Name() string { return "file" }

func (h *handler) Fetch(ctx context.Context, src registry.Source, id string) ([]byte, error) {
	if src.Path == "" {
		return nil, errors.New("file: missing source.path")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := filepath.Join(src.Path, id+".pdf")
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("file: %s: %w", p, registry.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("file: %w: %v", registry.ErrTransport, err)
	}
	return b, nil
}
