// Package command fetches papers by running a user supplied shell command.
//
// The command is expected to write the document to {{dest}} (also exported as
// $DEST). Placeholders: {{id}}, {{url}} (source.url with {{id}} expanded),
// {{path}}, {{ref}} and {{dest}}. A command that succeeds without producing a
// file reports the document as missing.
package command

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yanNotDev/search-past-papers/internal/registry"
	runrt "github.com/yanNotDev/search-past-papers/internal/runtime"
)

type handler struct{}

func New() *handler             { return &handler{} }
func (h *handler) Name() string { return "command" }

func (h *handler) Fetch(ctx context.Context, src registry.Source, id string) ([]byte, error) {
	if strings.TrimSpace(src.FetchCmd) == "" {
		return nil, errors.New("command: missing fetch_cmd")
	}
	dir, err := os.MkdirTemp("", "spp-command-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	dest := filepath.Join(dir, id+".pdf")
	env := []string{"ID=" + id, "DEST=" + dest}
	if _, err := runrt.RunShell(ctx, substitute(src.FetchCmd, src, id, dest), env); err != nil {
		return nil, fmt.Errorf("command: %w: %v", registry.ErrTransport, err)
	}

	b, err := os.ReadFile(dest)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && len(b) == 0) {
		return nil, fmt.Errorf("command: no output for %s: %w", id, registry.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func substitute(tmpl string, src registry.Source, id, dest string) string {
	r := strings.NewReplacer(
		"{{id}}", id,
		"{{url}}", strings.ReplaceAll(src.URL, "{{id}}", id),
		"{{path}}", src.Path,
		"{{ref}}", src.Ref,
		"{{dest}}", dest,
	)
	return r.Replace(tmpl)
}
