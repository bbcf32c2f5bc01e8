package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yanNotDev/search-past-papers/internal/registry"
)

func TestHandler_Name(t *testing.T) {
	h := New()
	if got := h.Name(); got != "file" {
		t.Errorf("Name() = %v, want file", got)
	}
}

func TestHandler_Fetch(t *testing.T) {
	mirror := t.TempDir()
	ctx := context.Background()
	h := New()

	content := "%PDF-1.4 mirrored"
	if err := os.WriteFile(filepath.Join(mirror, "0620_w18_gt.pdf"), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to create mirror file: %v", err)
	}

	t.Run("successful fetch", func(t *testing.T) {
		got, err := h.Fetch(ctx, registry.Source{Path: mirror}, "0620_w18_gt")
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if string(got) != content {
			t.Errorf("Fetch() content = %q, want %q", got, content)
		}
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := h.Fetch(ctx, registry.Source{}, "0620_w18_gt")
		if err == nil {
			t.Error("Fetch() expected error for missing path, got nil")
		}
	})

	t.Run("document not in mirror", func(t *testing.T) {
		_, err := h.Fetch(ctx, registry.Source{Path: mirror}, "0620_w18_er")
		if !errors.Is(err, registry.ErrNotFound) {
			t.Errorf("Fetch() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := h.Fetch(cctx, registry.Source{Path: mirror}, "0620_w18_gt")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Fetch() error = %v, want context.Canceled", err)
		}
	})
}
