package registry

import (
	"context"
	"fmt"
	"testing"
)

// mockFetcher is a test implementation of the Fetcher interface
type mockFetcher struct {
	name string
}

func (m *mockFetcher) Name() string {
	return m.name
}

func (m *mockFetcher) Fetch(ctx context.Context, src Source, id string) ([]byte, error) {
	return []byte(m.name + ":" + id), nil
}

func TestRegister(t *testing.T) {
	t.Run("register new handler", func(t *testing.T) {
		r := New()
		r.Register(&mockFetcher{name: "test-handler"})

		got, ok := r.Get("test-handler")
		if !ok {
			t.Fatal("handler not found in registry after Register")
		}
		if got.Name() != "test-handler" {
			t.Errorf("handler name = %q, want %q", got.Name(), "test-handler")
		}
	})

	t.Run("zero value registry", func(t *testing.T) {
		var r Registry
		if _, ok := r.Get("file"); ok {
			t.Error("empty registry returned a handler")
		}
		if names := r.Names(); len(names) != 0 {
			t.Errorf("Names() = %v, want empty", names)
		}
		r.Register(&mockFetcher{name: "file"})
		if _, ok := r.Get("file"); !ok {
			t.Fatal("handler not found after Register on zero Registry")
		}
	})

	t.Run("New registers its arguments", func(t *testing.T) {
		r := New(&mockFetcher{name: "handler1"}, &mockFetcher{name: "handler2"}, &mockFetcher{name: "handler3"})

		for _, n := range []string{"handler1", "handler2", "handler3"} {
			if _, ok := r.Get(n); !ok {
				t.Errorf("%s not found", n)
			}
		}
	})

	t.Run("register overwrites existing handler", func(t *testing.T) {
		first := &mockFetcher{name: "overwrite"}
		second := &mockFetcher{name: "overwrite"}

		r := New(first)
		r.Register(second)

		got, ok := r.Get("overwrite")
		if !ok {
			t.Fatal("overwrite not found")
		}
		if got != Fetcher(second) {
			t.Error("Get() returned the first handler, want the second")
		}
	})

	t.Run("registries are independent", func(t *testing.T) {
		a := New(&mockFetcher{name: "only-in-a"})
		b := New()
		if _, ok := b.Get("only-in-a"); ok {
			t.Error("handler registered in one registry leaked into another")
		}
		if _, ok := a.Get("only-in-a"); !ok {
			t.Error("handler missing from its own registry")
		}
	})
}

func TestGet(t *testing.T) {
	r := New(&mockFetcher{name: "get-test-registered"})

	t.Run("get existing handler", func(t *testing.T) {
		handler, ok := r.Get("get-test-registered")
		if !ok {
			t.Fatal("Get() ok = false, want true")
		}
		body, err := handler.Fetch(context.Background(), Source{}, "0580_s19_qp_11")
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if string(body) != "get-test-registered:0580_s19_qp_11" {
			t.Errorf("Fetch() = %q", body)
		}
	})

	t.Run("get non-existent handler", func(t *testing.T) {
		_, ok := r.Get("definitely-does-not-exist-12345")
		if ok {
			t.Error("Get() ok = true, want false for non-existent handler")
		}
	})
}

func TestNames(t *testing.T) {
	r := New(&mockFetcher{name: "http"}, &mockFetcher{name: "file"}, &mockFetcher{name: "git"})
	got := fmt.Sprint(r.Names())
	if got != "[file git http]" {
		t.Errorf("Names() = %s, want [file git http]", got)
	}
}
