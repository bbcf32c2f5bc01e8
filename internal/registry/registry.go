// Package registry defines the contract between spp and the places a paper
// can be downloaded from.
//
// A source handler (http, file, git, command) implements Fetcher and is added
// to a Registry by the program's entry point. The engine looks handlers up by
// the type name found in the configuration.
//
// Key concepts:
//   - Registry is a plain value created with New; nothing registers itself
//     behind the caller's back, so tests can build a registry holding only
//     fakes
//   - A handler reports a missing document with ErrNotFound and a broken
//     transport with ErrTransport, so callers can tell "does not exist" from
//     "could not ask"
package registry

import (
	"context"
	"errors"
	"sort"
)

// Source is the configuration of one download location. Not all fields are
// used by all handlers.
type Source struct {
	Type     string `yaml:"type"`               // Handler type: "http", "file", "git" or "command"
	URL      string `yaml:"url,omitempty"`      // URL template ({{id}}) for http, repository URL for git
	Sentinel string `yaml:"sentinel,omitempty"` // http: final URL that means "no such document"
	Path     string `yaml:"path,omitempty"`     // Mirror directory for file, directory inside the repository for git
	Ref      string `yaml:"ref,omitempty"`      // Git ref (branch/tag) for git

	// Command handler specific fields
	FetchCmd string `yaml:"fetch_cmd,omitempty"` // Command that writes the paper to {{dest}}
}

var (
	// ErrNotFound means the source answered and the document does not exist.
	ErrNotFound = errors.New("document does not exist")

	// ErrTransport means the source could not be reached or read.
	ErrTransport = errors.New("transport failure")

	// ErrStatus means the source answered with an error status.
	ErrStatus = errors.New("unexpected response status")
)

// Fetcher is the interface that all source handlers implement.
type Fetcher interface {
	// Name returns the handler's type identifier, matched against Source.Type.
	Name() string

	// Fetch downloads the document with the given identifier and returns its
	// bytes. It issues a single attempt and does not retry. A document the
	// source does not have is reported as ErrNotFound (possibly wrapped).
	Fetch(ctx context.Context, src Source, id string) ([]byte, error)
}

// Registry holds the available handlers by name.
type Registry struct {
	fetchers map[string]Fetcher
}

// New returns a registry containing fs.
func New(fs ...Fetcher) *Registry {
	r := &Registry{fetchers: map[string]Fetcher{}}
	for _, f := range fs {
		r.Register(f)
	}
	return r
}

// Register adds f, replacing any handler with the same name. The zero
// Registry is ready to use.
func (r *Registry) Register(f Fetcher) {
	if r.fetchers == nil {
		r.fetchers = map[string]Fetcher{}
	}
	r.fetchers[f.Name()] = f
}

// Get retrieves a handler by its type name.
func (r *Registry) Get(kind string) (Fetcher, bool) {
	f, ok := r.fetchers[kind]
	return f, ok
}

// Names lists the registered handler names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.fetchers))
	for n := range r.fetchers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
