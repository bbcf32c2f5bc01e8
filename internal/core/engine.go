package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/yanNotDev/search-past-papers/internal/registry"
)

// Engine downloads papers from the configured sources.
type Engine struct {
	cfg *Config
	reg *registry.Registry
	log *zap.Logger
	now func() time.Time
}

// Result describes a saved paper.
type Result struct {
	ID     string // identifier
	Path   string // where the PDF was written
	Source string // type of the source that had it
	SHA256 string
	Size   int
}

// NewEngine checks that every configured source has a handler in reg.
func NewEngine(cfg *Config, reg *registry.Registry, log *zap.Logger) (*Engine, error) {
	for i, src := range cfg.Sources {
		if _, ok := reg.Get(src.Type); !ok {
			return nil, fmt.Errorf("source %d: unknown type %q (have %v)", i, src.Type, reg.Names())
		}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{cfg: cfg, reg: reg, log: log, now: time.Now}, nil
}

// OutputDir returns the absolute directory papers are written to.
func (e *Engine) OutputDir() string {
	if abs, err := filepath.Abs(e.cfg.Output.Dir); err == nil {
		return abs
	}
	return e.cfg.Output.Dir
}

// Fetch downloads the paper with identifier id and saves it as
// "<output.dir>/<id>.pdf".
//
// Sources are asked in configuration order and the first payload wins. If
// every source reports the document missing, the error wraps
// registry.ErrNotFound. Any other failure is returned (aggregated across
// sources) so a transport problem is never mistaken for a missing paper.
// Nothing is written unless a payload was received.
func (e *Engine) Fetch(ctx context.Context, id string) (*Result, error) {
	log := e.log.With(zap.String("attempt", uuid.NewString()), zap.String("id", id))

	var errs error
	for i, src := range e.cfg.Sources {
		f, ok := e.reg.Get(src.Type)
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("source %d: unknown type %q", i, src.Type))
			continue
		}

		log.Debug("requesting paper", zap.Int("source", i), zap.String("type", src.Type))
		body, err := f.Fetch(ctx, src, id)
		switch {
		case err == nil:
			res, err := e.save(id, src.Type, body)
			if err != nil {
				return nil, err
			}
			log.Info("paper saved", zap.String("path", res.Path), zap.Int("bytes", res.Size))
			return res, nil
		case errors.Is(err, registry.ErrNotFound):
			log.Debug("source does not have paper", zap.Int("source", i), zap.Error(err))
		default:
			log.Warn("source failed", zap.Int("source", i), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("source %d (%s): %w", i, src.Type, err))
		}
		if ctx.Err() != nil {
			break
		}
	}

	if errs != nil {
		return nil, errs
	}
	return nil, fmt.Errorf("%s: %w", id, registry.ErrNotFound)
}

func (e *Engine) save(id, source string, body []byte) (*Result, error) {
	path := filepath.Join(e.cfg.Output.Dir, id+".pdf")
	if err := writeFileAtomic(path, body); err != nil {
		return nil, fmt.Errorf("save %s: %w", path, err)
	}
	res := &Result{ID: id, Path: path, Source: source, SHA256: HashBytes(body), Size: len(body)}

	if e.cfg.Ledger != "" {
		if err := e.record(res); err != nil {
			// The paper is on disk; a stale ledger only affects Verify.
			e.log.Warn("ledger update failed", zap.String("ledger", e.cfg.Ledger), zap.Error(err))
		}
	}
	return res, nil
}

func (e *Engine) record(res *Result) error {
	l, err := readLedger(e.cfg.Ledger)
	if err != nil {
		return err
	}
	file, err := filepath.Abs(res.Path)
	if err != nil {
		file = res.Path
	}
	now := e.now().UTC()
	l.Version = 1
	l.Updated = &now
	l.Papers[res.ID] = &Entry{
		File:      file,
		SHA256:    res.SHA256,
		Size:      res.Size,
		Source:    res.Source,
		FetchedAt: &now,
	}
	return writeLedger(e.cfg.Ledger, l)
}

// Verify rehashes every paper in the ledger and prints one line per paper.
// Returns an exit code (0 ok, 1 missing or changed papers, 2 no ledger).
func (e *Engine) Verify(w io.Writer) int {
	if e.cfg.Ledger == "" {
		fmt.Fprintln(w, "no ledger configured (set 'ledger' in the config or SPP_LEDGER)")
		return 2
	}
	l, err := readLedger(e.cfg.Ledger)
	if err != nil {
		fmt.Fprintf(w, "ledger error: %v\n", err)
		return 2
	}

	ids := make([]string, 0, len(l.Papers))
	for id := range l.Papers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	exit := 0
	for _, id := range ids {
		entry := l.Papers[id]
		if !fileExists(entry.File) {
			fmt.Fprintf(w, "[MISS] %s: %s not found\n", id, entry.File)
			exit = 1
			continue
		}
		h, err := HashFile(entry.File)
		if err != nil {
			fmt.Fprintf(w, "[ERR ] %s: hash: %v\n", id, err)
			exit = 1
			continue
		}
		if h != entry.SHA256 {
			fmt.Fprintf(w, "[FAIL] %s: changed (ledger=%s now=%s)\n", id, short(entry.SHA256), short(h))
			exit = 1
			continue
		}
		fmt.Fprintf(w, "[OK  ] %s\n", id)
	}
	return exit
}

func short(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
