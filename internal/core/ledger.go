package core

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Ledger records the papers spp has downloaded, keyed by identifier.
type Ledger struct {
	Version int               `yaml:"version"`
	Updated *time.Time        `yaml:"updated,omitempty"`
	Papers  map[string]*Entry `yaml:"papers"`
}

// Entry is one downloaded paper.
type Entry struct {
	File      string     `yaml:"file"`
	SHA256    string     `yaml:"sha256"`
	Size      int        `yaml:"size"`
	Source    string     `yaml:"source"`
	FetchedAt *time.Time `yaml:"fetched_at,omitempty"`
}

// readLedger returns an empty ledger when the file does not exist yet.
func readLedger(path string) (*Ledger, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Ledger{Version: 1, Papers: map[string]*Entry{}}, nil
	}
	if err != nil {
		return nil, err
	}
	var l Ledger
	if err := yaml.Unmarshal(b, &l); err != nil {
		return nil, err
	}
	if l.Papers == nil {
		l.Papers = map[string]*Entry{}
	}
	return &l, nil
}

func writeLedger(path string, l *Ledger) error {
	b, err := yaml.Marshal(l)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, b)
}
