// Package subjects holds the subject lists shown in the subject picker.
//
// The built-in catalog is embedded from subjects.yaml. A replacement catalog
// in the same format can be loaded from disk. Labels must end in a
// parenthesised four character syllabus code because paper.SubjectCode takes
// the code from the last six characters of the label; Validate rejects any
// label that would break that rule.
package subjects

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/yanNotDev/search-past-papers/internal/paper"
)

//go:embed subjects.yaml
var builtin []byte

// labelPattern matches "<description> (<code>)".
var labelPattern = regexp.MustCompile(`^\S.* \([A-Za-z0-9]{4}\)$`)

// Catalog maps each board to its subject labels, in display order.
type Catalog struct {
	IGCSE  []string `yaml:"igcse"`
	OLevel []string `yaml:"olvls"`
	ALevel []string `yaml:"alvls"`
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(builtin)
}

// Load reads a catalog file from disk.
func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// For returns the labels for board b, or nil for an unknown board.
func (c *Catalog) For(b paper.Board) []string {
	switch b {
	case paper.IGCSE:
		return c.IGCSE
	case paper.OLevel:
		return c.OLevel
	case paper.ALevel:
		return c.ALevel
	}
	return nil
}

// Validate checks that every board has subjects and every label carries a
// code that paper.SubjectCode can extract.
func (c *Catalog) Validate() error {
	for _, opt := range paper.Boards() {
		b := paper.Board(opt.Value)
		labels := c.For(b)
		if len(labels) == 0 {
			return fmt.Errorf("subjects: no subjects for board %q", b)
		}
		for _, label := range labels {
			if !labelPattern.MatchString(label) {
				return fmt.Errorf("subjects: %s: label %q must end in \" (XXXX)\"", b, label)
			}
		}
	}
	return nil
}
