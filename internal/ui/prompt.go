package ui

import (
	"context"
	"errors"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yanNotDev/search-past-papers/internal/paper"
)

// ErrCancelled is returned when the user aborts a prompt (Ctrl+C, Esc, end
// of input) or the context is cancelled while one is open.
var ErrCancelled = errors.New("cancelled")

// Prompter asks one question at a time.
type Prompter interface {
	// Select returns the Value of the chosen option.
	Select(ctx context.Context, msg string, options []paper.Option) (string, error)
	// Search lets the user narrow items by typing and returns the chosen item.
	Search(ctx context.Context, msg string, items []string) (string, error)
	// Input reads free text. validate is called on every submission; a
	// non-nil error is shown and the question is asked again.
	Input(ctx context.Context, msg string, validate func(string) error) (string, error)
}

// Filter returns the items containing every whitespace separated term of
// query, ignoring case. An empty query matches everything.
func Filter(items []string, query string) []string {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return items
	}
	var out []string
next:
	for _, it := range items {
		lower := strings.ToLower(it)
		for _, t := range terms {
			if !strings.Contains(lower, t) {
				continue next
			}
		}
		out = append(out, it)
	}
	return out
}

// TermPrompter renders each question as a small bubbletea program.
type TermPrompter struct {
	in  io.Reader
	out io.Writer
}

// NewPrompter returns a TermPrompter reading keys from in and drawing on out.
func NewPrompter(in io.Reader, out io.Writer) *TermPrompter {
	return &TermPrompter{in: in, out: out}
}

func (p *TermPrompter) Select(ctx context.Context, msg string, options []paper.Option) (string, error) {
	if len(options) == 0 {
		return "", errors.New("select: no options")
	}
	final, err := p.run(ctx, newSelectModel(msg, options))
	if err != nil {
		return "", err
	}
	m := final.(selectModel)
	if m.cancelled {
		return "", ErrCancelled
	}
	return m.choice.Value, nil
}

func (p *TermPrompter) Search(ctx context.Context, msg string, items []string) (string, error) {
	if len(items) == 0 {
		return "", errors.New("search: no items")
	}
	final, err := p.run(ctx, newSearchModel(msg, items))
	if err != nil {
		return "", err
	}
	m := final.(searchModel)
	if m.cancelled {
		return "", ErrCancelled
	}
	return m.choice, nil
}

func (p *TermPrompter) Input(ctx context.Context, msg string, validate func(string) error) (string, error) {
	final, err := p.run(ctx, newInputModel(msg, validate))
	if err != nil {
		return "", err
	}
	m := final.(inputModel)
	if m.cancelled {
		return "", ErrCancelled
	}
	return m.value, nil
}

func (p *TermPrompter) run(ctx context.Context, m tea.Model) (tea.Model, error) {
	prog := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)
	final, err := prog.Run()
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, tea.ErrInterrupted) {
			return nil, ErrCancelled
		}
		return nil, err
	}
	return final, nil
}
