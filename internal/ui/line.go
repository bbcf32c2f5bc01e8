package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yanNotDev/search-past-papers/internal/paper"
)

// LinePrompter asks questions one line at a time. Options are numbered and
// may be answered by number or by name.
type LinePrompter struct {
	sc  *bufio.Scanner
	out io.Writer
}

// NewLinePrompter returns a LinePrompter reading answers from in.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{sc: bufio.NewScanner(in), out: out}
}

// readLine returns ErrCancelled at end of input.
func (p *LinePrompter) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", ErrCancelled
	}
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return "", err
		}
		return "", ErrCancelled
	}
	return strings.TrimSpace(p.sc.Text()), nil
}

func (p *LinePrompter) Select(ctx context.Context, msg string, options []paper.Option) (string, error) {
	if len(options) == 0 {
		return "", errors.New("select: no options")
	}
	fmt.Fprintf(p.out, "? %s\n", msg)
	for i, o := range options {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, o.Name)
	}
	for {
		fmt.Fprintf(p.out, "Choice [1-%d]: ", len(options))
		line, err := p.readLine(ctx)
		if err != nil {
			return "", err
		}
		if o, ok := pick(options, line); ok {
			return o.Value, nil
		}
		fmt.Fprintf(p.out, "> %q is not one of the choices\n", line)
	}
}

func pick(options []paper.Option, answer string) (paper.Option, bool) {
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(options) {
		return options[n-1], true
	}
	for _, o := range options {
		if strings.EqualFold(o.Name, answer) {
			return o, true
		}
	}
	return paper.Option{}, false
}

func (p *LinePrompter) Search(ctx context.Context, msg string, items []string) (string, error) {
	if len(items) == 0 {
		return "", errors.New("search: no items")
	}
	for {
		fmt.Fprintf(p.out, "? %s: ", msg)
		query, err := p.readLine(ctx)
		if err != nil {
			return "", err
		}
		matches := Filter(items, query)
		switch {
		case len(matches) == 0:
			fmt.Fprintf(p.out, "> no subject matches %q\n", query)
		case len(matches) == 1:
			return matches[0], nil
		default:
			opts := make([]paper.Option, len(matches))
			for i, m := range matches {
				opts[i] = paper.Option{Name: m, Value: m}
			}
			return p.Select(ctx, "Pick a subject", opts)
		}
	}
}

func (p *LinePrompter) Input(ctx context.Context, msg string, validate func(string) error) (string, error) {
	for {
		fmt.Fprintf(p.out, "? %s: ", msg)
		line, err := p.readLine(ctx)
		if err != nil {
			return "", err
		}
		if validate != nil {
			if err := validate(line); err != nil {
				fmt.Fprintf(p.out, "> %s\n", err)
				continue
			}
		}
		return line, nil
	}
}
