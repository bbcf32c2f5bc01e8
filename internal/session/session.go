// Package session drives one run of spp: it asks for a paper (or takes a
// literal identifier), downloads it and reports the outcome.
package session

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/yanNotDev/search-past-papers/internal/core"
	"github.com/yanNotDev/search-past-papers/internal/paper"
	"github.com/yanNotDev/search-past-papers/internal/registry"
	"github.com/yanNotDev/search-past-papers/internal/subjects"
	"github.com/yanNotDev/search-past-papers/internal/ui"
)

// Messages shown to the user.
const (
	msgBoard    = "Select a board"
	msgSubject  = "Enter subject name/code"
	msgYear     = "Enter year"
	msgSession  = "Select a session"
	msgType     = "Select a paper type"
	msgPaper    = "Enter paper number"
	msgVariant  = "Select a variant"
	msgDownload = "Downloading PDF"
	msgNotFound = "This document does not exist, try again"
)

// Downloader fetches a paper by identifier. *core.Engine implements it.
type Downloader interface {
	Fetch(ctx context.Context, id string) (*core.Result, error)
	OutputDir() string
}

// Runner holds what a session needs. All fields except Log are required.
type Runner struct {
	Prompter   ui.Prompter
	Status     ui.Status
	Catalog    *subjects.Catalog
	Downloader Downloader
	Log        *zap.Logger
}

func (r *Runner) log() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

// Collect asks the questions of the interactive mode in order and returns
// the answers. The paper number is only asked for numbered document types;
// the variant additionally not for the Feb/Mar session, which has one.
func (r *Runner) Collect(ctx context.Context) (paper.Selection, error) {
	var sel paper.Selection

	board, err := r.Prompter.Select(ctx, msgBoard, paper.Boards())
	if err != nil {
		return sel, err
	}
	sel.Board = paper.Board(board)

	if sel.Subject, err = r.Prompter.Search(ctx, msgSubject, r.Catalog.For(sel.Board)); err != nil {
		return sel, err
	}
	if sel.Year, err = r.Prompter.Input(ctx, msgYear, paper.ValidateYear); err != nil {
		return sel, err
	}

	session, err := r.Prompter.Select(ctx, msgSession, paper.SessionsFor(sel.Board))
	if err != nil {
		return sel, err
	}
	sel.Session = paper.Session(session)

	typ, err := r.Prompter.Select(ctx, msgType, paper.DocTypes())
	if err != nil {
		return sel, err
	}
	sel.Type = paper.DocType(typ)

	if !sel.Type.Numbered() {
		return sel, nil
	}
	if sel.Paper, err = r.Prompter.Input(ctx, msgPaper, paper.ValidatePaper); err != nil {
		return sel, err
	}
	if sel.Session == paper.FebMarch {
		sel.Variant = paper.FebMarchVariant
		return sel, nil
	}
	sel.Variant, err = r.Prompter.Select(ctx, msgVariant, paper.Variants())
	return sel, err
}

// RunInteractive asks for a paper and downloads it. When the archive does
// not have the document the questions start over from the board; any other
// failure ends the session.
func (r *Runner) RunInteractive(ctx context.Context) (*core.Result, error) {
	for attempt := 1; ; attempt++ {
		sel, err := r.Collect(ctx)
		if err != nil {
			return nil, err
		}
		id := paper.Build(sel)
		r.log().Debug("selection complete", zap.Int("round", attempt), zap.String("id", id))

		res, err := r.download(ctx, id)
		if errors.Is(err, registry.ErrNotFound) {
			continue
		}
		return res, err
	}
}

// RunLiteral downloads the paper named by a command-line argument such as
// "0625_s19_qp_11" or "0625_s19_qp_11.pdf". There is no retry.
func (r *Runner) RunLiteral(ctx context.Context, arg string) (*core.Result, error) {
	return r.download(ctx, paper.FromLiteral(arg))
}

// download fetches id under the status spinner and reports the outcome.
func (r *Runner) download(ctx context.Context, id string) (*core.Result, error) {
	var res *core.Result
	err := r.Status.Track(ctx, msgDownload, func(ctx context.Context) error {
		var err error
		res, err = r.Downloader.Fetch(ctx, id)
		return err
	})

	switch {
	case err == nil:
		r.Status.Success(fmt.Sprintf("PDF saved to %s as %s.pdf", r.Downloader.OutputDir(), id))
		return res, nil
	case errors.Is(err, ui.ErrCancelled):
		return nil, err
	case errors.Is(err, registry.ErrNotFound):
		r.Status.Error(msgNotFound)
		return nil, err
	default:
		r.log().Error("download failed", zap.String("id", id), zap.Error(err))
		r.Status.Error(fmt.Sprintf("Download of %s failed: %v", id, err))
		return nil, err
	}
}
