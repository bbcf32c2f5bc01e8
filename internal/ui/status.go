package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// Status reports the progress of long running work.
type Status interface {
	// Track runs work while showing text. It returns what work returned, or
	// ErrCancelled if the user interrupted it.
	Track(ctx context.Context, text string, work func(context.Context) error) error
	Success(text string)
	Error(text string)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewStatus returns a spinner when out is a terminal and plain is false, and
// a PlainStatus otherwise.
func NewStatus(in io.Reader, out *os.File, plain bool) Status {
	if plain || !IsTerminal(out) {
		return NewPlainStatus(out)
	}
	return &SpinnerStatus{in: in, out: out}
}

// SpinnerStatus animates a spinner next to the text while work runs.
type SpinnerStatus struct {
	in  io.Reader
	out io.Writer
}

type workDoneMsg struct{ err error }

type trackModel struct {
	spinner     spinner.Model
	text        string
	cancel      context.CancelFunc
	err         error
	finished    bool
	interrupted bool
}

func newTrackModel(text string, cancel context.CancelFunc) trackModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle
	return trackModel{spinner: sp, text: text, cancel: cancel}
}

func (m trackModel) Init() tea.Cmd { return m.spinner.Tick }

func (m trackModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case workDoneMsg:
		m.finished = true
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		// the work gets cancelled; quit once it has returned
		if msg.String() == "ctrl+c" && !m.interrupted {
			m.interrupted = true
			m.cancel()
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m trackModel) View() string {
	if m.finished {
		return ""
	}
	return m.spinner.View() + " " + m.text + "\n"
}

// Track returns only after work has returned, also when the program ends
// early because ctx was cancelled.
func (s *SpinnerStatus) Track(ctx context.Context, text string, work func(context.Context) error) error {
	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	prog := tea.NewProgram(newTrackModel(text, cancel),
		tea.WithContext(ctx),
		tea.WithInput(s.in),
		tea.WithOutput(s.out),
	)
	result := make(chan error, 1)
	go func() {
		err := work(workCtx)
		result <- err
		// a no-op once the program has exited
		prog.Send(workDoneMsg{err: err})
	}()

	final, err := prog.Run()
	if err != nil {
		cancel()
		<-result
		if ctx.Err() != nil || errors.Is(err, tea.ErrInterrupted) {
			return ErrCancelled
		}
		return err
	}

	workErr := <-result
	if final.(trackModel).interrupted || (workErr != nil && ctx.Err() != nil) {
		return ErrCancelled
	}
	return workErr
}

func (s *SpinnerStatus) Success(text string) {
	fmt.Fprintln(s.out, successStyle.Render("✔ "+text))
}

func (s *SpinnerStatus) Error(text string) {
	fmt.Fprintln(s.out, errorStyle.Render("✖ "+text))
}

// PlainStatus writes one line per event.
type PlainStatus struct {
	out io.Writer
}

// NewPlainStatus returns a PlainStatus writing to out.
func NewPlainStatus(out io.Writer) *PlainStatus {
	return &PlainStatus{out: out}
}

func (s *PlainStatus) Track(ctx context.Context, text string, work func(context.Context) error) error {
	fmt.Fprintf(s.out, "%s...\n", text)
	if err := work(ctx); err != nil {
		if ctx.Err() != nil {
			return ErrCancelled
		}
		return err
	}
	return nil
}

func (s *PlainStatus) Success(text string) { fmt.Fprintf(s.out, "[OK  ] %s\n", text) }

func (s *PlainStatus) Error(text string) { fmt.Fprintf(s.out, "[FAIL] %s\n", text) }
