package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yanNotDev/search-past-papers/internal/core"
	"github.com/yanNotDev/search-past-papers/internal/handlers/command"
	"github.com/yanNotDev/search-past-papers/internal/handlers/file"
	"github.com/yanNotDev/search-past-papers/internal/handlers/git"
	httph "github.com/yanNotDev/search-past-papers/internal/handlers/http"
	"github.com/yanNotDev/search-past-papers/internal/registry"
	"github.com/yanNotDev/search-past-papers/internal/session"
	"github.com/yanNotDev/search-past-papers/internal/subjects"
	"github.com/yanNotDev/search-past-papers/internal/ui"
)

// Exit codes:
//
//	0 = paper saved (or ledger verified)
//	1 = paper not found, download failed or ledger mismatch
//	2 = configuration error or invalid usage
//	130 = cancelled by the user
const (
	exitOK        = 0
	exitFailure   = 1
	exitUsage     = 2
	exitCancelled = 130
)

// exitError carries an exit code. err, if set, is printed to stderr.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func usageError(err error) error { return &exitError{code: exitUsage, err: err} }

type options struct {
	config  string
	out     string
	verbose bool
	plain   bool
	verify  bool
}

type app struct {
	opts   options
	log    *zap.Logger
	stderr io.Writer
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	a := &app{stderr: stderr}

	cmd := &cobra.Command{
		Use:   "spp [identifier]",
		Short: "Download CAIE past papers",
		Long: `spp - search past papers.

Run without any arguments to use the interactive mode.
spp [pdfstring] to directly download the PDF. eg: spp 0625_s19_qp_11

Papers are saved as <identifier>.pdf in the output directory (the current
directory unless configured otherwise).`,
		Example: "  spp\n  spp 0625_s19_qp_11\n  spp --out papers 9702_m21_ms_42.pdf",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return usageError(err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// a missing .env is fine
			_ = godotenv.Load()
			a.log = newLogger(a.stderr, a.opts.verbose)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
		RunE: a.run,
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	f := cmd.Flags()
	f.StringVar(&a.opts.config, "config", core.DefaultConfigPath, "path to config YAML")
	f.StringVarP(&a.opts.out, "out", "o", "", "directory to save papers in (overrides output.dir)")
	f.BoolVarP(&a.opts.verbose, "verbose", "v", false, "log debug information to stderr")
	f.BoolVar(&a.opts.plain, "plain", false, "plain line-based prompts and output, no spinner")
	f.BoolVar(&a.opts.verify, "verify", false, "check saved papers against the ledger and exit")
	return cmd
}

// newLogger writes JSON logs at warn level, or debug when verbose.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), zap.NewAtomicLevelAt(level)))
}

func (a *app) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := core.LoadConfig(a.opts.config, cmd.Flags().Changed("config"))
	if err != nil {
		return usageError(fmt.Errorf("config: %w", err))
	}
	if a.opts.out != "" {
		cfg.Output.Dir = a.opts.out
	}

	reg := registry.New(
		httph.New(cfg.HTTP.Timeout),
		file.New(),
		git.New(),
		command.New(),
	)
	eng, err := core.NewEngine(cfg, reg, a.log)
	if err != nil {
		return usageError(fmt.Errorf("config: %w", err))
	}

	if a.opts.verify {
		if code := eng.Verify(cmd.OutOrStdout()); code != exitOK {
			return &exitError{code: code}
		}
		return nil
	}

	catalog, err := loadCatalog(cfg.Subjects)
	if err != nil {
		return usageError(fmt.Errorf("subjects: %w", err))
	}

	in, out := cmd.InOrStdin(), cmd.OutOrStdout()
	r := &session.Runner{
		Prompter:   newPrompter(in, out, a.opts.plain),
		Status:     newStatus(in, out, a.opts.plain),
		Catalog:    catalog,
		Downloader: eng,
		Log:        a.log,
	}
	if len(args) == 1 {
		_, err = r.RunLiteral(ctx, args[0])
	} else {
		_, err = r.RunInteractive(ctx)
	}
	return err
}

func loadCatalog(path string) (*subjects.Catalog, error) {
	if path == "" {
		return subjects.Default()
	}
	return subjects.Load(path)
}

// terminal reports whether rw is a terminal file.
func terminal(rw any) bool {
	f, ok := rw.(*os.File)
	return ok && ui.IsTerminal(f)
}

func newPrompter(in io.Reader, out io.Writer, plain bool) ui.Prompter {
	if plain || !terminal(in) {
		return ui.NewLinePrompter(in, out)
	}
	return ui.NewPrompter(in, out)
}

func newStatus(in io.Reader, out io.Writer, plain bool) ui.Status {
	if f, ok := out.(*os.File); ok {
		return ui.NewStatus(in, f, plain)
	}
	return ui.NewPlainStatus(out)
}

// execute runs spp with args and returns the process exit code.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stderr)
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	code := exitCode(err)

	var ee *exitError
	if errors.As(err, &ee) && ee.err != nil {
		fmt.Fprintf(stderr, "spp: %v\n", ee.err)
		if ee.code == exitUsage {
			fmt.Fprintln(stderr, "Run 'spp --help' for usage.")
		}
	}
	return code
}

// exitCode maps the error returned by the root command to an exit code.
// Download failures have already been reported by the session.
func exitCode(err error) int {
	var ee *exitError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &ee):
		return ee.code
	case errors.Is(err, ui.ErrCancelled), errors.Is(err, context.Canceled):
		return exitCancelled
	default:
		return exitFailure
	}
}
