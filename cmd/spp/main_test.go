package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanNotDev/search-past-papers/internal/core"
	"github.com/yanNotDev/search-past-papers/internal/registry"
	"github.com/yanNotDev/search-past-papers/internal/ui"
)

// fakeArchive serves the listed papers and redirects everything else to the
// landing page, like papacambridge does.
func fakeArchive(t *testing.T, papers ...string) *httptest.Server {
	t.Helper()
	have := map[string]bool{}
	for _, p := range papers {
		have["/upload/"+p+".pdf"] = true
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/upload/", func(w http.ResponseWriter, r *http.Request) {
		if !have[r.URL.Path] {
			http.Redirect(w, r, "/home/index.html", http.StatusFound)
			return
		}
		fmt.Fprintf(w, "%%PDF %s", strings.TrimPrefix(r.URL.Path, "/upload/"))
	})
	mux.HandleFunc("/home/index.html", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>home</html>"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// setup isolates the test from the developer's environment and points the
// http source at srv.
func setup(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	for _, k := range []string{core.EnvOutputDir, core.EnvLedger, core.EnvHTTPTimeout} {
		t.Setenv(k, "")
	}
	t.Setenv(core.EnvBaseURL, srv.URL+"/upload/{{id}}.pdf")
	t.Setenv(core.EnvSentinelURL, srv.URL+"/home/index.html")
	return t.TempDir()
}

func run(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestHelp(t *testing.T) {
	for _, arg := range []string{"--help", "-h"} {
		code, out, _ := run(t, "", arg)
		assert.Equal(t, exitOK, code)
		for _, phrase := range []string{
			"Run without any arguments to use the interactive mode",
			"spp 0625_s19_qp_11",
			"--config",
			"--out",
			"--verify",
		} {
			assert.Contains(t, out, phrase)
		}
	}
}

func TestUsageErrors(t *testing.T) {
	srv := fakeArchive(t)
	setup(t, srv)

	code, _, stderr := run(t, "", "0580_s19_qp_11", "0580_s19_qp_12")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "Run 'spp --help' for usage.")

	code, _, _ = run(t, "", "--no-such-flag")
	assert.Equal(t, exitUsage, code)

	code, _, stderr = run(t, "", "--config", "missing.yaml", "0580_s19_qp_11")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "config")

	require.NoError(t, os.WriteFile("bad.yaml", []byte("sources:\n  - type: ftp\n"), 0o644))
	code, _, _ = run(t, "", "--config", "bad.yaml", "0580_s19_qp_11")
	assert.Equal(t, exitUsage, code)
}

func TestLiteral(t *testing.T) {
	srv := fakeArchive(t, "0625_s19_qp_11")
	out := setup(t, srv)

	t.Run("saved", func(t *testing.T) {
		code, stdout, _ := run(t, "", "--out", out, "0625_s19_qp_11.pdf")
		require.Equal(t, exitOK, code, stdout)

		got, err := os.ReadFile(filepath.Join(out, "0625_s19_qp_11.pdf"))
		require.NoError(t, err)
		assert.Equal(t, "%PDF 0625_s19_qp_11.pdf", string(got))
		assert.Contains(t, stdout, "PDF saved to "+out+" as 0625_s19_qp_11.pdf")
	})

	t.Run("not found", func(t *testing.T) {
		code, stdout, _ := run(t, "", "--out", out, "0625_s19_qp_19")
		assert.Equal(t, exitFailure, code)
		assert.Contains(t, stdout, "This document does not exist, try again")
		assert.NoFileExists(t, filepath.Join(out, "0625_s19_qp_19.pdf"))
	})
}

func TestInteractivePlain(t *testing.T) {
	srv := fakeArchive(t, "0580_s19_qp_11")
	out := setup(t, srv)

	// board, subject, year, session, type, paper, variant; the first round
	// asks for a paper that does not exist
	answers := strings.Join([]string{
		"1", "0580", "2019", "2", "1", "9", "3",
		"1", "0580", "2019", "May/Jun", "Question paper", "1", "1",
	}, "\n") + "\n"

	code, stdout, _ := run(t, answers, "--plain", "--out", out)
	require.Equal(t, exitOK, code, stdout)
	assert.Equal(t, 1, strings.Count(stdout, "This document does not exist, try again"))
	assert.Contains(t, stdout, "as 0580_s19_qp_11.pdf")
	assert.FileExists(t, filepath.Join(out, "0580_s19_qp_11.pdf"))
	assert.NoFileExists(t, filepath.Join(out, "0580_s19_qp_93.pdf"))
}

func TestInteractiveEndOfInput(t *testing.T) {
	srv := fakeArchive(t)
	setup(t, srv)

	code, _, stderr := run(t, "1\n", "--plain")
	assert.Equal(t, exitCancelled, code)
	assert.Empty(t, stderr)
}

func TestVerify(t *testing.T) {
	srv := fakeArchive(t, "0620_w18_gt")
	out := setup(t, srv)

	code, stdout, _ := run(t, "", "--verify")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stdout, "no ledger")

	t.Setenv(core.EnvLedger, filepath.Join(out, ".spp.lock.yaml"))
	code, _, _ = run(t, "", "--out", out, "0620_w18_gt")
	require.Equal(t, exitOK, code)

	code, stdout, _ = run(t, "", "--out", out, "--verify")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "[OK  ] 0620_w18_gt\n", stdout)

	require.NoError(t, os.WriteFile(filepath.Join(out, "0620_w18_gt.pdf"), []byte("changed"), 0o644))
	code, stdout, _ = run(t, "", "--out", out, "--verify")
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stdout, "[FAIL] 0620_w18_gt")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"usage", usageError(errors.New("bad flag")), exitUsage},
		{"verify mismatch", &exitError{code: exitFailure}, exitFailure},
		{"cancelled", ui.ErrCancelled, exitCancelled},
		{"interrupted", fmt.Errorf("fetch: %w", context.Canceled), exitCancelled},
		{"not found", fmt.Errorf("x: %w", registry.ErrNotFound), exitFailure},
		{"transport", fmt.Errorf("x: %w", registry.ErrTransport), exitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
