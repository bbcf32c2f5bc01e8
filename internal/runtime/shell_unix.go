//go:build !windows

// Package runtime runs user supplied shell commands for the command source.
//
// shell_unix.go uses /bin/sh; shell_windows.go uses cmd.exe.
package runtime

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"
)

const waitDelay = time.Second

// RunShell runs cmdline with "sh -c" and returns its combined output.
//
// env entries ("KEY=value") are added on top of the current environment.
// The command is killed when ctx is done. A non-zero exit status is an error
// that carries the command's output.
func RunShell(ctx context.Context, cmdline string, env []string) (string, error) {
	return run(exec.CommandContext(ctx, "sh", "-c", cmdline), env)
}

func run(cmd *exec.Cmd, env []string) (string, error) {
	cmd.Env = append(os.Environ(), env...)
	// Children of the shell may hold the output pipe after a kill.
	cmd.WaitDelay = waitDelay
	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("command failed: %w\n%s", err, out)
	}
	return string(out), nil
}
