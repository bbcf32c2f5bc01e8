//go:build windows

package runtime

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"
)

const waitDelay = time.Second

// RunShell runs cmdline with "cmd /C" and returns its combined output.
//
// cmd.exe is used instead of PowerShell: PowerShell 5.x writes UTF-16 LE when
// redirecting with >, which corrupts PDFs written by commands like
// "curl ... > {{dest}}".
func RunShell(ctx context.Context, cmdline string, env []string) (string, error) {
	return run(exec.CommandContext(ctx, "cmd", "/C", cmdline), env)
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
