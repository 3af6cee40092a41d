// Package exec runs one-shot external tool invocations with captured
// output. Monitors and CLI commands use it for nmcli, pactl, and wpctl
// snapshot queries.
package exec

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/tmstorey/barkeep/internal/errors"
)

// Run invokes argv once, capturing stdout and stderr. A non-zero exit code
// yields a *errors.CommandError carrying the argv, exit code, and stderr
// text. No timeout is imposed here; bound the call with the context if the
// tool may hang.
func Run(ctx context.Context, argv ...string) (stdout string, err error) {
	if len(argv) == 0 {
		return "", errors.New(errors.ErrExec,
			"Empty command",
			"This is a bug in the caller - every query needs an argv.")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	runErr := cmd.Run()
	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			return "", &errors.CommandError{
				Argv:     argv,
				ExitCode: exitErr.ExitCode(),
				Stderr:   errBuf.String(),
			}
		}
		// Spawn failure (binary missing, permission denied, context canceled).
		return "", errors.WrapWithCode(runErr, errors.ErrExec,
			"Couldn't run "+argv[0],
			"Make sure the tool is installed and on your PATH.")
	}

	return outBuf.String(), nil
}
