package errors

import (
	"fmt"
	"strings"
)

// NotFoundError reports an operation on a daemon name that was never
// registered with the supervisor.
type NotFoundError struct {
	Daemon string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("daemon %q is not registered", e.Daemon)
}

// NewNotFound creates a NotFoundError for the given daemon name.
func NewNotFound(daemon string) *NotFoundError {
	return &NotFoundError{Daemon: daemon}
}

// DaemonDiedError is the terminal result of a supervising task: the child
// process exited (any exit counts, including code 0). It carries the exit
// code and whatever the child wrote to stderr.
type DaemonDiedError struct {
	Daemon   string
	ExitCode int
	Stderr   string
}

func (e *DaemonDiedError) Error() string {
	msg := fmt.Sprintf("daemon %q died with exit code %d", e.Daemon, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// CommandError reports a one-shot external tool invocation that returned a
// non-zero exit code. Argv is the exact command that ran.
type CommandError struct {
	Argv     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command %q failed with exit code %d", strings.Join(e.Argv, " "), e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}
