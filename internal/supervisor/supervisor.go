// Package supervisor manages the lifecycle of named background helper
// processes. Each daemon is an argv command registered under a unique name;
// starting it spawns the command in its own process group and forks a
// supervising task that reports any exit as a DaemonDiedError.
package supervisor

import (
	"io"
	"os/exec"
	"sync"
	"syscall"

	"github.com/tmstorey/barkeep/internal/errors"
	"github.com/tmstorey/barkeep/internal/logger"
)

// Daemon is a point-in-time snapshot of one registry entry.
type Daemon struct {
	Name    string
	Command []string
	State   State
	Handle  *Handle
}

// entry is the live registry record behind a Daemon snapshot.
type entry struct {
	command []string
	state   *StateCell
	handle  *Handle
}

// Supervisor owns the daemon registry. All operations serialize on one
// mutex; the per-daemon supervising tasks run outside it.
type Supervisor struct {
	mu      sync.Mutex
	daemons map[string]*entry
	log     logger.Logger
}

// New creates an empty Supervisor. A nil log disables logging.
func New(log logger.Logger) *Supervisor {
	if log == nil {
		log = logger.Noop()
	}
	return &Supervisor{
		daemons: make(map[string]*entry),
		log:     log,
	}
}

// Set registers or updates the daemon named name. A new name gets a fresh
// stopped state cell and no task handle. A known name keeps its state cell
// and handle untouched; only the command is replaced.
func (s *Supervisor) Set(name string, command []string) error {
	if name == "" {
		return errors.New(errors.ErrDaemon,
			"Daemon name cannot be empty",
			"Give every daemon a unique name.")
	}
	if len(command) == 0 {
		return errors.New(errors.ErrDaemon,
			"Daemon '"+name+"' has an empty command",
			"Provide the argv to run, e.g. [\"picom\", \"-b\"].")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.daemons[name]; ok {
		e.command = append([]string(nil), command...)
		return nil
	}
	s.daemons[name] = &entry{
		command: append([]string(nil), command...),
		state:   NewStateCell(Stopped),
	}
	return nil
}

// Start spawns the named daemon and forks its supervising task. When the
// daemon is already running this is a no-op returning the existing handle.
// The observable state flips to Running as soon as the task is forked, not
// after the child proves healthy.
func (s *Supervisor) Start(name string) (*Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.daemons[name]
	if !ok {
		return nil, errors.NewNotFound(name)
	}
	if e.state.Get() == Running {
		return e.handle, nil
	}

	cmd := exec.Command(e.command[0], e.command[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrDaemon,
			"Couldn't capture stderr for daemon '"+name+"'",
			"This shouldn't happen - please report this bug.")
	}

	if err := cmd.Start(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrDaemon,
			"Couldn't start daemon '"+name+"'",
			"Check that the command exists and is executable.")
	}

	h := &Handle{
		daemon: name,
		pgid:   cmd.Process.Pid,
		done:   make(chan struct{}),
	}
	go s.supervise(h, cmd, stderr)

	s.log.Debug("[supervisor] started %s (pid %d)", name, cmd.Process.Pid)
	e.state.set(Running)
	e.handle = h
	return h, nil
}

// supervise drains the child's stderr, waits for the actual process exit,
// and completes the handle with a DaemonDiedError. Every exit counts as a
// death, exit code 0 included.
func (s *Supervisor) supervise(h *Handle, cmd *exec.Cmd, stderr io.Reader) {
	captured, _ := io.ReadAll(stderr)

	exitCode := 0
	if err := cmd.Wait(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = -1
		}
	}

	s.log.Debug("[supervisor] %s exited with code %d", h.daemon, exitCode)
	h.err = &errors.DaemonDiedError{
		Daemon:   h.daemon,
		ExitCode: exitCode,
		Stderr:   string(captured),
	}
	close(h.done)
}

// Stop cancels the named daemon's supervising task, killing the child's
// process group, and flips the observable state to Stopped. A daemon with
// no active handle is already stopped; that is a no-op success.
func (s *Supervisor) Stop(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.daemons[name]
	if !ok {
		return errors.NewNotFound(name)
	}
	if e.handle == nil {
		return nil
	}

	e.handle.Cancel()
	e.handle = nil
	e.state.set(Stopped)
	s.log.Debug("[supervisor] stopped %s", name)
	return nil
}

// List returns a snapshot of every registered daemon in unspecified order.
// Mutating the returned slice does not affect the registry.
func (s *Supervisor) List() []Daemon {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Daemon, 0, len(s.daemons))
	for name, e := range s.daemons {
		out = append(out, Daemon{
			Name:    name,
			Command: append([]string(nil), e.command...),
			State:   e.state.Get(),
			Handle:  e.handle,
		})
	}
	return out
}

// Watch returns the named daemon's state cell for subscription.
func (s *Supervisor) Watch(name string) (*StateCell, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.daemons[name]
	if !ok {
		return nil, errors.NewNotFound(name)
	}
	return e.state, nil
}
