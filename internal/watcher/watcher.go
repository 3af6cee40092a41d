// Package watcher turns a long-lived line-emitting child process into a
// typed, crash-resilient event stream. A Watcher spawns its command, decodes
// stdout line by line through a parser, feeds events to a callback, and
// respawns the child after a fixed delay whenever it exits. Both monitors
// (network, audio) are built on it.
package watcher

import (
	"io"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/tmstorey/barkeep/internal/errors"
	"github.com/tmstorey/barkeep/internal/logger"
	"golang.org/x/sys/unix"
)

// DefaultRestartDelay is how long a Watcher waits before respawning an
// exited child.
const DefaultRestartDelay = time.Second

// Config parameterizes a Watcher.
type Config[E any] struct {
	// Command is the argv of the long-lived child to spawn.
	Command []string

	// Parse decodes one stdout line into an event. Returning false drops
	// the line.
	Parse func(line string) (E, bool)

	// OnEvent receives every parsed event.
	OnEvent func(E)

	// OnError receives read-loop and respawn failures. Stream errors do
	// not restart the child by themselves; only an actual exit does.
	OnError func(error)

	// RestartDelay overrides DefaultRestartDelay when positive.
	RestartDelay time.Duration

	// Log defaults to a no-op logger.
	Log logger.Logger
}

// Watcher supervises one line-emitting child process.
type Watcher[E any] struct {
	cfg Config[E]

	mu      sync.Mutex
	stopped bool
	running bool
	child   *exec.Cmd
	restart *time.Timer
}

// New creates a Watcher from cfg. Call Start to spawn the child.
func New[E any](cfg Config[E]) *Watcher[E] {
	if cfg.RestartDelay <= 0 {
		cfg.RestartDelay = DefaultRestartDelay
	}
	if cfg.Log == nil {
		cfg.Log = logger.Noop()
	}
	return &Watcher[E]{cfg: cfg}
}

// Start spawns the child with stdout captured and stderr discarded. It is a
// no-op when the Watcher has been stopped or a child is already running.
// The same method services the scheduled restart after an exit.
func (w *Watcher[E]) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	if w.running {
		return nil
	}

	cmd := exec.Command(w.cfg.Command[0], w.cfg.Command[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrExec,
			"Couldn't capture stdout for "+w.cfg.Command[0],
			"This shouldn't happen - please report this bug.")
	}

	if err := cmd.Start(); err != nil {
		// A failed spawn must not break the restart chain: keep trying
		// at the same cadence until Stop.
		w.scheduleRestart()
		return errors.WrapWithCode(err, errors.ErrExec,
			"Couldn't start "+w.cfg.Command[0],
			"Make sure the tool is installed and on your PATH.")
	}

	w.cfg.Log.Debug("[watcher] started %s (pid %d)", w.cfg.Command[0], cmd.Process.Pid)
	w.child = cmd
	w.running = true
	go w.run(cmd, stdout)
	return nil
}

// scheduleRestart arms the restart timer. Caller must hold w.mu.
func (w *Watcher[E]) scheduleRestart() {
	w.restart = time.AfterFunc(w.cfg.RestartDelay, func() {
		if err := w.Start(); err != nil {
			w.emitError(err)
		}
	})
}

// run is the per-child task: stream lines until the pipe drains, wait for
// the exit, then schedule the respawn unless the Watcher was stopped.
func (w *Watcher[E]) run(cmd *exec.Cmd, stdout io.Reader) {
	if err := w.readLoop(stdout); err != nil {
		w.emitError(err)
	}

	_ = cmd.Wait()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.running = false
	if w.stopped {
		return
	}
	w.cfg.Log.Debug("[watcher] %s exited, restart in %s", w.cfg.Command[0], w.cfg.RestartDelay)
	w.scheduleRestart()
}

// readLoop accumulates stdout chunks, emits every complete line to the
// parser, and keeps the trailing partial line buffered for the next chunk.
// Returns nil when the stream ends cleanly.
func (w *Watcher[E]) readLoop(r io.Reader) error {
	var lines LineBuffer
	chunk := make([]byte, 4096)

	for {
		n, err := r.Read(chunk)
		if n > 0 {
			for _, line := range lines.Feed(chunk[:n]) {
				w.emit(line)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (w *Watcher[E]) emit(line string) {
	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if stopped {
		return
	}

	ev, ok := w.cfg.Parse(line)
	if !ok {
		return
	}
	if w.cfg.OnEvent != nil {
		w.cfg.OnEvent(ev)
	}
}

func (w *Watcher[E]) emitError(err error) {
	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if stopped {
		return
	}
	if w.cfg.OnError != nil {
		w.cfg.OnError(err)
	}
}

// Stop kills the current child's process group and cancels any pending
// restart. Safe to call more than once; later exit and read-loop events
// see the stopped flag and go quiet.
func (w *Watcher[E]) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	w.stopped = true

	if w.restart != nil {
		w.restart.Stop()
		w.restart = nil
	}
	if w.child != nil && w.child.Process != nil {
		_ = unix.Kill(-w.child.Process.Pid, unix.SIGKILL)
	}
	w.cfg.Log.Debug("[watcher] stopped %s", w.cfg.Command[0])
}
