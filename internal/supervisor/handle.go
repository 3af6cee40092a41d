package supervisor

import (
	"sync"

	"golang.org/x/sys/unix"
)

// Handle is the supervising task for one started daemon. It completes when
// the child process exits; the terminal error is always a
// *errors.DaemonDiedError. Cancel kills the child's whole process group,
// which in turn completes the task.
type Handle struct {
	daemon string
	pgid   int

	done chan struct{}
	err  error // written once before done is closed

	cancelOnce sync.Once
}

// Pgid returns the process group id of the spawned child. The whole group
// is what Cancel kills.
func (h *Handle) Pgid() int {
	return h.pgid
}

// Done returns a channel that is closed when the supervising task has
// completed (the child exited and stderr was drained).
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err returns the terminal result of the supervising task. It is only
// meaningful after Done is closed; before that it returns nil.
func (h *Handle) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}

// Cancel terminates the daemon by killing its process group. The signal is
// delivered before Cancel returns, so the child cannot be orphaned; the
// supervising task observes the resulting exit shortly after. Idempotent.
func (h *Handle) Cancel() {
	h.cancelOnce.Do(func() {
		// Negative pid targets the process group. ESRCH just means the
		// child beat us to the exit.
		_ = unix.Kill(-h.pgid, unix.SIGKILL)
	})
}
