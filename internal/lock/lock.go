// Package lock guards the barkeep session. Only one `barkeep up` per
// runtime directory may supervise daemons at a time; the lock makes a
// second invocation fail fast instead of double-starting everything.
package lock

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/tmstorey/barkeep/internal/errors"
)

// ErrLocked is returned by Acquire when another live process holds the
// lock. Check with errors.Is().
var ErrLocked = stderrors.New("lock is held by another process")

// Lock is an acquired session lock.
type Lock struct {
	Dir  string // the lock directory
	Info *Info  // the holder (us)
}

// Acquire takes the session lock under dir using mkdir as the atomic
// primitive. A lock whose recorded pid is no longer alive is stale and
// gets replaced. A lock held by a live process yields ErrLocked wrapped
// with the holder's description.
func Acquire(dir, command string) (*Lock, error) {
	lockDir := filepath.Join(dir, "session.lock")
	infoFile := filepath.Join(lockDir, "info.json")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrLock,
			"Couldn't create the runtime directory",
			"Check permissions on "+dir)
	}

	info := NewInfo(command)

	for attempt := 0; attempt < 2; attempt++ {
		err := os.Mkdir(lockDir, 0o755)
		if err == nil {
			data, merr := info.Marshal()
			if merr != nil {
				_ = os.RemoveAll(lockDir)
				return nil, errors.WrapWithCode(merr, errors.ErrLock,
					"Failed to serialize lock info",
					"This shouldn't happen - please report this bug.")
			}
			if werr := os.WriteFile(infoFile, data, 0o644); werr != nil {
				_ = os.RemoveAll(lockDir)
				return nil, errors.WrapWithCode(werr, errors.ErrLock,
					"Failed to write lock info file",
					"Check disk space and permissions on "+dir)
			}
			return &Lock{Dir: lockDir, Info: info}, nil
		}
		if !os.IsExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrLock,
				"Couldn't create the session lock",
				"Check permissions on "+dir)
		}

		// Held. Replace it only if the holder is gone.
		if isStale(infoFile) {
			if rerr := os.RemoveAll(lockDir); rerr == nil {
				continue
			}
		}
		return nil, errors.WrapWithCode(ErrLocked, errors.ErrLock,
			fmt.Sprintf("Another barkeep session is already running (%s)", Holder(lockDir)),
			"Stop it first, or remove "+lockDir+" if it crashed.")
	}

	return nil, errors.WrapWithCode(ErrLocked, errors.ErrLock,
		"Couldn't take over a stale session lock",
		"Remove "+lockDir+" by hand and try again.")
}

// Release removes the lock, allowing the next session to start.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	return os.RemoveAll(l.Dir)
}

// Holder returns a description of who holds the lock at lockDir.
func Holder(lockDir string) string {
	data, err := os.ReadFile(filepath.Join(lockDir, "info.json"))
	if err != nil {
		return "unknown"
	}
	info, err := ParseInfo(data)
	if err != nil {
		return "unknown"
	}
	return info.String()
}

// isStale reports whether the lock's recorded process is gone. A missing
// or garbled info file counts as stale: nobody can release it.
func isStale(infoFile string) bool {
	data, err := os.ReadFile(infoFile)
	if err != nil {
		return true
	}
	info, err := ParseInfo(data)
	if err != nil {
		return true
	}
	// Signal 0 probes liveness without delivering anything.
	return unix.Kill(info.PID, 0) != nil
}
