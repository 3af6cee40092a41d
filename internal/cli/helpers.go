package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/tmstorey/barkeep/internal/config"
	"github.com/tmstorey/barkeep/internal/errors"
)

// loadConfig resolves and loads the config file, honoring --config.
func loadConfig() (*config.Config, string, error) {
	path, err := config.Find(Config())
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return nil, "", errors.New(errors.ErrConfig,
			"No config file found",
			"Looks like you haven't set up shop here yet. Run 'barkeep init' to get started.")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// runtimeDir is where pidfiles for detached daemons live. Prefers
// XDG_RUNTIME_DIR so the files disappear with the session.
func runtimeDir() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "barkeep")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("barkeep-%d", os.Getuid()))
}

// stateDir is where detached daemon logs go.
func stateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "barkeep")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "barkeep")
	}
	return filepath.Join(home, ".local", "state", "barkeep")
}

func pidfilePath(daemon string) string {
	return filepath.Join(runtimeDir(), daemon+".pid")
}

// writePidfile records a detached daemon's process group id.
func writePidfile(daemon string, pgid int) error {
	if err := os.MkdirAll(runtimeDir(), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrDaemon,
			"Couldn't create runtime directory",
			"Check permissions on "+runtimeDir())
	}
	data := strconv.Itoa(pgid) + "\n"
	if err := os.WriteFile(pidfilePath(daemon), []byte(data), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrDaemon,
			"Couldn't write pidfile for daemon '"+daemon+"'",
			"Check permissions on "+runtimeDir())
	}
	return nil
}

// readPidfile returns the recorded pgid, or 0 when no pidfile exists.
func readPidfile(daemon string) (int, error) {
	data, err := os.ReadFile(pidfilePath(daemon))
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrDaemon,
			"Couldn't read pidfile for daemon '"+daemon+"'",
			"Check permissions on "+runtimeDir())
	}
	pgid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrParse,
			"Pidfile for daemon '"+daemon+"' is garbled",
			"Remove "+pidfilePath(daemon)+" and start the daemon again.")
	}
	return pgid, nil
}

func removePidfile(daemon string) {
	_ = os.Remove(pidfilePath(daemon))
}

// daemonAlive reports whether the recorded process group still has a
// living leader. Signal 0 probes without delivering anything.
func daemonAlive(daemon string) bool {
	pgid, err := readPidfile(daemon)
	if err != nil || pgid == 0 {
		return false
	}
	return unix.Kill(pgid, 0) == nil
}
