package cli

import (
	"fmt"
	"os"
	osexec "os/exec"
	"path/filepath"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/tmstorey/barkeep/internal/errors"
	"github.com/tmstorey/barkeep/internal/ui"
)

// startCommand spawns the named daemon detached: its own process group,
// output appended to the state-dir log, pgid recorded in a pidfile so a
// later `barkeep stop` can find it.
func startCommand(name string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	dc, ok := cfg.Daemons[name]
	if !ok {
		return errors.NewNotFound(name)
	}

	if daemonAlive(name) {
		fmt.Printf("%s %s is already running\n", ui.SymbolRunning, name)
		return nil
	}

	argv, err := dc.ResolveArgv(name)
	if err != nil {
		return err
	}

	logFile, err := openDaemonLog(name)
	if err != nil {
		return err
	}
	defer logFile.Close()

	cmd := osexec.Command(argv[0], argv[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		return errors.WrapWithCode(err, errors.ErrDaemon,
			"Couldn't start daemon '"+name+"'",
			"Check that the command exists and is executable.")
	}

	pgid := cmd.Process.Pid
	if err := writePidfile(name, pgid); err != nil {
		// Can't track it, so don't leave it running either.
		_ = unix.Kill(-pgid, unix.SIGKILL)
		return err
	}

	// Reap in the background if the daemon exits before we do. The child
	// is its own group leader, so it survives our exit regardless.
	go func() { _ = cmd.Wait() }()

	fmt.Printf("%s started %s (pid %d)\n", ui.SymbolSuccess, name, pgid)
	return nil
}

// stopCommand kills the recorded process group and clears the pidfile.
func stopCommand(name string) error {
	pgid, err := readPidfile(name)
	if err != nil {
		return err
	}
	if pgid == 0 {
		fmt.Printf("%s %s is not running\n", ui.SymbolStopped, name)
		return nil
	}

	// ESRCH means the group already died; still clean up the pidfile.
	if err := unix.Kill(-pgid, unix.SIGKILL); err != nil && err != unix.ESRCH {
		return errors.WrapWithCode(err, errors.ErrDaemon,
			"Couldn't stop daemon '"+name+"'",
			"The process may belong to another user.")
	}
	removePidfile(name)

	fmt.Printf("%s stopped %s\n", ui.SymbolSuccess, name)
	return nil
}

func openDaemonLog(name string) (*os.File, error) {
	dir := filepath.Join(stateDir(), "log")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrDaemon,
			"Couldn't create log directory",
			"Check permissions on "+dir)
	}
	f, err := os.OpenFile(filepath.Join(dir, name+".log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrDaemon,
			"Couldn't open log file for daemon '"+name+"'",
			"Check permissions on "+dir)
	}
	return f, nil
}
