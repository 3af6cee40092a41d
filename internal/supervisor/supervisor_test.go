package supervisor

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bkerrors "github.com/tmstorey/barkeep/internal/errors"
	"github.com/tmstorey/barkeep/internal/logger"
)

// waitDone blocks until the handle completes or the test times out.
func waitDone(t *testing.T, h *Handle) error {
	t.Helper()
	select {
	case <-h.Done():
		return h.Err()
	case <-time.After(5 * time.Second):
		t.Fatal("supervising task did not complete")
		return nil
	}
}

func TestSetAndList(t *testing.T) {
	s := New(logger.Noop())

	require.NoError(t, s.Set("tray", []string{"stalonetray"}))
	require.NoError(t, s.Set("comp", []string{"picom", "-b"}))

	daemons := s.List()
	require.Len(t, daemons, 2)

	byName := make(map[string]Daemon)
	for _, d := range daemons {
		byName[d.Name] = d
	}
	assert.Equal(t, []string{"picom", "-b"}, byName["comp"].Command)
	assert.Equal(t, Stopped, byName["comp"].State)
	assert.Nil(t, byName["comp"].Handle)
}

func TestSetValidation(t *testing.T) {
	s := New(nil)
	assert.Error(t, s.Set("", []string{"x"}))
	assert.Error(t, s.Set("empty", nil))
}

func TestListIsSnapshot(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Set("d", []string{"sleep", "60"}))

	daemons := s.List()
	daemons[0].Command[0] = "corrupted"
	daemons[0].Name = "corrupted"

	again := s.List()
	require.Len(t, again, 1)
	assert.Equal(t, "d", again[0].Name)
	assert.Equal(t, "sleep", again[0].Command[0])
}

func TestStartUnknownDaemon(t *testing.T) {
	s := New(nil)

	_, err := s.Start("ghost")
	require.Error(t, err)

	var nf *bkerrors.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "ghost", nf.Daemon)

	err = s.Stop("ghost")
	require.True(t, errors.As(err, &nf))
}

func TestStartIsIdempotent(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Set("d", []string{"sleep", "60"}))
	defer s.Stop("d")

	h1, err := s.Start("d")
	require.NoError(t, err)
	require.NotNil(t, h1)

	h2, err := s.Start("d")
	require.NoError(t, err)
	assert.Same(t, h1, h2, "second start must return the same handle")
}

func TestSetPreservesRunningState(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Set("d", []string{"sleep", "60"}))
	defer s.Stop("d")

	h, err := s.Start("d")
	require.NoError(t, err)

	require.NoError(t, s.Set("d", []string{"sleep", "120"}))

	daemons := s.List()
	require.Len(t, daemons, 1)
	assert.Equal(t, Running, daemons[0].State)
	assert.Same(t, h, daemons[0].Handle)
	assert.Equal(t, []string{"sleep", "120"}, daemons[0].Command)
}

func TestStopWithoutStartIsNoop(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Set("d", []string{"sleep", "60"}))
	assert.NoError(t, s.Stop("d"))
}

func TestStopKillsChild(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Set("d", []string{"sleep", "60"}))

	h, err := s.Start("d")
	require.NoError(t, err)

	require.NoError(t, s.Stop("d"))

	err = waitDone(t, h)
	var died *bkerrors.DaemonDiedError
	require.True(t, errors.As(err, &died))
	assert.Equal(t, "d", died.Daemon)

	cell, cellErr := s.Watch("d")
	require.NoError(t, cellErr)
	assert.Equal(t, Stopped, cell.Get())
}

func TestDaemonDiedCarriesExitCodeAndStderr(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Set("flaky", []string{"sh", "-c", "echo boom >&2; exit 3"}))

	h, err := s.Start("flaky")
	require.NoError(t, err)

	doneErr := waitDone(t, h)
	var died *bkerrors.DaemonDiedError
	require.True(t, errors.As(doneErr, &died))
	assert.Equal(t, "flaky", died.Daemon)
	assert.Equal(t, 3, died.ExitCode)
	assert.Contains(t, died.Stderr, "boom")
}

func TestCleanExitStillReportsDeath(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Set("oneshot", []string{"true"}))

	h, err := s.Start("oneshot")
	require.NoError(t, err)

	doneErr := waitDone(t, h)
	var died *bkerrors.DaemonDiedError
	require.True(t, errors.As(doneErr, &died))
	assert.Equal(t, 0, died.ExitCode)
}

// A died daemon keeps its observable state at Running until Stop is called.
// Whoever awaits the handle is responsible for the correction.
func TestDeathDoesNotFlipObservableState(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Set("d", []string{"true"}))

	h, err := s.Start("d")
	require.NoError(t, err)
	waitDone(t, h)

	cell, err := s.Watch("d")
	require.NoError(t, err)
	assert.Equal(t, Running, cell.Get())

	require.NoError(t, s.Stop("d"))
	assert.Equal(t, Stopped, cell.Get())
}

func TestStartMissingBinaryFails(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Set("d", []string{"barkeep-no-such-binary-xyz"}))

	_, err := s.Start("d")
	require.Error(t, err)
	assert.True(t, bkerrors.IsCode(err, bkerrors.ErrDaemon))

	// Spawn failure leaves the daemon stopped and restartable.
	daemons := s.List()
	assert.Equal(t, Stopped, daemons[0].State)
}

func TestHandleErrBeforeDone(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Set("d", []string{"sleep", "60"}))
	defer s.Stop("d")

	h, err := s.Start("d")
	require.NoError(t, err)
	assert.Nil(t, h.Err(), "Err is nil while the task is still running")
}
