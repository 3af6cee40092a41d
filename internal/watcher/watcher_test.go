package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineBufferSplitsCompleteLines(t *testing.T) {
	var b LineBuffer

	lines := b.Feed([]byte("one\ntwo\n"))
	assert.Equal(t, []string{"one", "two"}, lines)
	assert.Empty(t, b.Pending())
}

func TestLineBufferRetainsPartialLine(t *testing.T) {
	var b LineBuffer

	lines := b.Feed([]byte("wlan0: conn"))
	assert.Empty(t, lines)
	assert.Equal(t, "wlan0: conn", b.Pending())

	lines = b.Feed([]byte("ected\nwlan0: dis"))
	assert.Equal(t, []string{"wlan0: connected"}, lines)
	assert.Equal(t, "wlan0: dis", b.Pending())

	lines = b.Feed([]byte("connected\n"))
	assert.Equal(t, []string{"wlan0: disconnected"}, lines)
	assert.Empty(t, b.Pending())
}

func TestLineBufferMultibyteRunesAcrossChunks(t *testing.T) {
	var b LineBuffer

	// "réseau" split in the middle of the two-byte é.
	raw := []byte("r\xc3\xa9seau\n")
	assert.Empty(t, b.Feed(raw[:2]))
	lines := b.Feed(raw[2:])
	require.Len(t, lines, 1)
	assert.Equal(t, "réseau", lines[0])
}

func TestLineBufferEmptyLines(t *testing.T) {
	var b LineBuffer
	lines := b.Feed([]byte("\n\nx\n"))
	assert.Equal(t, []string{"", "", "x"}, lines)
}

// collect gathers events from a watcher for assertions.
type collect struct {
	mu     sync.Mutex
	events []string
	errs   []error
}

func (c *collect) event(e string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *collect) err(e error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs = append(c.errs, e)
}

func (c *collect) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.events...)
}

func (c *collect) errCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errs)
}

func passthrough(line string) (string, bool) {
	if line == "" {
		return "", false
	}
	return line, true
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestWatcherStreamsEvents(t *testing.T) {
	var c collect
	w := New(Config[string]{
		Command:      []string{"sh", "-c", "printf 'a\\nb\\n'; sleep 60"},
		Parse:        passthrough,
		OnEvent:      c.event,
		OnError:      c.err,
		RestartDelay: time.Hour,
	})
	defer w.Stop()

	require.NoError(t, w.Start())
	waitFor(t, func() bool { return len(c.snapshot()) >= 2 })
	assert.Equal(t, []string{"a", "b"}, c.snapshot()[:2])
}

func TestWatcherRestartsOnExit(t *testing.T) {
	var c collect
	w := New(Config[string]{
		Command:      []string{"echo", "tick"},
		Parse:        passthrough,
		OnEvent:      c.event,
		RestartDelay: 20 * time.Millisecond,
	})
	defer w.Stop()

	require.NoError(t, w.Start())

	// The child exits immediately; the fixed-delay restart must respawn it
	// again and again.
	waitFor(t, func() bool { return len(c.snapshot()) >= 3 })
}

func TestWatcherStartWhileRunningIsNoop(t *testing.T) {
	var c collect
	w := New(Config[string]{
		Command:      []string{"sh", "-c", "echo solo; sleep 60"},
		Parse:        passthrough,
		OnEvent:      c.event,
		RestartDelay: time.Hour,
	})
	defer w.Stop()

	require.NoError(t, w.Start())
	for i := 0; i < 10; i++ {
		require.NoError(t, w.Start())
	}

	waitFor(t, func() bool { return len(c.snapshot()) >= 1 })
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{"solo"}, c.snapshot())
}

func TestWatcherKeepsRetryingAfterFailedRespawn(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "emitter.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho once\n"), 0o755))

	var c collect
	w := New(Config[string]{
		Command:      []string{script},
		Parse:        passthrough,
		OnEvent:      c.event,
		OnError:      c.err,
		RestartDelay: 20 * time.Millisecond,
	})
	defer w.Stop()

	require.NoError(t, w.Start())
	waitFor(t, func() bool { return len(c.snapshot()) >= 1 })

	// The binary vanishes before the respawn. Every later attempt fails,
	// and the chain must keep trying at the same cadence instead of dying
	// after the first failure.
	require.NoError(t, os.Remove(script))
	waitFor(t, func() bool { return c.errCount() >= 3 })
}

func TestWatcherRecoversWhenCommandAppears(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "emitter.sh")

	var c collect
	w := New(Config[string]{
		Command:      []string{script},
		Parse:        passthrough,
		OnEvent:      c.event,
		OnError:      c.err,
		RestartDelay: 20 * time.Millisecond,
	})
	defer w.Stop()

	// The first spawn fails, but the retry chain is already armed.
	require.Error(t, w.Start())

	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho back\nsleep 60\n"), 0o755))
	waitFor(t, func() bool { return len(c.snapshot()) >= 1 })
	assert.Equal(t, "back", c.snapshot()[0])
}

func TestWatcherStopSuppressesRestart(t *testing.T) {
	var c collect
	w := New(Config[string]{
		Command:      []string{"echo", "tick"},
		Parse:        passthrough,
		OnEvent:      c.event,
		RestartDelay: 20 * time.Millisecond,
	})

	require.NoError(t, w.Start())
	waitFor(t, func() bool { return len(c.snapshot()) >= 1 })

	w.Stop()
	n := len(c.snapshot())
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, n, len(c.snapshot()), "no events after Stop")
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	w := New(Config[string]{
		Command: []string{"sleep", "60"},
		Parse:   passthrough,
	})
	require.NoError(t, w.Start())

	w.Stop()
	w.Stop()
	w.Stop()
}

func TestWatcherStartAfterStopIsNoop(t *testing.T) {
	var c collect
	w := New(Config[string]{
		Command: []string{"echo", "tick"},
		Parse:   passthrough,
		OnEvent: c.event,
	})
	w.Stop()

	require.NoError(t, w.Start())
	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, c.snapshot())
}

func TestWatcherDropsUnparsedLines(t *testing.T) {
	var c collect
	w := New(Config[string]{
		Command: []string{"sh", "-c", "printf 'keep\\n\\nkeep\\n'; sleep 60"},
		Parse:   passthrough,
		OnEvent: c.event,
	})
	defer w.Stop()

	require.NoError(t, w.Start())
	waitFor(t, func() bool { return len(c.snapshot()) >= 2 })
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{"keep", "keep"}, c.snapshot())
}
