package supervisor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvState(t *testing.T, ch <-chan State) State {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatal("no state delivered")
		return 0
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "stopped", Stopped.String())
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestSubscribeDeliversCurrentValueImmediately(t *testing.T) {
	c := NewStateCell(Running)

	ch, cancel := c.Subscribe()
	defer cancel()

	assert.Equal(t, Running, recvState(t, ch))
}

func TestSubscribeDeliversChanges(t *testing.T) {
	c := NewStateCell(Stopped)

	ch, cancel := c.Subscribe()
	defer cancel()
	assert.Equal(t, Stopped, recvState(t, ch))

	c.set(Running)
	assert.Equal(t, Running, recvState(t, ch))

	c.set(Stopped)
	assert.Equal(t, Stopped, recvState(t, ch))
}

func TestSetSameValueDoesNotNotify(t *testing.T) {
	c := NewStateCell(Stopped)

	ch, cancel := c.Subscribe()
	defer cancel()
	recvState(t, ch)

	c.set(Stopped)
	select {
	case v := <-ch:
		t.Fatalf("unexpected delivery: %v", v)
	case <-time.After(50 * time.Millisecond):
	}
}

// A subscriber that never reads still sees the latest value, not a backlog.
func TestSlowSubscriberCoalesces(t *testing.T) {
	c := NewStateCell(Stopped)

	ch, cancel := c.Subscribe()
	defer cancel()

	c.set(Running)
	c.set(Stopped)
	c.set(Running)

	// The initial Stopped was overwritten by the churn; only the latest
	// value is pending.
	assert.Equal(t, Running, recvState(t, ch))
	select {
	case v := <-ch:
		t.Fatalf("backlog should have been coalesced, got %v", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCancelClosesChannel(t *testing.T) {
	c := NewStateCell(Stopped)

	ch, cancel := c.Subscribe()
	recvState(t, ch)
	cancel()

	_, open := <-ch
	assert.False(t, open)

	// Idempotent; must not panic or double-close.
	cancel()

	// Writes after cancel must not reach the closed channel.
	c.set(Running)
}

func TestMultipleSubscribers(t *testing.T) {
	c := NewStateCell(Stopped)

	ch1, cancel1 := c.Subscribe()
	ch2, cancel2 := c.Subscribe()
	defer cancel1()
	defer cancel2()

	require.Equal(t, Stopped, recvState(t, ch1))
	require.Equal(t, Stopped, recvState(t, ch2))

	c.set(Running)
	assert.Equal(t, Running, recvState(t, ch1))
	assert.Equal(t, Running, recvState(t, ch2))
	assert.Equal(t, Running, c.Get())
}
