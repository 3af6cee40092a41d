package network

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bkerrors "github.com/tmstorey/barkeep/internal/errors"
	"github.com/tmstorey/barkeep/internal/logger"
)

// recorder captures monitor callbacks.
type recorder struct {
	mu          sync.Mutex
	connects    []Status
	disconnects int
	signals     []int
	errs        []error
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnConnect: func(s Status) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.connects = append(r.connects, s)
		},
		OnDisconnect: func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.disconnects++
		},
		OnSignal: func(pct int) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.signals = append(r.signals, pct)
		},
		OnError: func(err error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.errs = append(r.errs, err)
		},
	}
}

func newTestMonitor(q *Queries, cb Callbacks) *Monitor {
	return &Monitor{
		queries:  q,
		cb:       cb,
		log:      logger.Noop(),
		stopPoll: make(chan struct{}),
	}
}

func TestConnectedEventRefreshesSnapshot(t *testing.T) {
	var r recorder
	q := &Queries{
		run: fakeRunner(t, map[string]string{
			"connection show --active": "MyNet:802-11-wireless:wlan0\n",
			"device wifi":              "MyNet:67:405 Mbit/s:5500 MHz:100:WPA2:wlan0:yes\n",
		}),
	}
	m := newTestMonitor(q, r.callbacks())

	m.handleEvent(Event{Type: EventConnected, Device: "wlan0"})

	require.Len(t, r.connects, 1)
	assert.Equal(t, "MyNet", r.connects[0].Name)
	require.NotNil(t, r.connects[0].Signal)
	assert.Equal(t, 67, *r.connects[0].Signal)

	m.mu.Lock()
	assert.Equal(t, "wlan0", m.device)
	m.mu.Unlock()
}

func TestDisconnectedEventForgetsDevice(t *testing.T) {
	var r recorder
	m := newTestMonitor(&Queries{}, r.callbacks())
	m.device = "wlan0"

	m.handleEvent(Event{Type: EventDisconnected, Device: "wlan0"})

	assert.Equal(t, 1, r.disconnects)
	m.mu.Lock()
	assert.Empty(t, m.device)
	m.mu.Unlock()
}

// Connectivity events are decoded but deliberately drive nothing.
func TestConnectivityEventIsInert(t *testing.T) {
	var r recorder
	m := newTestMonitor(&Queries{}, r.callbacks())

	m.handleEvent(Event{Type: EventConnectivity, Connectivity: "limited"})
	m.handleEvent(Event{Type: EventConnecting, Device: "wlan0", SSID: "MyNet"})

	assert.Empty(t, r.connects)
	assert.Equal(t, 0, r.disconnects)
	assert.Empty(t, r.errs)
}

func TestRefreshFailureReportsError(t *testing.T) {
	var r recorder
	q := &Queries{
		run: func(ctx context.Context, argv ...string) (string, error) {
			return "", &bkerrors.CommandError{Argv: argv, ExitCode: 8, Stderr: "not running"}
		},
	}

	m := newTestMonitor(q, r.callbacks())
	m.handleEvent(Event{Type: EventConnected, Device: "wlan0"})

	assert.Empty(t, r.connects)
	require.Len(t, r.errs, 1)
}

func TestPollLoopReportsSignal(t *testing.T) {
	proc := filepath.Join(t.TempDir(), "wireless")
	require.NoError(t, os.WriteFile(proc, []byte(procWirelessSample), 0o644))

	var r recorder
	m := newTestMonitor(&Queries{procWireless: proc}, r.callbacks())
	m.device = "wlan0"

	go m.pollLoop(10 * time.Millisecond)
	defer close(m.stopPoll)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		r.mu.Lock()
		n := len(r.signals)
		r.mu.Unlock()
		if n > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.signals)
	assert.Equal(t, 46, r.signals[0])
}

func TestPollLoopIdleWithoutDevice(t *testing.T) {
	var r recorder
	m := newTestMonitor(&Queries{procWireless: "/nonexistent"}, r.callbacks())

	go m.pollLoop(10 * time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	close(m.stopPoll)

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Empty(t, r.signals)
}
