// Package network tracks live NetworkManager state. A Monitor couples a
// crash-resilient watcher over `nmcli monitor` with a cheap periodic
// /proc/net/wireless poll and one-shot nmcli snapshot queries, pushing
// status changes to caller-supplied callbacks.
package network

import (
	"context"
	"sync"
	"time"

	"github.com/tmstorey/barkeep/internal/logger"
	"github.com/tmstorey/barkeep/internal/watcher"
)

// DefaultPollInterval is how often the fast-path signal poll runs.
const DefaultPollInterval = time.Second

// Callbacks receive network state changes. Nil callbacks are skipped.
type Callbacks struct {
	// OnConnect fires on startup when a connection is already active, and
	// after every connected event, with a fresh snapshot.
	OnConnect func(Status)

	// OnDisconnect fires when the tracked device disconnects.
	OnDisconnect func()

	// OnSignal fires on poll ticks that obtained a signal percentage.
	OnSignal func(percent int)

	// OnError receives failed refresh queries and watcher errors. The
	// monitor keeps running regardless.
	OnError func(error)
}

// Config tunes a Monitor.
type Config struct {
	// PollInterval overrides DefaultPollInterval when positive.
	PollInterval time.Duration

	// RestartDelay is passed through to the watcher.
	RestartDelay time.Duration

	// Log defaults to a no-op logger.
	Log logger.Logger
}

// Monitor is one live network tracker. Create with Start, destroy with the
// returned stop function.
type Monitor struct {
	queries *Queries
	cb      Callbacks
	log     logger.Logger

	watch *watcher.Watcher[Event]

	mu     sync.Mutex
	device string

	stopOnce sync.Once
	stopPoll chan struct{}
}

// Start queries the currently active connection, reporting it through
// OnConnect if present, then begins the monitor stream and the signal
// poller. The returned stop function is idempotent.
func Start(queries *Queries, cb Callbacks, cfg Config) (*Monitor, func()) {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Log == nil {
		cfg.Log = logger.Noop()
	}
	if queries == nil {
		queries = NewQueries()
	}

	m := &Monitor{
		queries:  queries,
		cb:       cb,
		log:      cfg.Log,
		stopPoll: make(chan struct{}),
	}

	m.refreshActive()

	m.watch = watcher.New(watcher.Config[Event]{
		Command:      []string{"nmcli", "monitor"},
		Parse:        ParseMonitorLine,
		OnEvent:      m.handleEvent,
		OnError:      m.emitError,
		RestartDelay: cfg.RestartDelay,
		Log:          cfg.Log,
	})
	if err := m.watch.Start(); err != nil {
		m.emitError(err)
	}

	go m.pollLoop(cfg.PollInterval)

	return m, m.stop
}

// refreshActive runs the one-shot active-connection query and pushes the
// result. Remembers the device so the poller has something to read.
func (m *Monitor) refreshActive() {
	status, err := m.queries.Active(context.Background())
	if err != nil {
		m.emitError(err)
		return
	}
	if status == nil {
		return
	}

	m.mu.Lock()
	m.device = status.Device
	m.mu.Unlock()

	if m.cb.OnConnect != nil {
		m.cb.OnConnect(*status)
	}
}

// handleEvent reacts to one decoded monitor line. Connected events trigger
// a full snapshot re-query: the monitor line alone has no SSID, signal, or
// rate. Connecting and connectivity events are decoded but drive no
// callback.
func (m *Monitor) handleEvent(ev Event) {
	switch ev.Type {
	case EventConnected:
		m.mu.Lock()
		m.device = ev.Device
		m.mu.Unlock()
		m.refreshActive()

	case EventDisconnected:
		m.mu.Lock()
		m.device = ""
		m.mu.Unlock()
		if m.cb.OnDisconnect != nil {
			m.cb.OnDisconnect()
		}
	}
}

// pollLoop reads the fast-path signal value each tick while a device is
// associated. A tick with no device, or no row for the device, is a no-op.
func (m *Monitor) pollLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopPoll:
			return
		case <-ticker.C:
			m.mu.Lock()
			device := m.device
			m.mu.Unlock()
			if device == "" {
				continue
			}
			if pct := m.queries.WirelessSignal(device); pct != nil && m.cb.OnSignal != nil {
				m.cb.OnSignal(*pct)
			}
		}
	}
}

func (m *Monitor) emitError(err error) {
	m.log.Debug("[net] %v", err)
	if m.cb.OnError != nil {
		m.cb.OnError(err)
	}
}

func (m *Monitor) stop() {
	m.stopOnce.Do(func() {
		close(m.stopPoll)
		m.watch.Stop()
	})
}
