// Package audio tracks live PulseAudio/PipeWire state. A Monitor couples a
// crash-resilient watcher over `pactl subscribe` with one-shot volume and
// default-sink queries, pushing changes to caller-supplied callbacks.
package audio

import (
	"context"
	"sync"
	"time"

	"github.com/tmstorey/barkeep/internal/logger"
	"github.com/tmstorey/barkeep/internal/watcher"
)

// Callbacks receive audio state changes. Nil callbacks are skipped.
type Callbacks struct {
	// OnVolume fires on startup and whenever the default sink's volume or
	// mute state may have changed.
	OnVolume func(Status)

	// OnDefaultSink fires when the server's default sink switched.
	OnDefaultSink func(name string)

	// OnError receives failed refresh queries and watcher errors. The
	// monitor keeps running regardless.
	OnError func(error)
}

// Config tunes a Monitor.
type Config struct {
	// RestartDelay is passed through to the watcher.
	RestartDelay time.Duration

	// Log defaults to a no-op logger.
	Log logger.Logger
}

// Monitor is one live audio tracker. Create with Start, destroy with the
// returned stop function.
type Monitor struct {
	queries *Queries
	cb      Callbacks
	log     logger.Logger

	watch *watcher.Watcher[Event]

	stopOnce sync.Once
}

// Start pushes an initial volume snapshot, then begins the subscribe
// stream. The returned stop function is idempotent.
func Start(queries *Queries, cb Callbacks, cfg Config) (*Monitor, func()) {
	if cfg.Log == nil {
		cfg.Log = logger.Noop()
	}
	if queries == nil {
		queries = NewQueries()
	}

	m := &Monitor{
		queries: queries,
		cb:      cb,
		log:     cfg.Log,
	}

	m.refreshVolume()

	m.watch = watcher.New(watcher.Config[Event]{
		Command:      []string{"pactl", "subscribe"},
		Parse:        ParseSubscribeLine,
		OnEvent:      m.handleEvent,
		OnError:      m.emitError,
		RestartDelay: cfg.RestartDelay,
		Log:          cfg.Log,
	})
	if err := m.watch.Start(); err != nil {
		m.emitError(err)
	}

	return m, m.stop
}

// handleEvent reacts to one subscribe event. Only change events matter:
// on the sink itself the volume may have moved; on the server the default
// sink may have switched, in which case the default-sink query must
// complete before the volume snapshot so the two callbacks stay
// consistent.
func (m *Monitor) handleEvent(ev Event) {
	if ev.Action != ActionChange {
		return
	}

	switch ev.Object {
	case ObjectSink:
		m.refreshVolume()

	case ObjectServer:
		name, err := m.queries.DefaultSink(context.Background())
		if err != nil {
			m.emitError(err)
		} else if m.cb.OnDefaultSink != nil {
			m.cb.OnDefaultSink(name)
		}
		m.refreshVolume()
	}
}

func (m *Monitor) refreshVolume() {
	status, err := m.queries.GetVolume(context.Background())
	if err != nil {
		m.emitError(err)
		return
	}
	if m.cb.OnVolume != nil {
		m.cb.OnVolume(status)
	}
}

func (m *Monitor) emitError(err error) {
	m.log.Debug("[audio] %v", err)
	if m.cb.OnError != nil {
		m.cb.OnError(err)
	}
}

func (m *Monitor) stop() {
	m.stopOnce.Do(func() {
		m.watch.Stop()
	})
}
