package audio

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bkerrors "github.com/tmstorey/barkeep/internal/errors"
	"github.com/tmstorey/barkeep/internal/logger"
)

// fakeQueries records every invocation and serves canned responses.
type fakeQueries struct {
	mu       sync.Mutex
	calls    []string
	volume   string
	sinkName string
	fail     bool
}

func (f *fakeQueries) runner() runFunc {
	return func(ctx context.Context, argv ...string) (string, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		joined := strings.Join(argv, " ")
		f.calls = append(f.calls, joined)
		if f.fail {
			return "", &bkerrors.CommandError{Argv: argv, ExitCode: 1, Stderr: "dead"}
		}
		switch {
		case strings.Contains(joined, "get-volume"):
			return f.volume, nil
		case strings.Contains(joined, "get-default-sink"):
			return f.sinkName + "\n", nil
		}
		return "", nil
	}
}

// recorder captures monitor callbacks.
type recorder struct {
	mu       sync.Mutex
	volumes  []Status
	defaults []string
	errs     []error
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnVolume: func(s Status) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.volumes = append(r.volumes, s)
		},
		OnDefaultSink: func(name string) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.defaults = append(r.defaults, name)
		},
		OnError: func(err error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.errs = append(r.errs, err)
		},
	}
}

func newTestMonitor(f *fakeQueries, cb Callbacks) *Monitor {
	return &Monitor{
		queries: &Queries{run: f.runner()},
		cb:      cb,
		log:     logger.Noop(),
	}
}

func TestSinkChangeRefreshesVolume(t *testing.T) {
	f := &fakeQueries{volume: "Volume: 0.40\n"}
	var r recorder
	m := newTestMonitor(f, r.callbacks())

	m.handleEvent(Event{Action: ActionChange, Object: ObjectSink, Index: 56})

	require.Len(t, r.volumes, 1)
	assert.Equal(t, Status{Volume: 40}, r.volumes[0])
	assert.Empty(t, r.defaults)
}

func TestServerChangeQueriesSinkThenVolume(t *testing.T) {
	f := &fakeQueries{volume: "Volume: 1.50 [MUTED]\n", sinkName: "alsa_output.usb-dac"}
	var r recorder
	m := newTestMonitor(f, r.callbacks())

	m.handleEvent(Event{Action: ActionChange, Object: ObjectServer})

	require.Len(t, r.defaults, 1)
	assert.Equal(t, "alsa_output.usb-dac", r.defaults[0])
	require.Len(t, r.volumes, 1)
	assert.Equal(t, Status{Volume: 150, Muted: true}, r.volumes[0])

	// Default-sink query must have run before the volume query.
	require.Len(t, f.calls, 2)
	assert.Contains(t, f.calls[0], "get-default-sink")
	assert.Contains(t, f.calls[1], "get-volume")
}

func TestOtherEventsAreIgnored(t *testing.T) {
	f := &fakeQueries{volume: "Volume: 0.40\n"}
	var r recorder
	m := newTestMonitor(f, r.callbacks())

	m.handleEvent(Event{Action: ActionNew, Object: ObjectSink, Index: 3})
	m.handleEvent(Event{Action: ActionRemove, Object: ObjectSinkInput, Index: 9})
	m.handleEvent(Event{Action: ActionChange, Object: ObjectClient, Index: 2})
	m.handleEvent(Event{Action: ActionChange, Object: ObjectCard, Index: 0})

	assert.Empty(t, r.volumes)
	assert.Empty(t, r.defaults)
	assert.Empty(t, f.calls)
}

func TestQueryFailureGoesToErrorCallback(t *testing.T) {
	f := &fakeQueries{fail: true}
	var r recorder
	m := newTestMonitor(f, r.callbacks())

	m.handleEvent(Event{Action: ActionChange, Object: ObjectSink})

	assert.Empty(t, r.volumes)
	require.Len(t, r.errs, 1)

	var cmdErr *bkerrors.CommandError
	assert.ErrorAs(t, r.errs[0], &cmdErr)
}

func TestQueriesListSinks(t *testing.T) {
	q := &Queries{run: func(ctx context.Context, argv ...string) (string, error) {
		assert.Equal(t, []string{"pactl", "-f", "json", "list", "sinks"}, argv)
		return `[{"index":56,"name":"alsa_output.pci","description":"Built-in Audio","state":"RUNNING","mute":false}]`, nil
	}}

	sinks, err := q.Sinks(context.Background())
	require.NoError(t, err)
	require.Len(t, sinks, 1)
	assert.Equal(t, 56, sinks[0].Index)
	assert.Equal(t, "alsa_output.pci", sinks[0].Name)
	assert.False(t, sinks[0].Mute)
}

func TestQueriesBadJSON(t *testing.T) {
	q := &Queries{run: func(ctx context.Context, argv ...string) (string, error) {
		return "not json", nil
	}}

	_, err := q.Sinks(context.Background())
	require.Error(t, err)
	assert.True(t, bkerrors.IsCode(err, bkerrors.ErrParse))
}

func TestQueriesSetDefaultSink(t *testing.T) {
	var got []string
	q := &Queries{run: func(ctx context.Context, argv ...string) (string, error) {
		got = argv
		return "", nil
	}}

	require.NoError(t, q.SetDefaultSink(context.Background(), "alsa_output.usb-dac"))
	assert.Equal(t, []string{"pactl", "set-default-sink", "alsa_output.usb-dac"}, got)
}
