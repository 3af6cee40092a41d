package supervisor

import "sync"

// State is the observable run state of a registered daemon.
type State int

const (
	// Stopped means no supervising task owns the daemon.
	Stopped State = iota
	// Running means a supervising task has been forked for the daemon.
	Running
)

// String returns a human-readable state string.
func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

// StateCell is an observable value holding a daemon's current State.
// Subscribers receive the current value immediately on subscription and
// every subsequent change. Delivery never blocks the writer: a subscriber
// that lags is caught up with the latest value only.
type StateCell struct {
	mu    sync.Mutex
	value State
	subs  map[int]chan State
	next  int
}

// NewStateCell creates a cell holding the given initial state.
func NewStateCell(initial State) *StateCell {
	return &StateCell{
		value: initial,
		subs:  make(map[int]chan State),
	}
}

// Get returns the current state.
func (c *StateCell) Get() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Subscribe returns a channel that yields the current state immediately,
// then every change, and a cancel function that releases the subscription
// and closes the channel. Cancel is safe to call more than once.
func (c *StateCell) Subscribe() (<-chan State, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan State, 1)
	ch <- c.value

	id := c.next
	c.next++
	c.subs[id] = ch

	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// set updates the value and notifies subscribers. A no-op when the value
// is unchanged.
func (c *StateCell) set(v State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v == c.value {
		return
	}
	c.value = v

	for _, ch := range c.subs {
		// Coalesce: drop the undelivered previous value so the channel
		// always holds the latest state.
		select {
		case <-ch:
		default:
		}
		ch <- v
	}
}
