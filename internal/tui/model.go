// Package tui is the live status dashboard behind `barkeep monitor`. It
// renders the supervisor's daemon registry alongside the network and audio
// monitors, all updating in place as events arrive.
package tui

import (
	"sort"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tmstorey/barkeep/internal/monitor/audio"
	"github.com/tmstorey/barkeep/internal/monitor/network"
	"github.com/tmstorey/barkeep/internal/supervisor"
)

// dashboardKeyMap defines key bindings for the dashboard.
type dashboardKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Quit   key.Binding
}

var dashboardKeys = dashboardKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "previous daemon"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "next daemon"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "start/stop"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Messages pushed into the model by monitor callbacks and state cells.
type (
	netStatusMsg struct{ status *network.Status } // nil means disconnected
	signalMsg    int
	volumeMsg    audio.Status
	defaultSinkMsg string
	daemonStateMsg struct {
		name  string
		state supervisor.State
	}
	monitorErrMsg struct{ err error }
)

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	sup     *supervisor.Supervisor
	events  chan tea.Msg
	cancels []func()

	daemons []string
	states  map[string]supervisor.State

	net     *network.Status
	signal  *int
	vol     *audio.Status
	sink    string
	lastErr string

	selected int
	width    int
	quitting bool
}

// NewModel creates a dashboard over the supervisor's current registry and
// subscribes to every daemon's state cell.
func NewModel(sup *supervisor.Supervisor) Model {
	m := Model{
		sup:    sup,
		events: make(chan tea.Msg, 32),
		states: make(map[string]supervisor.State),
	}

	for _, d := range sup.List() {
		m.daemons = append(m.daemons, d.Name)
		m.states[d.Name] = d.State

		cell, err := sup.Watch(d.Name)
		if err != nil {
			continue
		}
		ch, cancel := cell.Subscribe()
		m.cancels = append(m.cancels, cancel)
		go func(name string, ch <-chan supervisor.State) {
			for state := range ch {
				m.events <- daemonStateMsg{name: name, state: state}
			}
		}(d.Name, ch)
	}
	sort.Strings(m.daemons)
	return m
}

// NetworkCallbacks adapts the model's event channel to the network monitor.
func (m Model) NetworkCallbacks() network.Callbacks {
	return network.Callbacks{
		OnConnect: func(s network.Status) {
			m.events <- netStatusMsg{status: &s}
		},
		OnDisconnect: func() {
			m.events <- netStatusMsg{}
		},
		OnSignal: func(pct int) {
			m.events <- signalMsg(pct)
		},
		OnError: func(err error) {
			m.events <- monitorErrMsg{err: err}
		},
	}
}

// AudioCallbacks adapts the model's event channel to the audio monitor.
func (m Model) AudioCallbacks() audio.Callbacks {
	return audio.Callbacks{
		OnVolume: func(s audio.Status) {
			m.events <- volumeMsg(s)
		},
		OnDefaultSink: func(name string) {
			m.events <- defaultSinkMsg(name)
		},
		OnError: func(err error) {
			m.events <- monitorErrMsg{err: err}
		},
	}
}

// waitEvent blocks for the next pushed message.
func (m Model) waitEvent() tea.Msg {
	return <-m.events
}

// Init starts the event pump.
func (m Model) Init() tea.Cmd {
	return m.waitEvent
}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case daemonStateMsg:
		m.states[msg.name] = msg.state
		return m, m.waitEvent

	case netStatusMsg:
		m.net = msg.status
		if msg.status == nil {
			m.signal = nil
		} else {
			m.signal = msg.status.Signal
		}
		return m, m.waitEvent

	case signalMsg:
		pct := int(msg)
		m.signal = &pct
		return m, m.waitEvent

	case volumeMsg:
		s := audio.Status(msg)
		m.vol = &s
		return m, m.waitEvent

	case defaultSinkMsg:
		m.sink = string(msg)
		return m, m.waitEvent

	case monitorErrMsg:
		m.lastErr = msg.err.Error()
		return m, m.waitEvent
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, dashboardKeys.Quit):
		m.quitting = true
		for _, cancel := range m.cancels {
			cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, dashboardKeys.Up):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case key.Matches(msg, dashboardKeys.Down):
		if m.selected < len(m.daemons)-1 {
			m.selected++
		}
		return m, nil

	case key.Matches(msg, dashboardKeys.Toggle):
		if m.selected < 0 || m.selected >= len(m.daemons) {
			return m, nil
		}
		name := m.daemons[m.selected]
		// Read the state here; the command closure runs on another
		// goroutine while Update keeps writing the map.
		running := m.states[name] == supervisor.Running
		return m, func() tea.Msg {
			if running {
				_ = m.sup.Stop(name)
			} else {
				_, _ = m.sup.Start(name)
			}
			return nil
		}
	}
	return m, nil
}
