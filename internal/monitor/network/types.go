package network

// EventType tags a parsed `nmcli monitor` line.
type EventType int

const (
	// EventConnected means a device finished activating.
	EventConnected EventType = iota
	// EventDisconnected means a device dropped its connection.
	EventDisconnected
	// EventConnecting means a device started using a connection profile.
	EventConnecting
	// EventConnectivity reports the overall connectivity level.
	EventConnectivity
)

// Event is one decoded monitor line. Device is set for the device-scoped
// variants, SSID only for EventConnecting, Connectivity only for
// EventConnectivity.
type Event struct {
	Type         EventType
	Device       string
	SSID         string
	Connectivity string // full, limited, or none
}

// ConnectionType classifies an active connection.
type ConnectionType string

const (
	TypeWifi     ConnectionType = "wifi"
	TypeEthernet ConnectionType = "ethernet"
	TypeOther    ConnectionType = "other"
)

// Status is a snapshot of the active connection. The pointer fields are
// absent when the underlying tool did not report them (e.g. no signal for
// ethernet, no link speed for a downed NIC).
type Status struct {
	Name     string
	Type     ConnectionType
	Device   string
	Signal   *int // percent
	Rate     string
	Freq     string
	Channel  *int
	Security string
}

// WifiNetwork is one row of the wifi scan list.
type WifiNetwork struct {
	SSID     string
	BSSID    string
	Signal   int
	Rate     string
	Freq     string
	Channel  int
	Security string
	Device   string
	Active   bool
}

// EthernetState classifies an ethernet device's link state.
type EthernetState string

const (
	EthernetConnected    EthernetState = "connected"
	EthernetDisconnected EthernetState = "disconnected"
	EthernetUnavailable  EthernetState = "unavailable"
)

// EthernetDevice is one wired NIC. Speed is Mb/s from sysfs, absent when
// the kernel reports it as unknown.
type EthernetDevice struct {
	Device     string
	State      EthernetState
	Connection string
	Speed      *int
}

// ActiveConnection is one row of the active connection list.
type ActiveConnection struct {
	Name   string
	Type   ConnectionType
	Device string
}
