package network

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tmstorey/barkeep/internal/exec"
)

// runFunc is the command runner used by Queries; swapped out in tests.
type runFunc func(ctx context.Context, argv ...string) (string, error)

// Queries issues one-shot nmcli invocations and the cheap sysfs/procfs
// reads that back the fast-path poller.
type Queries struct {
	run          runFunc
	procWireless string
	sysNet       string
}

// NewQueries creates a Queries against the real nmcli and kernel paths.
func NewQueries() *Queries {
	return &Queries{
		run:          exec.Run,
		procWireless: "/proc/net/wireless",
		sysNet:       "/sys/class/net",
	}
}

// mapConnectionType converts an nmcli connection TYPE field.
func mapConnectionType(raw string) ConnectionType {
	switch raw {
	case "802-11-wireless":
		return TypeWifi
	case "802-3-ethernet":
		return TypeEthernet
	default:
		return TypeOther
	}
}

// ActiveConnections lists the currently active connections, loopback rows
// skipped.
func (q *Queries) ActiveConnections(ctx context.Context) ([]ActiveConnection, error) {
	out, err := q.run(ctx, "nmcli", "-t", "-f", "NAME,TYPE,DEVICE", "connection", "show", "--active")
	if err != nil {
		return nil, err
	}
	return parseActiveConnections(out), nil
}

func parseActiveConnections(out string) []ActiveConnection {
	var conns []ActiveConnection
	for _, line := range strings.Split(out, "\n") {
		fields := splitTerse(line)
		if len(fields) < 3 || fields[0] == "" {
			continue
		}
		if fields[1] == "loopback" {
			continue
		}
		conns = append(conns, ActiveConnection{
			Name:   fields[0],
			Type:   mapConnectionType(fields[1]),
			Device: fields[2],
		})
	}
	return conns
}

// Active returns a snapshot of the primary active connection, or nil when
// nothing is connected. Wifi connections are enriched from the scan list
// (signal, rate, channel, security); ethernet gets its link speed from
// sysfs when the kernel knows it.
func (q *Queries) Active(ctx context.Context) (*Status, error) {
	conns, err := q.ActiveConnections(ctx)
	if err != nil {
		return nil, err
	}
	if len(conns) == 0 {
		return nil, nil
	}

	conn := conns[0]
	status := &Status{
		Name:   conn.Name,
		Type:   conn.Type,
		Device: conn.Device,
	}

	switch conn.Type {
	case TypeWifi:
		if err := q.fillActiveWifi(ctx, status); err != nil {
			return nil, err
		}
	case TypeEthernet:
		if speed := q.deviceSpeed(conn.Device); speed != nil {
			status.Rate = strconv.Itoa(*speed) + " Mbit/s"
		}
	}
	return status, nil
}

// fillActiveWifi merges the active row of `nmcli device wifi` into status.
func (q *Queries) fillActiveWifi(ctx context.Context, status *Status) error {
	out, err := q.run(ctx, "nmcli", "-t", "-f",
		"SSID,SIGNAL,RATE,FREQ,CHAN,SECURITY,DEVICE,ACTIVE", "device", "wifi")
	if err != nil {
		return err
	}
	if row := parseActiveWifi(out); row != nil {
		status.Name = row.SSID
		status.Device = row.Device
		status.Signal = intPtr(row.Signal)
		status.Rate = row.Rate
		status.Freq = row.Freq
		status.Channel = intPtr(row.Channel)
		status.Security = row.Security
	}
	return nil
}

// parseActiveWifi returns the row marked active, or nil.
func parseActiveWifi(out string) *WifiNetwork {
	for _, line := range strings.Split(out, "\n") {
		fields := splitTerse(line)
		if len(fields) < 8 || fields[7] != "yes" {
			continue
		}
		n := &WifiNetwork{
			SSID:     fields[0],
			Rate:     fields[2],
			Freq:     fields[3],
			Security: fields[5],
			Device:   fields[6],
			Active:   true,
		}
		n.Signal, _ = strconv.Atoi(fields[1])
		n.Channel, _ = strconv.Atoi(fields[4])
		return n
	}
	return nil
}

// WifiNetworks returns the visible wifi networks.
func (q *Queries) WifiNetworks(ctx context.Context) ([]WifiNetwork, error) {
	out, err := q.run(ctx, "nmcli", "-t", "-f",
		"SSID,BSSID,SIGNAL,RATE,FREQ,CHAN,SECURITY,DEVICE,ACTIVE", "device", "wifi", "list")
	if err != nil {
		return nil, err
	}
	return parseWifiList(out), nil
}

func parseWifiList(out string) []WifiNetwork {
	var nets []WifiNetwork
	for _, line := range strings.Split(out, "\n") {
		fields := splitTerse(line)
		if len(fields) < 9 || fields[0] == "" {
			continue
		}
		n := WifiNetwork{
			SSID:     fields[0],
			BSSID:    fields[1],
			Rate:     fields[3],
			Freq:     fields[4],
			Security: fields[6],
			Device:   fields[7],
			Active:   fields[8] == "yes",
		}
		n.Signal, _ = strconv.Atoi(fields[2])
		n.Channel, _ = strconv.Atoi(fields[5])
		nets = append(nets, n)
	}
	return nets
}

// EthernetDevices returns the wired NICs known to NetworkManager.
func (q *Queries) EthernetDevices(ctx context.Context) ([]EthernetDevice, error) {
	out, err := q.run(ctx, "nmcli", "-t", "-f", "DEVICE,TYPE,STATE,CONNECTION", "device", "status")
	if err != nil {
		return nil, err
	}

	devices := parseEthernetStatus(out)
	for i := range devices {
		devices[i].Speed = q.deviceSpeed(devices[i].Device)
	}
	return devices, nil
}

func parseEthernetStatus(out string) []EthernetDevice {
	var devices []EthernetDevice
	for _, line := range strings.Split(out, "\n") {
		fields := splitTerse(line)
		if len(fields) < 4 || fields[1] != "ethernet" {
			continue
		}
		state := EthernetDisconnected
		switch fields[2] {
		case "connected":
			state = EthernetConnected
		case "unavailable":
			state = EthernetUnavailable
		}
		devices = append(devices, EthernetDevice{
			Device:     fields[0],
			State:      state,
			Connection: fields[3],
		})
	}
	return devices
}

// deviceSpeed reads the link speed in Mb/s from sysfs. The kernel reports
// -1 for an unknown speed (link down, virtual device); that and any other
// non-positive value surface as absent.
func (q *Queries) deviceSpeed(device string) *int {
	raw, err := os.ReadFile(filepath.Join(q.sysNet, device, "speed"))
	if err != nil {
		return nil
	}
	speed, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil || speed <= 0 {
		return nil
	}
	return &speed
}

func intPtr(v int) *int {
	return &v
}
