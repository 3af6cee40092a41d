package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonitorLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Event
		ok   bool
	}{
		{
			name: "connected",
			line: "wlan0: connected",
			want: Event{Type: EventConnected, Device: "wlan0"},
			ok:   true,
		},
		{
			name: "disconnected",
			line: "wlan0: disconnected",
			want: Event{Type: EventDisconnected, Device: "wlan0"},
			ok:   true,
		},
		{
			name: "using connection",
			line: "wlan0: using connection 'My Network 5G'",
			want: Event{Type: EventConnecting, Device: "wlan0", SSID: "My Network 5G"},
			ok:   true,
		},
		{
			name: "connectivity limited",
			line: "Connectivity is now 'limited'",
			want: Event{Type: EventConnectivity, Connectivity: "limited"},
			ok:   true,
		},
		{
			name: "connectivity full",
			line: "Connectivity is now 'full'",
			want: Event{Type: EventConnectivity, Connectivity: "full"},
			ok:   true,
		},
		{
			name: "unrecognized chatter",
			line: "NetworkManager is running",
			ok:   false,
		},
		{
			name: "device with unknown verb",
			line: "wlan0: deactivating",
			ok:   false,
		},
		{
			name: "empty line",
			line: "",
			ok:   false,
		},
		{
			name: "connectivity missing closing quote",
			line: "Connectivity is now 'limited",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseMonitorLine(tt.line)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSplitTerse(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "plain fields",
			line: "eth0:ethernet:connected:Wired 1",
			want: []string{"eth0", "ethernet", "connected", "Wired 1"},
		},
		{
			name: "escaped colons in BSSID",
			line: `MyNet:AA\:BB\:CC\:DD\:EE\:FF:67:yes`,
			want: []string{"MyNet", "AA:BB:CC:DD:EE:FF", "67", "yes"},
		},
		{
			name: "empty fields",
			line: "::x:",
			want: []string{"", "", "x", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitTerse(tt.line))
		})
	}
}

func TestParseWifiList(t *testing.T) {
	out := `MyNet:AA\:BB\:CC\:DD\:EE\:FF:67:405 Mbit/s:5500 MHz:100:WPA2:wlan0:yes
Neighbor:11\:22\:33\:44\:55\:66:34:130 Mbit/s:2437 MHz:6:WPA1 WPA2:wlan0:no
`
	nets := parseWifiList(out)
	require.Len(t, nets, 2)

	assert.Equal(t, "MyNet", nets[0].SSID)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", nets[0].BSSID)
	assert.Equal(t, 67, nets[0].Signal)
	assert.Equal(t, "405 Mbit/s", nets[0].Rate)
	assert.Equal(t, 100, nets[0].Channel)
	assert.Equal(t, "WPA2", nets[0].Security)
	assert.True(t, nets[0].Active)

	assert.Equal(t, "Neighbor", nets[1].SSID)
	assert.False(t, nets[1].Active)
}

func TestParseEthernetStatus(t *testing.T) {
	out := `eth0:ethernet:connected:Wired connection 1
wlan0:wifi:connected:MyNet
eth1:ethernet:unavailable:
virbr0:bridge:connected (externally):virbr0
eth2:ethernet:disconnected:
lo:loopback:unmanaged:
`
	devices := parseEthernetStatus(out)
	require.Len(t, devices, 3)

	assert.Equal(t, "eth0", devices[0].Device)
	assert.Equal(t, EthernetConnected, devices[0].State)
	assert.Equal(t, "Wired connection 1", devices[0].Connection)

	assert.Equal(t, EthernetUnavailable, devices[1].State)
	assert.Equal(t, EthernetDisconnected, devices[2].State)
}

func TestParseActiveConnections(t *testing.T) {
	out := `MyNet:802-11-wireless:wlan0
lo:loopback:lo
Wired connection 1:802-3-ethernet:eth0
tun0:tun:tun0
`
	conns := parseActiveConnections(out)
	require.Len(t, conns, 3)

	assert.Equal(t, ActiveConnection{Name: "MyNet", Type: TypeWifi, Device: "wlan0"}, conns[0])
	assert.Equal(t, ActiveConnection{Name: "Wired connection 1", Type: TypeEthernet, Device: "eth0"}, conns[1])
	assert.Equal(t, TypeOther, conns[2].Type)
}

func TestParseActiveWifi(t *testing.T) {
	out := `Neighbor:34:130 Mbit/s:2437 MHz:6:WPA2:wlan0:no
MyNet:67:405 Mbit/s:5500 MHz:100:WPA2:wlan0:yes
`
	row := parseActiveWifi(out)
	require.NotNil(t, row)
	assert.Equal(t, "MyNet", row.SSID)
	assert.Equal(t, 67, row.Signal)
	assert.Equal(t, 100, row.Channel)

	assert.Nil(t, parseActiveWifi("Neighbor:34:130 Mbit/s:2437 MHz:6:WPA2:wlan0:no\n"))
}
