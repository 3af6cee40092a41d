package network

import "strings"

// ParseMonitorLine decodes one `nmcli monitor` line. The recognized
// grammar, verbatim:
//
//	<device>: connected
//	<device>: disconnected
//	<device>: using connection '<ssid>'
//	Connectivity is now '<full|limited|none>'
//
// Anything else (and nmcli prints plenty else) is dropped.
func ParseMonitorLine(line string) (Event, bool) {
	if rest, ok := strings.CutPrefix(line, "Connectivity is now '"); ok {
		level, ok := strings.CutSuffix(rest, "'")
		if !ok {
			return Event{}, false
		}
		return Event{Type: EventConnectivity, Connectivity: level}, true
	}

	device, rest, ok := strings.Cut(line, ": ")
	if !ok || device == "" {
		return Event{}, false
	}

	switch {
	case rest == "connected":
		return Event{Type: EventConnected, Device: device}, true
	case rest == "disconnected":
		return Event{Type: EventDisconnected, Device: device}, true
	default:
		ssid, ok := strings.CutPrefix(rest, "using connection '")
		if !ok {
			return Event{}, false
		}
		ssid, ok = strings.CutSuffix(ssid, "'")
		if !ok {
			return Event{}, false
		}
		return Event{Type: EventConnecting, Device: device, SSID: ssid}, true
	}
}

// splitTerse splits one row of nmcli terse output on ':', honoring the
// backslash escaping nmcli applies to colons inside fields (BSSIDs).
func splitTerse(line string) []string {
	var fields []string
	var cur strings.Builder

	escaped := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case escaped:
			cur.WriteByte(c)
			escaped = false
		case c == '\\':
			escaped = true
		case c == ':':
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	fields = append(fields, cur.String())
	return fields
}
