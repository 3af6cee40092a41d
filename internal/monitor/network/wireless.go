package network

import (
	"math"
	"os"
	"regexp"
	"strconv"
)

// qualityMax is the upper bound of the link quality scale in
// /proc/net/wireless.
const qualityMax = 70

// SignalPercent converts a raw 0..70 link quality to a percentage.
func SignalPercent(quality int) int {
	return int(math.Round(float64(quality) / qualityMax * 100))
}

// ParseWirelessSignal extracts the given device's link quality from the
// contents of /proc/net/wireless and returns it as a percentage, or nil
// when the device has no row. This is the fast path: one file read per
// poll tick instead of an nmcli invocation.
func ParseWirelessSignal(contents, device string) *int {
	re := regexp.MustCompile(`(?m)^\s*` + regexp.QuoteMeta(device) + `:\s+\d+\s+(\d+)\.`)
	m := re.FindStringSubmatch(contents)
	if m == nil {
		return nil
	}
	quality, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	pct := SignalPercent(quality)
	return &pct
}

// WirelessSignal reads the fast-path signal percentage for device. Absent
// on any read or parse failure; a poll tick treats that as nothing to
// report.
func (q *Queries) WirelessSignal(device string) *int {
	raw, err := os.ReadFile(q.procWireless)
	if err != nil {
		return nil
	}
	return ParseWirelessSignal(string(raw), device)
}
