package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓" // Operation completed successfully
	SymbolFail     = "✗" // Operation failed
	SymbolRunning  = "●" // Daemon running
	SymbolStopped  = "○" // Daemon stopped
	SymbolWifi     = "" // Wifi connection (nerd font)
	SymbolEthernet = "" // Wired connection (nerd font)
	SymbolMuted    = "" // Audio muted (nerd font)
	SymbolVolume   = "" // Audio volume (nerd font)
)
