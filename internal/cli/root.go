// Package cli wires the barkeep commands together with cobra.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// cfgFile holds the --config flag value.
var cfgFile string

// rootCmd is the base command for barkeep.
var rootCmd = &cobra.Command{
	Use:   "barkeep",
	Short: "Supervise status-bar daemons and watch network/audio state",
	Long: `barkeep keeps the helper processes behind a desktop status bar alive and
turns NetworkManager and PulseAudio/PipeWire events into usable state.

Daemons are declared in .barkeep.yaml and supervised as process groups.
The network and audio monitors follow 'nmcli monitor' and 'pactl subscribe'
so state updates arrive as events instead of polling.

Common commands:
  barkeep up        Start the configured daemons and monitors
  barkeep status    One-shot snapshot of daemons, network, and audio
  barkeep monitor   Live dashboard
  barkeep init      Create a starter .barkeep.yaml`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .barkeep.yaml, searched upward)")
}

// Config returns the --config flag value for config.Find.
func Config() string {
	return cfgFile
}

// Execute runs the root command and exits non-zero on error. Structured
// errors render their own suggestion text.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
