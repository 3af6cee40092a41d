package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tmstorey/barkeep/internal/errors"
)

// Command-specific flags
var upNoAutostart bool

// upCmd starts the configured daemons and monitors in the foreground
var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Start configured daemons and monitors",
	Long: `Load the configuration, register every daemon, start the ones marked
autostart, and run the network and audio monitors until interrupted.

Config edits are picked up while running: changed daemon commands are
re-registered, and new daemons become startable.

Examples:
  barkeep up
  barkeep up --no-autostart`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return upCommand(upNoAutostart)
	},
}

// startCmd spawns one configured daemon detached from the CLI
var startCmd = &cobra.Command{
	Use:   "start <daemon>",
	Short: "Start a configured daemon",
	Long: `Start the named daemon in its own process group and leave it running
after barkeep exits. Its output goes to the state directory log.

Examples:
  barkeep start picom
  barkeep start nm-applet`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return startCommand(args[0])
	},
}

// stopCmd kills a previously started daemon's process group
var stopCmd = &cobra.Command{
	Use:   "stop <daemon>",
	Short: "Stop a running daemon",
	Long: `Stop the named daemon by killing the process group recorded when it
was started.

Examples:
  barkeep stop picom`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return stopCommand(args[0])
	},
}

// daemonsCmd lists configured daemons and whether they are running
var daemonsCmd = &cobra.Command{
	Use:   "daemons",
	Short: "List configured daemons",
	RunE: func(cmd *cobra.Command, args []string) error {
		return daemonsCommand()
	},
}

// monitorCmd starts the live dashboard
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Live daemon, network, and audio dashboard",
	Long: `Start an interactive dashboard showing daemon states, the active
network connection with live signal strength, and the default sink volume.

Keyboard shortcuts:
  q / Ctrl+C  Quit
  up/k        Select previous daemon
  down/j      Select next daemon
  Enter       Start or stop the selected daemon

Examples:
  barkeep monitor`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorCommand()
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for barkeep.

Examples:
  # Bash
  barkeep completion bash > /etc/bash_completion.d/barkeep

  # Zsh
  barkeep completion zsh > "${fpath[1]}/_barkeep"

  # Fish
  barkeep completion fish > ~/.config/fish/completions/barkeep.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		default:
			return errors.New(errors.ErrExec,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	upCmd.Flags().BoolVar(&upNoAutostart, "no-autostart", false, "register daemons but don't start any")

	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(daemonsCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(completionCmd)
}
