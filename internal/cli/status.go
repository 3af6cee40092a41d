package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tmstorey/barkeep/internal/config"
	"github.com/tmstorey/barkeep/internal/errors"
	"github.com/tmstorey/barkeep/internal/monitor/audio"
	"github.com/tmstorey/barkeep/internal/monitor/network"
	"github.com/tmstorey/barkeep/internal/ui"
)

var statusJSON bool

// statusCmd shows a one-shot snapshot of daemons, network, and audio
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon, network, and audio status",
	Long: `Display a one-shot snapshot: every configured daemon with its running
state, the active network connection, and the default sink volume.

Examples:
  barkeep status
  barkeep status --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return statusCommand()
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output in JSON format")
	rootCmd.AddCommand(statusCmd)
}

// StatusOutput is the JSON shape of the status command.
type StatusOutput struct {
	Daemons []DaemonStatus `json:"daemons"`
	Network *NetworkStatus `json:"network"`
	Audio   *AudioStatus   `json:"audio"`
}

// DaemonStatus is one configured daemon's row.
type DaemonStatus struct {
	Name      string `json:"name"`
	Running   bool   `json:"running"`
	Autostart bool   `json:"autostart"`
	Command   string `json:"command"`
}

// NetworkStatus mirrors the active connection snapshot.
type NetworkStatus struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Device string `json:"device"`
	Signal *int   `json:"signal,omitempty"`
	Rate   string `json:"rate,omitempty"`
}

// AudioStatus mirrors the default sink snapshot.
type AudioStatus struct {
	Volume int    `json:"volume"`
	Muted  bool   `json:"muted"`
	Sink   string `json:"sink,omitempty"`
}

func statusCommand() error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	out := StatusOutput{Daemons: collectDaemonStatus(cfg.Daemons)}
	ctx := context.Background()

	// Best-effort queries: a missing nmcli or pactl leaves the section
	// empty instead of failing the whole command.
	nq := network.NewQueries()
	if active, err := nq.Active(ctx); err == nil && active != nil {
		out.Network = &NetworkStatus{
			Name:   active.Name,
			Type:   string(active.Type),
			Device: active.Device,
			Signal: active.Signal,
			Rate:   active.Rate,
		}
	}

	aq := audio.NewQueries()
	if vol, err := aq.GetVolume(ctx); err == nil {
		as := &AudioStatus{Volume: vol.Volume, Muted: vol.Muted}
		if sink, err := aq.DefaultSink(ctx); err == nil {
			as.Sink = sink
		}
		out.Audio = as
	}

	if statusJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return errors.WrapWithCode(err, errors.ErrExec,
				"Failed to encode status as JSON",
				"This shouldn't happen - please report this bug.")
		}
		return nil
	}

	printStatusText(out)
	return nil
}

func collectDaemonStatus(daemons map[string]config.DaemonConfig) []DaemonStatus {
	names := make([]string, 0, len(daemons))
	for name := range daemons {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]DaemonStatus, 0, len(names))
	for _, name := range names {
		dc := daemons[name]
		command := dc.Command
		if command == "" && len(dc.Argv) > 0 {
			command = strings.Join(dc.Argv, " ")
		}
		rows = append(rows, DaemonStatus{
			Name:      name,
			Running:   daemonAlive(name),
			Autostart: dc.Autostart,
			Command:   command,
		})
	}
	return rows
}

func printStatusText(out StatusOutput) {
	fmt.Println("Daemons")
	if len(out.Daemons) == 0 {
		fmt.Println("  (none configured)")
	}
	rows := make([][]string, 0, len(out.Daemons))
	for _, d := range out.Daemons {
		state := ui.SymbolStopped + " stopped"
		if d.Running {
			state = ui.SymbolRunning + " running"
		}
		auto := ""
		if d.Autostart {
			auto = "autostart"
		}
		rows = append(rows, []string{"  " + d.Name, state, auto, d.Command})
	}
	if len(rows) > 0 {
		fmt.Println(ui.RenderTable([]ui.Column{
			{Title: "  NAME", Width: 18},
			{Title: "STATE", Width: 12},
			{Title: "", Width: 10},
			{Title: "COMMAND", Width: 0},
		}, rows))
	}

	fmt.Println("Network")
	if out.Network == nil {
		fmt.Println("  disconnected")
	} else {
		line := fmt.Sprintf("  %s (%s, %s)", out.Network.Name, out.Network.Type, out.Network.Device)
		if out.Network.Signal != nil {
			line += "  " + ui.FormatSignal(out.Network.Signal)
		}
		if out.Network.Rate != "" {
			line += "  " + out.Network.Rate
		}
		fmt.Println(line)
	}

	fmt.Println("Audio")
	if out.Audio == nil {
		fmt.Println("  unavailable")
	} else {
		line := fmt.Sprintf("  %d%%", out.Audio.Volume)
		if out.Audio.Muted {
			line += " [muted]"
		}
		if out.Audio.Sink != "" {
			line += "  " + out.Audio.Sink
		}
		fmt.Println(line)
	}
}
