package cli

import (
	"fmt"

	"github.com/tmstorey/barkeep/internal/ui"
)

// daemonsCommand lists every configured daemon with its detached state.
func daemonsCommand() error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	statuses := collectDaemonStatus(cfg.Daemons)
	if len(statuses) == 0 {
		fmt.Println("No daemons configured. Add some under 'daemons:' in your config.")
		return nil
	}

	rows := make([][]string, 0, len(statuses))
	for _, d := range statuses {
		state := ui.StateStyle(d.Running).Render(stateWord(d.Running))
		auto := "-"
		if d.Autostart {
			auto = "yes"
		}
		rows = append(rows, []string{d.Name, state, auto, d.Command})
	}

	fmt.Print(ui.RenderTable([]ui.Column{
		{Title: "NAME", Width: 16},
		{Title: "STATE", Width: 8},
		{Title: "AUTOSTART", Width: 9},
		{Title: "COMMAND", Width: 0},
	}, rows))
	return nil
}

func stateWord(running bool) string {
	if running {
		return ui.SymbolRunning + " running"
	}
	return ui.SymbolStopped + " stopped"
}
