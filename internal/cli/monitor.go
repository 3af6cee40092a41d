package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tmstorey/barkeep/internal/errors"
	"github.com/tmstorey/barkeep/internal/logger"
	"github.com/tmstorey/barkeep/internal/monitor/audio"
	"github.com/tmstorey/barkeep/internal/monitor/network"
	"github.com/tmstorey/barkeep/internal/supervisor"
	"github.com/tmstorey/barkeep/internal/tui"
)

// monitorCommand runs the live dashboard. Daemons started from the
// dashboard belong to this session and are stopped when it exits.
func monitorCommand() error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.Noop()
	sup := supervisor.New(log)
	if err := registerDaemons(sup, cfg); err != nil {
		return err
	}

	model := tui.NewModel(sup)

	var stops []func()
	if cfg.Network.Enabled {
		_, stop := network.Start(nil, model.NetworkCallbacks(), network.Config{
			PollInterval: cfg.Network.PollInterval,
			RestartDelay: cfg.Network.RestartDelay,
			Log:          log,
		})
		stops = append(stops, stop)
	}
	if cfg.Audio.Enabled {
		_, stop := audio.Start(nil, model.AudioCallbacks(), audio.Config{
			RestartDelay: cfg.Audio.RestartDelay,
			Log:          log,
		})
		stops = append(stops, stop)
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, runErr := p.Run()

	for _, stop := range stops {
		stop()
	}
	for _, d := range sup.List() {
		_ = sup.Stop(d.Name)
	}

	if runErr != nil {
		return errors.WrapWithCode(runErr, errors.ErrExec,
			"The dashboard crashed",
			"Run with BARKEEP_DEBUG=1 for details.")
	}
	return nil
}
