package cli

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/tmstorey/barkeep/internal/config"
	"github.com/tmstorey/barkeep/internal/lock"
	"github.com/tmstorey/barkeep/internal/logger"
	"github.com/tmstorey/barkeep/internal/monitor/audio"
	"github.com/tmstorey/barkeep/internal/monitor/network"
	"github.com/tmstorey/barkeep/internal/supervisor"
	"github.com/tmstorey/barkeep/internal/ui"
)

// upCommand is the long-running session: it registers every configured
// daemon, starts the autostart ones, runs both monitors, and reloads the
// config on edit until a signal arrives.
func upCommand(noAutostart bool) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}

	sessionLock, err := lock.Acquire(runtimeDir(), "up")
	if err != nil {
		return err
	}
	defer sessionLock.Release()

	log := logger.Default()
	sup := supervisor.New(log)

	if err := registerDaemons(sup, cfg); err != nil {
		return err
	}

	if !noAutostart {
		startAutostart(sup, cfg)
	}

	var stops []func()

	if cfg.Network.Enabled {
		_, stop := network.Start(nil, upNetworkCallbacks(log), network.Config{
			PollInterval: cfg.Network.PollInterval,
			RestartDelay: cfg.Network.RestartDelay,
			Log:          log,
		})
		stops = append(stops, stop)
	}

	if cfg.Audio.Enabled {
		_, stop := audio.Start(nil, upAudioCallbacks(log), audio.Config{
			RestartDelay: cfg.Audio.RestartDelay,
			Log:          log,
		})
		stops = append(stops, stop)
	}

	stopWatch, err := config.Watch(path, func(next *config.Config) {
		if err := registerDaemons(sup, next); err != nil {
			log.Warn("[up] config reload: %v", err)
			return
		}
		fmt.Printf("%s config reloaded\n", ui.SymbolSuccess)
	}, log)
	if err != nil {
		log.Warn("[up] config watch unavailable: %v", err)
	} else {
		stops = append(stops, stopWatch)
	}

	fmt.Printf("%s barkeep is up (%d daemons). Ctrl+C to stop.\n",
		ui.SymbolSuccess, len(cfg.Daemons))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	fmt.Println("\nshutting down")
	for _, stop := range stops {
		stop()
	}
	for _, d := range sup.List() {
		_ = sup.Stop(d.Name)
	}
	return nil
}

// registerDaemons upserts every configured daemon into the supervisor.
// Running daemons keep running with their old command until restarted.
func registerDaemons(sup *supervisor.Supervisor, cfg *config.Config) error {
	for name, dc := range cfg.Daemons {
		argv, err := dc.ResolveArgv(name)
		if err != nil {
			return err
		}
		if err := sup.Set(name, argv); err != nil {
			return err
		}
	}
	return nil
}

func startAutostart(sup *supervisor.Supervisor, cfg *config.Config) {
	names := make([]string, 0, len(cfg.Daemons))
	for name, dc := range cfg.Daemons {
		if dc.Autostart {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := sup.Start(name); err != nil {
			fmt.Printf("%s %s: %v\n", ui.SymbolFail, name, err)
			continue
		}
		fmt.Printf("%s started %s\n", ui.SymbolSuccess, name)
	}
}

func upNetworkCallbacks(log logger.Logger) network.Callbacks {
	return network.Callbacks{
		OnConnect: func(s network.Status) {
			fmt.Printf("%s network: %s (%s, %s)\n",
				ui.SymbolSuccess, s.Name, s.Type, s.Device)
		},
		OnDisconnect: func() {
			fmt.Printf("%s network: disconnected\n", ui.SymbolFail)
		},
		OnSignal: func(pct int) {
			log.Debug("[up] signal %d%%", pct)
		},
		OnError: func(err error) {
			log.Warn("[up] network monitor: %v", err)
		},
	}
}

func upAudioCallbacks(log logger.Logger) audio.Callbacks {
	return audio.Callbacks{
		OnVolume: func(s audio.Status) {
			if s.Muted {
				fmt.Printf("%s volume: %d%% [muted]\n", ui.SymbolVolume, s.Volume)
				return
			}
			fmt.Printf("%s volume: %d%%\n", ui.SymbolVolume, s.Volume)
		},
		OnDefaultSink: func(name string) {
			fmt.Printf("%s default sink: %s\n", ui.SymbolVolume, name)
		},
		OnError: func(err error) {
			log.Warn("[up] audio monitor: %v", err)
		},
	}
}
