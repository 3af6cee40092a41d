package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tmstorey/barkeep/internal/errors"
)

// ReservedDaemonNames are command names that cannot be used as daemon names.
var ReservedDaemonNames = map[string]bool{
	"up":         true,
	"status":     true,
	"start":      true,
	"stop":       true,
	"daemons":    true,
	"net":        true,
	"vol":        true,
	"monitor":    true,
	"init":       true,
	"help":       true,
	"version":    true,
	"completion": true,
}

// minPollInterval guards against hammering /proc/net/wireless.
const minPollInterval = 100 * time.Millisecond

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but barkeep only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest barkeep release")
	}

	for name, d := range cfg.Daemons {
		if strings.TrimSpace(name) == "" {
			return errors.New(errors.ErrConfig,
				"A daemon has an empty name",
				"Every entry under daemons: needs a non-empty key")
		}
		if ReservedDaemonNames[name] {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Can't use '%s' as a daemon name - that's a built-in command", name),
				"Pick a different name for this daemon")
		}
		if _, err := d.ResolveArgv(name); err != nil {
			return err
		}
	}

	if cfg.Network.PollInterval != 0 && cfg.Network.PollInterval < minPollInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("network.poll_interval %s is too short", cfg.Network.PollInterval),
			fmt.Sprintf("Use at least %s", minPollInterval))
	}

	return nil
}
