package config

import (
	"time"

	"github.com/google/shlex"

	"github.com/tmstorey/barkeep/internal/errors"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .barkeep.yaml configuration file.
type Config struct {
	Version int                     `yaml:"version" mapstructure:"version"`
	Daemons map[string]DaemonConfig `yaml:"daemons" mapstructure:"daemons"`
	Network NetworkConfig           `yaml:"network" mapstructure:"network"`
	Audio   AudioConfig             `yaml:"audio" mapstructure:"audio"`
}

// DaemonConfig defines one supervised helper process. Either Command (a
// shell-like string, split with shlex) or Argv (explicit vector) must be
// set; Argv wins when both are.
type DaemonConfig struct {
	Command string `yaml:"command,omitempty" mapstructure:"command"`

	Argv []string `yaml:"argv,omitempty,flow" mapstructure:"argv"`

	// Autostart daemons are started by `barkeep up`. Others wait for an
	// explicit `barkeep start`.
	Autostart bool `yaml:"autostart" mapstructure:"autostart"`
}

// ResolveArgv returns the argv to spawn for the daemon named name.
func (d DaemonConfig) ResolveArgv(name string) ([]string, error) {
	if len(d.Argv) > 0 {
		return d.Argv, nil
	}
	argv, err := shlex.Split(d.Command)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Can't parse the command for daemon '"+name+"'",
			"Check the quoting, or use the argv list form instead.")
	}
	if len(argv) == 0 {
		return nil, errors.New(errors.ErrConfig,
			"Daemon '"+name+"' has no command",
			"Set either command or argv.")
	}
	return argv, nil
}

// NetworkConfig tunes the network monitor.
type NetworkConfig struct {
	// Enabled defaults to true.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// PollInterval is the fast-path signal poll cadence.
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`

	// RestartDelay is the watcher respawn delay after `nmcli monitor` dies.
	RestartDelay time.Duration `yaml:"restart_delay" mapstructure:"restart_delay"`
}

// AudioConfig tunes the audio monitor.
type AudioConfig struct {
	// Enabled defaults to true.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// RestartDelay is the watcher respawn delay after `pactl subscribe` dies.
	RestartDelay time.Duration `yaml:"restart_delay" mapstructure:"restart_delay"`
}
