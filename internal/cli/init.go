package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tmstorey/barkeep/internal/config"
	"github.com/tmstorey/barkeep/internal/errors"
	"github.com/tmstorey/barkeep/internal/ui"
)

var initForce bool

// initCmd creates a new .barkeep.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .barkeep.yaml configuration",
	Long: `Initialize a new barkeep configuration file.

Creates a .barkeep.yaml in the current directory and walks you through
declaring your first daemon.

Examples:
  barkeep init
  barkeep init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(initForce)
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
	rootCmd.AddCommand(initCmd)
}

func initCommand(force bool) error {
	configPath := filepath.Join(".", config.ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !force {
		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	var daemonName, daemonCommand string
	var autostart, enableNetwork, enableAudio bool
	autostart = true
	enableNetwork = true
	enableAudio = true

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("First daemon name").
				Description("A short name for a helper process to supervise").
				Placeholder("picom").
				Value(&daemonName).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s == "" {
						return fmt.Errorf("daemon name is required")
					}
					if strings.ContainsAny(s, " \t\n/") {
						return fmt.Errorf("daemon name cannot contain whitespace or '/'")
					}
					if config.ReservedDaemonNames[s] {
						return fmt.Errorf("'%s' is a reserved name", s)
					}
					return nil
				}),
			huh.NewInput().
				Title("Command").
				Description("The command line to run, quoted like a shell").
				Placeholder("picom --daemon=false").
				Value(&daemonCommand).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("command is required")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Start it automatically with 'barkeep up'?").
				Value(&autostart),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable the network monitor (needs nmcli)?").
				Value(&enableNetwork),
			huh.NewConfirm().
				Title("Enable the audio monitor (needs pactl/wpctl)?").
				Value(&enableAudio),
		),
	)
	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check your terminal supports interactive prompts")
	}

	// Durations go out as strings so the generated file reads naturally.
	out := configFile{
		Version: config.CurrentConfigVersion,
		Daemons: map[string]config.DaemonConfig{
			strings.TrimSpace(daemonName): {
				Command:   strings.TrimSpace(daemonCommand),
				Autostart: autostart,
			},
		},
	}
	out.Network.Enabled = enableNetwork
	out.Network.PollInterval = (10 * time.Second).String()
	out.Network.RestartDelay = time.Second.String()
	out.Audio.Enabled = enableAudio
	out.Audio.RestartDelay = time.Second.String()

	if err := writeConfigFile(configPath, &out); err != nil {
		return err
	}

	fmt.Printf("%s created %s\n", ui.SymbolSuccess, configPath)
	fmt.Println("Run 'barkeep up' to start, or 'barkeep status' for a snapshot.")
	return nil
}

// configFile is the YAML shape written by init.
type configFile struct {
	Version int                             `yaml:"version"`
	Daemons map[string]config.DaemonConfig `yaml:"daemons"`
	Network struct {
		Enabled      bool   `yaml:"enabled"`
		PollInterval string `yaml:"poll_interval"`
		RestartDelay string `yaml:"restart_delay"`
	} `yaml:"network"`
	Audio struct {
		Enabled      bool   `yaml:"enabled"`
		RestartDelay string `yaml:"restart_delay"`
	} `yaml:"audio"`
}

func writeConfigFile(path string, cfg *configFile) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to serialize config",
			"This shouldn't happen - please report this bug.")
	}

	header := "# barkeep configuration\n# Daemons are supervised process groups; see 'barkeep help up'.\n"
	if err := os.WriteFile(path, []byte(header+string(data)), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write "+path,
			"Check directory permissions")
	}
	return nil
}
