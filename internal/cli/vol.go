package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/tmstorey/barkeep/internal/errors"
	"github.com/tmstorey/barkeep/internal/monitor/audio"
	"github.com/tmstorey/barkeep/internal/ui"
)

// volCmd shows the default sink volume; subcommands manage devices
var volCmd = &cobra.Command{
	Use:   "vol",
	Short: "Show and manage audio devices",
	Long: `Show the default sink volume, list sinks and sources, and switch the
defaults.

Examples:
  barkeep vol
  barkeep vol sinks
  barkeep vol set-sink
  barkeep vol set-sink alsa_output.pci-0000_00_1f.3.analog-stereo`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return volCommand()
	},
}

// volSinksCmd lists output devices
var volSinksCmd = &cobra.Command{
	Use:   "sinks",
	Short: "List output devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		return volListCommand("sinks")
	},
}

// volSourcesCmd lists input devices
var volSourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List input devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		return volListCommand("sources")
	},
}

// volSetSinkCmd switches the default output device
var volSetSinkCmd = &cobra.Command{
	Use:   "set-sink [name]",
	Short: "Set the default output device",
	Long: `Set the default sink. With no argument, pick from a list of available
sinks.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		return volSetDefaultCommand("sink", name)
	},
}

// volSetSourceCmd switches the default input device
var volSetSourceCmd = &cobra.Command{
	Use:   "set-source [name]",
	Short: "Set the default input device",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		return volSetDefaultCommand("source", name)
	},
}

func init() {
	volCmd.AddCommand(volSinksCmd)
	volCmd.AddCommand(volSourcesCmd)
	volCmd.AddCommand(volSetSinkCmd)
	volCmd.AddCommand(volSetSourceCmd)
	rootCmd.AddCommand(volCmd)
}

func volCommand() error {
	q := audio.NewQueries()
	ctx := context.Background()

	status, err := q.GetVolume(ctx)
	if err != nil {
		return err
	}

	symbol := ui.SymbolVolume
	suffix := ""
	if status.Muted {
		symbol = ui.SymbolMuted
		suffix = " [muted]"
	}
	fmt.Printf("%s %d%%%s\n", symbol, status.Volume, suffix)

	if sink, err := q.DefaultSink(ctx); err == nil {
		fmt.Printf("default sink: %s\n", sink)
	}
	return nil
}

func volListCommand(kind string) error {
	q := audio.NewQueries()
	ctx := context.Background()

	var (
		objects     []audio.Sink
		defaultName string
		err         error
	)
	if kind == "sinks" {
		objects, err = q.Sinks(ctx)
		defaultName, _ = q.DefaultSink(ctx)
	} else {
		objects, err = q.Sources(ctx)
		defaultName, _ = q.DefaultSource(ctx)
	}
	if err != nil {
		return err
	}
	if len(objects) == 0 {
		fmt.Printf("No %s found.\n", kind)
		return nil
	}

	rows := make([][]string, 0, len(objects))
	for _, o := range objects {
		mark := ""
		if o.Name == defaultName {
			mark = ui.SymbolSuccess
		}
		rows = append(rows, []string{mark, o.Name, o.Description, o.State})
	}

	fmt.Print(ui.RenderTable([]ui.Column{
		{Title: "", Width: 1},
		{Title: "NAME", Width: 30},
		{Title: "DESCRIPTION", Width: 24},
		{Title: "STATE", Width: 0},
	}, rows))
	return nil
}

func volSetDefaultCommand(kind, name string) error {
	q := audio.NewQueries()
	ctx := context.Background()

	if name == "" {
		picked, err := pickAudioDevice(ctx, q, kind)
		if err != nil {
			return err
		}
		if picked == "" {
			fmt.Println("Cancelled.")
			return nil
		}
		name = picked
	}

	var err error
	if kind == "sink" {
		err = q.SetDefaultSink(ctx, name)
	} else {
		err = q.SetDefaultSource(ctx, name)
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s default %s is now %s\n", ui.SymbolSuccess, kind, name)
	return nil
}

// pickAudioDevice runs an interactive picker over the available devices.
func pickAudioDevice(ctx context.Context, q *audio.Queries, kind string) (string, error) {
	var objects []audio.Sink
	var err error
	if kind == "sink" {
		objects, err = q.Sinks(ctx)
	} else {
		objects, err = q.Sources(ctx)
	}
	if err != nil {
		return "", err
	}
	if len(objects) == 0 {
		return "", errors.New(errors.ErrExec,
			"No "+kind+"s available",
			"Check that PulseAudio or PipeWire is running.")
	}

	options := make([]huh.Option[string], 0, len(objects))
	for _, o := range objects {
		label := o.Description
		if label == "" {
			label = o.Name
		}
		options = append(options, huh.NewOption(label, o.Name))
	}

	var picked string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default " + kind).
				Options(options...).
				Value(&picked),
		),
	)
	if err := form.Run(); err != nil {
		return "", errors.WrapWithCode(err, errors.ErrExec,
			"Failed to get user input",
			"Pass the device name as an argument instead.")
	}
	return picked, nil
}
