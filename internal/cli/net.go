package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tmstorey/barkeep/internal/monitor/network"
	"github.com/tmstorey/barkeep/internal/ui"
)

// netCmd groups the one-shot network queries
var netCmd = &cobra.Command{
	Use:   "net",
	Short: "Query network state",
	Long: `One-shot network queries backed by nmcli.

Examples:
  barkeep net active
  barkeep net wifi
  barkeep net ethernet`,
}

// netActiveCmd shows the active connection
var netActiveCmd = &cobra.Command{
	Use:   "active",
	Short: "Show the active connection",
	RunE: func(cmd *cobra.Command, args []string) error {
		return netActiveCommand()
	},
}

// netWifiCmd lists visible wifi networks
var netWifiCmd = &cobra.Command{
	Use:   "wifi",
	Short: "List visible wifi networks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return netWifiCommand()
	},
}

// netEthernetCmd lists wired devices
var netEthernetCmd = &cobra.Command{
	Use:   "ethernet",
	Short: "List wired devices and link speed",
	RunE: func(cmd *cobra.Command, args []string) error {
		return netEthernetCommand()
	},
}

func init() {
	netCmd.AddCommand(netActiveCmd)
	netCmd.AddCommand(netWifiCmd)
	netCmd.AddCommand(netEthernetCmd)
	rootCmd.AddCommand(netCmd)
}

func netActiveCommand() error {
	q := network.NewQueries()
	status, err := q.Active(context.Background())
	if err != nil {
		return err
	}
	if status == nil {
		fmt.Println("disconnected")
		return nil
	}

	fmt.Printf("%s (%s)\n", status.Name, status.Type)
	fmt.Printf("device:   %s\n", status.Device)
	if status.Signal != nil {
		fmt.Printf("signal:   %s\n", ui.FormatSignal(status.Signal))
	}
	if status.Rate != "" {
		fmt.Printf("rate:     %s\n", status.Rate)
	}
	if status.Freq != "" {
		fmt.Printf("freq:     %s\n", status.Freq)
	}
	if status.Channel != nil {
		fmt.Printf("channel:  %d\n", *status.Channel)
	}
	if status.Security != "" {
		fmt.Printf("security: %s\n", status.Security)
	}
	return nil
}

func netWifiCommand() error {
	q := network.NewQueries()
	networks, err := q.WifiNetworks(context.Background())
	if err != nil {
		return err
	}
	if len(networks) == 0 {
		fmt.Println("No wifi networks visible.")
		return nil
	}

	rows := make([][]string, 0, len(networks))
	for _, n := range networks {
		active := ""
		if n.Active {
			active = ui.SymbolSuccess
		}
		rows = append(rows, []string{
			active,
			n.SSID,
			strconv.Itoa(n.Signal) + "%",
			strconv.Itoa(n.Channel),
			n.Rate,
			n.Security,
		})
	}

	fmt.Print(ui.RenderTable([]ui.Column{
		{Title: "", Width: 1},
		{Title: "SSID", Width: 20},
		{Title: "SIGNAL", Width: 6},
		{Title: "CHAN", Width: 4},
		{Title: "RATE", Width: 10},
		{Title: "SECURITY", Width: 0},
	}, rows))
	return nil
}

func netEthernetCommand() error {
	q := network.NewQueries()
	devices, err := q.EthernetDevices(context.Background())
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		fmt.Println("No wired devices.")
		return nil
	}

	rows := make([][]string, 0, len(devices))
	for _, d := range devices {
		speed := "-"
		if d.Speed != nil {
			speed = fmt.Sprintf("%d Mbit/s", *d.Speed)
		}
		rows = append(rows, []string{
			d.Device,
			ui.StateStyle(d.State == network.EthernetConnected).Render(string(d.State)),
			d.Connection,
			speed,
		})
	}

	fmt.Print(ui.RenderTable([]ui.Column{
		{Title: "DEVICE", Width: 10},
		{Title: "STATE", Width: 12},
		{Title: "CONNECTION", Width: 16},
		{Title: "SPEED", Width: 0},
	}, rows))
	return nil
}
