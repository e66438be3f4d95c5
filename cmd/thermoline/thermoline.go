// Package thermolinecmder
package thermolinecmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/thermolineco/thermoline/cmd/thermoline/config"
	historycmder "github.com/thermolineco/thermoline/cmd/thermoline/history"
	sensordcmder "github.com/thermolineco/thermoline/cmd/thermoline/sensord"
	statscmder "github.com/thermolineco/thermoline/cmd/thermoline/stats"
	tailcmder "github.com/thermolineco/thermoline/cmd/thermoline/tail"
	violationscmder "github.com/thermolineco/thermoline/cmd/thermoline/violations"
	watchcmder "github.com/thermolineco/thermoline/cmd/thermoline/watch"
	versioncmder "github.com/thermolineco/thermoline/cmd/version"
)

const thermolineLongDesc string = `Thermoline monitors a live temperature sensor feed.

Follow the feed using:
  thermoline watch     Stream readings with automatic reconnection
  thermoline tail      Stream a bounded number of readings
  thermoline history   Fetch the recorded reading history
  thermoline stats     Summarize recorded readings
  thermoline sensord   Run a local simulated sensor feed`

const thermolineShortDesc string = "Thermoline - Temperature Feed Monitor"

func NewThermolineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thermoline",
		Short: thermolineShortDesc,
		Long:  thermolineLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .thermoline/ config directory")

	// Add subcommands
	cmd.AddCommand(watchcmder.NewWatchCmd())
	cmd.AddCommand(tailcmder.NewTailCmd())
	cmd.AddCommand(historycmder.NewHistoryCmd())
	cmd.AddCommand(statscmder.NewStatsCmd())
	cmd.AddCommand(violationscmder.NewViolationsCmd())
	cmd.AddCommand(sensordcmder.NewSensordCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
