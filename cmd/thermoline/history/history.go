// Package historycmder provides the history command for fetching the
// recorded reading history from the sensor feed.
package historycmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thermolineco/thermoline/pkg/cliui"
	"github.com/thermolineco/thermoline/pkg/config"
	"github.com/thermolineco/thermoline/pkg/logger"
	"github.com/thermolineco/thermoline/pkg/monitor"
	"github.com/thermolineco/thermoline/pkg/sensor"
)

// displayLimit caps how many readings the command prints.
const displayLimit = 20

type HistoryCommander struct {
	server    string
	safetyMin float64
	safetyMax float64
	debug     bool
}

const historyLongDesc string = `Fetch the recorded reading history.

Requests the full batch of recorded readings from the feed's /history
endpoint and prints the most recent ones, colorized by their safety
classification.

Examples:
  thermoline history
  thermoline history --server http://sensor.lab:3000`

const historyShortDesc string = "Fetch the recorded reading history"

func NewHistoryCmd() *cobra.Command {
	cmder := &HistoryCommander{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: historyShortDesc,
		Long:  historyLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			configDir, _ := cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(configDir)
			if err != nil {
				return err
			}
			config.BindRegisteredFlags(v, cmd, config.Flags, []string{
				config.FlagServer,
				config.FlagSafetyMin,
				config.FlagSafetyMax,
			})

			return cmder.run(cmd, config.FromViper(v))
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagServer, &cmder.server)
	config.AddFloatFlag(cmd, config.Flags, config.FlagSafetyMin, &cmder.safetyMin)
	config.AddFloatFlag(cmd, config.Flags, config.FlagSafetyMax, &cmder.safetyMax)

	return cmd
}

func (c *HistoryCommander) run(cmd *cobra.Command, cfg *config.Config) error {
	log := logger.New(logger.WithDebug(c.debug), logger.WithPretty(true))

	client := sensor.NewClient(cfg.Server.BaseURL, sensor.WithLogger(log))

	readings, err := client.FetchHistory(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching history: %w", err)
	}

	m := monitor.New(cfg.Safety.Min, cfg.Safety.Max)
	m.AddBatch(readings)

	fmt.Printf("\n  %s %s\n",
		cliui.KeyStyle.Render("Feed:"),
		cliui.ValueStyle.Render(cfg.Server.BaseURL),
	)
	fmt.Printf("  %s %s\n\n",
		cliui.KeyStyle.Render("Readings:"),
		cliui.ValueStyle.Render(fmt.Sprintf("%d", len(readings))),
	)

	if len(readings) == 0 {
		fmt.Printf("  %s\n\n", cliui.DimStyle.Render("No readings recorded yet."))
		return nil
	}

	shown := readings
	if len(shown) > displayLimit {
		fmt.Printf("  %s\n", cliui.DimStyle.Render(
			fmt.Sprintf("... %d earlier readings not shown", len(readings)-displayLimit)))
		shown = shown[len(shown)-displayLimit:]
	}

	for _, r := range shown {
		fmt.Printf("  %s  %s\n",
			cliui.DimStyle.Render(r.Timestamp),
			cliui.FormatTemp(r.Temperature, m.Classify(r.Temperature)),
		)
	}
	fmt.Println()

	return nil
}
