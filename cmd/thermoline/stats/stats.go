// Package statscmder provides the stats command for summarizing the
// recorded reading history.
package statscmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thermolineco/thermoline/pkg/cliui"
	"github.com/thermolineco/thermoline/pkg/config"
	"github.com/thermolineco/thermoline/pkg/logger"
	"github.com/thermolineco/thermoline/pkg/monitor"
	"github.com/thermolineco/thermoline/pkg/sensor"
)

type StatsCommander struct {
	server    string
	safetyMin float64
	safetyMax float64
	report    bool
	debug     bool
}

const statsLongDesc string = `Summarize the recorded reading history.

Fetches the feed's reading history and prints count, minimum, maximum,
and mean temperature. With --report, renders a full markdown safety
report including any out-of-range readings.

Examples:
  thermoline stats
  thermoline stats --report
  thermoline stats --safety-min 10 --safety-max 90`

const statsShortDesc string = "Summarize the recorded reading history"

func NewStatsCmd() *cobra.Command {
	cmder := &StatsCommander{}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: statsShortDesc,
		Long:  statsLongDesc,
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
	cmd.Flags().BoolVarP(&cmder.report, "report", "r", false, "Render a full markdown safety report")

	return cmd
}

func (c *StatsCommander) run(cmd *cobra.Command, cfg *config.Config) error {
	log := logger.New(logger.WithDebug(c.debug), logger.WithPretty(true))

	client := sensor.NewClient(cfg.Server.BaseURL, sensor.WithLogger(log))

	readings, err := client.FetchHistory(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching history: %w", err)
	}

	m := monitor.New(cfg.Safety.Min, cfg.Safety.Max)
	m.AddBatch(readings)

	if c.report {
		rendered, err := cliui.RenderMarkdown(m.Report())
		if err != nil {
			// Fall back to the raw markdown.
			fmt.Println(m.Report())
			return nil
		}
		fmt.Print(rendered)
		return nil
	}

	stats := m.Stats()

	fmt.Printf("\n  %s %s\n\n",
		cliui.KeyStyle.Render("Feed:"),
		cliui.ValueStyle.Render(cfg.Server.BaseURL),
	)
	fmt.Printf("  %s  %s\n", cliui.KeyStyle.Render("count"), cliui.ValueStyle.Render(fmt.Sprintf("%d", stats.Count)))

	if stats.Count == 0 {
		fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render("No readings recorded yet."))
		return nil
	}

	fmt.Printf("  %s    %s\n", cliui.KeyStyle.Render("min"), cliui.FormatTemp(stats.Min, m.Classify(stats.Min)))
	fmt.Printf("  %s    %s\n", cliui.KeyStyle.Render("max"), cliui.FormatTemp(stats.Max, m.Classify(stats.Max)))
	fmt.Printf("  %s   %s\n\n", cliui.KeyStyle.Render("mean"), cliui.FormatTemp(stats.Mean, m.Classify(stats.Mean)))

	return nil
}
