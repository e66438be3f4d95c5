// Package violationscmder provides the violations command for listing
// readings outside the safe temperature range.
package violationscmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thermolineco/thermoline/pkg/cliui"
	"github.com/thermolineco/thermoline/pkg/config"
	"github.com/thermolineco/thermoline/pkg/logger"
	"github.com/thermolineco/thermoline/pkg/monitor"
	"github.com/thermolineco/thermoline/pkg/sensor"
)

type ViolationsCommander struct {
	server    string
	safetyMin float64
	safetyMax float64
	cold      bool
	hot       bool
	debug     bool
}

const violationsLongDesc string = `List readings outside the safe temperature range.

Fetches the feed's reading history and lists the readings strictly outside
the configured safe range. Readings exactly at a boundary are not
violations.

With --cold, lists readings at or below the safe minimum instead.
With --hot, lists readings at or above the safe maximum instead.

Examples:
  thermoline violations
  thermoline violations --cold
  thermoline violations --hot --safety-max 75`

const violationsShortDesc string = "List readings outside the safe temperature range"

func NewViolationsCmd() *cobra.Command {
	cmder := &ViolationsCommander{}

	cmd := &cobra.Command{
		Use:   "violations",
		Short: violationsShortDesc,
		Long:  violationsLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmder.cold && cmder.hot {
				return fmt.Errorf("--cold and --hot are mutually exclusive")
			}

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
	cmd.Flags().BoolVar(&cmder.cold, "cold", false, "List readings at or below the safe minimum")
	cmd.Flags().BoolVar(&cmder.hot, "hot", false, "List readings at or above the safe maximum")

	return cmd
}

func (c *ViolationsCommander) run(cmd *cobra.Command, cfg *config.Config) error {
	log := logger.New(logger.WithDebug(c.debug), logger.WithPretty(true))

	client := sensor.NewClient(cfg.Server.BaseURL, sensor.WithLogger(log))

	readings, err := client.FetchHistory(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching history: %w", err)
	}

	m := monitor.New(cfg.Safety.Min, cfg.Safety.Max)
	m.AddBatch(readings)

	var (
		label    string
		selected []sensor.Reading
	)
	switch {
	case c.cold:
		label = fmt.Sprintf("at or below %.1f °C", cfg.Safety.Min)
		selected = m.Cold()
	case c.hot:
		label = fmt.Sprintf("at or above %.1f °C", cfg.Safety.Max)
		selected = m.Hot()
	default:
		label = fmt.Sprintf("outside %.1f °C — %.1f °C", cfg.Safety.Min, cfg.Safety.Max)
		selected = m.Violations()
	}

	fmt.Printf("\n  %s %s\n",
		cliui.KeyStyle.Render("Feed:"),
		cliui.ValueStyle.Render(cfg.Server.BaseURL),
	)
	fmt.Printf("  %s %s %s\n\n",
		cliui.KeyStyle.Render("Readings"),
		cliui.ValueStyle.Render(label+":"),
		cliui.ValueStyle.Render(fmt.Sprintf("%d of %d", len(selected), len(readings))),
	)

	if len(selected) == 0 {
		fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Nothing to report."))
		return nil
	}

	for _, r := range selected {
		fmt.Printf("  %s  %s\n",
			cliui.DimStyle.Render(r.Timestamp),
			cliui.FormatTemp(r.Temperature, m.Classify(r.Temperature)),
		)
	}
	fmt.Println()

	return nil
}
