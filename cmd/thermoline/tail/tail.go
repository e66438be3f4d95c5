// Package tailcmder provides the tail command for following a bounded
// slice of the live feed.
package tailcmder

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/thermolineco/thermoline/pkg/cliui"
	"github.com/thermolineco/thermoline/pkg/config"
	"github.com/thermolineco/thermoline/pkg/logger"
	"github.com/thermolineco/thermoline/pkg/monitor"
	"github.com/thermolineco/thermoline/pkg/sensor"
	"github.com/thermolineco/thermoline/pkg/stream"
)

type TailCommander struct {
	server    string
	timeout   string
	safetyMin float64
	safetyMax float64
	count     int
	duration  time.Duration
	debug     bool
}

const tailLongDesc string = `Follow a bounded slice of the live feed.

Connects to the feed's /stream endpoint and prints readings as they
arrive, stopping after --count readings or after --for elapses, whichever
comes first. A single connection is used; tail does not reconnect.

Examples:
  thermoline tail
  thermoline tail --count 50
  thermoline tail --for 30s
  thermoline tail --count 100 --for 1m`

const tailShortDesc string = "Follow a bounded slice of the live feed"

func NewTailCmd() *cobra.Command {
	cmder := &TailCommander{}

	cmd := &cobra.Command{
		Use:   "tail",
		Short: tailShortDesc,
		Long:  tailLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			configDir, _ := cmd.Flags().GetString("config-dir")

			if cmder.count <= 0 && cmder.duration <= 0 {
				return fmt.Errorf("at least one of --count or --for must be positive")
			}

			v, err := config.InitViper(configDir)
			if err != nil {
				return err
			}
			config.BindRegisteredFlags(v, cmd, config.Flags, []string{
				config.FlagServer,
				config.FlagConnectTimeout,
				config.FlagSafetyMin,
				config.FlagSafetyMax,
			})

			return cmder.run(cmd, config.FromViper(v))
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagServer, &cmder.server)
	config.AddStringFlag(cmd, config.Flags, config.FlagConnectTimeout, &cmder.timeout)
	config.AddFloatFlag(cmd, config.Flags, config.FlagSafetyMin, &cmder.safetyMin)
	config.AddFloatFlag(cmd, config.Flags, config.FlagSafetyMax, &cmder.safetyMax)
	cmd.Flags().IntVarP(&cmder.count, "count", "n", 10, "Stop after this many readings (0 for no limit)")
	cmd.Flags().DurationVar(&cmder.duration, "for", 0, "Stop after this much time (0 for no limit)")

	return cmd
}

func (c *TailCommander) run(cmd *cobra.Command, cfg *config.Config) error {
	log := logger.New(logger.WithDebug(c.debug), logger.WithPretty(true))

	m := monitor.New(cfg.Safety.Min, cfg.Safety.Max)
	stop := stream.NewStop()

	// Ctrl-C requests a graceful stop.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		stop.Signal()
	}()

	url := sensor.NewClient(cfg.Server.BaseURL).StreamURL()
	fmt.Printf("\n  %s %s\n\n",
		cliui.KeyStyle.Render("Streaming from:"),
		cliui.ValueStyle.Render(url),
	)

	opts := []stream.SessionOption{
		stream.WithLogger(log),
		stream.WithHTTPClient(stream.NewHTTPClient(cfg.ConnectTimeoutDuration())),
	}
	if c.count > 0 {
		opts = append(opts, stream.WithMaxEvents(c.count))
	}
	if c.duration > 0 {
		opts = append(opts, stream.WithDeadline(c.duration))
	}

	session := stream.NewSession(url, stop, func(r sensor.Reading) {
		m.Add(r)
		fmt.Printf("  %s  %s\n",
			cliui.DimStyle.Render(r.Timestamp),
			cliui.FormatTemp(r.Temperature, m.Classify(r.Temperature)),
		)
	}, opts...)

	err := session.Run(cmd.Context())

	stats := m.Stats()
	fmt.Printf("\n  %s %s\n\n",
		cliui.Mark(ignoreStopped(err)),
		cliui.DimStyle.Render(fmt.Sprintf("%d readings received", stats.Count)),
	)

	return ignoreStopped(err)
}

// ignoreStopped maps a user-requested stop to a clean exit.
func ignoreStopped(err error) error {
	if errors.Is(err, stream.ErrStopped) {
		return nil
	}
	return err
}
