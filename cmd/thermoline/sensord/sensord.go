// Package sensordcmder provides the sensord command: a local sensor feed
// for development and testing.
package sensordcmder

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thermolineco/thermoline/pkg/config"
	"github.com/thermolineco/thermoline/pkg/logger"
	"github.com/thermolineco/thermoline/pkg/sensord"
)

type SensordCommander struct {
	listen    string
	interval  string
	startTemp float64
	debug     bool
}

const sensordLongDesc string = `Run a local sensor feed.

Serves the same HTTP surface as a real feed: GET /history returns the
recorded readings as JSON, GET /stream pushes new readings as
server-sent events. Readings follow a bounded random walk, generated at
a fixed interval.

Changes to the interval in the config file are picked up live, without
a restart.

Examples:
  thermoline sensord
  thermoline sensord --listen :9000 --interval 100ms
  thermoline sensord --start-temp 85`

const sensordShortDesc string = "Run a local sensor feed"

func NewSensordCmd() *cobra.Command {
	cmder := &SensordCommander{}

	cmd := &cobra.Command{
		Use:   "sensord",
		Short: sensordShortDesc,
		Long:  sensordLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			configDir, _ := cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(configDir)
			if err != nil {
				return err
			}
			config.BindRegisteredFlags(v, cmd, config.Flags, []string{
				config.FlagSensordListen,
				config.FlagSensordInterval,
				config.FlagSensordStartTemp,
			})

			return cmder.run(v)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagSensordListen, &cmder.listen)
	config.AddStringFlag(cmd, config.Flags, config.FlagSensordInterval, &cmder.interval)
	config.AddFloatFlag(cmd, config.Flags, config.FlagSensordStartTemp, &cmder.startTemp)

	return cmd
}

func (c *SensordCommander) run(v *viper.Viper) error {
	cfg := config.FromViper(v)

	log := logger.New(logger.WithDebug(c.debug), logger.WithPretty(true))

	srv := sensord.NewServer(sensord.Config{
		ListenAddr: cfg.Sensord.Listen,
		Interval:   cfg.IntervalDuration(),
		StartTemp:  cfg.Sensord.StartTemp,
	}, log)

	// Live-reload the generation interval when the config file changes.
	config.WatchConfig(v, log, func(updated *config.Config) {
		srv.UpdateInterval(updated.IntervalDuration())
	})

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- fmt.Errorf("sensord error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		log.Info("received signal, shutting down", "signal", sig.String())
		return srv.Shutdown()
	}
}
