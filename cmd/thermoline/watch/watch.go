// Package watchcmder provides the watch command: a continuously reconnecting
// live view of the sensor feed.
package watchcmder

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/thermolineco/thermoline/pkg/cliui"
	"github.com/thermolineco/thermoline/pkg/config"
	"github.com/thermolineco/thermoline/pkg/dotdir"
	"github.com/thermolineco/thermoline/pkg/logger"
	"github.com/thermolineco/thermoline/pkg/monitor"
	"github.com/thermolineco/thermoline/pkg/sensor"
	"github.com/thermolineco/thermoline/pkg/stream"
)

// shutdownGrace bounds how long we wait for the stream to acknowledge a
// stop request before giving up on a clean summary.
const shutdownGrace = 5 * time.Second

type WatchCommander struct {
	server    string
	backoff   string
	timeout   string
	safetyMin float64
	safetyMax float64
	plain     bool
	logFile   string
	debug     bool
}

const watchLongDesc string = `Continuously watch the live sensor feed.

Connects to the feed's /stream endpoint and keeps watching until
interrupted. Dropped connections are retried indefinitely with a fixed
backoff; partial data from a dropped connection is discarded. A feed that
answers with an HTTP error is treated as misconfigured and ends the watch.

By default an interactive dashboard is shown. With --plain, readings are
printed as log lines instead, suitable for piping or running headless.

Examples:
  thermoline watch
  thermoline watch --server http://sensor.lab:3000
  thermoline watch --plain
  thermoline watch --plain --log-file watch.jsonl`

const watchShortDesc string = "Continuously watch the live sensor feed"

func NewWatchCmd() *cobra.Command {
	cmder := &WatchCommander{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: watchShortDesc,
		Long:  watchLongDesc,
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
				config.FlagBackoff,
				config.FlagConnectTimeout,
				config.FlagSafetyMin,
				config.FlagSafetyMax,
			})

			return cmder.run(cmd, config.FromViper(v), configDir)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagServer, &cmder.server)
	config.AddStringFlag(cmd, config.Flags, config.FlagBackoff, &cmder.backoff)
	config.AddStringFlag(cmd, config.Flags, config.FlagConnectTimeout, &cmder.timeout)
	config.AddFloatFlag(cmd, config.Flags, config.FlagSafetyMin, &cmder.safetyMin)
	config.AddFloatFlag(cmd, config.Flags, config.FlagSafetyMax, &cmder.safetyMax)
	cmd.Flags().BoolVar(&cmder.plain, "plain", false, "Print log lines instead of the dashboard")
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also append JSON log lines to this file (plain mode)")

	return cmd
}

func (c *WatchCommander) run(cmd *cobra.Command, cfg *config.Config, configDir string) error {
	log, closeLog, err := c.buildLogger(configDir)
	if err != nil {
		return err
	}
	defer closeLog()

	m := monitor.New(cfg.Safety.Min, cfg.Safety.Max)
	stop := stream.NewStop()
	url := sensor.NewClient(cfg.Server.BaseURL).StreamURL()

	if c.plain {
		return c.runPlain(cmd, cfg, url, m, stop, log)
	}
	return c.runTUI(cmd, cfg, url, m, stop, log)
}

// buildLogger assembles the watch logger. In dashboard mode everything is
// discarded so log lines cannot corrupt the alternate screen; in plain mode
// pretty lines go to stderr, optionally fanned out to a JSON file.
func (c *WatchCommander) buildLogger(configDir string) (log *slog.Logger, closeFn func(), err error) {
	closeFn = func() {}

	if !c.plain {
		return logger.Nop(), closeFn, nil
	}

	if c.logFile == "" {
		return logger.New(logger.WithDebug(c.debug), logger.WithPretty(true), logger.WithWriter(os.Stderr)), closeFn, nil
	}

	path := c.logFile
	if !filepath.IsAbs(path) {
		ddm := dotdir.NewManager()
		target, derr := ddm.Target(configDir)
		if derr != nil {
			return nil, closeFn, derr
		}
		path = filepath.Join(target, path)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, closeFn, fmt.Errorf("opening log file: %w", err)
	}

	pretty := logger.New(logger.WithDebug(c.debug), logger.WithPretty(true), logger.WithWriter(os.Stderr))
	jsonl := logger.New(logger.WithDebug(c.debug), logger.WithJSON(true), logger.WithWriter(f))

	return logger.Multi(pretty, jsonl), func() { f.Close() }, nil
}

// runPlain streams readings as log lines until interrupted.
func (c *WatchCommander) runPlain(cmd *cobra.Command, cfg *config.Config, url string, m *monitor.Monitor, stop *stream.Stop, log *slog.Logger) error {
	sv, err := stream.NewSupervisor(&stream.SupervisorConfig{
		URL:  url,
		Stop: stop,
		Handler: func(r sensor.Reading) {
			m.Add(r)
			log.Info("reading",
				"temperature", r.Temperature,
				"timestamp", r.Timestamp,
				"class", m.Classify(r.Temperature).String(),
			)
		},
		Backoff:    cfg.BackoffDuration(),
		HTTPClient: stream.NewHTTPClient(cfg.ConnectTimeoutDuration()),
		Logger:     log,
	})
	if err != nil {
		return err
	}

	log.Info("watching feed", "url", url, "backoff", cfg.Stream.Backoff)
	result := sv.Start(cmd.Context())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-result:
		return c.summarize(m, err)
	case sig := <-sigChan:
		log.Info("received signal, stopping", "signal", sig.String())
		stop.Signal()
	}

	select {
	case err := <-result:
		return c.summarize(m, err)
	case <-time.After(shutdownGrace):
		return c.summarize(m, fmt.Errorf("stream did not stop within %s", shutdownGrace))
	}
}

// summarize prints the end-of-watch summary and maps a requested stop to a
// clean exit.
func (c *WatchCommander) summarize(m *monitor.Monitor, err error) error {
	if errors.Is(err, stream.ErrStopped) {
		err = nil
	}

	stats := m.Stats()
	fmt.Printf("\n  %s %s\n",
		cliui.Mark(err),
		cliui.DimStyle.Render(fmt.Sprintf("%d readings, %d out of safe range", stats.Count, len(m.Violations()))),
	)
	if stats.Count > 0 {
		fmt.Printf("  %s\n\n", cliui.DimStyle.Render(fmt.Sprintf(
			"min %.2f °C · max %.2f °C · mean %.2f °C", stats.Min, stats.Max, stats.Mean)))
	} else {
		fmt.Println()
	}

	return err
}
