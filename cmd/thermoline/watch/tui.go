package watchcmder

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/thermolineco/thermoline/pkg/cliui"
	"github.com/thermolineco/thermoline/pkg/config"
	"github.com/thermolineco/thermoline/pkg/monitor"
	"github.com/thermolineco/thermoline/pkg/sensor"
	"github.com/thermolineco/thermoline/pkg/stream"
)

func init() {
	// Force TrueColor profile to fix lipgloss color detection issue
	// See: https://github.com/charmbracelet/lipgloss/issues/439
	renderer := lipgloss.NewRenderer(os.Stdout, termenv.WithProfile(termenv.TrueColor))
	renderer.SetColorProfile(termenv.TrueColor)
	lipgloss.SetDefaultRenderer(renderer)
}

// visibleReadings caps how many recent readings the dashboard lists.
const visibleReadings = 12

var (
	watchTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	watchMutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	watchDividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
	watchSectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	watchMetricLabel  = lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Bold(true)
	watchMetricValue  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	watchAccentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("215"))

	stateStreamingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("70"))
	stateBackingOffStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	stateStoppedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

type watchKeyMap struct {
	Violations key.Binding
	Quit       key.Binding
}

func (k watchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Violations, k.Quit}
}

func (k watchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Violations, k.Quit}}
}

func defaultKeyMap() watchKeyMap {
	return watchKeyMap{
		Violations: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "violations only")),
		Quit:       key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type readingMsg sensor.Reading

type resultMsg struct{ err error }

type stateTickMsg time.Time

type watchModel struct {
	url            string
	monitor        *monitor.Monitor
	supervisor     *stream.Supervisor
	readingCh      <-chan sensor.Reading
	recent         []sensor.Reading
	violationsOnly bool
	width          int
	height         int
	err            error
	keys           watchKeyMap
	help           help.Model
}

// runTUI drives the interactive dashboard. The supervisor streams in the
// background and hands readings to the model through a channel; quitting
// signals the stop handle and waits for the stream to wind down.
func (c *WatchCommander) runTUI(cmd *cobra.Command, cfg *config.Config, url string, m *monitor.Monitor, stop *stream.Stop, log *slog.Logger) error {
	readingCh := make(chan sensor.Reading, 64)

	sv, err := stream.NewSupervisor(&stream.SupervisorConfig{
		URL:  url,
		Stop: stop,
		Handler: func(r sensor.Reading) {
			m.Add(r)
			// Drop for the view rather than stall the stream; the monitor
			// has already recorded the reading.
			select {
			case readingCh <- r:
			default:
			}
		},
		Backoff:    cfg.BackoffDuration(),
		HTTPClient: stream.NewHTTPClient(cfg.ConnectTimeoutDuration()),
		Logger:     log,
	})
	if err != nil {
		return err
	}

	result := sv.Start(cmd.Context())

	model := watchModel{
		url:        url,
		monitor:    m,
		supervisor: sv,
		readingCh:  readingCh,
		keys:       defaultKeyMap(),
		help:       help.New(),
	}

	program := bubbletea.NewProgram(model,
		bubbletea.WithContext(cmd.Context()),
		bubbletea.WithAltScreen(),
	)

	// Single consumer of the stream outcome: forward it into the program
	// while it runs, and keep it for the post-quit summary.
	var streamErr error
	streamDone := make(chan struct{})
	go func() {
		streamErr = <-result
		close(streamDone)
		program.Send(resultMsg{err: streamErr})
	}()

	_, runErr := program.Run()
	stop.Signal()

	// Give the stream a bounded window to acknowledge the stop so the
	// summary reflects a clean shutdown.
	select {
	case <-streamDone:
	case <-time.After(shutdownGrace):
		streamErr = fmt.Errorf("stream did not stop within %s", shutdownGrace)
	}

	if runErr != nil {
		return runErr
	}

	return c.summarize(m, streamErr)
}

func (m watchModel) Init() bubbletea.Cmd {
	return bubbletea.Batch(waitForReading(m.readingCh), stateTick())
}

func (m watchModel) Update(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	switch msg := msg.(type) {
	case bubbletea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case readingMsg:
		m.recent = append(m.recent, sensor.Reading(msg))
		if len(m.recent) > visibleReadings*4 {
			m.recent = m.recent[len(m.recent)-visibleReadings*4:]
		}
		return m, waitForReading(m.readingCh)

	case resultMsg:
		// Terminal stream failure (e.g. protocol error): leave the
		// dashboard so the error is visible on the normal screen.
		m.err = msg.err
		return m, bubbletea.Quit

	case stateTickMsg:
		return m, stateTick()

	case bubbletea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, bubbletea.Quit
		case key.Matches(msg, m.keys.Violations):
			m.violationsOnly = !m.violationsOnly
		}
		return m, nil
	}

	return m, nil
}

func waitForReading(ch <-chan sensor.Reading) bubbletea.Cmd {
	return func() bubbletea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return readingMsg(r)
	}
}

func stateTick() bubbletea.Cmd {
	return bubbletea.Tick(200*time.Millisecond, func(t time.Time) bubbletea.Msg {
		return stateTickMsg(t)
	})
}

func (m watchModel) View() string {
	headerLeft := watchTitleStyle.Render("thermoline watch")
	headerRight := watchMutedStyle.Render(m.url)
	lines := []string{
		renderHeaderLine(m.width, headerLeft, headerRight),
		renderRule(m.width),
		"",
		m.viewState(),
		"",
		m.viewMetrics(),
		"",
		m.viewGauge(),
		"",
		m.viewReadings(),
		"",
		watchMutedStyle.Render(m.help.View(m.keys)),
	}
	return strings.Join(lines, "\n")
}

func (m watchModel) viewState() string {
	state := m.supervisor.State()

	var styled string
	switch state {
	case stream.StateStreaming:
		styled = stateStreamingStyle.Render("● " + state.String())
	case stream.StateBackingOff, stream.StateConnecting:
		styled = stateBackingOffStyle.Render("◌ " + state.String())
	case stream.StateStopped:
		styled = stateStoppedStyle.Render("■ " + state.String())
	default:
		styled = watchMutedStyle.Render("○ " + state.String())
	}

	return fmt.Sprintf("%s %s", watchSectionStyle.Render("feed"), styled)
}

func (m watchModel) viewMetrics() string {
	stats := m.monitor.Stats()
	violations := len(m.monitor.Violations())

	headers := []string{"READINGS", "MIN", "MAX", "MEAN", "OUT OF RANGE"}
	values := []string{
		fmt.Sprintf("%d", stats.Count),
		"—", "—", "—",
		fmt.Sprintf("%d", violations),
	}
	if stats.Count > 0 {
		values[1] = fmt.Sprintf("%.2f °C", stats.Min)
		values[2] = fmt.Sprintf("%.2f °C", stats.Max)
		values[3] = fmt.Sprintf("%.2f °C", stats.Mean)
	}

	return renderMetricRow(m.width, headers, watchMetricLabel) + "\n" +
		renderMetricRow(m.width, values, watchMetricValue)
}

// viewGauge draws the latest temperature as a bar over the plausible band.
func (m watchModel) viewGauge() string {
	if len(m.recent) == 0 {
		return watchMutedStyle.Render("waiting for readings...")
	}

	latest := m.recent[len(m.recent)-1]
	class := m.monitor.Classify(latest.Temperature)

	const floor, ceil = 0.0, 100.0
	ratio := (latest.Temperature - floor) / (ceil - floor)
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	width := 40
	filled := int(ratio * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	return fmt.Sprintf("%s %s %s",
		watchSectionStyle.Render("now"),
		watchAccentStyle.Render(bar),
		cliui.FormatTemp(latest.Temperature, class),
	)
}

func (m watchModel) viewReadings() string {
	title := "recent readings"
	shown := m.recent
	if m.violationsOnly {
		title = "recent violations"
		shown = nil
		for _, r := range m.recent {
			c := m.monitor.Classify(r.Temperature)
			if c == monitor.TooCold || c == monitor.TooHot {
				shown = append(shown, r)
			}
		}
	}

	lines := []string{watchSectionStyle.Render(title), renderRule(m.width)}

	if len(shown) == 0 {
		lines = append(lines, watchMutedStyle.Render("nothing yet"))
		return strings.Join(lines, "\n")
	}

	if len(shown) > visibleReadings {
		shown = shown[len(shown)-visibleReadings:]
	}
	for _, r := range shown {
		lines = append(lines, fmt.Sprintf("  %s  %s",
			watchMutedStyle.Render(r.Timestamp),
			cliui.FormatTemp(r.Temperature, m.monitor.Classify(r.Temperature)),
		))
	}

	return strings.Join(lines, "\n")
}

func renderHeaderLine(width int, left, right string) string {
	lineWidth := width
	if lineWidth <= 0 {
		lineWidth = 80
	}
	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)
	if leftWidth+rightWidth+1 >= lineWidth {
		return strings.TrimSpace(left + " " + right)
	}
	return left + strings.Repeat(" ", lineWidth-leftWidth-rightWidth) + right
}

func renderRule(width int) string {
	lineWidth := width
	if lineWidth <= 0 {
		lineWidth = 80
	}
	return watchDividerStyle.Render(strings.Repeat("─", lineWidth))
}

func renderMetricRow(width int, items []string, style lipgloss.Style) string {
	if len(items) == 0 {
		return ""
	}
	lineWidth := width
	if lineWidth <= 0 {
		lineWidth = 80
	}
	cols := len(items)
	spaceWidth := (cols - 1) * 2
	colWidth := (lineWidth - spaceWidth) / cols
	if colWidth < 12 {
		colWidth = 12
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, style.Render(fitCell(item, colWidth)))
	}
	return strings.Join(parts, "  ")
}

func fitCell(value string, width int) string {
	if width <= 0 {
		return value
	}
	if lipgloss.Width(value) > width {
		return value[:width]
	}
	return value + strings.Repeat(" ", width-lipgloss.Width(value))
}
