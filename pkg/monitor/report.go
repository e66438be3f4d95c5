package monitor

import (
	"fmt"
	"strings"
)

// Report renders the safety report as markdown, suitable for terminal
// rendering via glamour or plain printing.
func (m *Monitor) Report() string {
	stats := m.Stats()
	violations := m.Violations()

	var b strings.Builder
	b.WriteString("# Temperature Monitor Report\n\n")
	fmt.Fprintf(&b, "**Count:** %d\n\n", stats.Count)

	if stats.Count > 0 {
		fmt.Fprintf(&b, "| Min | Max | Mean |\n|---|---|---|\n| %.2f °C | %.2f °C | %.2f °C |\n\n",
			stats.Min, stats.Max, stats.Mean)
	}

	if len(violations) == 0 {
		fmt.Fprintf(&b, "All readings within safe range (%.1f °C — %.1f °C).\n",
			m.safeMin, m.safeMax)
		return b.String()
	}

	fmt.Fprintf(&b, "## %d reading(s) out of safe range\n\n", len(violations))
	for _, r := range violations {
		fmt.Fprintf(&b, "- %.2f °C at %s\n", r.Temperature, r.Timestamp)
	}

	return b.String()
}
