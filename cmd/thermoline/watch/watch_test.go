package watchcmder

import (
	"errors"
	"fmt"
	"strings"

	bubbletea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/thermolineco/thermoline/pkg/monitor"
	"github.com/thermolineco/thermoline/pkg/sensor"
	"github.com/thermolineco/thermoline/pkg/stream"
)

var _ = Describe("NewWatchCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := NewWatchCmd()
		Expect(cmd.Use).To(Equal("watch"))
	})

	It("has --server flag with shorthand", func() {
		cmd := NewWatchCmd()
		flag := cmd.Flags().Lookup("server")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("s"))
	})

	It("has --backoff flag with the default interval", func() {
		cmd := NewWatchCmd()
		flag := cmd.Flags().Lookup("backoff")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("1s"))
	})

	It("has --plain and --log-file flags", func() {
		cmd := NewWatchCmd()
		Expect(cmd.Flags().Lookup("plain")).NotTo(BeNil())
		Expect(cmd.Flags().Lookup("log-file")).NotTo(BeNil())
	})
})

var _ = Describe("Watch TUI model", func() {
	newModel := func() watchModel {
		return watchModel{
			url:     "http://localhost:3000/stream",
			monitor: monitor.New(20, 80),
			keys:    defaultKeyMap(),
		}
	}

	Describe("Update", func() {
		It("records window size", func() {
			m := newModel()
			updated, _ := m.Update(bubbletea.WindowSizeMsg{Width: 120, Height: 40})
			Expect(updated.(watchModel).width).To(Equal(120))
		})

		It("appends readings and keeps waiting for more", func() {
			m := newModel()
			updated, cmd := m.Update(readingMsg{Temperature: 42.5, Timestamp: "2026-02-01T00:00:00Z"})
			Expect(updated.(watchModel).recent).To(HaveLen(1))
			Expect(cmd).NotTo(BeNil())
		})

		It("caps the retained reading window", func() {
			m := newModel()
			var model bubbletea.Model = m
			for i := 0; i < visibleReadings*8; i++ {
				model, _ = model.Update(readingMsg{Temperature: float64(i)})
			}
			Expect(len(model.(watchModel).recent)).To(BeNumerically("<=", visibleReadings*4))
		})

		It("quits on a stream result", func() {
			m := newModel()
			updated, cmd := m.Update(resultMsg{err: errors.New("boom")})
			Expect(updated.(watchModel).err).To(HaveOccurred())
			Expect(cmd).NotTo(BeNil())
		})

		It("toggles the violations filter on v", func() {
			m := newModel()
			updated, _ := m.Update(bubbletea.KeyMsg{Type: bubbletea.KeyRunes, Runes: []rune{'v'}})
			Expect(updated.(watchModel).violationsOnly).To(BeTrue())

			updated, _ = updated.Update(bubbletea.KeyMsg{Type: bubbletea.KeyRunes, Runes: []rune{'v'}})
			Expect(updated.(watchModel).violationsOnly).To(BeFalse())
		})
	})

	Describe("viewReadings", func() {
		It("shows a placeholder before any readings arrive", func() {
			m := newModel()
			Expect(m.viewReadings()).To(ContainSubstring("nothing yet"))
		})

		It("only lists out-of-range readings when filtered", func() {
			m := newModel()
			m.monitor.Add(sensor.Reading{Temperature: 50, Timestamp: "t1"})
			m.monitor.Add(sensor.Reading{Temperature: 95, Timestamp: "t2"})
			m.recent = []sensor.Reading{
				{Temperature: 50, Timestamp: "t1"},
				{Temperature: 95, Timestamp: "t2"},
			}
			m.violationsOnly = true

			out := m.viewReadings()
			Expect(out).To(ContainSubstring("t2"))
			Expect(out).NotTo(ContainSubstring("t1"))
		})
	})

	Describe("viewMetrics", func() {
		It("renders dashes before any readings arrive", func() {
			m := newModel()
			Expect(m.viewMetrics()).To(ContainSubstring("—"))
		})

		It("renders stats once readings exist", func() {
			m := newModel()
			m.monitor.Add(sensor.Reading{Temperature: 42.5})
			m.recent = []sensor.Reading{{Temperature: 42.5}}
			Expect(m.viewMetrics()).To(ContainSubstring("42.50"))
		})
	})
})

var _ = Describe("TUI layout helpers", func() {
	Describe("renderHeaderLine", func() {
		It("pads to the full width", func() {
			line := renderHeaderLine(40, "left", "right")
			Expect(line).To(HaveLen(40))
		})

		It("degrades gracefully when the line does not fit", func() {
			line := renderHeaderLine(5, "left", "right")
			Expect(line).To(Equal("left right"))
		})
	})

	Describe("fitCell", func() {
		It("pads short values", func() {
			Expect(fitCell("ab", 5)).To(Equal("ab   "))
		})

		It("truncates long values", func() {
			Expect(fitCell("abcdef", 3)).To(Equal("abc"))
		})
	})
})

var _ = Describe("summarize", func() {
	It("maps a requested stop to a clean exit", func() {
		c := &WatchCommander{}
		m := monitor.New(20, 80)
		Expect(c.summarize(m, stream.ErrStopped)).To(Succeed())
	})

	It("passes other errors through", func() {
		c := &WatchCommander{}
		m := monitor.New(20, 80)
		err := c.summarize(m, fmt.Errorf("connection refused"))
		Expect(err).To(MatchError(ContainSubstring("connection refused")))
	})
})

var _ = Describe("watch long description", func() {
	It("mentions plain mode", func() {
		Expect(strings.Contains(watchLongDesc, "--plain")).To(BeTrue())
	})
})
