package monitor_test

import (
	"fmt"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/thermolineco/thermoline/pkg/monitor"
	"github.com/thermolineco/thermoline/pkg/sensor"
)

func reading(t float64, ts string) sensor.Reading {
	return sensor.Reading{Temperature: t, Timestamp: ts}
}

var _ = Describe("Monitor", func() {
	var m *monitor.Monitor

	BeforeEach(func() {
		m = monitor.New(monitor.DefaultSafeMin, monitor.DefaultSafeMax)
	})

	Describe("Add and Readings", func() {
		It("preserves arrival order", func() {
			m.Add(reading(25, "t1"))
			m.Add(reading(30, "t2"))
			m.AddBatch([]sensor.Reading{reading(35, "t3"), reading(40, "t4")})

			Expect(m.Len()).To(Equal(4))
			Expect(m.Readings()).To(Equal([]sensor.Reading{
				reading(25, "t1"),
				reading(30, "t2"),
				reading(35, "t3"),
				reading(40, "t4"),
			}))
		})

		It("returns a copy that callers cannot use to mutate the store", func() {
			m.Add(reading(25, "t1"))

			got := m.Readings()
			got[0].Temperature = -100

			Expect(m.Readings()[0].Temperature).To(Equal(25.0))
		})

		It("is safe under concurrent appends", func() {
			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func(n int) {
					defer wg.Done()
					for j := 0; j < 50; j++ {
						m.Add(reading(float64(n), fmt.Sprintf("t%d-%d", n, j)))
					}
				}(i)
			}
			wg.Wait()

			Expect(m.Len()).To(Equal(400))
		})
	})

	Describe("Stats", func() {
		It("is zero-valued when empty", func() {
			Expect(m.Stats()).To(Equal(monitor.Stats{}))
		})

		It("computes count, min, max, and mean", func() {
			m.AddBatch([]sensor.Reading{
				reading(10, "t1"),
				reading(20, "t2"),
				reading(90, "t3"),
			})

			stats := m.Stats()
			Expect(stats.Count).To(Equal(3))
			Expect(stats.Min).To(Equal(10.0))
			Expect(stats.Max).To(Equal(90.0))
			Expect(stats.Mean).To(Equal(40.0))
		})

		It("handles a single reading", func() {
			m.Add(reading(42.5, "t1"))

			stats := m.Stats()
			Expect(stats).To(Equal(monitor.Stats{Count: 1, Min: 42.5, Max: 42.5, Mean: 42.5}))
		})
	})

	Describe("Classify", func() {
		DescribeTable("buckets a temperature against the safe interval",
			func(t float64, want monitor.Classification) {
				Expect(m.Classify(t)).To(Equal(want))
			},
			Entry("well inside", 50.0, monitor.InRange),
			Entry("just inside the minimum", 20.01, monitor.InRange),
			Entry("just inside the maximum", 79.99, monitor.InRange),
			Entry("exactly at the minimum", 20.0, monitor.Boundary),
			Entry("exactly at the maximum", 80.0, monitor.Boundary),
			Entry("just below the minimum", 19.99, monitor.TooCold),
			Entry("far below the minimum", -40.0, monitor.TooCold),
			Entry("just above the maximum", 80.01, monitor.TooHot),
			Entry("far above the maximum", 300.0, monitor.TooHot),
		)
	})

	Describe("Violations", func() {
		It("returns only readings strictly outside the safe interval", func() {
			m.AddBatch([]sensor.Reading{
				reading(19.9, "cold"),
				reading(20.0, "min boundary"),
				reading(50.0, "fine"),
				reading(80.0, "max boundary"),
				reading(80.1, "hot"),
			})

			violations := m.Violations()
			Expect(violations).To(HaveLen(2))
			Expect(violations[0].Timestamp).To(Equal("cold"))
			Expect(violations[1].Timestamp).To(Equal("hot"))
		})

		It("is empty when all readings are safe", func() {
			m.AddBatch([]sensor.Reading{reading(20, "t1"), reading(80, "t2"), reading(50, "t3")})
			Expect(m.Violations()).To(BeEmpty())
		})
	})

	Describe("Cold and Hot", func() {
		It("includes the boundary values", func() {
			m.AddBatch([]sensor.Reading{
				reading(15, "c1"),
				reading(20, "c2"),
				reading(50, "mid"),
				reading(80, "h1"),
				reading(85, "h2"),
			})

			cold := m.Cold()
			Expect(cold).To(HaveLen(2))
			Expect(cold[0].Timestamp).To(Equal("c1"))
			Expect(cold[1].Timestamp).To(Equal("c2"))

			hot := m.Hot()
			Expect(hot).To(HaveLen(2))
			Expect(hot[0].Timestamp).To(Equal("h1"))
			Expect(hot[1].Timestamp).To(Equal("h2"))
		})
	})

	Describe("Report", func() {
		It("renders statistics and violations as markdown", func() {
			m.AddBatch([]sensor.Reading{
				reading(50, "t1"),
				reading(95, "t2"),
			})

			report := m.Report()
			Expect(report).To(ContainSubstring("# Temperature Monitor Report"))
			Expect(report).To(ContainSubstring("**Count:** 2"))
			Expect(report).To(ContainSubstring("95.00"))
			Expect(report).To(ContainSubstring("out of safe range"))
		})

		It("reports a clean bill of health when nothing violates", func() {
			m.Add(reading(50, "t1"))
			Expect(m.Report()).To(ContainSubstring("All readings within safe range"))
		})
	})
})
