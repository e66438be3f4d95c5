package sensord

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Generator", func() {
	It("starts at the seed temperature", func() {
		g := NewGenerator(42)
		Expect(g.Current()).To(Equal(42.0))
	})

	It("moves at most one step per reading", func() {
		g := NewGenerator(50)
		prev := g.Current()
		for i := 0; i < 1000; i++ {
			next := g.Next()
			Expect(math.Abs(next - prev)).To(BeNumerically("<=", maxStep))
			prev = next
		}
	})

	It("stays within the clamp band", func() {
		g := NewGenerator(floorTemp)
		for i := 0; i < 1000; i++ {
			t := g.Next()
			Expect(t).To(BeNumerically(">=", floorTemp))
			Expect(t).To(BeNumerically("<=", ceilTemp))
		}
	})
})
