package sensord

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/thermolineco/thermoline/pkg/sensor"
)

var _ = Describe("hub", func() {
	It("delivers broadcasts to every subscriber", func() {
		h := newHub()

		ch1, cancel1 := h.subscribe()
		ch2, cancel2 := h.subscribe()
		defer cancel1()
		defer cancel2()

		r := sensor.Reading{Temperature: 33.3, Timestamp: "t1"}
		h.broadcast(r)

		Expect(<-ch1).To(Equal(r))
		Expect(<-ch2).To(Equal(r))
	})

	It("drops readings for a full subscriber instead of blocking", func() {
		h := newHub()

		ch, cancel := h.subscribe()
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < subscriberBuffer*2; i++ {
				h.broadcast(sensor.Reading{Temperature: float64(i)})
			}
		}()

		Eventually(done).Should(BeClosed())
		Expect(len(ch)).To(Equal(subscriberBuffer))
	})

	It("closes the channel on unsubscribe", func() {
		h := newHub()

		ch, cancel := h.subscribe()
		Expect(h.count()).To(Equal(1))

		cancel()
		Expect(h.count()).To(BeZero())
		Eventually(ch).Should(BeClosed())

		// Second cancel is a no-op.
		Expect(cancel).NotTo(Panic())
	})
})
