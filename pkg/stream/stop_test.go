package stream_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/thermolineco/thermoline/pkg/stream"
)

var _ = Describe("Stop", func() {
	It("starts unsignaled", func() {
		stop := stream.NewStop()
		Expect(stop.Signaled()).To(BeFalse())
	})

	It("reports signaled after Signal", func() {
		stop := stream.NewStop()
		stop.Signal()
		Expect(stop.Signaled()).To(BeTrue())
	})

	It("is idempotent", func() {
		stop := stream.NewStop()
		Expect(func() {
			stop.Signal()
			stop.Signal()
			stop.Signal()
		}).NotTo(Panic())
		Expect(stop.Signaled()).To(BeTrue())
	})

	It("closes the Done channel exactly once", func() {
		stop := stream.NewStop()

		select {
		case <-stop.Done():
			Fail("Done must not be closed before Signal")
		default:
		}

		stop.Signal()
		stop.Signal()

		Eventually(stop.Done()).Should(BeClosed())
	})

	It("is safe to signal concurrently with observers", func() {
		stop := stream.NewStop()
		done := make(chan struct{})

		go func() {
			defer close(done)
			for !stop.Signaled() {
			}
		}()

		stop.Signal()
		Eventually(done).Should(BeClosed())
	})
})
