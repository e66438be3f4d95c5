package sse_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/thermolineco/thermoline/pkg/sse"
)

// feedAll feeds the whole stream in slices of the given size and collects
// every completed event.
func feedAll(d *sse.Decoder, stream string, chunkSize int) []sse.Event {
	var events []sse.Event
	data := []byte(stream)
	for start := 0; start < len(data); start += chunkSize {
		end := min(start+chunkSize, len(data))
		events = append(events, d.Feed(data[start:end])...)
	}
	return events
}

var _ = Describe("Decoder", func() {
	var d *sse.Decoder

	BeforeEach(func() {
		d = sse.NewDecoder()
	})

	Describe("Feed", func() {
		It("parses a single event", func() {
			events := d.Feed([]byte("data: hello world\n\n"))
			Expect(events).To(HaveLen(1))
			Expect(events[0].Data).To(Equal([]string{"hello world"}))
		})

		It("parses multiple events from one chunk", func() {
			events := d.Feed([]byte("data: one\n\ndata: two\n\ndata: three\n\n"))
			Expect(events).To(HaveLen(3))
			Expect(events[0].Data).To(Equal([]string{"one"}))
			Expect(events[1].Data).To(Equal([]string{"two"}))
			Expect(events[2].Data).To(Equal([]string{"three"}))
		})

		It("records event type and id fields", func() {
			events := d.Feed([]byte("event: reading\nid: 42\ndata: {\"temperature\": 21.0}\n\n"))
			Expect(events).To(HaveLen(1))
			Expect(events[0].Type).To(Equal("reading"))
			Expect(events[0].ID).To(Equal("42"))
			Expect(events[0].Data).To(Equal([]string{"{\"temperature\": 21.0}"}))
		})

		It("keeps multiple data lines as separate payloads in order", func() {
			events := d.Feed([]byte("data: first\ndata: second\n\n"))
			Expect(events).To(HaveLen(1))
			Expect(events[0].Data).To(Equal([]string{"first", "second"}))
		})

		It("skips comment lines", func() {
			events := d.Feed([]byte(": keep-alive\n\ndata: payload\n\n"))
			Expect(events).To(HaveLen(1))
			Expect(events[0].Data).To(Equal([]string{"payload"}))
		})

		It("yields nothing for an event with no fields but still resets", func() {
			Expect(d.Feed([]byte("\n\n\n"))).To(BeEmpty())
			events := d.Feed([]byte("data: after\n\n"))
			Expect(events).To(HaveLen(1))
			Expect(events[0].Data).To(Equal([]string{"after"}))
		})

		It("strips a single leading space after the colon", func() {
			events := d.Feed([]byte("data:  two spaces\n\n"))
			Expect(events).To(HaveLen(1))
			// Only one space is stripped per the SSE spec.
			Expect(events[0].Data).To(Equal([]string{" two spaces"}))
		})

		It("treats a line with no colon as a field with an empty value", func() {
			events := d.Feed([]byte("data\n\n"))
			Expect(events).To(HaveLen(1))
			Expect(events[0].Data).To(Equal([]string{""}))
		})

		It("tolerates CRLF line terminators", func() {
			events := d.Feed([]byte("data: crlf\r\n\r\n"))
			Expect(events).To(HaveLen(1))
			Expect(events[0].Data).To(Equal([]string{"crlf"}))
		})

		It("never yields a trailing unterminated event", func() {
			events := d.Feed([]byte("data: complete\n\ndata: partial with no terminator"))
			Expect(events).To(HaveLen(1))
			Expect(events[0].Data).To(Equal([]string{"complete"}))
			Expect(d.Buffered()).To(BeNumerically(">", 0))
		})
	})

	Describe("chunk granularity", func() {
		// Three complete events with mixed field lines and a comment,
		// exercising boundaries that fall inside lines, inside the "\n\n"
		// terminator, and between events.
		const stream = "event: reading\nid: a1\ndata: {\"temperature\": 25.5, \"timestamp\": \"t1\"}\n\n" +
			": keep-alive\n" +
			"data: {\"temperature\": 60.0, \"timestamp\": \"t2\"}\n\n" +
			"data: {\"temperature\": 99.9, \"timestamp\": \"t3\"}\n\n"

		It("yields identical events regardless of chunk size", func() {
			whole := feedAll(sse.NewDecoder(), stream, len(stream))
			Expect(whole).To(HaveLen(3))

			for _, size := range []int{1, 2, 3, 7, 16, 64} {
				chunked := feedAll(sse.NewDecoder(), stream, size)
				Expect(chunked).To(Equal(whole), "chunk size %d must not change decoding", size)
			}
		})

		It("yields payloads in arrival order at single-byte granularity", func() {
			events := feedAll(sse.NewDecoder(), stream, 1)
			Expect(events).To(HaveLen(3))
			Expect(events[0].Data[0]).To(ContainSubstring("t1"))
			Expect(events[1].Data[0]).To(ContainSubstring("t2"))
			Expect(events[2].Data[0]).To(ContainSubstring("t3"))
		})
	})
})
