package eventstream_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quillhq/scribe/pkg/eventstream"
)

var _ = Describe("TurnRecordedEvent", func() {
	It("stamps each event with a unique id", func() {
		ts := time.Date(2025, 7, 24, 14, 9, 0, 0, time.UTC)

		first := eventstream.NewTurnRecordedEvent(ts, "Ana", "journal/Trim-2025-07-24-1409.md")
		second := eventstream.NewTurnRecordedEvent(ts, "Ana", "journal/Trim-2025-07-24-1409.md")

		Expect(first.EventID).NotTo(BeEmpty())
		Expect(first.EventID).NotTo(Equal(second.EventID))
		Expect(first.Persona).To(Equal("Ana"))
		Expect(first.TrimPath).To(Equal("journal/Trim-2025-07-24-1409.md"))
	})
})

var _ = Describe("Nop", func() {
	It("accepts and discards events", func() {
		publisher := eventstream.NewNop()

		err := publisher.Publish(context.Background(), &eventstream.TurnRecordedEvent{})

		Expect(err).NotTo(HaveOccurred())
		Expect(publisher.Close()).To(Succeed())
	})
})
