package notation_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/notation"
)

var _ = Describe("Pitch", func() {
	DescribeTable("spelling from a MIDI number",
		func(midi int, name string) {
			p := notation.PitchFromMIDI(midi)
			Expect(p.Name()).To(Equal(name))
			Expect(p.MIDI()).To(Equal(midi))
		},
		Entry("middle C", 60, "C4"),
		Entry("C sharp", 61, "C#4"),
		Entry("E flat", 63, "E-4"),
		Entry("F sharp", 66, "F#4"),
		Entry("G sharp", 68, "G#4"),
		Entry("concert A", 69, "A4"),
		Entry("B flat", 70, "B-4"),
		Entry("lowest MIDI note", 0, "C-1"),
		Entry("top of the piano", 108, "C8"),
	)

	It("keeps a parsed spelling", func() {
		p := notation.Pitch{Step: "D", Alter: 1, Octave: 4}
		Expect(p.Name()).To(Equal("D#4"))
		Expect(p.MIDI()).To(Equal(63))
	})

	It("rejects unknown steps", func() {
		Expect(notation.Pitch{Step: "H", Octave: 4}.Validate()).NotTo(Succeed())
	})
})
