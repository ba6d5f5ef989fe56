package notation_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/notation"
	. "github.com/veedubyou/chord-paper-scribe/src/shared/testing"
)

var _ = Describe("MusicXML", func() {
	var (
		stream notation.Stream
		parsed notation.Stream
	)

	roundTrip := func() {
		buf := &bytes.Buffer{}
		Expect(notation.EncodeMusicXML(buf, stream)).To(Succeed())
		parsed = ExpectSuccess(notation.DecodeMusicXML(buf))
	}

	BeforeEach(func() {
		stream = notation.Stream{}
	})

	for _, n := range []int{1, 4, 5, 37} {
		n := n

		Describe("A stream of notes", func() {
			BeforeEach(func() {
				for i := 0; i < n; i++ {
					stream.Append(notation.NewNote(55 + i%20))
				}
				roundTrip()
			})

			It("keeps every element", func() {
				Expect(parsed.Flatten()).To(HaveLen(n))
			})

			It("keeps the order and the pitches", func() {
				flat := parsed.Flatten()
				for i, element := range flat {
					Expect(element.Pitches()).To(HaveLen(1))
					Expect(element.Pitches()[0].MIDI()).To(Equal(55 + i%20))
					Expect(element.GetOffset()).To(BeNumerically("~", float64(i), 1e-9))
				}
			})
		})
	}

	Describe("A stream with chords", func() {
		BeforeEach(func() {
			stream.Append(notation.NewNote(60))
			stream.Append(notation.NewChord(60, 64, 67))
			stream.Append(notation.NewNote(72))
			roundTrip()
		})

		It("keeps chords as one element", func() {
			flat := parsed.Flatten()
			Expect(flat).To(HaveLen(3))

			chord, ok := flat[1].(notation.Chord)
			Expect(ok).To(BeTrue())
			Expect(chord.Pitches()).To(HaveLen(3))
			Expect(chord.Pitches()[2].Name()).To(Equal("G4"))
		})

		It("keeps plain notes as notes", func() {
			flat := parsed.Flatten()
			_, ok := flat[0].(notation.Note)
			Expect(ok).To(BeTrue())
			_, ok = flat[2].(notation.Note)
			Expect(ok).To(BeTrue())
		})
	})

	Describe("An empty stream", func() {
		var document string

		BeforeEach(func() {
			buf := &bytes.Buffer{}
			Expect(notation.EncodeMusicXML(buf, stream)).To(Succeed())
			document = buf.String()
			parsed = ExpectSuccess(notation.DecodeMusicXML(strings.NewReader(document)))
		})

		It("is still a well formed score", func() {
			Expect(document).To(ContainSubstring("<score-partwise"))
			Expect(document).To(ContainSubstring("<rest"))
		})

		It("parses back to nothing", func() {
			Expect(parsed.Flatten()).To(BeEmpty())
		})
	})

	Describe("A chord without pitches", func() {
		It("is rejected instead of silently dropped", func() {
			stream.Append(notation.NewNote(60))
			stream.Append(notation.Chord{QuarterLength: notation.DefaultQuarterLength})

			buf := &bytes.Buffer{}
			err := notation.EncodeMusicXML(buf, stream)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("no pitches"))
		})
	})

	Describe("Documents written elsewhere", func() {
		It("follows backup and forward", func() {
			document := `<?xml version="1.0" encoding="UTF-8"?>
<score-partwise version="3.1">
  <part-list><score-part id="P1"><part-name>Piano</part-name></score-part></part-list>
  <part id="P1">
    <measure number="1">
      <attributes><divisions>2</divisions></attributes>
      <note><pitch><step>E</step><octave>5</octave></pitch><duration>8</duration></note>
      <backup><duration>8</duration></backup>
      <note><rest/><duration>2</duration></note>
      <note><pitch><step>C</step><octave>3</octave></pitch><duration>2</duration></note>
      <forward><duration>4</duration></forward>
    </measure>
    <measure number="2">
      <note><pitch><step>B</step><alter>-1</alter><octave>4</octave></pitch><duration>2</duration></note>
    </measure>
  </part>
</score-partwise>`

			parsed = ExpectSuccess(notation.DecodeMusicXML(strings.NewReader(document)))
			flat := parsed.Flatten()
			Expect(flat).To(HaveLen(3))

			Expect(flat[0].Pitches()[0].Name()).To(Equal("E5"))
			Expect(flat[0].GetOffset()).To(BeNumerically("==", 0))
			Expect(flat[1].Pitches()[0].Name()).To(Equal("C3"))
			Expect(flat[1].GetOffset()).To(BeNumerically("==", 1))
			Expect(flat[2].Pitches()[0].Name()).To(Equal("B-4"))
			Expect(flat[2].GetOffset()).To(BeNumerically("==", 4))
		})

		It("fails on garbage", func() {
			_, err := notation.DecodeMusicXML(strings.NewReader("<score-partwise><part"))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Files on disk", func() {
		It("round trips through a file", func() {
			dir := ExpectSuccess(os.MkdirTemp("", "notation-test-*"))
			DeferCleanup(os.RemoveAll, dir)

			stream.Append(notation.NewNote(69))
			path := filepath.Join(dir, "vocals.xml.xml")
			Expect(notation.WriteMusicXML(path, stream)).To(Succeed())

			parsed = ExpectSuccess(notation.ReadMusicXML(path))
			Expect(parsed.Flatten()).To(HaveLen(1))
		})
	})
})
