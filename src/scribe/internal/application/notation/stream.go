// Package notation models a flat stream of notes and chords and reads and
// writes it as partwise MusicXML.
package notation

import (
	"sort"
)

const DefaultQuarterLength = 1.0

// Element is either a Note or a Chord.
type Element interface {
	Pitches() []Pitch
	GetOffset() float64
	GetQuarterLength() float64
	withOffset(offset float64) Element
}

var _ Element = Note{}
var _ Element = Chord{}

type Note struct {
	Pitch         Pitch
	Offset        float64
	QuarterLength float64
}

func NewNote(midi int) Note {
	return Note{
		Pitch:         PitchFromMIDI(midi),
		QuarterLength: DefaultQuarterLength,
	}
}

func (n Note) Pitches() []Pitch {
	return []Pitch{n.Pitch}
}

func (n Note) GetOffset() float64 {
	return n.Offset
}

func (n Note) GetQuarterLength() float64 {
	return n.QuarterLength
}

func (n Note) withOffset(offset float64) Element {
	n.Offset = offset
	return n
}

type Chord struct {
	Notes         []Pitch
	Offset        float64
	QuarterLength float64
}

// NewChord takes at least one pitch, an empty chord has nothing to write.
func NewChord(root int, others ...int) Chord {
	chord := Chord{QuarterLength: DefaultQuarterLength}
	for _, midi := range append([]int{root}, others...) {
		chord.Notes = append(chord.Notes, PitchFromMIDI(midi))
	}

	return chord
}

func (c Chord) Pitches() []Pitch {
	pitches := make([]Pitch, len(c.Notes))
	copy(pitches, c.Notes)
	return pitches
}

func (c Chord) GetOffset() float64 {
	return c.Offset
}

func (c Chord) GetQuarterLength() float64 {
	return c.QuarterLength
}

func (c Chord) withOffset(offset float64) Element {
	c.Offset = offset
	return c
}

type Stream struct {
	Elements []Element
}

// Append places the element right after the current end of the stream.
func (s *Stream) Append(element Element) {
	s.Elements = append(s.Elements, element.withOffset(s.HighestTime()))
}

func (s Stream) HighestTime() float64 {
	highest := 0.0
	for _, element := range s.Elements {
		end := element.GetOffset() + element.GetQuarterLength()
		if end > highest {
			highest = end
		}
	}

	return highest
}

func (s Stream) Len() int {
	return len(s.Elements)
}

// Flatten returns the elements ordered by offset, keeping insertion order on ties.
func (s Stream) Flatten() []Element {
	flat := make([]Element, len(s.Elements))
	copy(flat, s.Elements)

	sort.SliceStable(flat, func(i, j int) bool {
		return flat[i].GetOffset() < flat[j].GetOffset()
	})

	return flat
}
