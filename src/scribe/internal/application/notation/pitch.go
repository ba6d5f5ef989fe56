package notation

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

var stepSemitones = map[string]int{
	"C": 0,
	"D": 2,
	"E": 4,
	"F": 5,
	"G": 7,
	"A": 9,
	"B": 11,
}

type spelling struct {
	step  string
	alter int
}

// default spellings for each pitch class, sharps below G# and flats for E- and B-
var pitchClassSpellings = [12]spelling{
	{"C", 0}, {"C", 1}, {"D", 0}, {"E", -1}, {"E", 0}, {"F", 0},
	{"F", 1}, {"G", 0}, {"G", 1}, {"A", 0}, {"B", -1}, {"B", 0},
}

// Pitch is a spelled pitch: a diatonic step, a chromatic alteration and an octave.
type Pitch struct {
	Step   string
	Alter  int
	Octave int
}

func PitchFromMIDI(midi int) Pitch {
	pitchClass := ((midi % 12) + 12) % 12
	octave := (midi-pitchClass)/12 - 1
	s := pitchClassSpellings[pitchClass]

	return Pitch{
		Step:   s.step,
		Alter:  s.alter,
		Octave: octave,
	}
}

func (p Pitch) Validate() error {
	if _, ok := stepSemitones[p.Step]; !ok {
		return errors.Newf("Unknown pitch step %q", p.Step)
	}

	return nil
}

func (p Pitch) MIDI() int {
	return (p.Octave+1)*12 + stepSemitones[p.Step] + p.Alter
}

// Name renders the pitch like C4, C#4 or E-4.
func (p Pitch) Name() string {
	accidental := ""
	switch {
	case p.Alter > 0:
		accidental = strings.Repeat("#", p.Alter)
	case p.Alter < 0:
		accidental = strings.Repeat("-", -p.Alter)
	}

	return fmt.Sprintf("%s%s%d", p.Step, accidental, p.Octave)
}

func (p Pitch) String() string {
	return p.Name()
}
