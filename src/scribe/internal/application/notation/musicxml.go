package notation

import (
	"encoding/xml"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/cockroachdb/errors"
)

const (
	divisionsPerQuarter = 4
	beatsPerMeasure     = 4
	partID              = "P1"
	doctype             = `<!DOCTYPE score-partwise PUBLIC "-//Recordare//DTD MusicXML 3.1 Partwise//EN" "http://www.musicxml.org/dtds/partwise.dtd">`
)

var noteTypes = map[int]string{
	1:  "16th",
	2:  "eighth",
	3:  "eighth",
	4:  "quarter",
	6:  "quarter",
	8:  "half",
	12: "half",
	16: "whole",
}

type xmlScore struct {
	XMLName  xml.Name    `xml:"score-partwise"`
	Version  string      `xml:"version,attr,omitempty"`
	PartList xmlPartList `xml:"part-list"`
	Parts    []xmlPart   `xml:"part"`
}

type xmlPartList struct {
	ScoreParts []xmlScorePart `xml:"score-part"`
}

type xmlScorePart struct {
	ID       string `xml:"id,attr"`
	PartName string `xml:"part-name"`
}

type xmlPart struct {
	ID       string       `xml:"id,attr"`
	Measures []xmlMeasure `xml:"measure"`
}

type xmlMeasure struct {
	Number string           `xml:"number,attr"`
	Items  []xmlMeasureItem `xml:",any"`
}

// xmlMeasureItem covers every measure child we care about; XMLName tells
// attributes, note, backup and forward apart.
type xmlMeasureItem struct {
	XMLName   xml.Name
	Divisions int       `xml:"divisions,omitempty"`
	Key       *xmlKey   `xml:"key,omitempty"`
	Time      *xmlTime  `xml:"time,omitempty"`
	Clef      *xmlClef  `xml:"clef,omitempty"`
	Chord     *struct{} `xml:"chord,omitempty"`
	Rest      *xmlRest  `xml:"rest,omitempty"`
	Pitch     *xmlPitch `xml:"pitch,omitempty"`
	Duration  int       `xml:"duration,omitempty"`
	Type      string    `xml:"type,omitempty"`
}

type xmlKey struct {
	Fifths int `xml:"fifths"`
}

type xmlTime struct {
	Beats    int `xml:"beats"`
	BeatType int `xml:"beat-type"`
}

type xmlClef struct {
	Sign string `xml:"sign"`
	Line int    `xml:"line"`
}

type xmlRest struct {
	Measure string `xml:"measure,attr,omitempty"`
}

type xmlPitch struct {
	Step   string `xml:"step"`
	Alter  int    `xml:"alter,omitempty"`
	Octave int    `xml:"octave"`
}

func WriteMusicXML(path string, stream Stream) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "Failed to create MusicXML file %s", path)
	}
	defer file.Close()

	if err := EncodeMusicXML(file, stream); err != nil {
		return errors.Wrapf(err, "Failed to write MusicXML file %s", path)
	}

	return file.Close()
}

// EncodeMusicXML writes a single part in 4/4 with a treble clef. A stream
// without elements still produces a measure holding one whole measure rest.
// Elements without pitches are rejected since they would vanish from the score.
func EncodeMusicXML(w io.Writer, stream Stream) error {
	measures, err := buildMeasures(stream.Flatten())
	if err != nil {
		return err
	}

	score := xmlScore{
		Version: "3.1",
		PartList: xmlPartList{
			ScoreParts: []xmlScorePart{{ID: partID, PartName: "Music"}},
		},
		Parts: []xmlPart{{
			ID:       partID,
			Measures: measures,
		}},
	}

	if _, err := io.WriteString(w, xml.Header+doctype+"\n"); err != nil {
		return errors.Wrap(err, "Failed to write MusicXML header")
	}

	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(score); err != nil {
		return errors.Wrap(err, "Failed to encode MusicXML")
	}

	_, err = io.WriteString(w, "\n")
	return err
}

func buildMeasures(elements []Element) ([]xmlMeasure, error) {
	measureLength := beatsPerMeasure * divisionsPerQuarter

	attributes := xmlMeasureItem{
		XMLName:   xml.Name{Local: "attributes"},
		Divisions: divisionsPerQuarter,
		Key:       &xmlKey{Fifths: 0},
		Time:      &xmlTime{Beats: beatsPerMeasure, BeatType: 4},
		Clef:      &xmlClef{Sign: "G", Line: 2},
	}

	measures := []xmlMeasure{{
		Number: "1",
		Items:  []xmlMeasureItem{attributes},
	}}

	if len(elements) == 0 {
		measures[0].Items = append(measures[0].Items, xmlMeasureItem{
			XMLName:  xml.Name{Local: "note"},
			Rest:     &xmlRest{Measure: "yes"},
			Duration: measureLength,
		})
		return measures, nil
	}

	filled := 0
	for index, element := range elements {
		if len(element.Pitches()) == 0 {
			return nil, errors.Errorf("Element %d at offset %g has no pitches", index, element.GetOffset())
		}

		if filled >= measureLength {
			measures = append(measures, xmlMeasure{Number: strconv.Itoa(len(measures) + 1)})
			filled = 0
		}

		duration := toDivisions(element.GetQuarterLength())
		current := &measures[len(measures)-1]

		for i, p := range element.Pitches() {
			item := xmlMeasureItem{
				XMLName:  xml.Name{Local: "note"},
				Pitch:    &xmlPitch{Step: p.Step, Alter: p.Alter, Octave: p.Octave},
				Duration: duration,
				Type:     noteTypes[duration],
			}
			if i > 0 {
				item.Chord = &struct{}{}
			}
			current.Items = append(current.Items, item)
		}

		filled += duration
	}

	return measures, nil
}

func toDivisions(quarterLength float64) int {
	duration := int(math.Round(quarterLength * divisionsPerQuarter))
	if duration < 1 {
		return 1
	}

	return duration
}

func ReadMusicXML(path string) (Stream, error) {
	file, err := os.Open(path)
	if err != nil {
		return Stream{}, errors.Wrapf(err, "Failed to open MusicXML file %s", path)
	}
	defer file.Close()

	stream, err := DecodeMusicXML(file)
	if err != nil {
		return Stream{}, errors.Wrapf(err, "Failed to parse MusicXML file %s", path)
	}

	return stream, nil
}

// DecodeMusicXML reads every part of a partwise score into one stream, with
// offsets in quarter lengths from the start of the piece. Rests are skipped
// and notes marked as chord members join the preceding element.
func DecodeMusicXML(r io.Reader) (Stream, error) {
	score := xmlScore{}
	decoder := xml.NewDecoder(r)
	decoder.Strict = false
	if err := decoder.Decode(&score); err != nil {
		return Stream{}, errors.Wrap(err, "Failed to decode MusicXML")
	}

	stream := Stream{}
	for _, part := range score.Parts {
		elements, err := decodePart(part)
		if err != nil {
			return Stream{}, errors.Wrapf(err, "Failed to decode part %s", part.ID)
		}
		stream.Elements = append(stream.Elements, elements...)
	}

	return stream, nil
}

func decodePart(part xmlPart) ([]Element, error) {
	var elements []Element

	divisions := 1
	measureStart := 0.0

	for _, measure := range part.Measures {
		position := 0
		furthest := 0
		lastNoteIndex := -1

		for _, item := range measure.Items {
			switch item.XMLName.Local {
			case "attributes":
				if item.Divisions > 0 {
					divisions = item.Divisions
				}

			case "backup":
				position -= item.Duration
				if position < 0 {
					position = 0
				}

			case "forward":
				position += item.Duration

			case "note":
				if item.Rest != nil || item.Pitch == nil {
					if item.Chord == nil {
						position += item.Duration
					}
					lastNoteIndex = -1
					break
				}

				p := Pitch{Step: item.Pitch.Step, Alter: item.Pitch.Alter, Octave: item.Pitch.Octave}
				if err := p.Validate(); err != nil {
					return nil, errors.Wrapf(err, "Invalid pitch in measure %s", measure.Number)
				}

				quarterLength := float64(item.Duration) / float64(divisions)

				if item.Chord != nil && lastNoteIndex >= 0 {
					elements[lastNoteIndex] = joinChord(elements[lastNoteIndex], p)
					break
				}

				offset := measureStart + float64(position)/float64(divisions)
				elements = append(elements, Note{
					Pitch:         p,
					Offset:        offset,
					QuarterLength: quarterLength,
				})
				lastNoteIndex = len(elements) - 1
				position += item.Duration
			}

			if position > furthest {
				furthest = position
			}
		}

		measureStart += float64(furthest) / float64(divisions)
	}

	return elements, nil
}

func joinChord(element Element, p Pitch) Element {
	switch e := element.(type) {
	case Note:
		return Chord{
			Notes:         []Pitch{e.Pitch, p},
			Offset:        e.Offset,
			QuarterLength: e.QuarterLength,
		}
	case Chord:
		e.Notes = append(e.Notes, p)
		return e
	default:
		return element
	}
}
