// Package render draws the pitch name of every note in a score as plain text
// on a single page, higher pitches further up.
package render

import (
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/notation"
)

const (
	LabelX    = 100.0
	PitchStep = 5.0
	FontSize  = 12.0
)

// Page sizes are in points.
type Page struct {
	Width  float64
	Height float64
}

var Letter = Page{Width: 612, Height: 792}

// Label is a piece of text anchored at (X, Y), with Y measured up from the
// bottom edge of the page.
type Label struct {
	Text string
	MIDI int
	X    float64
	Y    float64
}

// Layout gives a note one label and a chord one label per pitch. Labels are
// not checked against the page bounds.
func Layout(elements []notation.Element, page Page) []Label {
	var labels []Label
	for _, element := range elements {
		for _, p := range element.Pitches() {
			labels = append(labels, Label{
				Text: p.Name(),
				MIDI: p.MIDI(),
				X:    LabelX,
				Y:    page.Height - float64(p.MIDI())*PitchStep,
			})
		}
	}

	return labels
}
