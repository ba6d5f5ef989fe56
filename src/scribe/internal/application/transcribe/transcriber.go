package transcribe

import (
	"context"

	"github.com/apex/log"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/audio"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/notation"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/pitch"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/lib/cerr"
)

type FramePitch struct {
	Frame int
	Hz    float64
	MIDI  int
}

type MIDIResult struct {
	Path      string
	NoteCount int
	Skipped   bool
}

type NotationResult struct {
	Path      string
	NoteCount int
}

type Transcriber struct {
	options  pitch.Options
	selector pitch.Selector
}

func NewTranscriber(options pitch.Options, selector pitch.Selector) Transcriber {
	return Transcriber{
		options:  options,
		selector: selector,
	}
}

// Extract loads the stem and returns the selected pitch of every frame that
// has one.
func (t Transcriber) Extract(stemPath string) ([]FramePitch, error) {
	buffer, err := audio.LoadWAV(stemPath)
	if err != nil {
		return nil, cerr.Field("stem_path", stemPath).Wrap(err).Error("Failed to load stem")
	}

	return t.ExtractBuffer(buffer), nil
}

func (t Transcriber) ExtractBuffer(buffer audio.Buffer) []FramePitch {
	matrix := pitch.Track(buffer, t.options)

	var frames []FramePitch
	for frame, hz := range matrix.Peaks(t.selector) {
		if hz <= 0 {
			continue
		}

		frames = append(frames, FramePitch{
			Frame: frame,
			Hz:    hz,
			MIDI:  pitch.NearestSemitone(hz),
		})
	}

	return frames
}

// ToMIDI writes one note per detected frame. Nothing is written when no frame
// has a pitch.
func (t Transcriber) ToMIDI(ctx context.Context, stemPath string, midiPath string) (MIDIResult, error) {
	errctx := cerr.Fields(cerr.F{
		"stem_path": stemPath,
		"midi_path": midiPath,
	})

	if ctx.Err() != nil {
		return MIDIResult{}, errctx.Wrap(ctx.Err()).Error("Context cancelled before transcribing to MIDI")
	}

	frames, err := t.Extract(stemPath)
	if err != nil {
		return MIDIResult{}, errctx.Wrap(err).Error("Failed to extract pitches")
	}

	if len(frames) == 0 {
		log.Infof("No notes detected in %s. Skipping MIDI creation.", stemPath)
		return MIDIResult{Path: midiPath, Skipped: true}, nil
	}

	events := BuildNoteEvents(frames)
	if err := WriteSMF(midiPath, events); err != nil {
		return MIDIResult{}, errctx.Wrap(err).Error("Failed to write MIDI file")
	}

	log.Infof("MIDI file saved: %s", midiPath)

	return MIDIResult{
		Path:      midiPath,
		NoteCount: len(events),
	}, nil
}

// ToNotation appends one quarter note per detected frame and writes the
// stream as MusicXML, even when the stream is empty.
func (t Transcriber) ToNotation(ctx context.Context, stemPath string, xmlPath string) (NotationResult, error) {
	errctx := cerr.Fields(cerr.F{
		"stem_path": stemPath,
		"xml_path":  xmlPath,
	})

	if ctx.Err() != nil {
		return NotationResult{}, errctx.Wrap(ctx.Err()).Error("Context cancelled before transcribing to notation")
	}

	frames, err := t.Extract(stemPath)
	if err != nil {
		return NotationResult{}, errctx.Wrap(err).Error("Failed to extract pitches")
	}

	stream := BuildStream(frames)
	if err := notation.WriteMusicXML(xmlPath, stream); err != nil {
		return NotationResult{}, errctx.Wrap(err).Error("Failed to write MusicXML file")
	}

	log.WithFields(log.Fields{
		"xml_path":   xmlPath,
		"note_count": stream.Len(),
	}).Debug("MusicXML file saved")

	return NotationResult{
		Path:      xmlPath,
		NoteCount: stream.Len(),
	}, nil
}

func BuildStream(frames []FramePitch) notation.Stream {
	stream := notation.Stream{}
	for _, frame := range frames {
		stream.Append(notation.NewNote(frame.MIDI))
	}

	return stream
}
