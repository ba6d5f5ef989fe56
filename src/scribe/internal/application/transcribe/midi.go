package transcribe

import (
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/lib/cerr"
)

const (
	TicksPerQuarter = 960
	Tempo           = 120
	Velocity        = 100
	Channel         = 0
	NoteBeats       = 1
)

type NoteEvent struct {
	Key           uint8
	StartBeat     int
	DurationBeats int
	Velocity      uint8
	Channel       uint8
}

// BuildNoteEvents starts each note at the beat equal to its frame index.
func BuildNoteEvents(frames []FramePitch) []NoteEvent {
	events := make([]NoteEvent, 0, len(frames))
	for _, frame := range frames {
		events = append(events, NoteEvent{
			Key:           clampKey(frame.MIDI),
			StartBeat:     frame.Frame,
			DurationBeats: NoteBeats,
			Velocity:      Velocity,
			Channel:       Channel,
		})
	}

	return events
}

func clampKey(key int) uint8 {
	switch {
	case key < 0:
		return 0
	case key > 127:
		return 127
	default:
		return uint8(key)
	}
}

// BuildSMF lays the events out on a single track with the tempo at tick 0.
// Events must be ordered by start beat and must not overlap.
func BuildSMF(events []NoteEvent) (*smf.SMF, error) {
	var track smf.Track
	track.Add(0, smf.MetaTempo(Tempo))

	var currentTick uint32
	for i, event := range events {
		start := uint32(event.StartBeat) * TicksPerQuarter
		if start < currentTick {
			return nil, cerr.Field("event_index", i).Error("Note events overlap or are out of order")
		}

		duration := uint32(event.DurationBeats) * TicksPerQuarter
		track.Add(start-currentTick, midi.NoteOn(event.Channel, event.Key, event.Velocity))
		track.Add(duration, midi.NoteOff(event.Channel, event.Key))
		currentTick = start + duration
	}

	track.Close(0)

	file := smf.SMF{
		TimeFormat: smf.MetricTicks(TicksPerQuarter),
	}
	file.Tracks = append(file.Tracks, track)

	return &file, nil
}

func WriteSMF(path string, events []NoteEvent) error {
	file, err := BuildSMF(events)
	if err != nil {
		return cerr.Wrap(err).Error("Failed to build MIDI track")
	}

	if err := file.WriteFile(path); err != nil {
		return cerr.Field("path", path).Wrap(err).Error("Failed to write MIDI file")
	}

	return nil
}
