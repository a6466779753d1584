package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/james-see/famigen/pkg/generator"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// MIDI timing: one step is a sixteenth note and the tracker runs at 60 frames per second.
const (
	ticksPerQuarter = 96
	ticksPerStep    = ticksPerQuarter / 4
	framesPerSecond = 60
	drumChannel     = 9
)

var midiChannels = map[generator.Channel]uint8{
	generator.Square1:  0,
	generator.Square2:  1,
	generator.Triangle: 2,
	generator.Noise:    drumChannel,
}

var channelVelocity = map[generator.Channel]uint8{
	generator.Square1:  100,
	generator.Square2:  90,
	generator.Triangle: 110,
	generator.Noise:    100,
}

// General MIDI drum keys for the noise kit
var drumKeys = map[string]uint8{
	"NoiseBassDrum": 36,
	"NoiseSnare":    38,
	"NoiseHiHat":    42,
	"NoiseCrash":    49,
}

// MIDI writes songs as Standard MIDI Files for previewing outside the tracker
type MIDI struct{}

// NewMIDI creates a MIDI exporter
func NewMIDI() *MIDI {
	return &MIDI{}
}

// Name returns the exporter name
func (m *MIDI) Name() string {
	return "Standard MIDI File"
}

// Format returns FormatMIDI
func (m *MIDI) Format() Format {
	return FormatMIDI
}

// Export writes the first song of the project. Use ExportSong or
// SaveMIDISongs for the others.
func (m *MIDI) Export(w io.Writer, project *Project) error {
	if project == nil || len(project.Songs) == 0 {
		return errors.New("project has no songs")
	}
	return m.ExportSong(w, project.Songs[0])
}

// Tempo returns the BPM at which a quarter note (four steps) lasts
// 4*noteLength frames.
func Tempo(noteLength int) float64 {
	return float64(framesPerSecond*60) / float64(4*noteLength)
}

// ExportSong writes a single song as a format 1 SMF: a conductor track
// followed by one track per sounding channel.
func (m *MIDI) ExportSong(w io.Writer, song *generator.Song) error {
	if song == nil {
		return errors.New("nil song")
	}
	if song.NoteLength <= 0 {
		return fmt.Errorf("invalid note length %d", song.NoteLength)
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticksPerQuarter)

	var conductor smf.Track
	conductor.Add(0, smf.MetaTrackSequenceName(song.Name))
	conductor.Add(0, smf.MetaTempo(Tempo(song.NoteLength)))
	conductor.Add(0, smf.MetaMeter(4, 4))
	conductor.Close(0)
	if err := s.Add(conductor); err != nil {
		return fmt.Errorf("failed to add track: %w", err)
	}

	songTicks := uint32(song.PatternCount * generator.NotesPerPattern * ticksPerStep)
	for _, r := range song.Channels {
		ch, ok := midiChannels[r.Channel]
		if !ok {
			continue
		}
		var msgs []timedMessage
		if r.Channel == generator.Noise {
			msgs = drumMessages(r, ch)
		} else {
			msgs = melodicMessages(r, ch, channelVelocity[r.Channel], songTicks)
		}

		var track smf.Track
		track.Add(0, smf.MetaTrackSequenceName(r.Channel.String()))
		var last uint32
		for _, tm := range msgs {
			track.Add(tm.tick-last, tm.msg)
			last = tm.tick
		}
		track.Close(0)
		if err := s.Add(track); err != nil {
			return fmt.Errorf("failed to add track: %w", err)
		}
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return fmt.Errorf("failed to write MIDI: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

type timedMessage struct {
	tick uint32
	msg  midi.Message
}

// absoluteEvents unrolls the pattern instances of a channel into song order
func absoluteEvents(r generator.Rendered) []generator.Event {
	var out []generator.Event
	for slot, idx := range r.Instances {
		if idx < 0 || idx >= len(r.Patterns) {
			continue
		}
		for _, ev := range r.Patterns[idx].Events {
			ev.Step += slot * generator.NotesPerPattern
			out = append(out, ev)
		}
	}
	return out
}

// melodicMessages holds each note until the channel's next event or the end of the song
func melodicMessages(r generator.Rendered, ch, velocity uint8, songTicks uint32) []timedMessage {
	var msgs []timedMessage
	playing := -1
	for _, ev := range absoluteEvents(r) {
		tick := uint32(ev.Step * ticksPerStep)
		if playing >= 0 {
			msgs = append(msgs, timedMessage{tick, midi.NoteOff(ch, uint8(playing))})
			playing = -1
		}
		if ev.IsStop() {
			continue
		}
		key := midiKey(ev.Pitch.MIDI())
		msgs = append(msgs, timedMessage{tick, midi.NoteOn(ch, key, velocity)})
		playing = int(key)
	}
	if playing >= 0 {
		msgs = append(msgs, timedMessage{songTicks, midi.NoteOff(ch, uint8(playing))})
	}
	return msgs
}

// drumMessages plays every hit for one step
func drumMessages(r generator.Rendered, ch uint8) []timedMessage {
	var msgs []timedMessage
	for _, ev := range absoluteEvents(r) {
		key, ok := drumKeys[ev.Instrument]
		if !ok {
			key = midiKey(ev.Pitch.MIDI())
		}
		tick := uint32(ev.Step * ticksPerStep)
		msgs = append(msgs,
			timedMessage{tick, midi.NoteOn(ch, key, channelVelocity[generator.Noise])},
			timedMessage{tick + ticksPerStep, midi.NoteOff(ch, key)},
		)
	}
	return msgs
}

func midiKey(n int) uint8 {
	return uint8(min(127, max(0, n)))
}
