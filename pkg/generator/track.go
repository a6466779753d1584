package generator

import (
	"errors"
	"fmt"

	"github.com/james-see/famigen/pkg/music"
)

// ErrInvalidTrack is returned when a TrackConfig cannot drive a Track
var ErrInvalidTrack = errors.New("invalid track config")

// TrackConfig holds everything a melodic Track needs
type TrackConfig struct {
	Channel       Channel
	Instrument    string
	Scale         music.Scale
	NewNoteChance float64 // Chance that a step carries an event
	StopChance    float64 // Chance that an event is a stop instead of a note
	MaxChange     int     // Largest walk step, in scale degrees
	JumpChance    float64 // Chance that the walk resets to a random degree
}

// Validate checks the config
func (c TrackConfig) Validate() error {
	if c.Scale.Len() == 0 {
		return fmt.Errorf("%w: %s: empty scale", ErrInvalidTrack, c.Channel)
	}
	if c.MaxChange < 0 {
		return fmt.Errorf("%w: %s: negative max change %d", ErrInvalidTrack, c.Channel, c.MaxChange)
	}
	chances := []struct {
		name string
		p    float64
	}{
		{"new note chance", c.NewNoteChance},
		{"stop chance", c.StopChance},
		{"jump chance", c.JumpChance},
	}
	for _, ch := range chances {
		if ch.p < 0 || ch.p > 1 {
			return fmt.Errorf("%w: %s: %s %v outside [0,1]", ErrInvalidTrack, c.Channel, ch.name, ch.p)
		}
	}
	return nil
}

// Track generates the timeline of one melodic channel
type Track struct {
	cfg  TrackConfig
	rng  Rand
	walk *NoteWalk
}

// NewTrack creates a Track. The walk's starting degree is drawn here.
func NewTrack(cfg TrackConfig, rng Rand) (*Track, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Track{
		cfg:  cfg,
		rng:  rng,
		walk: NewNoteWalk(cfg.Scale, rng, cfg.MaxChange, cfg.JumpChance),
	}, nil
}

// Config returns the track's configuration
func (t *Track) Config() TrackConfig {
	return t.cfg
}

// Generate draws noteCount steps.
//
// Each step draws once to decide whether it carries an event and, if it
// does, once more to decide between a stop and a note. The walk advances on
// every step, whether or not its pitch was used. A stop is never emitted
// directly after another stop.
func (t *Track) Generate(noteCount int) Timeline {
	tl := Timeline{Steps: noteCount}
	stopped := false
	for i := 0; i < noteCount; i++ {
		emit := t.rng.Float64() < t.cfg.NewNoteChance
		var ev Event
		if emit {
			if t.rng.Float64() < t.cfg.StopChance && !stopped {
				ev = Event{Step: i, Kind: KindStop}
			} else {
				ev = Event{Step: i, Kind: KindNote, Instrument: t.cfg.Instrument}
			}
		}
		pitch := t.walk.Next()
		if !emit {
			continue
		}
		if ev.Kind == KindNote {
			ev.Pitch = pitch
		}
		stopped = ev.IsStop()
		tl.Events = append(tl.Events, ev)
	}
	return tl
}

// Render splits a timeline into patterns of NotesPerPattern steps.
// Only the first repeatAt patterns are materialized; pattern slot i of the
// song plays pattern i % repeatAt. A repeatAt outside [1, patternCount]
// materializes every pattern.
func Render(ch Channel, tl Timeline, patternCount, repeatAt int) Rendered {
	if repeatAt <= 0 || repeatAt > patternCount {
		repeatAt = patternCount
	}

	r := Rendered{
		Channel:   ch,
		Patterns:  make([]Pattern, repeatAt),
		Instances: make([]int, patternCount),
	}
	for i := range r.Patterns {
		r.Patterns[i] = Pattern{Index: i}
	}
	for _, ev := range tl.Events {
		p := ev.Step / NotesPerPattern
		if p >= repeatAt {
			break
		}
		ev.Step %= NotesPerPattern
		r.Patterns[p].Events = append(r.Patterns[p].Events, ev)
	}
	for i := range r.Instances {
		r.Instances[i] = i % repeatAt
	}
	return r
}
