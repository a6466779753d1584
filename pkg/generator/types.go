// Package generator composes chiptune songs from constrained random walks over a scale
package generator

import (
	"github.com/james-see/famigen/pkg/music"
)

// Song layout constants shared by every generated song
const (
	NotesPerPattern = 16 // Steps per pattern
	BarLength       = 4  // Steps per bar
	LoopPoint       = 0  // Pattern instance the song loops back to
)

// Channel identifies an instrument lane of the 2A03
type Channel int

const (
	Square1 Channel = iota
	Square2
	Triangle
	Noise
	DPCM
)

var channelNames = [...]string{"Square1", "Square2", "Triangle", "Noise", "DPCM"}

// String returns the tracker name of the channel
func (c Channel) String() string {
	if c < 0 || int(c) >= len(channelNames) {
		return "Unknown"
	}
	return channelNames[c]
}

// Channels returns every channel in song order
func Channels() []Channel {
	return []Channel{Square1, Square2, Triangle, Noise, DPCM}
}

// EventKind distinguishes note events from stop events
type EventKind int

const (
	KindNote EventKind = iota
	KindStop
)

// Event is a single note or stop at a step.
// A step without an event holds whatever was playing before it.
type Event struct {
	Step       int         // Step index; relative to the pattern start inside a Pattern
	Kind       EventKind   // Note or stop
	Pitch      music.Pitch // Pitch to play (notes only)
	Instrument string      // Instrument name (notes only)
}

// IsStop reports whether the event silences the channel
func (e Event) IsStop() bool {
	return e.Kind == KindStop
}

// Timeline is the sparse list of events of one channel, sorted by step
type Timeline struct {
	Steps  int
	Events []Event
}

// Pattern is a materialized block of NotesPerPattern steps
type Pattern struct {
	Index  int
	Events []Event
}

// Rendered holds the pattern bodies of a channel and the order in which
// the song plays them. Instances[i] is the index of the pattern played at
// pattern slot i.
type Rendered struct {
	Channel   Channel
	Patterns  []Pattern
	Instances []int
}

// Song is one generated composition
type Song struct {
	Index         int
	Name          string
	Root          music.PitchClass
	ScaleName     string
	NoteLength    int // Frames per step
	PatternCount  int
	PatternLength int
	LoopPoint     int
	BarLength     int
	Lead          int // Index of the LeadN instrument used by both square channels
	Channels      []Rendered
}

// Channel returns the rendered channel c, or false if the song has none
func (s *Song) Channel(c Channel) (Rendered, bool) {
	for _, r := range s.Channels {
		if r.Channel == c {
			return r, true
		}
	}
	return Rendered{}, false
}
