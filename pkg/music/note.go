// Package music provides pitch and scale primitives for famigen
package music

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownRoot is returned when a root note token cannot be parsed
var ErrUnknownRoot = errors.New("unknown root note")

// PitchClassCount is the number of pitch classes in an octave
const PitchClassCount = 12

var pitchClassNames = [PitchClassCount]string{
	"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B",
}

var flatNames = map[string]PitchClass{
	"DB": 1,
	"EB": 3,
	"GB": 6,
	"AB": 8,
	"BB": 10,
}

// PitchClass is one of the 12 note names, C = 0
type PitchClass int

// String returns the sharp spelling of the pitch class
func (p PitchClass) String() string {
	return pitchClassNames[p.normalize()]
}

// Add transposes the pitch class by n semitones, wrapping around the octave
func (p PitchClass) Add(n int) PitchClass {
	return PitchClass(int(p) + n).normalize()
}

func (p PitchClass) normalize() PitchClass {
	v := int(p) % PitchClassCount
	if v < 0 {
		v += PitchClassCount
	}
	return PitchClass(v)
}

// PitchClasses returns all pitch classes in ascending order
func PitchClasses() []PitchClass {
	out := make([]PitchClass, PitchClassCount)
	for i := range out {
		out[i] = PitchClass(i)
	}
	return out
}

// ParseRoot parses a root note token such as "C", "f#" or "Bb"
func ParseRoot(token string) (PitchClass, error) {
	t := strings.ToUpper(strings.TrimSpace(token))
	for i, name := range pitchClassNames {
		if t == name {
			return PitchClass(i), nil
		}
	}
	if pc, ok := flatNames[t]; ok {
		return pc, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRoot, token)
}

// Pitch is a pitch class in a specific octave
type Pitch struct {
	Class  PitchClass
	Octave int
}

// String renders the pitch as a tracker token, e.g. "F#3"
func (p Pitch) String() string {
	return fmt.Sprintf("%s%d", p.Class, p.Octave)
}

// Less reports whether p sounds lower than q
func (p Pitch) Less(q Pitch) bool {
	if p.Octave != q.Octave {
		return p.Octave < q.Octave
	}
	return p.Class < q.Class
}

// MIDI returns the MIDI note number of the pitch (C4 = 60)
func (p Pitch) MIDI() int {
	return (p.Octave+1)*PitchClassCount + int(p.Class)
}
