package generator

import (
	"github.com/james-see/famigen/pkg/music"
)

// PercussionStride is the distance between candidate hit steps
const PercussionStride = 2

// KitPiece is a noise instrument played at a fixed pitch
type KitPiece struct {
	Instrument string
	Pitch      music.Pitch
}

var (
	bassDrum = KitPiece{Instrument: "NoiseBassDrum", Pitch: music.Pitch{Class: 7, Octave: 2}} // G2
	hiHat    = KitPiece{Instrument: "NoiseHiHat", Pitch: music.Pitch{Class: 4, Octave: 3}}    // E3
	snare    = KitPiece{Instrument: "NoiseSnare", Pitch: music.Pitch{Class: 5, Octave: 4}}    // F4
	crash    = KitPiece{Instrument: "NoiseCrash", Pitch: music.Pitch{Class: 5, Octave: 3}}    // F3
)

// Kit returns the 8 equally likely kit entries.
// The bass drum fills five of them.
func Kit() []KitPiece {
	return []KitPiece{bassDrum, bassDrum, bassDrum, bassDrum, bassDrum, hiHat, snare, crash}
}

// PercussionTrack generates memoryless drum patterns for the noise channel
type PercussionTrack struct {
	rng Rand
	kit []KitPiece
}

// NewPercussionTrack creates a PercussionTrack using the default kit
func NewPercussionTrack(rng Rand) *PercussionTrack {
	return &PercussionTrack{rng: rng, kit: Kit()}
}

// Generate draws patterns distinct percussion patterns and loops them over
// patternCount pattern slots. Every other step gets a coin flip for a hit,
// and a hit picks a kit entry uniformly.
func (p *PercussionTrack) Generate(patternCount, patterns int) Rendered {
	if patterns <= 0 || patterns > patternCount {
		patterns = max(1, min(patterns, patternCount))
	}

	r := Rendered{
		Channel:   Noise,
		Patterns:  make([]Pattern, patterns),
		Instances: make([]int, patternCount),
	}
	for i := range r.Patterns {
		pat := Pattern{Index: i}
		for step := 0; step < NotesPerPattern; step += PercussionStride {
			if p.rng.IntN(2) != 0 {
				continue
			}
			piece := p.kit[p.rng.IntN(len(p.kit))]
			pat.Events = append(pat.Events, Event{
				Step:       step,
				Kind:       KindNote,
				Pitch:      piece.Pitch,
				Instrument: piece.Instrument,
			})
		}
		r.Patterns[i] = pat
	}
	for i := range r.Instances {
		r.Instances[i] = i % patterns
	}
	return r
}
