package generator

import (
	"github.com/james-see/famigen/pkg/music"
)

// DefaultJumpChance is the probability that a walk step resets to a random index
const DefaultJumpChance = 1.0 / 16

// NoteWalk wanders over a scale in small steps with occasional random jumps.
//
// Offsets are drawn from the full [-maxChange, maxChange] range and then
// clamped, so the lowest and highest pitches of the scale come up more often
// than the inner ones.
type NoteWalk struct {
	scale      music.Scale
	rng        Rand
	maxChange  int
	jumpChance float64
	cur        int
}

// NewNoteWalk starts a walk at a uniformly random index of scale.
// The scale must not be empty.
func NewNoteWalk(scale music.Scale, rng Rand, maxChange int, jumpChance float64) *NoteWalk {
	return &NoteWalk{
		scale:      scale,
		rng:        rng,
		maxChange:  maxChange,
		jumpChance: jumpChance,
		cur:        rng.IntN(scale.Len()),
	}
}

// Index returns the current scale index
func (w *NoteWalk) Index() int {
	return w.cur
}

// Next returns the pitch at the current index and moves the walk one step
func (w *NoteWalk) Next() music.Pitch {
	p := w.scale.At(w.cur)
	w.advance()
	return p
}

func (w *NoteWalk) advance() {
	last := w.scale.Len() - 1
	if w.rng.Float64() < w.jumpChance {
		w.cur = w.rng.IntN(last + 1)
		return
	}
	w.cur += intBetween(w.rng, -w.maxChange, w.maxChange)
	w.cur = min(last, max(0, w.cur))
}
