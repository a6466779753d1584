package music

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Scale errors
var (
	ErrUnknownScale = errors.New("unknown scale")
	ErrEmptyScale   = errors.New("scale has no degrees")
	ErrOctaveRange  = errors.New("invalid octave range")
	ErrDegree       = errors.New("scale degree outside [0,11] or repeated")
)

// Degrees is an ascending set of semitone offsets from a root
type Degrees []int

// NamedScale pairs a scale name with its degrees
type NamedScale struct {
	Name    string
	Degrees Degrees
}

// scaleTable is ordered: the pentatonic scales come last so that the
// pentatonic-only subset is a suffix of the full table.
var scaleTable = []NamedScale{
	{Name: "major", Degrees: Degrees{0, 2, 4, 5, 7, 9, 11}},
	{Name: "minor", Degrees: Degrees{0, 2, 3, 5, 7, 8, 10}},
	{Name: "major pent", Degrees: Degrees{0, 2, 4, 7, 9}},
	{Name: "minor pent", Degrees: Degrees{0, 3, 5, 7, 10}},
}

const pentatonicStart = 2

// Scales returns the scale table, optionally restricted to pentatonic scales
func Scales(pentatonicOnly bool) []NamedScale {
	table := scaleTable
	if pentatonicOnly {
		table = scaleTable[pentatonicStart:]
	}
	out := make([]NamedScale, len(table))
	for i, s := range table {
		out[i] = NamedScale{Name: s.Name, Degrees: append(Degrees(nil), s.Degrees...)}
	}
	return out
}

// ScaleNames returns the names of Scales(pentatonicOnly)
func ScaleNames(pentatonicOnly bool) []string {
	scales := Scales(pentatonicOnly)
	names := make([]string, len(scales))
	for i, s := range scales {
		names[i] = s.Name
	}
	return names
}

// LookupScale returns the degrees of a named scale.
// Matching ignores case, and accepts '-' or '_' as separators and
// "pentatonic" for "pent".
func LookupScale(name string) (Degrees, error) {
	key := normalizeScaleName(name)
	for _, s := range scaleTable {
		if s.Name == key {
			return append(Degrees(nil), s.Degrees...), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScale, name)
}

func normalizeScaleName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer("-", " ", "_", " ").Replace(n)
	n = strings.Join(strings.Fields(n), " ")
	return strings.Replace(n, "pentatonic", "pent", 1)
}

// OctaveLimit is the highest octave a scale may start in
const OctaveLimit = 7

// Scale is an immutable, strictly ascending sequence of pitches
type Scale struct {
	pitches []Pitch
}

// BuildScale expands degrees over the inclusive octave range [minOctave, maxOctave].
// Degrees may be given in any order; each must be a distinct value in [0,11].
// Degrees that wrap past B carry into the next octave, so the result is
// strictly ascending for every root.
func BuildScale(degrees Degrees, root PitchClass, minOctave, maxOctave int) (Scale, error) {
	if len(degrees) == 0 {
		return Scale{}, ErrEmptyScale
	}
	if minOctave < 0 || maxOctave < minOctave || maxOctave > OctaveLimit {
		return Scale{}, fmt.Errorf("%w: [%d,%d] not within [0,%d]", ErrOctaveRange, minOctave, maxOctave, OctaveLimit)
	}
	sorted := slices.Sorted(slices.Values(degrees))
	for i, d := range sorted {
		if d < 0 || d >= PitchClassCount || (i > 0 && sorted[i-1] == d) {
			return Scale{}, fmt.Errorf("%w: %v", ErrDegree, []int(degrees))
		}
	}

	offset := int(root.normalize())
	pitches := make([]Pitch, 0, len(sorted)*(maxOctave-minOctave+1))
	for octave := minOctave; octave <= maxOctave; octave++ {
		for _, d := range sorted {
			semitone := d + offset
			pitches = append(pitches, Pitch{
				Class:  PitchClass(semitone % PitchClassCount),
				Octave: octave + semitone/PitchClassCount,
			})
		}
	}
	return Scale{pitches: pitches}, nil
}

// Len returns the number of pitches in the scale
func (s Scale) Len() int {
	return len(s.pitches)
}

// At returns the pitch at index i
func (s Scale) At(i int) Pitch {
	return s.pitches[i]
}

// Pitches returns a copy of the scale's pitches
func (s Scale) Pitches() []Pitch {
	return append([]Pitch(nil), s.pitches...)
}

// Sub returns an independent copy of the pitches in [lo, hi)
func (s Scale) Sub(lo, hi int) Scale {
	lo = max(lo, 0)
	hi = min(hi, len(s.pitches))
	if hi < lo {
		hi = lo
	}
	return Scale{pitches: append([]Pitch(nil), s.pitches[lo:hi]...)}
}

// String returns the pitches separated by spaces
func (s Scale) String() string {
	parts := make([]string, len(s.pitches))
	for i, p := range s.pitches {
		parts[i] = p.String()
	}
	return strings.Join(parts, " ")
}

// Describe resolves a named scale at a root into its printable degree list,
// e.g. Describe("C", "major pent") returns "C D E G A".
func Describe(root, scale string) (string, error) {
	pc, err := ParseRoot(root)
	if err != nil {
		return "", err
	}
	degrees, err := LookupScale(scale)
	if err != nil {
		return "", err
	}
	names := make([]string, len(degrees))
	for i, d := range degrees {
		names[i] = pc.Add(d).String()
	}
	return strings.Join(names, " "), nil
}
