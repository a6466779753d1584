package music

import (
	"errors"
	"math"
	"testing"
)

func TestParseRoot(t *testing.T) {
	tests := []struct {
		token    string
		expected PitchClass
		wantErr  bool
	}{
		{"C", 0, false},
		{"c#", 1, false},
		{" F# ", 6, false},
		{"Bb", 10, false},
		{"eb", 3, false},
		{"B", 11, false},
		{"H", 0, true},
		{"", 0, true},
		{"C##", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			pc, err := ParseRoot(tt.token)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownRoot) {
					t.Fatalf("ParseRoot(%q) error = %v, want ErrUnknownRoot", tt.token, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRoot(%q) error = %v", tt.token, err)
			}
			if pc != tt.expected {
				t.Errorf("ParseRoot(%q) = %v, want %v", tt.token, pc, tt.expected)
			}
		})
	}
}

func TestPitchClassAdd(t *testing.T) {
	if got := PitchClass(11).Add(1); got != 0 {
		t.Errorf("B + 1 = %v, want C", got)
	}
	if got := PitchClass(0).Add(-1); got != 11 {
		t.Errorf("C - 1 = %v, want B", got)
	}
	if got := PitchClass(9).Add(15).String(); got != "C" {
		t.Errorf("A + 15 = %s, want C", got)
	}
}

func TestPitchStringAndOrder(t *testing.T) {
	p := Pitch{Class: 6, Octave: 3}
	if p.String() != "F#3" {
		t.Errorf("String() = %q, want %q", p.String(), "F#3")
	}
	if !(Pitch{Class: 11, Octave: 2}).Less(Pitch{Class: 0, Octave: 3}) {
		t.Error("B2 should be lower than C3")
	}
	if (Pitch{Class: 4, Octave: 3}).Less(Pitch{Class: 2, Octave: 3}) {
		t.Error("E3 should not be lower than D3")
	}
	if got := (Pitch{Class: 0, Octave: 4}).MIDI(); got != 60 {
		t.Errorf("C4.MIDI() = %d, want 60", got)
	}
}

func TestBuildScaleMajorC(t *testing.T) {
	degrees, err := LookupScale("major")
	if err != nil {
		t.Fatal(err)
	}
	scale, err := BuildScale(degrees, 0, 1, 2)
	if err != nil {
		t.Fatalf("BuildScale() error = %v", err)
	}

	expected := "C1 D1 E1 F1 G1 A1 B1 C2 D2 E2 F2 G2 A2 B2"
	if scale.String() != expected {
		t.Errorf("BuildScale() = %q, want %q", scale.String(), expected)
	}
	if scale.Len() != 14 {
		t.Errorf("Len() = %d, want 14", scale.Len())
	}
}

func TestBuildScaleWrapsOctave(t *testing.T) {
	degrees, _ := LookupScale("minor pent")
	scale, err := BuildScale(degrees, 9, 2, 2) // A minor pentatonic
	if err != nil {
		t.Fatal(err)
	}
	expected := "A2 C3 D3 E3 G3"
	if scale.String() != expected {
		t.Errorf("BuildScale() = %q, want %q", scale.String(), expected)
	}
}

func TestBuildScaleProperties(t *testing.T) {
	for _, named := range Scales(false) {
		for _, root := range PitchClasses() {
			for minOct := 0; minOct <= 2; minOct++ {
				for maxOct := minOct; maxOct <= 5; maxOct++ {
					scale, err := BuildScale(named.Degrees, root, minOct, maxOct)
					if err != nil {
						t.Fatalf("BuildScale(%s, %v, %d, %d) error = %v", named.Name, root, minOct, maxOct, err)
					}
					wantLen := len(named.Degrees) * (maxOct - minOct + 1)
					if scale.Len() != wantLen {
						t.Errorf("%s %v %d..%d: Len() = %d, want %d", named.Name, root, minOct, maxOct, scale.Len(), wantLen)
					}
					for i := 1; i < scale.Len(); i++ {
						if !scale.At(i - 1).Less(scale.At(i)) {
							t.Fatalf("%s %v: %v is not below %v", named.Name, root, scale.At(i-1), scale.At(i))
						}
					}

					again, _ := BuildScale(named.Degrees, root, minOct, maxOct)
					if again.String() != scale.String() {
						t.Errorf("BuildScale is not deterministic for %s %v", named.Name, root)
					}
				}
			}
		}
	}
}

func TestBuildScaleErrors(t *testing.T) {
	if _, err := BuildScale(nil, 0, 1, 2); !errors.Is(err, ErrEmptyScale) {
		t.Errorf("empty degrees error = %v, want ErrEmptyScale", err)
	}
	if _, err := BuildScale(Degrees{0}, 0, 3, 2); !errors.Is(err, ErrOctaveRange) {
		t.Errorf("inverted range error = %v, want ErrOctaveRange", err)
	}

	tests := []struct {
		name     string
		degrees  Degrees
		min, max int
		wantErr  error
	}{
		{"negative degree", Degrees{-1, 0, 4}, 1, 1, ErrDegree},
		{"degree past octave", Degrees{0, 4, 12}, 1, 1, ErrDegree},
		{"repeated degree", Degrees{0, 4, 4, 7}, 1, 1, ErrDegree},
		{"negative octave", Degrees{0}, -1, 1, ErrOctaveRange},
		{"octave too high", Degrees{0}, 0, OctaveLimit + 1, ErrOctaveRange},
		{"huge octave", Degrees{0}, 0, math.MaxInt, ErrOctaveRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildScale(tt.degrees, 0, tt.min, tt.max); !errors.Is(err, tt.wantErr) {
				t.Errorf("BuildScale() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildScaleUnsortedDegrees(t *testing.T) {
	degrees := Degrees{7, 0, 4}
	scale, err := BuildScale(degrees, 0, 1, 1)
	if err != nil {
		t.Fatalf("BuildScale() error = %v", err)
	}
	if got, want := scale.String(), "C1 E1 G1"; got != want {
		t.Errorf("BuildScale() = %q, want %q", got, want)
	}
	if degrees[0] != 7 {
		t.Error("BuildScale must not reorder the caller's degrees")
	}
}

func TestScaleSubIsIndependent(t *testing.T) {
	degrees, _ := LookupScale("major pent")
	scale, _ := BuildScale(degrees, 0, 1, 3)

	top := scale.Sub(0, scale.Len()-len(degrees))
	if top.Len() != 10 {
		t.Fatalf("Sub() Len = %d, want 10", top.Len())
	}
	if top.At(top.Len()-1).String() != "A2" {
		t.Errorf("last pitch = %s, want A2", top.At(top.Len()-1))
	}

	pitches := top.Pitches()
	pitches[0] = Pitch{Class: 11, Octave: 9}
	if top.At(0).String() != "C1" {
		t.Error("mutating Pitches() changed the scale")
	}

	if got := scale.Sub(-3, 100).Len(); got != scale.Len() {
		t.Errorf("clamped Sub Len = %d, want %d", got, scale.Len())
	}
}

func TestLookupScale(t *testing.T) {
	tests := []struct {
		name    string
		wantLen int
		wantErr bool
	}{
		{"major", 7, false},
		{"MINOR", 7, false},
		{"major pent", 5, false},
		{"minor-pentatonic", 5, false},
		{"major_pent", 5, false},
		{"dorian", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			degrees, err := LookupScale(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownScale) {
					t.Fatalf("LookupScale(%q) error = %v, want ErrUnknownScale", tt.name, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("LookupScale(%q) error = %v", tt.name, err)
			}
			if len(degrees) != tt.wantLen {
				t.Errorf("LookupScale(%q) len = %d, want %d", tt.name, len(degrees), tt.wantLen)
			}
		})
	}
}

func TestScaleNames(t *testing.T) {
	all := ScaleNames(false)
	if len(all) != 4 {
		t.Errorf("ScaleNames(false) = %v, want 4 names", all)
	}
	pent := ScaleNames(true)
	if len(pent) != 2 || pent[0] != "major pent" || pent[1] != "minor pent" {
		t.Errorf("ScaleNames(true) = %v", pent)
	}
}

func TestDescribe(t *testing.T) {
	got, err := Describe("C", "major pent")
	if err != nil {
		t.Fatal(err)
	}
	if got != "C D E G A" {
		t.Errorf("Describe() = %q, want %q", got, "C D E G A")
	}

	got, err = Describe("A", "minor")
	if err != nil {
		t.Fatal(err)
	}
	if got != "A B C D E F G" {
		t.Errorf("Describe() = %q, want %q", got, "A B C D E F G")
	}

	if _, err := Describe("X", "major"); !errors.Is(err, ErrUnknownRoot) {
		t.Errorf("Describe(X) error = %v", err)
	}
	if _, err := Describe("C", "lydian"); !errors.Is(err, ErrUnknownScale) {
		t.Errorf("Describe(lydian) error = %v", err)
	}
}
