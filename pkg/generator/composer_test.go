package generator

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/james-see/famigen/pkg/music"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"default", func(c *Config) {}, nil},
		{"no songs", func(c *Config) { c.Songs = 0 }, ErrInvalidConfig},
		{"no patterns", func(c *Config) { c.PatternCount = 0 }, ErrInvalidConfig},
		{"negative change", func(c *Config) { c.MaxChange = -1 }, ErrInvalidConfig},
		{"jump chance", func(c *Config) { c.JumpChance = 1.1 }, ErrInvalidConfig},
		{"note length zero", func(c *Config) { c.MinNoteLength = 0 }, ErrInvalidConfig},
		{"note length inverted", func(c *Config) { c.MinNoteLength = 13 }, ErrInvalidConfig},
		{"negative octave", func(c *Config) { c.MinOctave = -1 }, ErrInvalidConfig},
		{"octave inverted", func(c *Config) { c.MinOctave = 6 }, ErrInvalidConfig},
		{"triangle above max", func(c *Config) { c.TriMaxOctave = 6 }, ErrTriangleOctave},
		{"triangle below min", func(c *Config) { c.TriMaxOctave = 0 }, ErrInvalidConfig},
		{"percussion patterns", func(c *Config) { c.PercussionPatterns = 17 }, ErrInvalidConfig},
		{"square chance", func(c *Config) { c.Square.NewNoteChance = -0.5 }, ErrInvalidConfig},
		{"triangle stop", func(c *Config) { c.Triangle.StopChance = 3 }, ErrInvalidConfig},
		{"repeat too long", func(c *Config) { c.Square.RepeatAt = 17 }, ErrInvalidConfig},
		{"repeat ok", func(c *Config) { c.Triangle.RepeatAt = 4 }, nil},
		{"too many songs", func(c *Config) { c.Songs = SongLimit + 1 }, ErrInvalidConfig},
		{"too many patterns", func(c *Config) { c.PatternCount = math.MaxInt }, ErrInvalidConfig},
		{"note length too long", func(c *Config) { c.MaxNoteLength = NoteLengthLimit + 1 }, ErrInvalidConfig},
		{"octave too high", func(c *Config) { c.MaxOctave = math.MaxInt }, ErrInvalidConfig},
		{"max change huge", func(c *Config) { c.MaxChange = math.MaxInt }, ErrInvalidConfig},
		{"max change at limit", func(c *Config) { c.MaxChange = 60 }, nil},
		{"limits", func(c *Config) {
			c.Songs, c.PatternCount, c.MaxNoteLength, c.MaxOctave = SongLimit, PatternLimit, NoteLengthLimit, music.OctaveLimit
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "famigen.yaml")
	doc := `songs: 3
pattern_count: 8
all_scales: true
triangle:
  new_note_chance: 0.5
  stop_chance: 0.1
  repeat_at: 2
seed: 99
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Songs != 3 || cfg.PatternCount != 8 || !cfg.AllScales || cfg.Seed != 99 {
		t.Errorf("LoadConfig() = %+v", cfg)
	}
	if cfg.Triangle.RepeatAt != 2 || cfg.Triangle.NewNoteChance != 0.5 {
		t.Errorf("triangle = %+v", cfg.Triangle)
	}
	// Untouched fields keep their defaults.
	if cfg.MaxChange != 3 || cfg.MinNoteLength != 7 || cfg.Square.NewNoteChance != 1.0/3 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig() on a missing file should fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("songs: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil || !strings.Contains(err.Error(), "failed to parse config") {
		t.Errorf("LoadConfig() error = %v", err)
	}
}

func TestConfigYAML(t *testing.T) {
	data, err := DefaultConfig().YAML()
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"songs: 24", "pattern_count: 16", "tri_max_octave: 4", "square:", "new_note_chance:"} {
		if !strings.Contains(string(data), key) {
			t.Errorf("YAML() missing %q:\n%s", key, data)
		}
	}
}

func TestNewComposerRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TriMaxOctave = 9
	if _, err := NewComposer(cfg, NewRand(1), nil); !errors.Is(err, ErrTriangleOctave) {
		t.Errorf("NewComposer() error = %v, want ErrTriangleOctave", err)
	}

	for _, mutate := range []func(*Config){
		func(c *Config) { c.MaxChange = math.MaxInt },
		func(c *Config) { c.MinOctave, c.MaxOctave, c.TriMaxOctave = 0, math.MaxInt, 0 },
		func(c *Config) { c.Songs = 1 << 40 },
	} {
		cfg := DefaultConfig()
		mutate(&cfg)
		if _, err := NewComposer(cfg, NewRand(1), nil); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("NewComposer(%+v) error = %v, want ErrInvalidConfig", cfg, err)
		}
	}
}

func TestComposeAll(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Songs = 6
	cfg.Square.RepeatAt = 4

	composer, err := NewComposer(cfg, NewRand(2024), nil)
	if err != nil {
		t.Fatal(err)
	}
	songs, err := composer.ComposeAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(songs) != cfg.Songs {
		t.Fatalf("songs = %d, want %d", len(songs), cfg.Songs)
	}

	pentatonic := map[string]bool{"major pent": true, "minor pent": true}
	for i, song := range songs {
		if song.Index != i {
			t.Errorf("song %d index = %d", i, song.Index)
		}
		if song.NoteLength < cfg.MinNoteLength || song.NoteLength > cfg.MaxNoteLength {
			t.Errorf("song %d note length = %d", i, song.NoteLength)
		}
		if song.Lead < 0 || song.Lead >= LeadInstruments {
			t.Errorf("song %d lead = %d", i, song.Lead)
		}
		if !pentatonic[song.ScaleName] {
			t.Errorf("song %d scale = %q, want a pentatonic scale", i, song.ScaleName)
		}
		if !strings.HasPrefix(song.Name, "Song 0") || !strings.Contains(song.Name, song.ScaleName) {
			t.Errorf("song %d name = %q", i, song.Name)
		}
		if song.PatternLength != NotesPerPattern || song.BarLength != BarLength || song.LoopPoint != LoopPoint {
			t.Errorf("song %d layout = %d/%d/%d", i, song.PatternLength, song.BarLength, song.LoopPoint)
		}

		if len(song.Channels) != 5 {
			t.Fatalf("song %d channels = %d, want 5", i, len(song.Channels))
		}
		for j, ch := range Channels() {
			if song.Channels[j].Channel != ch {
				t.Errorf("song %d channel %d = %v, want %v", i, j, song.Channels[j].Channel, ch)
			}
		}

		sq1, _ := song.Channel(Square1)
		if len(sq1.Patterns) != 4 || len(sq1.Instances) != cfg.PatternCount {
			t.Errorf("song %d square1 patterns = %d instances = %d", i, len(sq1.Patterns), len(sq1.Instances))
		}
		tri, _ := song.Channel(Triangle)
		if len(tri.Patterns) != cfg.PatternCount {
			t.Errorf("song %d triangle patterns = %d", i, len(tri.Patterns))
		}
		noise, _ := song.Channel(Noise)
		if len(noise.Patterns) != cfg.PercussionPatterns {
			t.Errorf("song %d noise patterns = %d", i, len(noise.Patterns))
		}
		dpcm, ok := song.Channel(DPCM)
		if !ok || len(dpcm.Patterns) != 0 || len(dpcm.Instances) != 0 {
			t.Errorf("song %d dpcm = %+v", i, dpcm)
		}
	}
}

func TestComposeRegisters(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Songs = 4
	cfg.AllScales = true
	cfg.Square.NewNoteChance = 1
	cfg.Triangle.NewNoteChance = 1

	composer, err := NewComposer(cfg, NewRand(5), nil)
	if err != nil {
		t.Fatal(err)
	}
	songs, err := composer.ComposeAll()
	if err != nil {
		t.Fatal(err)
	}

	for _, song := range songs {
		degrees, err := music.LookupScale(song.ScaleName)
		if err != nil {
			t.Fatal(err)
		}
		full, _ := music.BuildScale(degrees, song.Root, cfg.MinOctave, cfg.MaxOctave)
		lowest, highest := full.At(0), full.At(full.Len()-1)
		triTop := full.At(len(degrees)*(cfg.TriMaxOctave-cfg.MinOctave+1) - 1)

		check := func(ch Channel, ok func(music.Pitch) bool) {
			r, _ := song.Channel(ch)
			for _, p := range r.Patterns {
				for _, ev := range p.Events {
					if ev.Kind == KindNote && !ok(ev.Pitch) {
						t.Errorf("%s %s: pitch %v outside register", song.Name, ch, ev.Pitch)
					}
				}
			}
		}
		check(Square1, func(p music.Pitch) bool { return lowest.Less(p) })
		check(Square2, func(p music.Pitch) bool { return p.Less(highest) })
		check(Triangle, func(p music.Pitch) bool { return !triTop.Less(p) })
	}
}

func TestComposeDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Songs = 3

	compose := func() []*Song {
		c, err := NewComposer(cfg, NewRand(77), nil)
		if err != nil {
			t.Fatal(err)
		}
		songs, err := c.ComposeAll()
		if err != nil {
			t.Fatal(err)
		}
		return songs
	}

	if !reflect.DeepEqual(compose(), compose()) {
		t.Error("same seed produced different songs")
	}
}

func TestComposeSingleOctave(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Songs = 2
	cfg.MinOctave, cfg.MaxOctave, cfg.TriMaxOctave = 3, 3, 3

	c, err := NewComposer(cfg, NewRand(3), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.ComposeAll(); err != nil {
		t.Errorf("ComposeAll() error = %v", err)
	}
}
