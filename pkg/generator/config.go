package generator

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/james-see/famigen/pkg/music"
)

// Upper bounds accepted by Config.Validate
const (
	SongLimit       = 99  // Song names carry a two digit index
	PatternLimit    = 256 // Longest song the tracker accepts
	NoteLengthLimit = 64  // Frames per step
)

// Config errors
var (
	ErrInvalidConfig  = errors.New("invalid config")
	ErrTriangleOctave = errors.New("max triangle octave must be lower than or equal to max octave")
)

// ChannelConfig holds the event probabilities of a melodic channel
type ChannelConfig struct {
	// NewNoteChance is the chance that a step carries an event
	NewNoteChance float64 `yaml:"new_note_chance" json:"new_note_chance"`

	// StopChance is the chance that an event is a stop
	StopChance float64 `yaml:"stop_chance" json:"stop_chance"`

	// RepeatAt is the number of distinct patterns before the channel loops.
	// Zero means every pattern is distinct.
	RepeatAt int `yaml:"repeat_at,omitempty" json:"repeat_at,omitempty"`
}

// Config is the fully resolved generator configuration
type Config struct {
	// Songs is the number of songs to compose
	Songs int `yaml:"songs" json:"songs"`

	// PatternCount is the number of pattern slots per song
	PatternCount int `yaml:"pattern_count" json:"pattern_count"`

	// MaxChange is the largest walk step in scale degrees
	MaxChange int `yaml:"max_change" json:"max_change"`

	// JumpChance is the chance that the walk jumps to a random degree
	JumpChance float64 `yaml:"jump_chance" json:"jump_chance"`

	// MinNoteLength and MaxNoteLength bound the frames per step of a song
	MinNoteLength int `yaml:"min_note_length" json:"min_note_length"`
	MaxNoteLength int `yaml:"max_note_length" json:"max_note_length"`

	// MinOctave and MaxOctave bound the melodic range (inclusive)
	MinOctave int `yaml:"min_octave" json:"min_octave"`
	MaxOctave int `yaml:"max_octave" json:"max_octave"`

	// TriMaxOctave is the highest octave of the triangle channel
	TriMaxOctave int `yaml:"tri_max_octave" json:"tri_max_octave"`

	// AllScales enables major and minor scales in addition to the pentatonics
	AllScales bool `yaml:"all_scales" json:"all_scales"`

	Square   ChannelConfig `yaml:"square" json:"square"`
	Triangle ChannelConfig `yaml:"triangle" json:"triangle"`

	// PercussionPatterns is the number of distinct noise patterns per song
	PercussionPatterns int `yaml:"percussion_patterns" json:"percussion_patterns"`

	// Seed seeds the random source; zero picks a time based seed
	Seed uint64 `yaml:"seed,omitempty" json:"seed,omitempty"`
}

// DefaultConfig returns the stock configuration
func DefaultConfig() Config {
	return Config{
		Songs:         24,
		PatternCount:  16,
		MaxChange:     3,
		JumpChance:    DefaultJumpChance,
		MinNoteLength: 7,
		MaxNoteLength: 12,
		MinOctave:     1,
		MaxOctave:     5,
		TriMaxOctave:  4,
		Square: ChannelConfig{
			NewNoteChance: 1.0 / 3,
			StopChance:    1.0 / 6,
		},
		Triangle: ChannelConfig{
			NewNoteChance: 1.0 / 4,
			StopChance:    1.0 / 6,
		},
		PercussionPatterns: 1,
	}
}

// Validate reports the first problem with the config
func (c Config) Validate() error {
	switch {
	case c.Songs < 1 || c.Songs > SongLimit:
		return fmt.Errorf("%w: songs must be in [1,%d], got %d", ErrInvalidConfig, SongLimit, c.Songs)
	case c.PatternCount < 1 || c.PatternCount > PatternLimit:
		return fmt.Errorf("%w: pattern count must be in [1,%d], got %d", ErrInvalidConfig, PatternLimit, c.PatternCount)
	case c.JumpChance < 0 || c.JumpChance > 1:
		return fmt.Errorf("%w: jump chance %v outside [0,1]", ErrInvalidConfig, c.JumpChance)
	case c.MinNoteLength < 1:
		return fmt.Errorf("%w: min note length must be at least 1, got %d", ErrInvalidConfig, c.MinNoteLength)
	case c.MaxNoteLength > NoteLengthLimit:
		return fmt.Errorf("%w: max note length must be at most %d, got %d", ErrInvalidConfig, NoteLengthLimit, c.MaxNoteLength)
	case c.MinNoteLength > c.MaxNoteLength:
		return fmt.Errorf("%w: min note length %d > max note length %d", ErrInvalidConfig, c.MinNoteLength, c.MaxNoteLength)
	case c.MinOctave < 0:
		return fmt.Errorf("%w: min octave must not be negative, got %d", ErrInvalidConfig, c.MinOctave)
	case c.MaxOctave > music.OctaveLimit:
		return fmt.Errorf("%w: max octave must be at most %d, got %d", ErrInvalidConfig, music.OctaveLimit, c.MaxOctave)
	case c.MinOctave > c.MaxOctave:
		return fmt.Errorf("%w: min octave %d > max octave %d", ErrInvalidConfig, c.MinOctave, c.MaxOctave)
	case c.MaxChange < 0 || c.MaxChange > c.maxChangeLimit():
		return fmt.Errorf("%w: max change must be in [0,%d], got %d", ErrInvalidConfig, c.maxChangeLimit(), c.MaxChange)
	case c.TriMaxOctave > c.MaxOctave:
		return ErrTriangleOctave
	case c.TriMaxOctave < c.MinOctave:
		return fmt.Errorf("%w: triangle max octave %d < min octave %d", ErrInvalidConfig, c.TriMaxOctave, c.MinOctave)
	case c.PercussionPatterns < 1 || c.PercussionPatterns > c.PatternCount:
		return fmt.Errorf("%w: percussion patterns must be in [1,%d], got %d", ErrInvalidConfig, c.PatternCount, c.PercussionPatterns)
	}
	if err := c.Square.validate("square", c.PatternCount); err != nil {
		return err
	}
	return c.Triangle.validate("triangle", c.PatternCount)
}

// maxChangeLimit is the chromatic length of the octave range, which no
// scale built over it can exceed. Only meaningful once the octaves are valid.
func (c Config) maxChangeLimit() int {
	return music.PitchClassCount * (c.MaxOctave - c.MinOctave + 1)
}

func (c ChannelConfig) validate(name string, patternCount int) error {
	if c.NewNoteChance < 0 || c.NewNoteChance > 1 {
		return fmt.Errorf("%w: %s new note chance %v outside [0,1]", ErrInvalidConfig, name, c.NewNoteChance)
	}
	if c.StopChance < 0 || c.StopChance > 1 {
		return fmt.Errorf("%w: %s stop chance %v outside [0,1]", ErrInvalidConfig, name, c.StopChance)
	}
	if c.RepeatAt < 0 || c.RepeatAt > patternCount {
		return fmt.Errorf("%w: %s repeat length must be in [0,%d], got %d", ErrInvalidConfig, name, patternCount, c.RepeatAt)
	}
	return nil
}

// repeatAt resolves the zero value to the full pattern count
func (c ChannelConfig) repeatAt(patternCount int) int {
	if c.RepeatAt == 0 {
		return patternCount
	}
	return c.RepeatAt
}

// LoadConfig reads a YAML config file on top of DefaultConfig
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// YAML renders the config as a YAML document
func (c Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}
