package generator

import (
	"fmt"
	"log/slog"

	"github.com/james-see/famigen/pkg/music"
)

// LeadInstruments is the number of LeadN instruments a song can pick from
const LeadInstruments = 3

// Instrument names used by the melodic channels
const (
	TriangleInstrument = "TriBass"
	leadPrefix         = "Lead"
)

// LeadInstrument returns the name of lead instrument n
func LeadInstrument(n int) string {
	return fmt.Sprintf("%s%d", leadPrefix, n)
}

// Composer builds songs from a validated Config
type Composer struct {
	cfg    Config
	rng    Rand
	scales []music.NamedScale
	logger *slog.Logger
}

// NewComposer validates cfg and returns a Composer drawing from rng.
// A nil logger uses slog.Default().
func NewComposer(cfg Config, rng Rand, logger *slog.Logger) (*Composer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Composer{
		cfg:    cfg,
		rng:    rng,
		scales: music.Scales(!cfg.AllScales),
		logger: logger,
	}, nil
}

// Config returns the composer's configuration
func (c *Composer) Config() Config {
	return c.cfg
}

// ComposeAll composes cfg.Songs songs in order
func (c *Composer) ComposeAll() ([]*Song, error) {
	songs := make([]*Song, 0, c.cfg.Songs)
	for i := 0; i < c.cfg.Songs; i++ {
		song, err := c.Compose(i)
		if err != nil {
			return nil, fmt.Errorf("song %d: %w", i, err)
		}
		songs = append(songs, song)
	}
	return songs, nil
}

// Compose builds song number index.
//
// Song parameters are drawn in a fixed order: note length, lead
// instrument, root, scale. The channels follow in song order.
func (c *Composer) Compose(index int) (*Song, error) {
	noteLength := intBetween(c.rng, c.cfg.MinNoteLength, c.cfg.MaxNoteLength)
	lead := c.rng.IntN(LeadInstruments)
	root := music.PitchClass(c.rng.IntN(music.PitchClassCount))
	named := c.scales[c.rng.IntN(len(c.scales))]

	full, err := music.BuildScale(named.Degrees, root, c.cfg.MinOctave, c.cfg.MaxOctave)
	if err != nil {
		return nil, err
	}
	octave := len(named.Degrees)

	song := &Song{
		Index:         index,
		Name:          fmt.Sprintf("Song %02d (%s %s)", index, root, named.Name),
		Root:          root,
		ScaleName:     named.Name,
		NoteLength:    noteLength,
		PatternCount:  c.cfg.PatternCount,
		PatternLength: NotesPerPattern,
		LoopPoint:     LoopPoint,
		BarLength:     BarLength,
		Lead:          lead,
	}

	// Square1 skips the lowest octave and Square2 the highest, so the two
	// leads sit in different registers unless there is a single octave.
	square1, square2 := full, full
	if c.cfg.MaxOctave > c.cfg.MinOctave {
		square1 = full.Sub(octave, full.Len())
		square2 = full.Sub(0, full.Len()-octave)
	}
	triangle := full.Sub(0, octave*(c.cfg.TriMaxOctave-c.cfg.MinOctave+1))

	melodic := []struct {
		channel    Channel
		instrument string
		scale      music.Scale
		cc         ChannelConfig
	}{
		{Square1, LeadInstrument(lead), square1, c.cfg.Square},
		{Square2, LeadInstrument(lead), square2, c.cfg.Square},
		{Triangle, TriangleInstrument, triangle, c.cfg.Triangle},
	}

	noteCount := c.cfg.PatternCount * NotesPerPattern
	for _, m := range melodic {
		track, err := NewTrack(TrackConfig{
			Channel:       m.channel,
			Instrument:    m.instrument,
			Scale:         m.scale,
			NewNoteChance: m.cc.NewNoteChance,
			StopChance:    m.cc.StopChance,
			MaxChange:     c.cfg.MaxChange,
			JumpChance:    c.cfg.JumpChance,
		}, c.rng)
		if err != nil {
			return nil, err
		}
		tl := track.Generate(noteCount)
		song.Channels = append(song.Channels, Render(m.channel, tl, c.cfg.PatternCount, m.cc.repeatAt(c.cfg.PatternCount)))
	}

	perc := NewPercussionTrack(c.rng)
	song.Channels = append(song.Channels, perc.Generate(c.cfg.PatternCount, c.cfg.PercussionPatterns))
	song.Channels = append(song.Channels, Rendered{Channel: DPCM})

	c.logger.Debug("composed song",
		"index", index,
		"name", song.Name,
		"note_length", noteLength,
		"lead", LeadInstrument(lead),
		"scale_size", full.Len())

	return song, nil
}
