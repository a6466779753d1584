package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/james-see/famigen/pkg/generator"
)

// FamiStudioVersion is the project version written to the header
const FamiStudioVersion = "2.2.1"

// instrumentTemplate is the fixed instrument block shared by every project.
// Lines are written after one leading tab.
const instrumentTemplate = `Instrument Name="Lead0"
		Envelope Type="Volume" Length="4" Values="12,10,8,6"
		Envelope Type="DutyCycle" Length="1" Values="0"
	Instrument Name="Lead1"
		Envelope Type="Volume" Length="4" Values="12,10,8,6"
		Envelope Type="DutyCycle" Length="1" Values="1"
	Instrument Name="Lead2"
		Envelope Type="Volume" Length="4" Values="8,12,12,8"
		Envelope Type="DutyCycle" Length="1" Values="2"
	Instrument Name="NoiseBassDrum"
		Envelope Type="Volume" Length="6" Values="15,12,9,6,3,0"
		Envelope Type="DutyCycle" Length="1" Values="1"
	Instrument Name="NoiseCrash"
		Envelope Type="Volume" Length="30" Values="8,9,10,10,10,9,9,8,8,7,7,6,6,5,5,5,4,4,4,3,3,3,2,2,2,2,1,1,1,0"
	Instrument Name="NoiseHiHat"
		Envelope Type="Volume" Length="6" Values="8,6,5,4,2,0"
	Instrument Name="NoiseSnare"
		Envelope Type="Volume" Length="6" Values="7,7,7,7,7,0"
	Instrument Name="TriBass"
`

// FamiStudio writes projects in the FamiStudio text format
type FamiStudio struct{}

// NewFamiStudio creates a FamiStudio text exporter
func NewFamiStudio() *FamiStudio {
	return &FamiStudio{}
}

// Name returns the exporter name
func (f *FamiStudio) Name() string {
	return "FamiStudio text"
}

// Format returns FormatFamiStudio
func (f *FamiStudio) Format() Format {
	return FormatFamiStudio
}

// Export writes the instrument template followed by one Song block per song
func (f *FamiStudio) Export(w io.Writer, project *Project) error {
	if project == nil {
		return errors.New("nil project")
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Project Version=%q TempoMode=\"FamiStudio\" Name=%q Author=%q Copyright=%q",
		FamiStudioVersion, project.Name, project.Author, project.Copyright)
	bw.WriteString("\n\t")
	bw.WriteString(instrumentTemplate)

	for _, song := range project.Songs {
		writeSong(bw, song)
	}
	return bw.Flush()
}

func writeSong(w *bufio.Writer, song *generator.Song) {
	fmt.Fprintf(w, "\tSong Name=%q Length=\"%d\" LoopPoint=\"%d\" PatternLength=\"%d\" BarLength=\"%d\" NoteLength=\"%d\"\n",
		song.Name, song.PatternCount, song.LoopPoint, song.PatternLength, song.BarLength, song.NoteLength)

	for _, ch := range generator.Channels() {
		fmt.Fprintf(w, "\t\tChannel Type=%q\n", ch.String())
		r, ok := song.Channel(ch)
		if !ok {
			continue
		}
		for _, p := range r.Patterns {
			fmt.Fprintf(w, "\t\t\tPattern Name=\"%s\"\n", patternName(p.Index))
			for _, ev := range p.Events {
				time := ev.Step * song.NoteLength
				if ev.IsStop() {
					fmt.Fprintf(w, "\t\t\t\tNote Time=\"%d\" Value=\"Stop\"\n", time)
					continue
				}
				fmt.Fprintf(w, "\t\t\t\tNote Time=\"%d\" Value=\"%s\" Instrument=%q\n", time, ev.Pitch, ev.Instrument)
			}
		}
		for i, p := range r.Instances {
			fmt.Fprintf(w, "\t\t\tPatternInstance Time=\"%d\" Pattern=\"%s\"\n", i, patternName(p))
		}
	}
}

func patternName(i int) string {
	return fmt.Sprintf("Pattern %d", i)
}
