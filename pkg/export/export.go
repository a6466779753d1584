package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format represents an output format
type Format string

const (
	FormatFamiStudio Format = "famistudio"
	FormatMIDI       Format = "midi"
	FormatUnknown    Format = "unknown"
)

// ErrUnknownFormat is returned when no exporter handles a format
var ErrUnknownFormat = errors.New("unknown output format")

// DetectFormat detects the output format from a file extension
func DetectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt", ".fms":
		return FormatFamiStudio
	case ".mid", ".midi":
		return FormatMIDI
	default:
		return FormatUnknown
	}
}

// ParseFormat parses a format name given on the command line
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "famistudio", "fms", "txt", "text":
		return FormatFamiStudio, nil
	case "midi", "mid":
		return FormatMIDI, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// ForFormat returns the exporter for a format
func ForFormat(format Format) (Exporter, error) {
	switch format {
	case FormatFamiStudio:
		return NewFamiStudio(), nil
	case FormatMIDI:
		return NewMIDI(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// Save writes a project to path, picking the exporter from the extension.
// MIDI holds one song per file, so multi-song projects are written to
// <base>-NN.mid files and the written paths are returned.
func Save(path string, project *Project) ([]string, error) {
	format := DetectFormat(path)
	if format == FormatUnknown {
		return nil, errors.New("cannot determine output format from filename")
	}

	if format == FormatMIDI && len(project.Songs) > 1 {
		return SaveMIDISongs(path, project)
	}

	exp, err := ForFormat(format)
	if err != nil {
		return nil, err
	}
	if err := writeFile(path, func(f *os.File) error { return exp.Export(f, project) }); err != nil {
		return nil, err
	}
	return []string{path}, nil
}

// SaveMIDISongs writes every song of a project to its own MIDI file
func SaveMIDISongs(path string, project *Project) ([]string, error) {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	if ext == "" {
		ext = ".mid"
	}

	m := NewMIDI()
	paths := make([]string, 0, len(project.Songs))
	for _, song := range project.Songs {
		out := fmt.Sprintf("%s-%02d%s", base, song.Index, ext)
		if err := writeFile(out, func(f *os.File) error { return m.ExportSong(f, song) }); err != nil {
			return paths, err
		}
		paths = append(paths, out)
	}
	return paths, nil
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// GetSupportedFormats returns the list of supported output formats
func GetSupportedFormats() []string {
	return []string{
		string(FormatFamiStudio),
		string(FormatMIDI),
	}
}
