// Package export writes generated songs to tracker and MIDI formats
package export

import (
	"io"
	"strconv"
	"time"

	"github.com/james-see/famigen/pkg/generator"
)

// Project is a set of songs written to a single output
type Project struct {
	Name      string
	Author    string
	Copyright string
	Songs     []*generator.Song
}

// NewProject creates a Project with the default name and author,
// copyrighted in the current year
func NewProject(songs []*generator.Song) *Project {
	return &Project{
		Name:      "Untitled",
		Author:    "famigen",
		Copyright: strconv.Itoa(time.Now().Year()),
		Songs:     songs,
	}
}

// Exporter writes a project in one output format
type Exporter interface {
	Name() string
	Format() Format
	Export(w io.Writer, project *Project) error
}
