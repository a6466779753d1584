// Package tui provides a terminal user interface for famigen
package tui

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/james-see/famigen/pkg/export"
	"github.com/james-see/famigen/pkg/generator"
)

// 2A03 inspired color scheme
var (
	nesRed    = lipgloss.Color("#E40058")
	nesYellow = lipgloss.Color("#F8B800")
	nesGray   = lipgloss.Color("#BCBCBC")
	darkGray  = lipgloss.Color("#333333")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(nesRed).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(nesGray).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(nesRed).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(nesYellow).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(nesRed).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(nesRed).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateGenerating State = iota
	StateMenu
	StateSong
	StateSave
	StateSaving
	StateResult
)

// DefaultOutput is the file name offered when saving
const DefaultOutput = "famigen.txt"

// Model represents the TUI model
type Model struct {
	state     State
	cfg       generator.Config
	songs     []*generator.Song
	menuIndex int
	slot      int
	spinner   spinner.Model
	input     textinput.Model
	paths     []string
	err       error
	width     int
	height    int
}

// songsMsg carries a finished generation run
type songsMsg struct {
	songs []*generator.Song
	err   error
}

// savedMsg signals export completion
type savedMsg struct {
	paths []string
	err   error
}

// New creates a new TUI model for the given generator config
func New(cfg generator.Config) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(nesRed)

	ti := textinput.New()
	ti.Placeholder = DefaultOutput
	ti.CharLimit = 256

	return Model{
		state:   StateGenerating,
		cfg:     cfg,
		spinner: s,
		input:   ti,
	}
}

// Init starts the first generation run
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, generate(m.cfg))
}

// generate composes every song off the UI loop
func generate(cfg generator.Config) tea.Cmd {
	return func() tea.Msg {
		composer, err := generator.NewComposer(cfg, generator.NewRand(cfg.Seed), slog.New(slog.DiscardHandler))
		if err != nil {
			return songsMsg{err: err}
		}
		songs, err := composer.ComposeAll()
		return songsMsg{songs: songs, err: err}
	}
}

// save writes the songs to path, picking the exporter from its extension
func save(path string, songs []*generator.Song) tea.Cmd {
	return func() tea.Msg {
		paths, err := export.Save(path, export.NewProject(songs))
		return savedMsg{paths: paths, err: err}
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateSong:
			return m.updateSong(msg)
		case StateSave:
			return m.updateSave(msg)
		case StateResult:
			return m.updateResult(msg)
		}
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case songsMsg:
		if msg.err != nil {
			m.state = StateResult
			m.err = msg.err
			return m, nil
		}
		m.songs = msg.songs
		m.state = StateMenu
		if m.menuIndex >= len(m.songs) {
			m.menuIndex = 0
		}
		return m, nil

	case savedMsg:
		m.state = StateResult
		m.paths = msg.paths
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(m.songs)-1 {
			m.menuIndex++
		}
	case "enter":
		if len(m.songs) == 0 {
			return m, nil
		}
		m.slot = 0
		m.state = StateSong
	case "r":
		return m.regenerate()
	case "s":
		return m.startSave()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateSong(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	song := m.songs[m.menuIndex]
	switch msg.String() {
	case "left", "h":
		if m.slot > 0 {
			m.slot--
		}
	case "right", "l":
		if m.slot < song.PatternCount-1 {
			m.slot++
		}
	case "esc", "enter":
		m.state = StateMenu
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateSave(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.state = StateMenu
		return m, nil
	case "enter":
		path := strings.TrimSpace(m.input.Value())
		if path == "" {
			path = DefaultOutput
		}
		m.input.Blur()
		m.state = StateSaving
		return m, tea.Batch(m.spinner.Tick, save(path, m.songs))
	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		if m.err != nil && len(m.songs) == 0 {
			return m, tea.Quit
		}
		m.state = StateMenu
		m.err = nil
		m.paths = nil
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// regenerate composes a fresh set of songs. A fixed seed is stepped so
// each run differs while staying reproducible.
func (m Model) regenerate() (tea.Model, tea.Cmd) {
	if m.cfg.Seed != 0 {
		m.cfg.Seed++
	}
	m.state = StateGenerating
	return m, tea.Batch(m.spinner.Tick, generate(m.cfg))
}

func (m Model) startSave() (tea.Model, tea.Cmd) {
	m.state = StateSave
	m.input.SetValue(DefaultOutput)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(asciiLogo())
	s.WriteString("\n")

	switch m.state {
	case StateGenerating:
		s.WriteString(m.viewBusy(" COMPOSING ", fmt.Sprintf("Composing %d songs...", m.cfg.Songs)))
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StateSong:
		s.WriteString(m.viewSong())
	case StateSave:
		s.WriteString(m.viewSave())
	case StateSaving:
		s.WriteString(m.viewBusy(" SAVING ", fmt.Sprintf("Writing %s...", filepath.Base(m.input.Value()))))
	case StateResult:
		s.WriteString(m.viewResult())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.help()))

	return s.String()
}

func (m Model) help() string {
	switch m.state {
	case StateMenu:
		return "↑/↓: navigate • enter: open • r: regenerate • s: save • q: quit"
	case StateSong:
		return "←/→: pattern slot • esc: back • q: quit"
	case StateSave:
		return "enter: save • esc: cancel"
	}
	return "q: quit"
}

func (m Model) viewBusy(title, status string) string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(title))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s %s", m.spinner.View(), status))

	return boxStyle.Render(s.String())
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf(" SONGS (%d) ", len(m.songs))))
	s.WriteString("\n\n")

	for i, song := range m.songs {
		if i == m.menuIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", song.Name)))
			s.WriteString("\n")
			s.WriteString(lipgloss.NewStyle().Foreground(nesYellow).PaddingLeft(4).Render(songSummary(song)))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", song.Name)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func songSummary(song *generator.Song) string {
	return fmt.Sprintf("%d patterns • note length %d (%.0f BPM) • lead %s",
		song.PatternCount, song.NoteLength, export.Tempo(song.NoteLength), generator.LeadInstrument(song.Lead))
}

func (m Model) viewSong() string {
	var s strings.Builder
	song := m.songs[m.menuIndex]

	s.WriteString(titleStyle.Render(fmt.Sprintf(" %s ", strings.ToUpper(song.Name))))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("Slot %d/%d\n\n", m.slot+1, song.PatternCount))

	for _, r := range song.Channels {
		if r.Channel == generator.DPCM {
			continue
		}
		s.WriteString(menuStyle.Render(fmt.Sprintf("%-9s %s", r.Channel, orderList(r, m.slot))))
		s.WriteString("\n")
	}
	s.WriteString("\n")

	for _, r := range song.Channels {
		if r.Channel == generator.DPCM || m.slot >= len(r.Instances) {
			continue
		}
		s.WriteString(fmt.Sprintf("%-9s %s\n", r.Channel, stepGrid(r.Patterns[r.Instances[m.slot]], song.PatternLength)))
	}
	s.WriteString(statusStyle.Render(songSummary(song)))

	return boxStyle.Render(s.String())
}

// orderList renders the pattern order of a channel, marking the current slot
func orderList(r generator.Rendered, slot int) string {
	cells := make([]string, len(r.Instances))
	for i, p := range r.Instances {
		if i == slot {
			cells[i] = fmt.Sprintf("[%X]", p)
		} else {
			cells[i] = fmt.Sprintf(" %X ", p)
		}
	}
	return strings.Join(cells, "")
}

// stepGrid renders one pattern as a row of tracker cells
func stepGrid(p generator.Pattern, steps int) string {
	cells := make([]string, steps)
	for i := range cells {
		cells[i] = "..."
	}
	for _, ev := range p.Events {
		if ev.Step < 0 || ev.Step >= steps {
			continue
		}
		if ev.IsStop() {
			cells[ev.Step] = "==="
		} else {
			cells[ev.Step] = fmt.Sprintf("%-3s", ev.Pitch)
		}
	}
	return strings.Join(cells, " ")
}

func (m Model) viewSave() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SAVE "))
	s.WriteString("\n\n")
	s.WriteString("Output file (.txt for FamiStudio, .mid for one MIDI file per song)\n\n")
	s.WriteString(m.input.View())

	return boxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	if m.err != nil {
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s", m.err.Error())))
	} else {
		s.WriteString(titleStyle.Render(" SUCCESS "))
		s.WriteString("\n\n")
		s.WriteString(successStyle.Render(fmt.Sprintf("✓ Saved %d songs", len(m.songs))))
		s.WriteString("\n\n")
		for _, p := range m.paths {
			s.WriteString(fmt.Sprintf("Output: %s\n", p))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

func asciiLogo() string {
	logo := `
   ___              _
  | __|_ _ _ __  (_)__ _ ___ _ _
  | _/ _' | '  \ | / _' / -_) ' \
  |_|\__,_|_|_|_||_\__, \___|_||_|
                   |___/
`
	return lipgloss.NewStyle().Foreground(nesRed).Render(logo)
}

// Run starts the TUI application
func Run(cfg generator.Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
