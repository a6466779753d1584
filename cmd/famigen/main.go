// Package main is the entry point for the famigen CLI
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/james-see/famigen/pkg/api"
	"github.com/james-see/famigen/pkg/export"
	"github.com/james-see/famigen/pkg/generator"
	"github.com/james-see/famigen/pkg/music"
	"github.com/james-see/famigen/pkg/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	cfg        = generator.DefaultConfig()
	cfgFile    string
	verbose    bool
	formatName string
	dump       bool
	expand     bool
	serverPort int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "famigen [filename]",
	Short: "Generate random chiptune songs for FamiStudio",
	Long: `famigen composes chiptune songs for the FamiStudio tracker. Each song
has two square leads, a triangle bass and a noise drum lane whose notes
wander over a randomly chosen scale.

Output goes to stdout if no file is specified.

Examples:
  famigen songs.txt
  famigen -s 4 -p 8 --all-scales > songs.txt
  famigen midi preview.mid --seed 42
  famigen scale F# minor pent
  famigen tui
  famigen serve --port 8080`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Args:          cobra.MaximumNArgs(1),
	RunE:          runGenerate,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var generateCmd = &cobra.Command{
	Use:   "generate [filename]",
	Short: "Generate songs to a file or stdout",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGenerate,
}

var midiCmd = &cobra.Command{
	Use:   "midi <output.mid>",
	Short: "Generate songs as MIDI files, one per song",
	Args:  cobra.ExactArgs(1),
	RunE:  runMIDI,
}

var scaleCmd = &cobra.Command{
	Use:   "scale <root> <scale>",
	Short: "Print the notes of a scale and exit",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runScale,
}

var scalesCmd = &cobra.Command{
	Use:   "scales",
	Short: "List the available scales",
	Args:  cobra.NoArgs,
	RunE:  runScales,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	cobra.OnInitialize(initLogging)

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "YAML config file; flags override its values")
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	addGeneratorFlags(pf, &cfg)

	// Output flags
	for _, c := range []*cobra.Command{rootCmd, generateCmd} {
		c.Flags().StringVarP(&formatName, "format", "f", "", "Output format (famistudio, midi); default from extension")
		c.Flags().BoolVar(&dump, "dump", false, "Dump the generated songs to stderr")
	}

	scaleCmd.Flags().BoolVar(&expand, "expand", false, "Expand the scale over the configured octave range")

	// serve command
	serveCmd.Flags().IntVarP(&serverPort, "port", "P", 8080, "Server port")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(midiCmd)
	rootCmd.AddCommand(scaleCmd)
	rootCmd.AddCommand(scalesCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

func addGeneratorFlags(fs *pflag.FlagSet, c *generator.Config) {
	fs.IntVarP(&c.Songs, "songs", "s", c.Songs, "The number of songs to create")
	fs.IntVarP(&c.PatternCount, "pattern-count", "p", c.PatternCount, "Generate this number of patterns for each song")
	fs.IntVarP(&c.MaxChange, "max-change", "c", c.MaxChange, "The maximum number of scale degrees to move when generating a new note")
	fs.Float64Var(&c.JumpChance, "jump-chance", c.JumpChance, "Chance of jumping to a random note instead")
	fs.IntVar(&c.MinNoteLength, "min-note-length", c.MinNoteLength, "The minimum number of frames per note in a song")
	fs.IntVar(&c.MaxNoteLength, "max-note-length", c.MaxNoteLength, "The maximum number of frames per note in a song")
	fs.IntVar(&c.MinOctave, "min-octave", c.MinOctave, "The lowest octave to use")
	fs.IntVar(&c.MaxOctave, "max-octave", c.MaxOctave, "The highest octave to use")
	fs.IntVar(&c.TriMaxOctave, "tri-max-octave", c.TriMaxOctave, "The highest octave to use for the triangle wave channel")
	fs.BoolVarP(&c.AllScales, "all-scales", "a", c.AllScales, "Use all minor/major scales instead of just pentatonic scales")
	fs.Float64Var(&c.Square.NewNoteChance, "square-new-note", c.Square.NewNoteChance, "Chance of a new event per step on the square channels")
	fs.Float64Var(&c.Square.StopChance, "square-stop", c.Square.StopChance, "Chance that a square channel event is a stop")
	fs.IntVar(&c.Square.RepeatAt, "square-repeat", c.Square.RepeatAt, "Distinct square patterns before looping (0 = no loop)")
	fs.Float64Var(&c.Triangle.NewNoteChance, "tri-new-note", c.Triangle.NewNoteChance, "Chance of a new event per step on the triangle channel")
	fs.Float64Var(&c.Triangle.StopChance, "tri-stop", c.Triangle.StopChance, "Chance that a triangle channel event is a stop")
	fs.IntVar(&c.Triangle.RepeatAt, "tri-repeat", c.Triangle.RepeatAt, "Distinct triangle patterns before looping (0 = no loop)")
	fs.IntVar(&c.PercussionPatterns, "percussion-patterns", c.PercussionPatterns, "Distinct percussion patterns per song")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "Random seed (0 = time based)")
}

func initLogging() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))
}

// resolveConfig layers the config file under any flags set on the command line
func resolveConfig(cmd *cobra.Command) (generator.Config, error) {
	if cfgFile == "" {
		return cfg, cfg.Validate()
	}

	fileCfg, err := generator.LoadConfig(cfgFile)
	if err != nil {
		return cfg, err
	}

	fs := cmd.Flags()
	changed := map[string]string{}
	fs.Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})
	cfg = fileCfg
	for name, value := range changed {
		if err := fs.Set(name, value); err != nil {
			return cfg, fmt.Errorf("invalid --%s: %w", name, err)
		}
	}
	return cfg, cfg.Validate()
}

func compose(cmd *cobra.Command) ([]*generator.Song, error) {
	c, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	composer, err := generator.NewComposer(c, generator.NewRand(c.Seed), slog.Default())
	if err != nil {
		return nil, err
	}
	songs, err := composer.ComposeAll()
	if err != nil {
		return nil, err
	}
	slog.Debug("generated songs", "count", len(songs), "seed", c.Seed)
	if dump {
		spew.Fdump(os.Stderr, songs)
	}
	return songs, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	var output string
	if len(args) > 0 {
		output = args[0]
	}

	format := export.FormatFamiStudio
	if output != "" {
		if detected := export.DetectFormat(output); detected != export.FormatUnknown {
			format = detected
		}
	}
	if formatName != "" {
		f, err := export.ParseFormat(formatName)
		if err != nil {
			return err
		}
		format = f
	}

	songs, err := compose(cmd)
	if err != nil {
		return err
	}
	project := export.NewProject(songs)

	if output == "" {
		exp, err := export.ForFormat(format)
		if err != nil {
			return err
		}
		if format == export.FormatMIDI && len(songs) > 1 {
			slog.Warn("MIDI output to stdout holds only the first song", "songs", len(songs))
		}
		return exp.Export(os.Stdout, project)
	}

	var paths []string
	if format == export.FormatMIDI {
		paths, err = export.SaveMIDISongs(output, project)
	} else {
		exp, _ := export.ForFormat(format)
		paths, err = []string{output}, writeProject(output, exp, project)
	}
	if err != nil {
		return err
	}
	slog.Info("wrote songs", "songs", len(songs), "files", strings.Join(paths, ", "))
	return nil
}

func writeProject(path string, exp export.Exporter, project *export.Project) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := exp.Export(f, project); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func runMIDI(cmd *cobra.Command, args []string) error {
	songs, err := compose(cmd)
	if err != nil {
		return err
	}
	paths, err := export.SaveMIDISongs(args[0], export.NewProject(songs))
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Println(p)
	}
	return nil
}

func runScale(cmd *cobra.Command, args []string) error {
	root, name := args[0], strings.Join(args[1:], " ")
	notes, err := music.Describe(root, name)
	if err != nil {
		return err
	}
	if !expand {
		fmt.Println(notes)
		return nil
	}

	c, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	pc, _ := music.ParseRoot(root)
	degrees, _ := music.LookupScale(name)
	scale, err := music.BuildScale(degrees, pc, c.MinOctave, c.MaxOctave)
	if err != nil {
		return err
	}
	fmt.Println(scale)
	return nil
}

func runScales(cmd *cobra.Command, args []string) error {
	for _, s := range music.Scales(false) {
		notes, err := music.Describe("C", s.Name)
		if err != nil {
			return err
		}
		fmt.Printf("%-12s %v  (C: %s)\n", s.Name, []int(s.Degrees), notes)
	}
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	c, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	data, err := c.YAML()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func runTUI(cmd *cobra.Command, args []string) error {
	c, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	return tui.Run(c)
}

func runServe(cmd *cobra.Command, args []string) error {
	slog.Info("starting API server", "port", serverPort)
	return api.StartServer(serverPort)
}
