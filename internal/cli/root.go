package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hsmviz/pkg/errors"
	"github.com/matzehuels/hsmviz/pkg/facts"
	"github.com/matzehuels/hsmviz/pkg/pipeline"
)

// analyzeFlags holds the root command's flags.
type analyzeFlags struct {
	showMap    bool
	showDOT    bool
	leftRight  bool
	color      bool
	buildPath  string
	factsFile  string
	dumpFacts  string
	image      string
	configPath string
	noIncludes bool
	jobs       int
}

// analyzeCommand creates the root command: hsmviz [flags] [files...].
func (c *CLI) analyzeCommand() *cobra.Command {
	var f analyzeFlags

	cmd := &cobra.Command{
		Use:   appName + " [flags] [source files...]",
		Short: "hsmviz extracts state transitions from C++ state machines",
		Long: `hsmviz inspects C++ code written against a hierarchical state machine
library and lists which states transition to which, and how.

Select at least one output. --map prints one line per transition:

  app::Off --> app::On        sibling transition
  app::On ==> app::Blink      inner transition
  app::On =>> app::Steady     inner entry transition
  app::Off -x- app::Off       no transition

--dot prints a Graphviz document (pipe it to "dot -Tsvg"), and --image
renders the graph directly to an .svg, .png or .pdf file.

Sources are the given files, or every file of the compilation database
found with --build-path. Recorded facts (--facts) replace parsing.`,
		Example: `  # List transitions of one translation unit
  hsmviz --map src/blinky.cpp

  # Graph a whole project left to right
  hsmviz --dot --lr -p build > states.dot

  # Render an image
  hsmviz --image states.svg -p build`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd, args, f)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&f.showMap, "map", false, "print the state transition map as text")
	flags.BoolVar(&f.showDOT, "dot", false, "print the state transition graph as Graphviz DOT")
	flags.BoolVar(&f.leftRight, "lr", false, "lay the graph out left to right instead of top to bottom")
	flags.BoolVar(&f.color, "color", false, "color transition glyphs in the text map")
	flags.StringVarP(&f.buildPath, "build-path", "p", "", "directory containing compile_commands.json")
	flags.StringVar(&f.factsFile, "facts", "", "replay recorded match facts from a JSON file instead of parsing")
	flags.StringVar(&f.dumpFacts, "dump-facts", "", "write the match facts of this run to a JSON file")
	flags.StringVar(&f.image, "image", "", "render the graph to an image file (.svg, .png or .pdf)")
	flags.StringVar(&f.configPath, "config", "", "config file (default .hsmviz.toml if present)")
	flags.BoolVar(&f.noIncludes, "no-includes", false, "do not parse quoted #include files next to the sources")
	flags.IntVarP(&f.jobs, "jobs", "j", 0, "parallel parser jobs (default: number of CPUs)")

	return cmd
}

func (c *CLI) runAnalyze(cmd *cobra.Command, args []string, f analyzeFlags) error {
	formats, err := selectFormats(f)
	if err != nil {
		return err
	}
	if len(formats) == 0 {
		fmt.Fprint(c.Stderr, cmd.UsageString())
		return errors.New(errors.ErrCodeUsage, "no output selected: use --map and/or --dot")
	}

	cfg, err := c.loadConfig(f.configPath)
	if err != nil {
		return err
	}
	opts := pipeline.Options{
		Formats:   formats,
		LeftRight: cfg.Output.LeftRight,
		Color:     cfg.Output.Color,
	}
	if cmd.Flags().Changed("lr") {
		opts.LeftRight = f.leftRight
	}
	if cmd.Flags().Changed("color") {
		opts.Color = f.color
	}

	provider, err := pipeline.NewProvider(pipeline.Source{
		Files:          args,
		BuildPath:      f.buildPath,
		FactsFile:      f.factsFile,
		Library:        cfg.Library,
		FollowIncludes: !f.noIncludes,
		Jobs:           f.jobs,
	})
	if err != nil {
		return err
	}
	var recorder *facts.Recorder
	if f.dumpFacts != "" {
		recorder = &facts.Recorder{Provider: provider}
		provider = recorder
	}

	runner, err := c.newRunner(cfg)
	if err != nil {
		return err
	}

	prog := newProgress(loggerFromContext(cmd.Context()))
	result, err := runner.Execute(cmd.Context(), provider, opts)
	if err != nil {
		return err
	}

	if err := c.writeResult(result, f); err != nil {
		return err
	}
	if recorder != nil {
		if err := facts.ExportJSON(recorder.Matches, f.dumpFacts); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write facts")
		}
		printFile(c.Stderr, f.dumpFacts)
	}

	prog.done(fmt.Sprintf("Extracted %d transitions between %d states", result.Stats.Edges, result.Stats.States))
	printStats(c.Stderr, result.Stats)
	return nil
}

// selectFormats maps output flags to pipeline formats. Text formats come
// first so stdout always holds the map before the graph.
func selectFormats(f analyzeFlags) ([]string, error) {
	var formats []string
	if f.showMap {
		formats = append(formats, pipeline.FormatMap)
	}
	if f.showDOT {
		formats = append(formats, pipeline.FormatDOT)
	}
	if f.image != "" {
		format, err := imageFormat(f.image)
		if err != nil {
			return nil, err
		}
		formats = append(formats, format)
	}
	return formats, nil
}

func imageFormat(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF:
		return ext, nil
	}
	return "", errors.New(errors.ErrCodeUsage, "--image %s: extension must be .svg, .png or .pdf", path)
}

// writeResult writes text artifacts to stdout in one piece and the image,
// if any, to its file.
func (c *CLI) writeResult(result *pipeline.Result, f analyzeFlags) error {
	var out bytes.Buffer
	for _, format := range []string{pipeline.FormatMap, pipeline.FormatDOT} {
		out.Write(result.Artifacts[format])
	}
	if out.Len() > 0 {
		if _, err := c.Stdout.Write(out.Bytes()); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write output")
		}
	}

	if f.image != "" {
		format, _ := imageFormat(f.image)
		if err := os.WriteFile(f.image, result.Artifacts[format], 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write %s", f.image)
		}
		printFile(c.Stderr, f.image)
	}
	return nil
}
