// Package cli implements the hsmviz command-line interface.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hsmviz/pkg/buildinfo"
	"github.com/matzehuels/hsmviz/pkg/config"
	"github.com/matzehuels/hsmviz/pkg/hsm/extract"
	"github.com/matzehuels/hsmviz/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "hsmviz"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Stdout io.Writer // analysis output
	Stderr io.Writer // usage, status lines
}

// New creates a new CLI instance logging to w. Analysis output goes to
// os.Stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Stdout: os.Stdout,
		Stderr: w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := c.analyzeCommand()
	root.Version = buildinfo.Version
	root.SilenceUsage = true
	root.SilenceErrors = true // main reports errors once
	root.SetVersionTemplate(buildinfo.Template())
	root.SetErr(c.Stderr)
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner wired to the configured classifier
// and normalizer.
func (c *CLI) newRunner(cfg config.Config) (*pipeline.Runner, error) {
	classifier, err := cfg.NewClassifier()
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(c.Logger,
		extract.WithClassifier(classifier),
		extract.WithNormalizer(cfg.NewNormalizer()),
	), nil
}

// loadConfig reads path, or .hsmviz.toml in the working directory when path
// is empty.
func (c *CLI) loadConfig(path string) (config.Config, error) {
	if path != "" {
		cfg, err := config.Load(path)
		if err == nil {
			c.Logger.Debug("loaded config", "path", path)
		}
		return cfg, err
	}
	cfg, found, err := config.Discover(".")
	if err == nil && found != "" {
		c.Logger.Debug("loaded config", "path", found)
	}
	return cfg, err
}
