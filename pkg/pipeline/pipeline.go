// Package pipeline provides the analysis pipeline for hsmviz.
//
// This package implements the complete sources → extract → render pipeline
// used by the CLI. By centralizing this logic, the command layer only deals
// with flags and writing bytes.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Sources: Build a program-fact provider from source files, a compilation
//     database or a recorded facts file ([NewProvider])
//  2. Extract: Walk the provider once and build the state-transition map
//     ([Runner.Analyze])
//  3. Render: Generate every requested output format from the map ([Render])
//
// Rendering only starts after extraction finished without error, so a fatal
// classification error never leaves partial output behind.
//
// # Usage
//
//	provider, err := pipeline.NewProvider(pipeline.Source{Files: files})
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, provider, pipeline.Options{
//	    Formats:   []string{pipeline.FormatMap, pipeline.FormatDOT},
//	    LeftRight: true,
//	})
//	if err != nil {
//	    return err
//	}
//	os.Stdout.Write(result.Artifacts[pipeline.FormatDOT])
package pipeline

import (
	"time"

	"github.com/matzehuels/hsmviz/pkg/errors"
	"github.com/matzehuels/hsmviz/pkg/hsm/extract"
	"github.com/matzehuels/hsmviz/pkg/hsm/statemap"
)

// Format constants for output formats.
const (
	FormatMap = "map" // text listing
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatMap: true,
	FormatDOT: true,
	FormatSVG: true,
	FormatPNG: true,
	FormatPDF: true,
}

// DefaultPNGScale is the raster scale factor for PNG output.
const DefaultPNGScale = 2.0

// Options configures which outputs Execute produces.
type Options struct {
	Formats   []string // output formats, at least one
	LeftRight bool     // left-to-right graph layout
	Color     bool     // colored text glyphs
}

// Validate checks that at least one known format is selected.
func (o Options) Validate() error {
	if len(o.Formats) == 0 {
		return errors.New(errors.ErrCodeUsage, "no output selected: use --map and/or --dot")
	}
	return ValidateFormats(o.Formats)
}

// ValidateFormat checks if a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %s (must be map, dot, svg, png, or pdf)", format)
	}
	return nil
}

// ValidateFormats checks every format in the list.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Result holds the outcome of a pipeline run.
type Result struct {
	Map       *statemap.Map
	Artifacts map[string][]byte // keyed by format
	Stats     Stats
}

// Stats holds counters and timings of a run.
type Stats struct {
	extract.Stats
	States      int
	ExtractTime time.Duration
	RenderTime  time.Duration
}
