package pipeline

import (
	"context"

	"github.com/matzehuels/hsmviz/pkg/errors"
	"github.com/matzehuels/hsmviz/pkg/hsm/statemap"
	"github.com/matzehuels/hsmviz/pkg/render"
	"github.com/matzehuels/hsmviz/pkg/render/dot"
	"github.com/matzehuels/hsmviz/pkg/render/text"
)

// Render generates output artifacts in the requested formats. The DOT
// document is built once and shared by the image formats.
func Render(ctx context.Context, m *statemap.Map, opts Options) (map[string][]byte, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}

	doc := dot.ToDOT(m, dot.Options{LeftRightOrdering: opts.LeftRight})
	var svg []byte
	svgOnce := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		svg, err = dot.RenderSVG(ctx, doc)
		return svg, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatMap:
			data = []byte(text.Format(m, text.Options{Color: opts.Color}))
		case FormatDOT:
			data = []byte(doc)
		case FormatSVG:
			data, err = svgOnce()
		case FormatPNG:
			if data, err = svgOnce(); err == nil {
				data, err = render.ToPNG(data, DefaultPNGScale)
			}
		case FormatPDF:
			if data, err = svgOnce(); err == nil {
				data, err = render.ToPDF(data)
			}
		}

		if err != nil {
			if errors.GetCode(err) == "" {
				err = errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
			}
			return nil, err
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
