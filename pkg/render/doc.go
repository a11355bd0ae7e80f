// Package render turns a state-transition map into output documents.
//
// # Overview
//
// Two renderers share the per-kind styling defined here:
//
//   - [dot]: a Graphviz DOT document with one node per state and one styled,
//     labeled edge per transition, plus in-process SVG rendering
//   - [text]: one "SOURCE glyph TARGET" line per transition
//
// Every [transition.Kind] has a [KindStyle] so both outputs agree on what a
// kind looks like: the text glyph and the DOT edge use the same color.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert an SVG to other formats using the
// external rsvg-convert tool (from librsvg).
//
//	svg, err := dot.RenderSVG(ctx, dot.ToDOT(m, dot.Options{}))
//	png, err := render.ToPNG(svg, 2.0) // 2x scale
package render
