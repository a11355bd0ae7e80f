// Package dot renders a state-transition map as a Graphviz DOT document.
//
// # Layout
//
// The document is a directed graph. Its rankdir is LR when
// [Options.LeftRightOrdering] is set and TB otherwise; nothing else differs
// between the two layouts.
//
// # Nodes and Edges
//
// Every distinct state name appearing as a source or target is declared once,
// in order of first appearance. Every edge of the map becomes one edge
// statement, in map order, labeled with its kind and styled with
// render.StyleFor. "No transition" edges are kept and drawn dotted grey with
// an open-circle head, so node and edge counts always match the map.
//
// Output depends only on map insertion order, so identical input yields
// byte-identical documents.
//
// # Rendering
//
// [RenderSVG] lays out a document in-process with [github.com/goccy/go-graphviz].
package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/hsmviz/pkg/hsm/statemap"
	"github.com/matzehuels/hsmviz/pkg/render"
)

// Options configures DOT generation.
type Options struct {
	// LeftRightOrdering lays the graph out left to right instead of top to bottom.
	LeftRightOrdering bool
}

// RankDir returns the Graphviz rankdir value for the options.
func (o Options) RankDir() string {
	if o.LeftRightOrdering {
		return "LR"
	}
	return "TB"
}

// ToDOT converts a map to Graphviz DOT source.
func ToDOT(m *statemap.Map, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", opts.RankDir())
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\"];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("\n")

	for _, name := range m.States() {
		fmt.Fprintf(&buf, "  %s [label=%s];\n", quote(name), quote(name))
	}

	buf.WriteString("\n")
	for _, e := range m.Edges() {
		fmt.Fprintf(&buf, "  %s -> %s [%s];\n", quote(e.Source), quote(e.Target), strings.Join(edgeAttrs(e), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func edgeAttrs(e statemap.Edge) []string {
	s := render.StyleFor(e.Kind)
	return []string{
		"label=" + quote(e.Kind.String()),
		"color=" + quote(s.Color),
		"fontcolor=" + quote(s.Color),
		"style=" + s.Line,
		"arrowhead=" + s.ArrowHead,
	}
}

// quote returns s as a DOT double-quoted ID. Template names such as
// "Foo<Bar, 3>" or "ns::Foo" are not valid bare IDs.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return `"` + s + `"`
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag so the drawing starts at the
// origin and carries explicit width and height.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
