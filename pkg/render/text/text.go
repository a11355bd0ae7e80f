// Package text renders a state-transition map as plain lines.
//
// Each edge becomes one line, "SOURCE GLYPH TARGET", in map order. Glyphs
// are fixed per kind (see transition.Kind.Glyph):
//
//	Idle --> Running     Sibling
//	On ==> Blinking      Inner
//	On =>> Steady        InnerEntry
//	Off -x- Off          No
//
// With [Options.Color] the glyph is colored with the same palette the DOT
// renderer uses for edges.
package text

import (
	"bufio"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/hsmviz/pkg/hsm/statemap"
	"github.com/matzehuels/hsmviz/pkg/hsm/transition"
	"github.com/matzehuels/hsmviz/pkg/render"
)

// Options configures the text listing.
type Options struct {
	// Color renders glyphs with ANSI colors. Leave off when writing to files.
	Color bool
}

// Line formats one edge without color.
func Line(e statemap.Edge) string {
	return e.Source + " " + e.Kind.Glyph() + " " + e.Target
}

// Write writes one line per edge to w.
func Write(w io.Writer, m *statemap.Map, opts Options) error {
	bw := bufio.NewWriter(w)
	for _, e := range m.Edges() {
		line := Line(e)
		if opts.Color {
			line = e.Source + " " + glyphStyle(e.Kind).Render(e.Kind.Glyph()) + " " + e.Target
		}
		bw.WriteString(line)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Format returns the listing as a string.
func Format(m *statemap.Map, opts Options) string {
	var sb strings.Builder
	_ = Write(&sb, m, opts)
	return sb.String()
}

func glyphStyle(k transition.Kind) lipgloss.Style {
	s := render.StyleFor(k)
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color))
	if s.Line == "bold" {
		style = style.Bold(true)
	}
	return style
}
