package dot

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/hsmviz/pkg/hsm/statemap"
	"github.com/matzehuels/hsmviz/pkg/hsm/transition"
)

func buildMap(t *testing.T, edges ...statemap.Edge) *statemap.Map {
	t.Helper()
	m := statemap.New()
	for _, e := range edges {
		if err := m.Add(e); err != nil {
			t.Fatalf("Add(%v) error: %v", e, err)
		}
	}
	return m
}

// statements splits a document into node and edge statement lines.
func statements(doc string) (nodes, edges []string) {
	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, `"`) {
			continue
		}
		if strings.Contains(line, " -> ") {
			edges = append(edges, line)
		} else {
			nodes = append(nodes, line)
		}
	}
	return nodes, edges
}

func TestToDOT_Scenario(t *testing.T) {
	m := buildMap(t,
		statemap.Edge{Source: "A", Kind: transition.Sibling, Target: "B"},
		statemap.Edge{Source: "A", Kind: transition.Inner, Target: "C"},
	)

	doc := ToDOT(m, Options{})

	if !strings.HasPrefix(doc, "digraph G {") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	nodes, edges := statements(doc)
	if len(nodes) != 3 {
		t.Errorf("node statements = %d, want 3: %v", len(nodes), nodes)
	}
	if len(edges) != 2 {
		t.Errorf("edge statements = %d, want 2: %v", len(edges), edges)
	}
	for _, n := range []string{`"A" [label="A"];`, `"B" [label="B"];`, `"C" [label="C"];`} {
		if !strings.Contains(doc, n) {
			t.Errorf("ToDOT() output missing node %s", n)
		}
	}
	if !strings.Contains(edges[0], `"A" -> "B" [label="Sibling"`) {
		t.Errorf("first edge = %q, want A -> B labeled Sibling", edges[0])
	}
	if !strings.Contains(edges[1], `"A" -> "C" [label="Inner"`) {
		t.Errorf("second edge = %q, want A -> C labeled Inner", edges[1])
	}
}

func TestToDOT_NodeDedup(t *testing.T) {
	m := buildMap(t,
		statemap.Edge{Source: "A", Kind: transition.Sibling, Target: "B"},
		statemap.Edge{Source: "B", Kind: transition.Sibling, Target: "A"},
		statemap.Edge{Source: "A", Kind: transition.Sibling, Target: "B"},
		statemap.Edge{Source: "B", Kind: transition.Inner, Target: "C"},
		statemap.Edge{Source: "C", Kind: transition.No, Target: "C"},
	)

	nodes, edges := statements(ToDOT(m, Options{}))
	if len(nodes) != len(m.States()) || len(nodes) != 3 {
		t.Errorf("node statements = %d, want 3", len(nodes))
	}
	if len(edges) != m.Len() {
		t.Errorf("edge statements = %d, want %d", len(edges), m.Len())
	}
}

func TestToDOT_Order(t *testing.T) {
	m := buildMap(t,
		statemap.Edge{Source: "Zeta", Kind: transition.Sibling, Target: "Alpha"},
		statemap.Edge{Source: "Mu", Kind: transition.Sibling, Target: "Zeta"},
	)

	nodes, _ := statements(ToDOT(m, Options{}))
	want := []string{`"Zeta"`, `"Alpha"`, `"Mu"`}
	for i, w := range want {
		if !strings.HasPrefix(nodes[i], w) {
			t.Errorf("node %d = %q, want prefix %s", i, nodes[i], w)
		}
	}
}

func TestToDOT_Deterministic(t *testing.T) {
	m := buildMap(t,
		statemap.Edge{Source: "A", Kind: transition.InnerEntry, Target: "B"},
		statemap.Edge{Source: "B", Kind: transition.Sibling, Target: "C"},
	)
	first := ToDOT(m, Options{LeftRightOrdering: true})
	for i := 0; i < 10; i++ {
		if got := ToDOT(m, Options{LeftRightOrdering: true}); got != first {
			t.Fatalf("ToDOT() run %d differs", i)
		}
	}
}

func TestToDOT_LayoutDirection(t *testing.T) {
	m := buildMap(t,
		statemap.Edge{Source: "A", Kind: transition.Sibling, Target: "B"},
		statemap.Edge{Source: "A", Kind: transition.Inner, Target: "C"},
	)

	tb := ToDOT(m, Options{LeftRightOrdering: false})
	lr := ToDOT(m, Options{LeftRightOrdering: true})

	if !strings.Contains(tb, "rankdir=TB;") {
		t.Error("top-bottom output missing rankdir=TB")
	}
	if !strings.Contains(lr, "rankdir=LR;") {
		t.Error("left-right output missing rankdir=LR")
	}

	tbLines := strings.Split(tb, "\n")
	lrLines := strings.Split(lr, "\n")
	if len(tbLines) != len(lrLines) {
		t.Fatalf("line counts differ: %d vs %d", len(tbLines), len(lrLines))
	}
	diff := 0
	for i := range tbLines {
		if tbLines[i] != lrLines[i] {
			diff++
			if !strings.Contains(tbLines[i], "rankdir") {
				t.Errorf("unexpected difference on line %d: %q vs %q", i, tbLines[i], lrLines[i])
			}
		}
	}
	if diff != 1 {
		t.Errorf("differing lines = %d, want 1", diff)
	}
}

func TestToDOT_KindStyles(t *testing.T) {
	m := buildMap(t,
		statemap.Edge{Source: "S", Kind: transition.Sibling, Target: "T1"},
		statemap.Edge{Source: "S", Kind: transition.Inner, Target: "T2"},
		statemap.Edge{Source: "S", Kind: transition.InnerEntry, Target: "T3"},
		statemap.Edge{Source: "S", Kind: transition.No, Target: "S"},
	)

	_, edges := statements(ToDOT(m, Options{}))
	seen := make(map[string]bool)
	for _, e := range edges {
		attrs := e[strings.Index(e, "["):]
		attrs = attrs[strings.Index(attrs, ","):] // drop label
		if seen[attrs] {
			t.Errorf("edge style repeated: %s", attrs)
		}
		seen[attrs] = true
	}
	if !strings.Contains(edges[3], "style=dotted") || !strings.Contains(edges[3], "arrowhead=odot") {
		t.Errorf("No edge = %q, want dotted with odot head", edges[3])
	}
}

func TestToDOT_Empty(t *testing.T) {
	doc := ToDOT(statemap.New(), Options{})
	nodes, edges := statements(doc)
	if len(nodes) != 0 || len(edges) != 0 {
		t.Errorf("empty map produced %d nodes, %d edges", len(nodes), len(edges))
	}
	if !strings.HasSuffix(doc, "}\n") {
		t.Error("ToDOT() output not closed")
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"A", `"A"`},
		{"app::Blink<Fast, 3>", `"app::Blink<Fast, 3>"`},
		{`say "hi"`, `"say \"hi\""`},
		{`a\b`, `"a\\b"`},
		{"a\nb", `"a\nb"`},
	}
	for _, tt := range tests {
		if got := quote(tt.in); got != tt.want {
			t.Errorf("quote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	m := buildMap(t,
		statemap.Edge{Source: "app::Blink<Fast, 3>", Kind: transition.InnerEntry, Target: "app::On"},
		statemap.Edge{Source: "app::On", Kind: transition.No, Target: "app::On"},
	)

	svg, err := RenderSVG(context.Background(), ToDOT(m, Options{LeftRightOrdering: true}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	_, err := RenderSVG(context.Background(), `not valid DOT {{{`)
	if err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}
