package render

import "github.com/matzehuels/hsmviz/pkg/hsm/transition"

// KindStyle is the visual treatment of one transition kind.
type KindStyle struct {
	Color     string // hex color shared by DOT edges and colored text glyphs
	Line      string // DOT edge style: solid, bold, dotted
	ArrowHead string // DOT arrowhead shape
}

// kindStyles is indexed by transition.Kind.
var kindStyles = [...]KindStyle{
	transition.Sibling:    {Color: "#2f3b45", Line: "solid", ArrowHead: "normal"},
	transition.Inner:      {Color: "#1f77b4", Line: "solid", ArrowHead: "diamond"},
	transition.InnerEntry: {Color: "#1f77b4", Line: "bold", ArrowHead: "vee"},
	transition.No:         {Color: "#9e9e9e", Line: "dotted", ArrowHead: "odot"},
}

// StyleFor returns the style of k. Unknown kinds get the Sibling style.
func StyleFor(k transition.Kind) KindStyle {
	if !k.Valid() {
		return kindStyles[transition.Sibling]
	}
	return kindStyles[k]
}
