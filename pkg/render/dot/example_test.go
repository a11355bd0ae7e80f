package dot_test

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/hsmviz/pkg/hsm/statemap"
	"github.com/matzehuels/hsmviz/pkg/hsm/transition"
	"github.com/matzehuels/hsmviz/pkg/render/dot"
)

func ExampleRenderSVG() {
	m := statemap.New()
	_ = m.Add(statemap.Edge{Source: "Off", Kind: transition.Sibling, Target: "On"})

	svg, err := dot.RenderSVG(context.Background(), dot.ToDOT(m, dot.Options{}))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(bytes.Contains(svg, []byte("<svg")))
	// Output: true
}
