package statemap_test

import (
	"fmt"

	"github.com/matzehuels/hsmviz/pkg/hsm/statemap"
	"github.com/matzehuels/hsmviz/pkg/hsm/transition"
)

func ExampleMap() {
	m := statemap.New()
	_ = m.Add(statemap.Edge{Source: "Off", Kind: transition.Sibling, Target: "On"})
	_ = m.Add(statemap.Edge{Source: "On", Kind: transition.Inner, Target: "Blinking"})
	_ = m.Add(statemap.Edge{Source: "On", Kind: transition.Sibling, Target: "Off"})

	fmt.Println("Edges:", m.Len())
	fmt.Println("Sources:", m.Sources())
	fmt.Println("States:", m.States())
	for _, tr := range m.From("On") {
		fmt.Println("On", tr.Kind, tr.Target)
	}
	// Output:
	// Edges: 3
	// Sources: [Off On]
	// States: [Off On Blinking]
	// On Inner Blinking
	// On Sibling Off
}
