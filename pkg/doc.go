// Package pkg provides the libraries behind hsmviz, a tool that lists the
// state transitions of C++ hierarchical state machines.
//
// # Overview
//
// States of such a machine are classes derived from a library state base.
// Their transition handlers return transitions built by factory templates:
// SiblingTransition<Off>() means "this state moves to Off". hsmviz finds
// every such call, classifies it, and prints the resulting transition map.
//
// # Architecture
//
// The data flow through hsmviz:
//
//	C++ sources / compile_commands.json / recorded facts
//	         ↓
//	    [facts] providers (one Match per factory call)
//	         ↓
//	    [hsm/extract] (classify + normalize into a [hsm/statemap])
//	         ↓
//	    [render/text], [render/dot] (map listing, Graphviz)
//	         ↓
//	    text / DOT / SVG / PNG / PDF
//
// # Quick Start
//
//	import (
//	    "context"
//	    "os"
//
//	    "github.com/matzehuels/hsmviz/pkg/facts/cpp"
//	    "github.com/matzehuels/hsmviz/pkg/hsm/extract"
//	    "github.com/matzehuels/hsmviz/pkg/render/text"
//	)
//
//	p := cpp.New([]string{"src/blinky.cpp"}, cpp.Options{FollowIncludes: true})
//	m, _, err := extract.Run(context.Background(), p)
//	if err != nil {
//	    return err // e.g. an unclassifiable transition factory
//	}
//	text.Write(os.Stdout, m, text.Options{})
//
// # Main Packages
//
// [facts] - The program-fact contract (Match, ClassDecl, FunctionDecl), a JSON
// record/replay format, and [facts/cpp], a tree-sitter based C++ provider.
//
// [hsm/names] - Canonical state names from C++ type spellings.
//
// [hsm/transition] - Transition kinds and the factory-name classifier.
//
// [hsm/extract] - Turns matches into edges, fatal on unclassifiable factories.
//
// [hsm/statemap] - Ordered transition map keyed by source state.
//
// [render] - Kind styles shared by the renderers, plus SVG to PNG/PDF
// conversion.
//
// [pipeline] - Extract then render, used by the CLI.
//
// [config] - The .hsmviz.toml project configuration.
//
// [compdb] - compile_commands.json reader.
//
// [observability] - Optional stage hooks for metrics backends.
//
// [facts]: https://pkg.go.dev/github.com/matzehuels/hsmviz/pkg/facts
// [facts/cpp]: https://pkg.go.dev/github.com/matzehuels/hsmviz/pkg/facts/cpp
// [hsm/names]: https://pkg.go.dev/github.com/matzehuels/hsmviz/pkg/hsm/names
// [hsm/transition]: https://pkg.go.dev/github.com/matzehuels/hsmviz/pkg/hsm/transition
// [hsm/extract]: https://pkg.go.dev/github.com/matzehuels/hsmviz/pkg/hsm/extract
// [hsm/statemap]: https://pkg.go.dev/github.com/matzehuels/hsmviz/pkg/hsm/statemap
// [render]: https://pkg.go.dev/github.com/matzehuels/hsmviz/pkg/render
// [render/text]: https://pkg.go.dev/github.com/matzehuels/hsmviz/pkg/render/text
// [render/dot]: https://pkg.go.dev/github.com/matzehuels/hsmviz/pkg/render/dot
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/hsmviz/pkg/pipeline
// [config]: https://pkg.go.dev/github.com/matzehuels/hsmviz/pkg/config
// [compdb]: https://pkg.go.dev/github.com/matzehuels/hsmviz/pkg/compdb
// [observability]: https://pkg.go.dev/github.com/matzehuels/hsmviz/pkg/observability
package pkg
