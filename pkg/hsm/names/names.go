// Package names canonicalizes state and type names for display.
//
// Two names are considered the same state iff their normalized strings are
// equal, so every name that ends up in a statemap.Map goes through a
// [Normalizer] first.
//
// Type spellings reported by a program-fact provider carry incidental noise:
// elaborated-type keywords ("struct app::Idle") and the HSM library's own
// namespace qualifier. [Normalizer.Type] removes every occurrence of each
// configured noise fragment, anywhere in the string. A fragment that happens
// to be part of a legitimate identifier is removed as well; this is a known
// limitation.
package names

import (
	"slices"
	"strings"

	"github.com/matzehuels/hsmviz/pkg/facts"
)

// DefaultNoise holds the fragments stripped from type spellings: the
// elaborated "struct" keyword and the hsm library qualifier.
var DefaultNoise = []string{"struct ", "hsm::"}

// Normalizer produces display names. It is pure: the same input always
// yields the same output. A Normalizer is safe for concurrent use.
type Normalizer struct {
	noise []string
}

// New returns a normalizer stripping the given fragments. Empty fragments
// are ignored.
func New(noise []string) *Normalizer {
	n := &Normalizer{}
	for _, s := range noise {
		if s != "" {
			n.noise = append(n.noise, s)
		}
	}
	return n
}

var defaultNormalizer = New(DefaultNoise)

// Default returns the normalizer for [DefaultNoise].
func Default() *Normalizer { return defaultNormalizer }

// Noise returns the configured fragments.
func (n *Normalizer) Noise() []string { return slices.Clone(n.noise) }

// Type normalizes a type spelling, e.g. a template argument.
//
// Removal repeats until no fragment occurs, so the result never contains a
// noise fragment and Type(Type(s)) == Type(s).
func (n *Normalizer) Type(spelling string) string {
	s := spelling
	for {
		prev := s
		for _, frag := range n.noise {
			s = strings.ReplaceAll(s, frag, "")
		}
		if s == prev {
			break
		}
	}
	return strings.TrimSpace(s)
}

// State returns the display name of a state class: its qualified name
// followed by its template arguments in source syntax, e.g.
// "app::Blinking<Fast, 3>". Template arguments are normalized with
// [Normalizer.Type] so a state name matches the same type used as a target.
func (n *Normalizer) State(c facts.ClassDecl) string {
	name := strings.TrimSpace(c.QualifiedName())
	if len(c.TemplateArgs) == 0 {
		return name
	}
	args := make([]string, len(c.TemplateArgs))
	for i, a := range c.TemplateArgs {
		args[i] = n.Type(a)
	}
	return name + "<" + strings.Join(args, ", ") + ">"
}
