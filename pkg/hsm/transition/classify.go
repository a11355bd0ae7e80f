package transition

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/hsmviz/pkg/errors"
)

// Rule maps a factory-name fragment to a kind.
type Rule struct {
	Fragment string `toml:"fragment" json:"fragment"`
	Kind     Kind   `toml:"kind" json:"kind"`
}

// DefaultRules are the factory names of the hsm library.
var DefaultRules = []Rule{
	{Fragment: "SiblingTransition", Kind: Sibling},
	{Fragment: "InnerTransition", Kind: Inner},
	{Fragment: "InnerEntryTransition", Kind: InnerEntry},
	{Fragment: "NoTransition", Kind: No},
}

// Classifier maps transition-factory names to kinds.
//
// Lookup is in two steps. The unqualified name is first compared exactly
// against every fragment, so a factory whose name is a fragment always gets
// that fragment's kind. Otherwise fragments are tried by containment, longest
// first, with [No] rules last. InnerEntryTransition therefore wins over any
// shorter fragment it happens to contain, and No is only the fallback.
//
// A Classifier is immutable and safe for concurrent use.
type Classifier struct {
	exact   map[string]Kind
	ordered []Rule
}

// NewClassifier builds a classifier from rules. It returns an error if a rule
// has an empty fragment or an invalid kind, or if two rules share a fragment
// with different kinds.
func NewClassifier(rules []Rule) (*Classifier, error) {
	if len(rules) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "classifier needs at least one rule")
	}
	exact := make(map[string]Kind, len(rules))
	for _, r := range rules {
		if strings.TrimSpace(r.Fragment) == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "classifier rule for %s has empty fragment", r.Kind)
		}
		if !r.Kind.Valid() {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "classifier rule %q has invalid kind %d", r.Fragment, int(r.Kind))
		}
		if prev, ok := exact[r.Fragment]; ok && prev != r.Kind {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "fragment %q mapped to both %s and %s", r.Fragment, prev, r.Kind)
		}
		exact[r.Fragment] = r.Kind
	}

	ordered := slices.Clone(rules)
	slices.SortStableFunc(ordered, func(a, b Rule) int {
		if (a.Kind == No) != (b.Kind == No) {
			if a.Kind == No {
				return 1
			}
			return -1
		}
		return len(b.Fragment) - len(a.Fragment)
	})

	return &Classifier{exact: exact, ordered: ordered}, nil
}

var defaultClassifier = mustClassifier(DefaultRules)

func mustClassifier(rules []Rule) *Classifier {
	c, err := NewClassifier(rules)
	if err != nil {
		panic(fmt.Sprintf("transition: invalid default rules: %v", err))
	}
	return c
}

// Default returns the classifier built from [DefaultRules].
func Default() *Classifier { return defaultClassifier }

// Rules returns the rules in the order containment checks are tried.
func (c *Classifier) Rules() []Rule { return slices.Clone(c.ordered) }

// Classify returns the kind for the factory function name. Namespace
// qualifiers and template argument lists are ignored, so
// "hsm::SiblingTransition<B>" classifies like "SiblingTransition".
//
// A name that matches no rule yields an error with code
// UNCLASSIFIABLE_TRANSITION.
func (c *Classifier) Classify(name string) (Kind, error) {
	base := unqualified(name)
	if k, ok := c.exact[base]; ok {
		return k, nil
	}
	for _, r := range c.ordered {
		if strings.Contains(base, r.Fragment) {
			return r.Kind, nil
		}
	}
	return 0, errors.Unclassifiable(name)
}

// Classify classifies name with the default rules.
func Classify(name string) (Kind, error) {
	return defaultClassifier.Classify(name)
}

func unqualified(name string) string {
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndex(name, "::"); i >= 0 {
		name = name[i+2:]
	}
	return strings.TrimSpace(name)
}
