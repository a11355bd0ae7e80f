// Package transition defines the closed set of HSM transition kinds and the
// classifier that maps a transition-factory function name to a kind.
//
// # Kinds
//
// A state returns one of four transitions from its transition handler:
//
//   - [Sibling]: leave this state and enter the target at the same depth
//   - [Inner]: stay, and make the target the current inner state
//   - [InnerEntry]: like Inner, but only enter the target if not already there
//   - [No]: stay, no structural change
//
// # Classification
//
// The factory functions that build transitions are templates such as
// SiblingTransition<Target>(). [Classifier] maps their names to a [Kind] using
// an ordered rule table. Names that match no rule are not silently treated as
// [No]: [Classifier.Classify] returns an UNCLASSIFIABLE_TRANSITION error
// carrying the offending name.
package transition

import (
	"fmt"
	"strings"
)

// Kind classifies the structural relationship a transition creates between
// its source and target state.
type Kind int

const (
	// Sibling moves control to the target state at the same hierarchy level.
	Sibling Kind = iota
	// Inner makes the target the inner (child) state of the source.
	Inner
	// InnerEntry enters the target as inner state unless it is already active.
	InnerEntry
	// No denotes "no transition".
	No
)

// Kinds lists every kind in declaration order.
var Kinds = []Kind{Sibling, Inner, InnerEntry, No}

var kindNames = [...]string{"Sibling", "Inner", "InnerEntry", "No"}

// Glyphs shared by the text listing. Each kind has a distinct token.
var kindGlyphs = [...]string{"-->", "==>", "=>>", "-x-"}

// String returns the kind name, e.g. "InnerEntry".
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Glyph returns the fixed visual token used for k in text output.
func (k Kind) Glyph() string {
	if k < 0 || int(k) >= len(kindGlyphs) {
		return "-?-"
	}
	return kindGlyphs[k]
}

// Valid reports whether k is one of the four declared kinds.
func (k Kind) Valid() bool {
	return k >= Sibling && k <= No
}

// ParseKind converts a kind name (case-insensitive) back to a Kind.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown transition kind %q (must be one of %s)", s, strings.Join(kindNames[:], ", "))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid transition kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It lets TOML and JSON
// documents spell kinds by name.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
