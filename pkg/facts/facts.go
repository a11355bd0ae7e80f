// Package facts defines the program-fact provider boundary.
//
// hsmviz does not parse C++ itself. A [Provider] walks the input program and
// reports every construct that matches the extraction pattern as a [Match]:
// a call returning the library's transition type, lexically inside a method
// of a class derived from the library's state base. Each match is already
// bound to semantic facts (the enclosing state, the called function, its
// template arguments), so consumers never re-derive them.
//
// Two providers ship with the module:
//
//   - [JSONProvider] replays matches from a JSON document, for example one
//     produced by a clang-based dumper or by --dump-facts
//   - cpp.Provider parses C++ sources with tree-sitter
//
// # Partial matches
//
// A provider may report matches with a nil State or Callee, or a Callee that
// is not a template instantiation. These are expected noise from pattern
// matching; the extractor skips them without reporting an error.
package facts

import (
	"context"
	"strings"
)

// Provider walks a program and reports matches in a deterministic order.
// Walk calls fn synchronously for each match; a non-nil error from fn stops
// the walk and is returned unchanged.
type Provider interface {
	Walk(ctx context.Context, fn func(Match) error) error
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, fn func(Match) error) error

// Walk calls f(ctx, fn).
func (f ProviderFunc) Walk(ctx context.Context, fn func(Match) error) error { return f(ctx, fn) }

// Match is one matched transition call.
type Match struct {
	State  *ClassDecl    `json:"state,omitempty"`
	Callee *FunctionDecl `json:"callee,omitempty"`

	// Location of the call, informational only.
	File string `json:"file,omitempty"`
	Line int    `json:"line,omitempty"`
}

// ClassDecl describes the class enclosing a matched call.
type ClassDecl struct {
	Name         string   `json:"name"`                    // unqualified name, e.g. "Running"
	Qualifier    string   `json:"qualifier,omitempty"`     // enclosing scopes, e.g. "app::states"
	TemplateArgs []string `json:"template_args,omitempty"` // arguments of a specialization
	Bases        []string `json:"bases,omitempty"`         // direct base classes as spelled
}

// QualifiedName returns the scope-qualified name without template arguments.
func (c ClassDecl) QualifiedName() string {
	return qualify(c.Qualifier, c.Name)
}

// FunctionDecl describes the function a matched call resolves to.
type FunctionDecl struct {
	Name           string          `json:"name"`
	Qualifier      string          `json:"qualifier,omitempty"`
	Specialization *Specialization `json:"specialization,omitempty"`
}

// QualifiedName returns the scope-qualified function name.
func (f FunctionDecl) QualifiedName() string {
	return qualify(f.Qualifier, f.Name)
}

// Specialization holds the template arguments of a function template
// instantiation. Args are type spellings, e.g. "struct app::Idle".
type Specialization struct {
	Args []string `json:"args"`
}

func qualify(scope, name string) string {
	scope = strings.TrimSuffix(scope, "::")
	if scope == "" {
		return name
	}
	return scope + "::" + name
}
