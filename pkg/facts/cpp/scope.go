package cpp

import (
	"regexp"
	"strings"

	"github.com/matzehuels/hsmviz/pkg/facts"
)

// index resolves names against all classes of a walk.
type index struct {
	byName      map[string]*class
	stateBase   string
	stateSimple string

	states   map[*class]bool
	visiting map[*class]bool
	decls    map[*class]*facts.ClassDecl
}

func newIndex(units []*unit, stateBase string) *index {
	ix := &index{
		byName:      make(map[string]*class),
		stateBase:   bareName(stateBase),
		stateSimple: simpleName(stateBase),
		states:      make(map[*class]bool),
		visiting:    make(map[*class]bool),
		decls:       make(map[*class]*facts.ClassDecl),
	}
	for _, u := range units {
		for _, c := range u.classes {
			// The first definition wins, so primary templates shadow later
			// specializations of the same name.
			if _, ok := ix.byName[c.qualifiedName()]; !ok {
				ix.byName[c.qualifiedName()] = c
			}
		}
	}
	return ix
}

// lookup finds the class a name refers to from scope, trying the innermost
// scope first. Template arguments in the name are ignored.
func (ix *index) lookup(name string, scope []string) *class {
	if strings.HasPrefix(name, "::") {
		return ix.byName[bareName(name)]
	}
	key := bareName(name)
	for i := len(scope); i >= 0; i-- {
		q := key
		if i > 0 {
			q = strings.Join(scope[:i], "::") + "::" + key
		}
		if c, ok := ix.byName[q]; ok {
			return c
		}
	}
	return nil
}

// isState reports whether c derives, directly or not, from the state base.
func (ix *index) isState(c *class) bool {
	if v, ok := ix.states[c]; ok {
		return v
	}
	if ix.visiting[c] {
		return false
	}
	ix.visiting[c] = true
	result := false
	for _, b := range c.bases {
		if ix.derives(b, c) {
			result = true
			break
		}
	}
	delete(ix.visiting, c)
	ix.states[c] = result
	return result
}

func (ix *index) derives(base string, from *class) bool {
	if bareName(base) == ix.stateBase {
		return true
	}
	if c := ix.lookup(base, from.scope); c != nil && c != from {
		if c.qualifiedName() == ix.stateBase {
			return true
		}
		return ix.isState(c)
	}
	return simpleName(base) == ix.stateSimple
}

// decl returns the shared fact for c.
func (ix *index) decl(c *class) *facts.ClassDecl {
	if d, ok := ix.decls[c]; ok {
		return d
	}
	d := &facts.ClassDecl{
		Name:      c.name,
		Qualifier: strings.Join(c.scope, "::"),
		Bases:     c.bases,
	}
	if c.params {
		d.TemplateArgs = c.args
	} else {
		for _, a := range c.args {
			d.TemplateArgs = append(d.TemplateArgs, ix.resolveType(a, c.scope))
		}
	}
	ix.decls[c] = d
	return d
}

var identPath = regexp.MustCompile(`^(::)?[A-Za-z_]\w*(::[A-Za-z_]\w*)*$`)

// resolveType qualifies class names in a type spelling, including inside
// template argument lists. Anything that is not a known class is kept as
// written.
func (ix *index) resolveType(text string, scope []string) string {
	text = collapse(text)
	if i := strings.IndexByte(text, '<'); i > 0 && strings.HasSuffix(text, ">") {
		args := splitArgs(text[i+1 : len(text)-1])
		for j := range args {
			args[j] = ix.resolveType(args[j], scope)
		}
		return ix.resolveName(strings.TrimSpace(text[:i]), scope) + "<" + strings.Join(args, ", ") + ">"
	}
	return ix.resolveName(text, scope)
}

func (ix *index) resolveName(name string, scope []string) string {
	for _, kw := range []string{"struct ", "class "} {
		name = strings.TrimPrefix(name, kw)
	}
	if !identPath.MatchString(name) {
		return name
	}
	if c := ix.lookup(name, scope); c != nil {
		return c.qualifiedName()
	}
	return strings.TrimPrefix(name, "::")
}

// collapse folds runs of whitespace into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func appendScope(scope []string, parts ...string) []string {
	return append(append([]string(nil), scope...), parts...)
}

// splitScope splits a qualified name on "::" outside template brackets.
// Empty parts, such as from a leading "::", are dropped.
func splitScope(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ':':
			if depth == 0 && i+1 < len(s) && s[i+1] == ':' {
				if p := strings.TrimSpace(s[start:i]); p != "" {
					parts = append(parts, p)
				}
				start = i + 2
				i++
			}
		}
	}
	if p := strings.TrimSpace(s[start:]); p != "" {
		parts = append(parts, p)
	}
	return parts
}

// splitTemplate splits "Name<A, B>" into "Name" and its arguments.
func splitTemplate(s string) (string, []string) {
	i := strings.IndexByte(s, '<')
	if i < 0 || !strings.HasSuffix(s, ">") {
		return s, nil
	}
	return strings.TrimSpace(s[:i]), splitArgs(s[i+1 : len(s)-1])
}

// splitArgs splits a template argument list on top-level commas.
func splitArgs(s string) []string {
	var args []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '(', '[':
			depth++
		case '>', ')', ']':
			depth--
		case ',':
			if depth == 0 {
				if a := strings.TrimSpace(s[start:i]); a != "" {
					args = append(args, a)
				}
				start = i + 1
			}
		}
	}
	if a := strings.TrimSpace(s[start:]); a != "" {
		args = append(args, a)
	}
	return args
}

// bareName drops template arguments from every part and a leading "::".
func bareName(s string) string {
	parts := splitScope(collapse(s))
	for i, p := range parts {
		parts[i], _ = splitTemplate(p)
	}
	return strings.Join(parts, "::")
}

// simpleName is the last part of bareName.
func simpleName(s string) string {
	b := bareName(s)
	if i := strings.LastIndex(b, "::"); i >= 0 {
		return b[i+2:]
	}
	return b
}
