package cpp

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/matzehuels/hsmviz/pkg/errors"
)

// unit is one parsed file and what pass 1 found in it.
type unit struct {
	path string
	src  []byte
	tree *sitter.Tree

	classes   []*class
	methods   []method
	functions map[string]bool // declared function name -> returns the transition type
	includes  []string

	transition string
}

// class is a class or struct definition.
type class struct {
	scope  []string // enclosing namespaces and classes
	name   string
	args   []string // specialization arguments or template parameters
	params bool     // args are template parameter names
	bases  []string
	body   *sitter.Node
}

func (c *class) qualifiedName() string {
	return strings.Join(append(append([]string(nil), c.scope...), c.name), "::")
}

// innerScope is the lookup scope inside the class body.
func (c *class) innerScope() []string {
	return append(append([]string(nil), c.scope...), c.name)
}

// method is an out-of-line member function definition.
type method struct {
	owner string // class as written, e.g. "On" or "app::Blink<T>"
	scope []string
	body  *sitter.Node
}

func parseUnit(ctx context.Context, parser *sitter.Parser, path string, src []byte, transition string) (*unit, error) {
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParseFailed, err, "parse %s", path)
	}
	root := tree.RootNode()
	if root.HasError() {
		line := firstErrorLine(root)
		tree.Close()
		return nil, errors.New(errors.ErrCodeParseFailed, "%s:%d: syntax error", path, line)
	}

	u := &unit{path: path, src: src, tree: tree, transition: transition}
	u.collect(root, nil)
	return u, nil
}

func firstErrorLine(n *sitter.Node) int {
	if n.IsError() || n.IsMissing() {
		return int(n.StartPoint().Row) + 1
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c != nil && c.HasError() {
			return firstErrorLine(c)
		}
	}
	return int(n.StartPoint().Row) + 1
}

func (u *unit) text(n *sitter.Node) string {
	return collapse(n.Content(u.src))
}

func (u *unit) collect(n *sitter.Node, scope []string) {
	switch n.Type() {
	case "namespace_definition":
		name := "(anonymous namespace)"
		if nn := n.ChildByFieldName("name"); nn != nil {
			name = u.text(nn)
		}
		if body := n.ChildByFieldName("body"); body != nil {
			u.collectChildren(body, appendScope(scope, splitScope(name)...))
		}
		return
	case "class_specifier", "struct_specifier":
		if c := u.classAt(n, scope); c != nil {
			u.classes = append(u.classes, c)
			u.collectChildren(c.body, c.innerScope())
			return
		}
	case "function_definition":
		u.addFunction(n)
		if m, ok := u.outOfLine(n, scope); ok {
			u.methods = append(u.methods, m)
		}
	case "declaration", "field_declaration":
		u.addFunction(n)
	case "preproc_include":
		if p := n.ChildByFieldName("path"); p != nil && p.Type() == "string_literal" {
			u.includes = append(u.includes, strings.Trim(p.Content(u.src), `"`))
		}
		return
	}
	u.collectChildren(n, scope)
}

func (u *unit) collectChildren(n *sitter.Node, scope []string) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		u.collect(n.NamedChild(i), scope)
	}
}

func (u *unit) classAt(n *sitter.Node, scope []string) *class {
	body := n.ChildByFieldName("body")
	nameNode := n.ChildByFieldName("name")
	if body == nil || nameNode == nil {
		return nil
	}

	parts := splitScope(u.text(nameNode))
	if len(parts) == 0 {
		return nil
	}
	name, args := splitTemplate(parts[len(parts)-1])
	c := &class{
		scope: appendScope(scope, parts[:len(parts)-1]...),
		name:  name,
		args:  args,
		bases: u.baseClasses(n),
		body:  body,
	}
	if c.args == nil {
		if params := u.templateParams(n); len(params) > 0 {
			c.args, c.params = params, true
		}
	}
	return c
}

func (u *unit) baseClasses(n *sitter.Node) []string {
	var bases []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		clause := n.NamedChild(i)
		if clause.Type() != "base_class_clause" {
			continue
		}
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			b := clause.NamedChild(j)
			// hsm::State parses as qualified_identifier, State as type_identifier.
			if t := b.Type(); strings.HasSuffix(t, "identifier") || t == "template_type" {
				bases = append(bases, u.text(b))
			}
		}
	}
	return bases
}

// templateParams returns parameter names when n is declared by a template.
func (u *unit) templateParams(n *sitter.Node) []string {
	parent := n.Parent()
	if parent == nil || parent.Type() != "template_declaration" {
		return nil
	}
	list := parent.ChildByFieldName("parameters")
	if list == nil {
		return nil
	}

	var params []string
	for i := 0; i < int(list.NamedChildCount()); i++ {
		p := list.NamedChild(i)
		var name *sitter.Node
		for _, field := range []string{"name", "declarator"} {
			if name = p.ChildByFieldName(field); name != nil {
				break
			}
		}
		if name == nil {
			for j := int(p.NamedChildCount()) - 1; j >= 0; j-- {
				if c := p.NamedChild(j); c.Type() == "type_identifier" || c.Type() == "identifier" {
					name = c
					break
				}
			}
		}
		if name == nil {
			continue
		}
		if s := strings.Trim(u.text(name), ".&* "); s != "" {
			params = append(params, s)
		}
	}
	return params
}

// addFunction records a function declaration and whether it returns the
// transition type.
func (u *unit) addFunction(n *sitter.Node) {
	typ := n.ChildByFieldName("type")
	if typ == nil {
		return
	}
	fd := functionDeclarator(n.ChildByFieldName("declarator"))
	if fd == nil {
		return
	}
	d := fd.ChildByFieldName("declarator")
	if d == nil {
		return
	}
	name := simpleName(u.text(d))
	if name == "" {
		return
	}
	if u.functions == nil {
		u.functions = make(map[string]bool)
	}
	u.functions[name] = u.functions[name] || simpleName(u.text(typ)) == u.transition
}

func (u *unit) outOfLine(n *sitter.Node, scope []string) (method, bool) {
	body := n.ChildByFieldName("body")
	fd := functionDeclarator(n.ChildByFieldName("declarator"))
	if body == nil || fd == nil {
		return method{}, false
	}
	d := fd.ChildByFieldName("declarator")
	if d == nil || d.Type() != "qualified_identifier" {
		return method{}, false
	}
	parts := splitScope(u.text(d))
	if len(parts) < 2 {
		return method{}, false
	}
	return method{owner: strings.Join(parts[:len(parts)-1], "::"), scope: scope, body: body}, true
}

// functionDeclarator unwraps pointer and reference declarators.
func functionDeclarator(d *sitter.Node) *sitter.Node {
	for d != nil {
		if d.Type() == "function_declarator" {
			return d
		}
		next := d.ChildByFieldName("declarator")
		if next == nil {
			for i := 0; i < int(d.NamedChildCount()); i++ {
				if c := d.NamedChild(i); strings.HasSuffix(c.Type(), "declarator") {
					next = c
					break
				}
			}
		}
		d = next
	}
	return nil
}
