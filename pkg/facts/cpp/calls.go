package cpp

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/matzehuels/hsmviz/pkg/facts"
)

// scanner collects factory calls in the code owned by one state class.
type scanner struct {
	unit      *unit
	index     int
	owner     *class
	decl      *facts.ClassDecl
	ix        *index
	isFactory func(string) bool

	sites []site
}

// walk visits n's descendants. Nested class definitions are skipped; they
// are scanned as classes of their own.
func (s *scanner) walk(n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "class_specifier", "struct_specifier", "union_specifier":
			if c.ChildByFieldName("body") != nil {
				continue
			}
		case "call_expression":
			s.call(c)
		}
		s.walk(c)
	}
}

func (s *scanner) call(n *sitter.Node) {
	callee, ok := s.callee(n.ChildByFieldName("function"))
	if !ok || !s.isFactory(callee.Name) {
		return
	}
	s.sites = append(s.sites, site{
		unit:   s.index,
		offset: n.StartByte(),
		match: facts.Match{
			State:  s.decl,
			Callee: callee,
			File:   s.unit.path,
			Line:   int(n.StartPoint().Row) + 1,
		},
	})
}

// callee decodes the function part of a call. Only plain, qualified and
// template function names are understood; member calls are not factories.
func (s *scanner) callee(n *sitter.Node) (*facts.FunctionDecl, bool) {
	var quals []string
	for n != nil && n.Type() == "qualified_identifier" {
		if scope := n.ChildByFieldName("scope"); scope != nil {
			quals = append(quals, s.unit.text(scope))
		}
		n = n.ChildByFieldName("name")
	}
	if n == nil {
		return nil, false
	}

	fd := &facts.FunctionDecl{Qualifier: strings.Join(quals, "::")}
	switch n.Type() {
	case "identifier":
		fd.Name = s.unit.text(n)
	case "template_function":
		name := n.ChildByFieldName("name")
		if name == nil {
			return nil, false
		}
		fd.Name = s.unit.text(name)
		fd.Specialization = &facts.Specialization{Args: s.templateArgs(n.ChildByFieldName("arguments"))}
	default:
		return nil, false
	}
	return fd, true
}

func (s *scanner) templateArgs(list *sitter.Node) []string {
	if list == nil {
		return nil
	}
	scope := s.owner.innerScope()
	var args []string
	for i := 0; i < int(list.NamedChildCount()); i++ {
		a := list.NamedChild(i)
		if a.Type() == "comment" {
			continue
		}
		args = append(args, s.ix.resolveType(s.unit.text(a), scope))
	}
	return args
}
