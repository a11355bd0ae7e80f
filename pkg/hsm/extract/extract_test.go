package extract

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	hsmerrors "github.com/matzehuels/hsmviz/pkg/errors"
	"github.com/matzehuels/hsmviz/pkg/facts"
	"github.com/matzehuels/hsmviz/pkg/hsm/names"
	"github.com/matzehuels/hsmviz/pkg/hsm/statemap"
	"github.com/matzehuels/hsmviz/pkg/hsm/transition"
)

func call(state, factory string, args ...string) facts.Match {
	m := facts.Match{
		State:  &facts.ClassDecl{Name: state},
		Callee: &facts.FunctionDecl{Name: factory, Qualifier: "hsm"},
	}
	if args != nil {
		m.Callee.Specialization = &facts.Specialization{Args: args}
	}
	return m
}

func TestHandleScenario(t *testing.T) {
	x := New()
	for _, m := range []facts.Match{
		call("A", "SiblingTransition", "struct B"),
		call("A", "InnerTransition", "struct hsm::C"),
	} {
		if err := x.Handle(m); err != nil {
			t.Fatalf("Handle() error: %v", err)
		}
	}

	want := []statemap.Edge{
		{Source: "A", Kind: transition.Sibling, Target: "B"},
		{Source: "A", Kind: transition.Inner, Target: "C"},
	}
	if got := x.Map().Edges(); !slices.Equal(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
	if got := x.Stats(); got.Edges != 2 || got.Matches != 2 || got.Skipped() != 0 {
		t.Errorf("Stats() = %+v, want 2 matches, 2 edges, 0 skipped", got)
	}
}

func TestHandleSkips(t *testing.T) {
	tests := []struct {
		name  string
		match facts.Match
		check func(Stats) bool
	}{
		{
			name:  "no state",
			match: facts.Match{Callee: &facts.FunctionDecl{Name: "SiblingTransition"}},
			check: func(s Stats) bool { return s.Unbound == 1 },
		},
		{
			name:  "no callee",
			match: facts.Match{State: &facts.ClassDecl{Name: "A"}},
			check: func(s Stats) bool { return s.Unbound == 1 },
		},
		{
			name:  "not a template",
			match: call("A", "SiblingTransition"),
			check: func(s Stats) bool { return s.NotInstantiated == 1 },
		},
		{
			name:  "template without arguments",
			match: call("A", "SiblingTransition", []string{}...),
			check: func(s Stats) bool { return s.NotInstantiated == 1 },
		},
		{
			// Unclassifiable names are only checked once the match is complete.
			name:  "unknown non-template",
			match: call("A", "Jump"),
			check: func(s Stats) bool { return s.NotInstantiated == 1 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := New()
			if err := x.Handle(tt.match); err != nil {
				t.Fatalf("Handle() error: %v", err)
			}
			if x.Map().Len() != 0 {
				t.Errorf("Map().Len() = %d, want 0", x.Map().Len())
			}
			if s := x.Stats(); !tt.check(s) || s.Skipped() != 1 {
				t.Errorf("Stats() = %+v", s)
			}
		})
	}
}

func TestHandleTemplateWithoutArgsSlice(t *testing.T) {
	x := New()
	m := call("A", "SiblingTransition")
	m.Callee.Specialization = &facts.Specialization{}
	if err := x.Handle(m); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	if x.Stats().NotInstantiated != 1 {
		t.Errorf("Stats().NotInstantiated = %d, want 1", x.Stats().NotInstantiated)
	}
}

func TestHandleUnclassifiable(t *testing.T) {
	x := New()
	m := call("A", "Jump", "B")
	m.File = "states.cpp"
	m.Line = 42

	err := x.Handle(m)
	if err == nil {
		t.Fatal("Handle() should fail for unclassifiable factory")
	}
	if !hsmerrors.Is(err, hsmerrors.ErrCodeUnclassifiable) {
		t.Errorf("Handle() code = %v, want %v", hsmerrors.GetCode(err), hsmerrors.ErrCodeUnclassifiable)
	}
	var ue *hsmerrors.UnclassifiableError
	if !errors.As(err, &ue) || ue.Name != "hsm::Jump" {
		t.Errorf("Handle() error = %v, want UnclassifiableError for hsm::Jump", err)
	}
	want := `state A (states.cpp:42): classify transition: unclassifiable transition factory "hsm::Jump"`
	if got := hsmerrors.UserMessage(err); got != want {
		t.Errorf("UserMessage() = %q, want %q", got, want)
	}
	if n := strings.Count(err.Error(), string(hsmerrors.ErrCodeUnclassifiable)); n != 1 {
		t.Errorf("Error() = %q, want the code once", err.Error())
	}
	if x.Map().Len() != 0 {
		t.Errorf("Map().Len() = %d, want 0", x.Map().Len())
	}
}

func TestHandleTemplateState(t *testing.T) {
	x := New()
	m := facts.Match{
		State: &facts.ClassDecl{Name: "MyState", Qualifier: "app", TemplateArgs: []string{"Config"}},
		Callee: &facts.FunctionDecl{
			Name:           "InnerEntryTransition",
			Specialization: &facts.Specialization{Args: []string{"struct app::Child<struct Config>", "int"}},
		},
	}
	if err := x.Handle(m); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}

	want := statemap.Edge{Source: "app::MyState<Config>", Kind: transition.InnerEntry, Target: "app::Child<Config>"}
	if got := x.Map().Edges()[0]; got != want {
		t.Errorf("edge = %v, want %v", got, want)
	}
}

func TestHandleEmptyTarget(t *testing.T) {
	x := New()
	err := x.Handle(call("A", "SiblingTransition", "struct "))
	if !errors.Is(err, statemap.ErrEmptyName) {
		t.Errorf("Handle() error = %v, want %v", err, statemap.ErrEmptyName)
	}
}

func TestRunPreservesOrder(t *testing.T) {
	p := &facts.JSONProvider{Matches: []facts.Match{
		call("C", "SiblingTransition", "A"),
		{State: &facts.ClassDecl{Name: "X"}},
		call("A", "InnerTransition", "B"),
		call("C", "NoTransition", "C"),
		call("A", "SiblingTransition", "C"),
	}}

	m, stats, err := Run(context.Background(), p)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	want := []statemap.Edge{
		{Source: "C", Kind: transition.Sibling, Target: "A"},
		{Source: "A", Kind: transition.Inner, Target: "B"},
		{Source: "C", Kind: transition.No, Target: "C"},
		{Source: "A", Kind: transition.Sibling, Target: "C"},
	}
	if got := m.Edges(); !slices.Equal(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
	if stats.Matches != 5 || stats.Unbound != 1 {
		t.Errorf("Stats = %+v, want 5 matches and 1 unbound", stats)
	}
}

func TestRunFatalReturnsNoMap(t *testing.T) {
	p := &facts.JSONProvider{Matches: []facts.Match{
		call("A", "SiblingTransition", "B"),
		call("A", "Teleport", "C"),
		call("A", "InnerTransition", "D"),
	}}

	m, stats, err := Run(context.Background(), p)
	if !hsmerrors.Is(err, hsmerrors.ErrCodeUnclassifiable) {
		t.Fatalf("Run() error = %v, want %v", err, hsmerrors.ErrCodeUnclassifiable)
	}
	if m != nil {
		t.Error("Run() should not return a partial map")
	}
	if stats.Matches != 2 {
		t.Errorf("Stats.Matches = %d, want 2 (walk stops at the fatal match)", stats.Matches)
	}
}

func TestOptions(t *testing.T) {
	c, err := transition.NewClassifier([]transition.Rule{
		{Fragment: "goto", Kind: transition.Sibling},
		{Fragment: "stay", Kind: transition.No},
	})
	if err != nil {
		t.Fatalf("NewClassifier() error: %v", err)
	}

	x := New(WithClassifier(c), WithNormalizer(names.New([]string{"class "})), WithClassifier(nil))
	if err := x.Handle(call("A", "goto", "class B")); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}

	want := statemap.Edge{Source: "A", Kind: transition.Sibling, Target: "B"}
	if got := x.Map().Edges()[0]; got != want {
		t.Errorf("edge = %v, want %v", got, want)
	}
}
