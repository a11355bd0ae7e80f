// Package cpp is a program-fact provider for C++ sources built on tree-sitter.
//
// The provider does not compile anything. It parses each file on its own,
// without a preprocessor, and approximates the semantic query "calls returning
// the transition type made inside a class derived from the state base" with
// syntax:
//
//   - Pass 1 parses every input (and, with [Options.FollowIncludes], every
//     quoted #include it can find next to the including file) and indexes all
//     class and struct definitions by qualified name, together with their base
//     lists and the return types of declared functions.
//   - A class is a state if one of its bases is the state base, or resolves
//     to an indexed class that is a state. Bases that cannot be resolved match
//     the state base by unqualified name, so "using namespace hsm" works.
//   - Pass 2 walks the bodies of state classes, including out-of-line member
//     definitions such as "Transition On::GetTransition() { ... }", and emits
//     one match per call to a transition factory. A function declared in a
//     parsed file is a factory only if it returns the transition type;
//     undeclared names are factories if they contain the transition type's
//     unqualified name.
//
// Template arguments of factory calls and class specializations are resolved
// against the index, so "SiblingTransition<Off>()" inside namespace app yields
// target "app::Off". Primary class templates are named after their
// parameters ("Blink<Mode, Rate>") since instantiations are not visible
// without a compiler.
//
// Matches are emitted in input order, then source order.
package cpp

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/hsmviz/pkg/errors"
	"github.com/matzehuels/hsmviz/pkg/facts"
	"github.com/matzehuels/hsmviz/pkg/observability"
)

// Default library names.
const (
	DefaultStateBase      = "hsm::State"
	DefaultTransitionType = "hsm::Transition"
)

// Options configures a Provider.
type Options struct {
	// StateBase is the base class every state derives from.
	StateBase string
	// TransitionType is the result type of transition factories.
	TransitionType string
	// FollowIncludes also parses quoted includes found relative to the
	// including file.
	FollowIncludes bool
	// Jobs limits parallel parsing. Zero means GOMAXPROCS.
	Jobs int
}

// Provider walks C++ source files. A Provider may be walked more than once
// but not concurrently.
type Provider struct {
	files  []string
	opts   Options
	parsed []string
}

// New returns a provider over files. Empty library names in opts fall back
// to the defaults.
func New(files []string, opts Options) *Provider {
	if opts.StateBase == "" {
		opts.StateBase = DefaultStateBase
	}
	if opts.TransitionType == "" {
		opts.TransitionType = DefaultTransitionType
	}
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}
	return &Provider{files: files, opts: opts}
}

// Parsed returns the files parsed by the last Walk, inputs first and
// followed includes after them.
func (p *Provider) Parsed() []string { return p.parsed }

// Walk implements facts.Provider.
func (p *Provider) Walk(ctx context.Context, fn func(facts.Match) error) error {
	units, err := p.parse(ctx)
	if err != nil {
		return err
	}
	defer closeUnits(units)

	p.parsed = make([]string, len(units))
	for i, u := range units {
		p.parsed[i] = u.path
	}

	ix := newIndex(units, p.opts.StateBase)
	for _, s := range collectSites(units, ix, simpleName(p.opts.TransitionType)) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(s.match); err != nil {
			return err
		}
	}
	return nil
}

func (p *Provider) parse(ctx context.Context) ([]*unit, error) {
	seen := make(map[string]bool)
	var queue []string
	for _, f := range p.files {
		f = filepath.Clean(f)
		if !seen[f] {
			seen[f] = true
			queue = append(queue, f)
		}
	}

	var units []*unit
	for len(queue) > 0 {
		batch, err := p.parseBatch(ctx, queue)
		if err != nil {
			closeUnits(units)
			return nil, err
		}
		units = append(units, batch...)

		queue = nil
		if !p.opts.FollowIncludes {
			break
		}
		for _, u := range batch {
			for _, inc := range u.includes {
				path := filepath.Clean(filepath.Join(filepath.Dir(u.path), inc))
				if seen[path] {
					continue
				}
				seen[path] = true
				if fi, err := os.Stat(path); err != nil || fi.IsDir() {
					continue
				}
				queue = append(queue, path)
			}
		}
	}
	return units, nil
}

func (p *Provider) parseBatch(ctx context.Context, paths []string) ([]*unit, error) {
	results := make([]*unit, len(paths))
	transition := simpleName(p.opts.TransitionType)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(p.opts.Jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			hooks := observability.Pipeline()
			hooks.OnParseStart(gctx, path)
			start := time.Now()
			u, err := parseFile(gctx, path, transition)
			hooks.OnParseComplete(gctx, path, time.Since(start), err)
			if err != nil {
				return err
			}
			results[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		closeUnits(results)
		return nil, err
	}
	return results, nil
}

func parseFile(ctx context.Context, path, transition string) (*unit, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "source file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeParseFailed, err, "read %s", path)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(cpp.GetLanguage())

	return parseUnit(ctx, parser, path, src, transition)
}

func closeUnits(units []*unit) {
	for _, u := range units {
		if u != nil && u.tree != nil {
			u.tree.Close()
		}
	}
}

// site is a match with its position, for ordering.
type site struct {
	unit   int
	offset uint32
	match  facts.Match
}

func collectSites(units []*unit, ix *index, transition string) []site {
	// returns holds every declared function name and whether any of its
	// declarations returns the transition type.
	returns := make(map[string]bool)
	for _, u := range units {
		for name, ok := range u.functions {
			returns[name] = returns[name] || ok
		}
	}
	isFactory := func(name string) bool {
		if ok, declared := returns[name]; declared {
			return ok
		}
		return strings.Contains(name, transition)
	}

	var sites []site
	for ui, u := range units {
		for _, c := range u.classes {
			if !ix.isState(c) {
				continue
			}
			s := &scanner{unit: u, index: ui, owner: c, decl: ix.decl(c), ix: ix, isFactory: isFactory}
			s.walk(c.body)
			sites = append(sites, s.sites...)
		}
		for _, m := range u.methods {
			c := ix.lookup(m.owner, m.scope)
			if c == nil || !ix.isState(c) {
				continue
			}
			s := &scanner{unit: u, index: ui, owner: c, decl: ix.decl(c), ix: ix, isFactory: isFactory}
			s.walk(m.body)
			sites = append(sites, s.sites...)
		}
	}

	sort.SliceStable(sites, func(i, j int) bool {
		if sites[i].unit != sites[j].unit {
			return sites[i].unit < sites[j].unit
		}
		return sites[i].offset < sites[j].offset
	})
	return sites
}
