package pipeline

import (
	"path/filepath"

	"github.com/matzehuels/hsmviz/pkg/compdb"
	"github.com/matzehuels/hsmviz/pkg/config"
	"github.com/matzehuels/hsmviz/pkg/errors"
	"github.com/matzehuels/hsmviz/pkg/facts"
	"github.com/matzehuels/hsmviz/pkg/facts/cpp"
)

// Source describes where program facts come from. Exactly one of FactsFile
// or source files (given directly or through BuildPath) must be set.
type Source struct {
	Files     []string // source files, in analysis order
	BuildPath string   // directory or file of compile_commands.json
	FactsFile string   // recorded facts to replay instead of parsing

	Library        config.Library
	FollowIncludes bool
	Jobs           int
}

// NewProvider builds the fact provider for src. When a compilation database
// is given without files, every file in it is analyzed in database order;
// given files must then be listed in the database.
func NewProvider(src Source) (facts.Provider, error) {
	if src.FactsFile != "" {
		if len(src.Files) > 0 || src.BuildPath != "" {
			return nil, errors.New(errors.ErrCodeUsage, "--facts cannot be combined with source files or --build-path")
		}
		p, err := facts.ImportJSON(src.FactsFile)
		if err != nil {
			return nil, err
		}
		return p, nil
	}

	files := src.Files
	if src.BuildPath != "" {
		db, err := compdb.Load(src.BuildPath)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			files = db.Files()
		} else if err := checkListed(db, files); err != nil {
			return nil, err
		}
	}
	if len(files) == 0 {
		return nil, errors.New(errors.ErrCodeUsage, "no source files given")
	}

	return cpp.New(files, cpp.Options{
		StateBase:      src.Library.StateBase,
		TransitionType: src.Library.TransitionType,
		FollowIncludes: src.FollowIncludes,
		Jobs:           src.Jobs,
	}), nil
}

func checkListed(db *compdb.Database, files []string) error {
	listed := make(map[string]bool, len(db.Entries))
	for _, f := range db.Files() {
		listed[f] = true
	}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "resolve %s", f)
		}
		if !listed[abs] {
			return errors.New(errors.ErrCodeInvalidInput, "%s is not in the compilation database", f)
		}
	}
	return nil
}
