// Package compdb reads a JSON compilation database (compile_commands.json).
//
// Only the source file list is used: hsmviz parses sources without running a
// compiler, so the command lines are kept but never interpreted beyond
// recording them.
package compdb

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/matzehuels/hsmviz/pkg/errors"
)

// Filename is the conventional name of a compilation database.
const Filename = "compile_commands.json"

// Entry is one translation unit.
type Entry struct {
	Directory string   `json:"directory"`
	File      string   `json:"file"`
	Command   string   `json:"command,omitempty"`
	Arguments []string `json:"arguments,omitempty"`
	Output    string   `json:"output,omitempty"`
}

// Path returns the entry's file as an absolute, cleaned path. Relative files
// are resolved against the entry's directory.
func (e Entry) Path() string {
	p := e.File
	if !filepath.IsAbs(p) && e.Directory != "" {
		p = filepath.Join(e.Directory, p)
	}
	return filepath.Clean(p)
}

// Database is a loaded compilation database.
type Database struct {
	Entries []Entry
}

// Load reads the compilation database at path. If path is a directory,
// Filename inside it is read.
func Load(path string) (*Database, error) {
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		path = filepath.Join(path, Filename)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "compilation database %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read compilation database %s", path)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode compilation database %s", path)
	}
	for i, e := range entries {
		if e.File == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "compilation database %s: entry %d has no file", path, i)
		}
	}
	return &Database{Entries: entries}, nil
}

// Files returns the distinct source files in database order.
func (db *Database) Files() []string {
	seen := make(map[string]bool, len(db.Entries))
	files := make([]string, 0, len(db.Entries))
	for _, e := range db.Entries {
		p := e.Path()
		if seen[p] {
			continue
		}
		seen[p] = true
		files = append(files, p)
	}
	return files
}
