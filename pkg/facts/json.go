package facts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/hsmviz/pkg/errors"
)

// document is the JSON wire format for a match stream.
type document struct {
	Matches []Match `json:"matches"`
}

// ReadJSON decodes a match stream from r.
//
// The input must be a JSON object with a "matches" array:
//
//	{
//	  "matches": [
//	    {
//	      "state": {"name": "Idle", "qualifier": "app"},
//	      "callee": {"name": "SiblingTransition", "qualifier": "hsm",
//	                 "specialization": {"args": ["struct app::Running"]}}
//	    }
//	  ]
//	}
//
// Matches keep their document order. ReadJSON does not close r.
func ReadJSON(r io.Reader) ([]Match, error) {
	var doc document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode facts")
	}
	return doc.Matches, nil
}

// WriteJSON encodes matches as an indented JSON document that [ReadJSON]
// can read back.
func WriteJSON(matches []Match, w io.Writer) error {
	if matches == nil {
		matches = []Match{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document{Matches: matches}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes matches to a JSON file at path.
func ExportJSON(matches []Match, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(matches, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// JSONProvider replays a fixed match stream.
type JSONProvider struct {
	Matches []Match
}

// ImportJSON reads a facts file and returns a provider replaying it.
func ImportJSON(path string) (*JSONProvider, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open facts file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	matches, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &JSONProvider{Matches: matches}, nil
}

// Walk reports the stored matches in order.
func (p *JSONProvider) Walk(ctx context.Context, fn func(Match) error) error {
	for _, m := range p.Matches {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(m); err != nil {
			return err
		}
	}
	return nil
}

// Recorder wraps a provider and keeps a copy of every match it reports.
// It backs --dump-facts.
type Recorder struct {
	Provider Provider
	Matches  []Match
}

// Walk forwards to the wrapped provider, recording each match before fn sees it.
func (r *Recorder) Walk(ctx context.Context, fn func(Match) error) error {
	return r.Provider.Walk(ctx, func(m Match) error {
		r.Matches = append(r.Matches, m)
		return fn(m)
	})
}

var (
	_ Provider = (*JSONProvider)(nil)
	_ Provider = (*Recorder)(nil)
	_ Provider = ProviderFunc(nil)
)
