// Package store implements component F: a registry of parsed blueprints
// keyed by id, seeded from the builtin set and overridable by user-supplied
// blueprint files (latest load wins).
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kcmvp/repack/apperr"
	bpast "github.com/kcmvp/repack/blueprint/ast"
	"github.com/kcmvp/repack/blueprint/parser"
	"github.com/spf13/afero"
)

// Blueprint is a single parsed, named blueprint ready for rendering.
type Blueprint struct {
	ID     string
	Name   string
	Kind   string
	Debug  bool
	Source string
	Nodes  []bpast.Node
	// Types holds this blueprint's own `<define.T>` core-type spelling
	// overrides, keyed by core type name.
	Types map[string]string
}

// Store holds every known blueprint, indexed by id.
type Store struct {
	blueprints map[string]Blueprint
}

// New returns an empty store.
func New() *Store {
	return &Store{blueprints: map[string]Blueprint{}}
}

// Register parses src and adds it under id, overwriting any blueprint
// previously registered under the same id (last registration wins — this is
// how user blueprints are allowed to shadow builtins).
func (s *Store) Register(id, src string) apperr.List {
	nodes, errs := parser.Parse(src)
	if errs.HasErrors() {
		return errs
	}

	bp := Blueprint{ID: id, Source: src, Types: map[string]string{}}
	meta := map[string]string{}
	content := make([]bpast.Node, 0, len(nodes))
	for _, n := range nodes {
		switch n.Name {
		case "meta":
			meta[n.Sub] = literalText(n.Children)
		case "define":
			bp.Types[n.Sub] = literalText(n.Children)
		default:
			content = append(content, n)
		}
	}
	bp.Nodes = content
	bp.Name = meta["name"]
	bp.Kind = meta["kind"]
	bp.Debug = meta["debug"] == "true"

	s.blueprints[id] = bp
	return nil
}

// literalText concatenates a node list's literal runs, trimmed — used to
// read the plain-text body of a `<meta.*>`/`<define.*>` block.
func literalText(nodes []bpast.Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		if n.IsLiteral() {
			sb.WriteString(n.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}

// Get looks up a blueprint by id.
func (s *Store) Get(id string) (Blueprint, bool) {
	bp, ok := s.blueprints[id]
	return bp, ok
}

// IDs returns every registered blueprint id, for `repack blueprints list`.
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.blueprints))
	for id := range s.blueprints {
		ids = append(ids, id)
	}
	return ids
}

// LoadDir registers every ".bp" file found directly under dir (via the given
// filesystem), using the file's base name without extension as its id. This
// is how user-supplied blueprints override or extend the builtin set.
func (s *Store) LoadDir(fs afero.Fs, dir string) apperr.List {
	var errs apperr.List
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		errs = append(errs, apperr.New(apperr.CannotReadFile, fmt.Sprintf("%s: %v", dir, err)))
		return errs
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".bp" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			errs = append(errs, apperr.New(apperr.CannotReadFile, fmt.Sprintf("%s: %v", path, err)))
			continue
		}
		id := entry.Name()[:len(entry.Name())-len(".bp")]
		if regErrs := s.Register(id, string(data)); regErrs.HasErrors() {
			errs = append(errs, regErrs...)
		}
	}
	return errs
}
