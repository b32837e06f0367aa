// Package output implements component I: per-file output buffers for a
// single render profile, category/exclude filtering, and the final flush to
// a filesystem.
package output

import (
	"path/filepath"
	"sort"

	"github.com/kcmvp/repack/schema/ast"
	"github.com/spf13/afero"
	"github.com/tidwall/match"
)

// Description owns the output for one profile: a buffer per generated file,
// plus the object/enum filtering rules declared on the profile's Output.
type Description struct {
	Output ast.Output

	buffers map[string]*TokenBuffer
	order   []string
}

// NewDescription builds an empty Description for the given profile config.
func NewDescription(out ast.Output) *Description {
	return &Description{Output: out, buffers: map[string]*TokenBuffer{}}
}

// File returns the named buffer, creating it (and recording its first-seen
// order) on first use.
func (d *Description) File(name string) *TokenBuffer {
	if buf, ok := d.buffers[name]; ok {
		return buf
	}
	buf := NewTokenBuffer()
	d.buffers[name] = buf
	d.order = append(d.order, name)
	return buf
}

// Objects filters program objects down to the ones this profile should
// render: included by Categories (when non-empty, an object must carry at
// least one) and not matched by any Exclude glob pattern against its name.
func (d *Description) Objects(program *ast.Program) []ast.Object {
	var out []ast.Object
	for _, obj := range program.Objects {
		if d.excluded(obj.Name) {
			continue
		}
		if !d.included(obj.Categories) {
			continue
		}
		out = append(out, obj)
	}
	return out
}

// Enums filters program enums the same way Objects filters records/structs.
func (d *Description) Enums(program *ast.Program) []ast.Enum {
	var out []ast.Enum
	for _, e := range program.Enums {
		if d.excluded(e.Name) {
			continue
		}
		if !d.included(e.Categories) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (d *Description) included(categories []string) bool {
	if len(d.Output.Categories) == 0 {
		return true
	}
	for _, want := range d.Output.Categories {
		for _, have := range categories {
			if want == have {
				return true
			}
		}
	}
	return false
}

func (d *Description) excluded(name string) bool {
	for _, pattern := range d.Output.Exclude {
		if match.Match(name, pattern) {
			return true
		}
	}
	return false
}

// Flush writes every buffer, empty ones included, to fs, rooted at the profile's
// declared location (or the current directory if unset).
func (d *Description) Flush(fs afero.Fs) error {
	root := d.Output.Location.OrElse(".")
	if err := fs.MkdirAll(root, 0o755); err != nil {
		return err
	}
	names := make([]string, len(d.order))
	copy(names, d.order)
	sort.Strings(names)
	for _, name := range names {
		buf := d.buffers[name]
		path := filepath.Join(root, name)
		if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := afero.WriteFile(fs, path, []byte(buf.Content()), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// Files lists the names of the files this description holds buffers for, in
// the order each was first used.
func (d *Description) Files() []string {
	return d.order
}
