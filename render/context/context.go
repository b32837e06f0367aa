// Package context implements component G: the hierarchical, value-like
// execution context a blueprint renders against. Every "with" derivation
// returns a new, independent copy — children never observe mutations a
// sibling makes to its own derived context.
package context

import (
	"github.com/kcmvp/repack/schema/ast"
)

// Scope names which layer of the hierarchy a Context currently represents.
type Scope int

const (
	ScopeGlobal Scope = iota
	ScopeObject
	ScopeField
	ScopeEnum
	ScopeCase
	ScopeJoin
	ScopeArg
)

// Context is copied, never mutated, on every derivation: each with* method
// returns a fresh value carrying the parent's data plus its own addition.
type Context struct {
	Scope Scope

	Program *ast.Program

	// Output is the output target driving this render pass, consulted by
	// `<if.opt:NAME>`/`<ifn.opt:NAME>` to read its free-form option bag.
	Output ast.Output

	// Objects and Enums are the pre-filtered (category/exclude applied) sets
	// a top-level <each.object>/<each.enum> directive iterates.
	Objects []ast.Object
	Enums   []ast.Enum

	Object *ast.Object
	Field  *ast.Field
	Enum   *ast.Enum
	Case   *ast.EnumCase
	Join   *ast.ObjectJoin
	Arg    string

	// Index and Last describe this context's position within the nearest
	// enclosing <each.*> loop, consulted by the <sep/> directive.
	Index int
	Last  bool

	// TypeMaps holds named (e.g. "go", "ts", "postgres") core/custom type spelling
	// overrides, consulted by the <link.NAME/> directive.
	TypeMaps map[string]map[string]string

	// BlueprintTypes holds the active blueprint's own `<define.T>` overrides
	// (core type name -> rendered spelling), declared inline in the
	// blueprint file itself rather than sourced from drivers.json. Consulted
	// ahead of TypeMaps, so a blueprint's own declarations win.
	BlueprintTypes map[string]string
}

// Global builds the root context for a render pass.
func Global(program *ast.Program, typeMaps map[string]map[string]string, out ast.Output, blueprintTypes map[string]string) Context {
	return Context{Scope: ScopeGlobal, Program: program, TypeMaps: typeMaps, Output: out, BlueprintTypes: blueprintTypes}
}

// WithObject derives a child context scoped to a single object.
func (c Context) WithObject(obj *ast.Object) Context {
	next := c
	next.Scope = ScopeObject
	next.Object = obj
	return next
}

// WithField derives a child context scoped to a single field of the current
// object.
func (c Context) WithField(field *ast.Field) Context {
	next := c
	next.Scope = ScopeField
	next.Field = field
	return next
}

// WithEnum derives a child context scoped to a single enum.
func (c Context) WithEnum(e *ast.Enum) Context {
	next := c
	next.Scope = ScopeEnum
	next.Enum = e
	return next
}

// WithCase derives a child context scoped to a single enum case.
func (c Context) WithCase(ec *ast.EnumCase) Context {
	next := c
	next.Scope = ScopeCase
	next.Case = ec
	return next
}

// WithJoin derives a child context scoped to a single object join.
func (c Context) WithJoin(j *ast.ObjectJoin) Context {
	next := c
	next.Scope = ScopeJoin
	next.Join = j
	return next
}

// WithArg derives a child context scoped to a single function argument
// value.
func (c Context) WithArg(arg string) Context {
	next := c
	next.Scope = ScopeArg
	next.Arg = arg
	return next
}

// Variable resolves a dotted variable name (e.g. "object.name", "field.type")
// against whichever scopes are populated. Returns "" if the variable is
// unknown in the current context, rather than erroring — an unresolved
// variable renders as empty text, matching the original's permissive
// substitution model.
func (c Context) Variable(name string) string {
	switch name {
	case "object.name":
		if c.Object != nil {
			return c.Object.Name
		}
	case "object.table":
		if c.Object != nil {
			return c.Object.TableNameOrEmpty()
		}
	case "field.name":
		if c.Field != nil {
			return c.Field.Name
		}
	case "field.type":
		if c.Field != nil {
			if ft, ok := c.Field.FieldType.Get(); ok {
				return ft.String()
			}
			return c.Field.FieldTypeString
		}
	case "field.reftable":
		if c.Field != nil && c.Program != nil {
			if target, ok := c.Program.ObjectByName(c.Field.Location.ObjectOrJoinName).Get(); ok {
				return target.TableNameOrEmpty()
			}
		}
	case "field.reffield":
		if c.Field != nil {
			return c.Field.Location.TargetField
		}
	case "enum.name":
		if c.Enum != nil {
			return c.Enum.Name
		}
	case "case.name":
		if c.Case != nil {
			return c.Case.Name
		}
	case "case.value":
		if c.Case != nil {
			return c.Case.ValueOrName()
		}
	case "join.name":
		if c.Join != nil {
			return c.Join.Name
		}
	case "join.foreign":
		if c.Join != nil {
			return c.Join.ForeignEntity
		}
	case "join.local":
		if c.Join != nil {
			return c.Join.LocalField
		}
	case "join.foreignfield":
		if c.Join != nil {
			return c.Join.ForeignField
		}
	case "arg.value":
		return c.Arg
	}
	return ""
}
