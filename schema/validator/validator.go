// Package validator implements component D: the closed set of semantic
// invariant checks run over a resolved Program, producing a List of
// diagnostics rather than ever panicking.
package validator

import (
	"fmt"

	"github.com/kcmvp/repack/apperr"
	"github.com/kcmvp/repack/schema/ast"
	"github.com/samber/lo"
)

// Validate runs every invariant check over the program and returns the
// accumulated, stably-sorted diagnostics. An empty, non-nil list means the
// program is valid.
func Validate(program *ast.Program) apperr.List {
	var errs apperr.List

	names := map[string]bool{}
	for _, obj := range program.Objects {
		if names[obj.Name] {
			errs = append(errs, apperr.ForObject(apperr.DuplicateFieldNames, obj.Name,
				"object name declared more than once").WithOrder(obj.Order()))
		}
		names[obj.Name] = true
	}

	for _, obj := range program.Objects {
		validateObject(program, obj, &errs)
	}

	errs = append(errs, detectCycles(program)...)

	return errs.Sorted()
}

func validateObject(program *ast.Program, obj ast.Object, errs *apperr.List) {
	if len(obj.Fields) == 0 {
		*errs = append(*errs, apperr.ForObject(apperr.NoFields, obj.Name,
			"object declares no fields").WithOrder(obj.Order()))
	}

	switch obj.Type {
	case ast.Record:
		if obj.TableNameOrEmpty() == "" {
			*errs = append(*errs, apperr.ForObject(apperr.TableNameRequired, obj.Name,
				"records must declare @table_name").WithOrder(obj.Order()))
		}
		validatePrimaryKey(obj, errs)
	case ast.Struct:
		if obj.TableNameOrEmpty() != "" {
			*errs = append(*errs, apperr.ForObject(apperr.TableNameNotAllowed, obj.Name,
				"structs cannot declare @table_name").WithOrder(obj.Order()))
		}
		validateStructConstraints(obj, errs)
	default:
		*errs = append(*errs, apperr.ForObject(apperr.UnsupportedObjectType, obj.Name,
			"object has no recognized kind").WithOrder(obj.Order()))
	}

	if parent, ok := obj.Inherits.Get(); ok {
		if _, exists := program.ObjectByName(parent).Get(); !exists {
			*errs = append(*errs, apperr.ForObject(apperr.CannotInherit, obj.Name,
				fmt.Sprintf("parent %q is not defined", parent)).WithOrder(obj.Order()))
		}
	}

	seenFields := map[string]bool{}
	for _, f := range obj.Fields {
		if seenFields[f.Name] {
			*errs = append(*errs, apperr.ForField(apperr.DuplicateFieldNames, obj.Name, f.Name,
				"field declared more than once").WithOrder(f.Order()))
		}
		seenFields[f.Name] = true
		validateField(program, obj, f, errs)
	}

	for _, j := range obj.Joins {
		if _, ok := program.ObjectByName(j.ForeignEntity).Get(); !ok {
			*errs = append(*errs, apperr.ForObject(apperr.UnknownObject, obj.Name,
				fmt.Sprintf("join %q references undefined object %q", j.Name, j.ForeignEntity)).WithOrder(obj.Order()))
		}
	}
}

// validatePrimaryKey enforces that a record's declared primary key field (a
// field carrying a db:primary_key function) is never Optional.
func validatePrimaryKey(obj ast.Object, errs *apperr.List) {
	for _, f := range obj.Fields {
		if f.HasFunction("db", "primary_key") && f.Optional {
			*errs = append(*errs, apperr.ForField(apperr.PrimaryKeyOptional, obj.Name, f.Name,
				"primary key fields cannot be optional").WithOrder(f.Order()))
		}
	}
}

// validateStructConstraints enforces the record-only constructs forbidden on
// plain structs: joins, queries, and reuse markers.
func validateStructConstraints(obj ast.Object, errs *apperr.List) {
	if len(obj.Joins) > 0 {
		*errs = append(*errs, apperr.ForObject(apperr.UnsupportedObjectType, obj.Name,
			"structs cannot declare joins").WithOrder(obj.Order()))
	}
	if len(obj.Queries) > 0 {
		*errs = append(*errs, apperr.ForObject(apperr.UnsupportedObjectType, obj.Name,
			"structs cannot declare queries").WithOrder(obj.Order()))
	}
	if obj.ReuseAll || len(obj.ReuseExclude) > 0 {
		*errs = append(*errs, apperr.ForObject(apperr.CannotReuse, obj.Name,
			"structs cannot use reuse markers").WithOrder(obj.Order()))
	}
}

func validateField(program *ast.Program, obj ast.Object, f ast.Field, errs *apperr.List) {
	if !f.Resolved() {
		// Already reported by the resolver as TypeNotResolved; do not double
		// report here.
		return
	}
	ft, _ := f.FieldType.Get()
	if custom, ok := ft.Custom.Get(); ok {
		switch custom.Kind {
		case ast.KindObject:
			target, exists := program.ObjectByName(custom.Name).Get()
			if !exists {
				*errs = append(*errs, apperr.ForField(apperr.CustomTypeNotDefined, obj.Name, f.Name,
					fmt.Sprintf("type %q is not defined", custom.Name)).WithOrder(f.Order()))
				return
			}
			if obj.Type == ast.Record && target.Type == ast.Struct && f.Location.Reference == ast.Local {
				*errs = append(*errs, apperr.ForField(apperr.CustomTypeNotAllowed, obj.Name, f.Name,
					"records cannot embed a struct field directly; use ref()").WithOrder(f.Order()))
			}
		case ast.KindEnum:
			if _, exists := program.EnumByName(custom.Name).Get(); !exists {
				*errs = append(*errs, apperr.ForField(apperr.CustomTypeNotDefined, obj.Name, f.Name,
					fmt.Sprintf("enum %q is not defined", custom.Name)).WithOrder(f.Order()))
			}
		}
	}

	if f.Location.Reference != ast.Local && f.Location.ObjectOrJoinName == "" {
		*errs = append(*errs, apperr.ForField(apperr.ExpectedReference, obj.Name, f.Name,
			"reference field is missing its target").WithOrder(f.Order()))
	}
}

// detectCycles finds every simple cycle in the object dependency graph via a
// bounded BFS enumeration of simple paths from each object back to itself,
// reporting one CircularDependency diagnostic per start object and path, so a
// cycle through N objects is reported once from each of them.
func detectCycles(program *ast.Program) apperr.List {
	var errs apperr.List
	reported := map[string]bool{}

	type path struct {
		node string
		seen []string
	}

	for _, start := range program.Objects {
		queue := []path{{node: start.Name, seen: []string{start.Name}}}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]

			obj, ok := program.ObjectByName(cur.node).Get()
			if !ok {
				continue
			}
			for _, dep := range obj.DependsOn() {
				if dep == start.Name {
					key := lo.Reduce(cur.seen, func(acc string, n string, _ int) string {
						return acc + ">" + n
					}, "")
					if !reported[key] {
						reported[key] = true
						errs = append(errs, apperr.ForObject(apperr.CircularDependency, start.Name,
							fmt.Sprintf("cycle: %v -> %s", cur.seen, start.Name)).WithOrder(start.Order()))
					}
					continue
				}
				if lo.Contains(cur.seen, dep) {
					continue // a cycle not involving start; reported when start==dep
				}
				queue = append(queue, path{node: dep, seen: append(append([]string{}, cur.seen...), dep)})
			}
		}
	}
	return errs
}
