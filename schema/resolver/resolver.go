// Package resolver implements component C: fixed-point resolution of field
// types and field locations against the rest of the program, run after
// parsing and before validation.
package resolver

import (
	"fmt"

	"github.com/kcmvp/repack/apperr"
	"github.com/kcmvp/repack/schema/ast"
	"github.com/samber/mo"
)

// Resolve fills in every field's FieldType (core or custom) and expands
// snippet uses and reuse markers, iterating to a fixed point bounded by the
// total field count across the program (each pass resolves at least one
// previously-unresolved field, or the loop terminates early).
func Resolve(program *ast.Program) apperr.List {
	var errs apperr.List

	expandSnippets(program, &errs)
	expandReuse(program, &errs)

	totalFields := 0
	for _, obj := range program.Objects {
		totalFields += len(obj.Fields)
	}

	for pass := 0; pass <= totalFields; pass++ {
		progressed := false
		for oi := range program.Objects {
			obj := &program.Objects[oi]
			for fi := range obj.Fields {
				field := &obj.Fields[fi]
				if field.Resolved() {
					continue
				}
				if resolveField(program, obj, field) {
					progressed = true
				}
			}
		}
		if !progressed {
			break
		}
	}

	for oi := range program.Objects {
		obj := &program.Objects[oi]
		for fi := range obj.Fields {
			field := &obj.Fields[fi]
			if !field.Resolved() {
				errs = append(errs, apperr.ForField(apperr.TypeNotResolved, obj.Name, field.Name,
					fmt.Sprintf("type %q could not be resolved", field.FieldTypeString)).WithOrder(field.Order()))
			}
		}
	}

	return errs
}

// resolveField attempts to fill in field.FieldType from either its declared
// type string (core or custom) or, for ref/from/with fields, the type of the
// field it ultimately points at. Returns true if it made progress.
func resolveField(program *ast.Program, obj *ast.Object, field *ast.Field) bool {
	switch field.Location.Reference {
	case ast.Local:
		if core, ok := ast.CoreTypeFromString(field.FieldTypeString).Get(); ok {
			field.FieldType = mo.Some(ast.CoreFieldType(core))
			return true
		}
		if target, ok := program.ObjectByName(field.FieldTypeString).Get(); ok {
			field.FieldType = mo.Some(ast.CustomFieldType(target.Name, ast.KindObject))
			return true
		}
		if target, ok := program.EnumByName(field.FieldTypeString).Get(); ok {
			field.FieldType = mo.Some(ast.CustomFieldType(target.Name, ast.KindEnum))
			return true
		}
		return false

	case ast.RefFieldType:
		target, ok := program.ObjectByName(field.Location.ObjectOrJoinName).Get()
		if !ok {
			return false
		}
		for _, tf := range target.Fields {
			if tf.Name == field.Location.TargetField && tf.Resolved() {
				field.FieldType = tf.FieldType
				return true
			}
		}
		return false

	case ast.RefImplicitJoin, ast.RefExplicitJoin:
		// The join partner's schema is not modeled locally (it lives in
		// another object reached via ObjectOrJoinName as a join name, not a
		// direct object reference); resolve against the join's declared
		// foreign entity when present on this object.
		for _, j := range obj.Joins {
			if j.Name == field.Location.ObjectOrJoinName || field.Location.Reference == ast.RefImplicitJoin {
				if target, ok := program.ObjectByName(j.ForeignEntity).Get(); ok {
					for _, tf := range target.Fields {
						if tf.Name == field.Location.TargetField && tf.Resolved() {
							field.FieldType = tf.FieldType
							return true
						}
					}
				}
			}
		}
		return false
	}
	return false
}

// expandSnippets appends each used snippet's fields, in the snippet's own
// declaration order, after the fields of the objects that declare `! NAME`.
// A snippet that doesn't exist is skipped and reported as UnknownObject.
func expandSnippets(program *ast.Program, errs *apperr.List) {
	for oi := range program.Objects {
		obj := &program.Objects[oi]
		for _, name := range obj.UseSnippets {
			snip, ok := program.SnippetByName(name).Get()
			if !ok {
				*errs = append(*errs, apperr.ForObject(apperr.UnknownObject, obj.Name,
					fmt.Sprintf("snippet %q is not defined", name)).WithOrder(obj.Order()))
				continue
			}
			base := len(obj.Fields)
			for i, f := range snip.Fields {
				obj.Fields = append(obj.Fields, f.WithOrder(base+i))
			}
		}
	}
}

// expandReuse splices inherited fields forward per the `*`/`-NAME` reuse
// markers: a record with ReuseAll (and a parent) inherits every parent field
// not named in ReuseExclude, ahead of its own declared fields.
func expandReuse(program *ast.Program, errs *apperr.List) {
	for oi := range program.Objects {
		obj := &program.Objects[oi]
		if !obj.ReuseAll {
			continue
		}
		parentName, ok := obj.Inherits.Get()
		if !ok {
			*errs = append(*errs, apperr.ForObject(apperr.CannotReuse, obj.Name,
				"reuse marker used without a parent"))
			continue
		}
		parent, ok := program.ObjectByName(parentName).Get()
		if !ok {
			*errs = append(*errs, apperr.ForObject(apperr.CannotInherit, obj.Name,
				fmt.Sprintf("parent %q is not defined", parentName)))
			continue
		}
		excluded := map[string]bool{}
		for _, n := range obj.ReuseExclude {
			excluded[n] = true
		}
		var inherited []ast.Field
		for _, pf := range parent.Fields {
			if !excluded[pf.Name] {
				inherited = append(inherited, pf)
			}
		}
		obj.Fields = append(inherited, obj.Fields...)
		for i := range obj.Fields {
			obj.Fields[i] = obj.Fields[i].WithOrder(i)
		}
	}
}
