// Package apperr implements the generator's error model (component J):
// a single, closed set of error kinds carrying optional object/field/target
// context, formatted deterministically for terminal output.
package apperr

import (
	"fmt"
	"strings"
)

// Kind is the closed set of error kinds the generator can produce.
type Kind int

const (
	CannotReadFile Kind = iota + 1
	CannotWriteFile
	SyntaxError
	ParseIncomplete
	UnknownObject
	UnknownField
	UnknownBlueprint
	TypeNotResolved
	TypeNotSupported
	DuplicateFieldNames
	PrimaryKeyOptional
	TableNameRequired
	TableNameNotAllowed
	NoFields
	CannotInherit
	CannotReuse
	CustomTypeNotAllowed
	CustomTypeNotDefined
	ManyNotAllowed
	ExpectedReference
	ExpectedArgument
	CircularDependency
	QueryInvalidSyntax
	QueryArgInvalidSyntax
	UnsupportedObjectType
	UnsupportedFieldType
)

// code returns the stable "E####" code printed in every formatted error.
func (k Kind) code() string {
	return fmt.Sprintf("E%04d", int(k))
}

func (k Kind) String() string {
	names := map[Kind]string{
		CannotReadFile:        "CannotReadFile",
		CannotWriteFile:       "CannotWriteFile",
		SyntaxError:           "SyntaxError",
		ParseIncomplete:       "ParseIncomplete",
		UnknownObject:         "UnknownObject",
		UnknownField:          "UnknownField",
		UnknownBlueprint:      "UnknownBlueprint",
		TypeNotResolved:       "TypeNotResolved",
		TypeNotSupported:      "TypeNotSupported",
		DuplicateFieldNames:   "DuplicateFieldNames",
		PrimaryKeyOptional:    "PrimaryKeyOptional",
		TableNameRequired:     "TableNameRequired",
		TableNameNotAllowed:   "TableNameNotAllowed",
		NoFields:              "NoFields",
		CannotInherit:         "CannotInherit",
		CannotReuse:           "CannotReuse",
		CustomTypeNotAllowed:  "CustomTypeNotAllowed",
		CustomTypeNotDefined:  "CustomTypeNotDefined",
		ManyNotAllowed:        "ManyNotAllowed",
		ExpectedReference:     "ExpectedReference",
		ExpectedArgument:      "ExpectedArgument",
		CircularDependency:    "CircularDependency",
		QueryInvalidSyntax:    "QueryInvalidSyntax",
		QueryArgInvalidSyntax: "QueryArgInvalidSyntax",
		UnsupportedObjectType: "UnsupportedObjectType",
		UnsupportedFieldType:  "UnsupportedFieldType",
	}
	if s, ok := names[k]; ok {
		return s
	}
	return "Unknown"
}

// Error is a single diagnostic: a kind plus the entity/field/target context
// it occurred in, and a free-form details string.
type Error struct {
	Kind       Kind
	Profile    string
	ObjectName string
	FieldName  string
	Details    string

	// order is used only to sort errors in stable, source-visitation order;
	// it is not part of the error's identity.
	order int
}

// WithOrder attaches a stable sort key (e.g. the object/field's declaration
// index) used to order a batch of errors deterministically.
func (e Error) WithOrder(order int) Error {
	e.order = order
	return e
}

func (e Error) context() string {
	var parts []string
	if e.Profile != "" {
		parts = append(parts, e.Profile)
	}
	if e.ObjectName != "" {
		parts = append(parts, e.ObjectName)
	}
	if e.FieldName != "" {
		parts = append(parts, e.FieldName)
	}
	return strings.Join(parts, ".")
}

// Error implements the standard error interface, formatting deterministically
// as "[E####] (CONTEXT) MESSAGE DETAILS".
func (e Error) Error() string {
	ctx := e.context()
	if ctx == "" {
		ctx = "-"
	}
	msg := fmt.Sprintf("[%s] (%s) %s", e.Kind.code(), ctx, e.Kind.String())
	if e.Details != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Details)
	}
	return msg
}

// New builds an Error for the given kind and details, with no entity context.
func New(kind Kind, details string) Error {
	return Error{Kind: kind, Details: details}
}

// ForObject builds an Error scoped to a single object.
func ForObject(kind Kind, objectName, details string) Error {
	return Error{Kind: kind, ObjectName: objectName, Details: details}
}

// ForField builds an Error scoped to a single object/field pair.
func ForField(kind Kind, objectName, fieldName, details string) Error {
	return Error{Kind: kind, ObjectName: objectName, FieldName: fieldName, Details: details}
}

// ForOutput builds an Error scoped to an output target (profile).
func ForOutput(kind Kind, profile, details string) Error {
	return Error{Kind: kind, Profile: profile, Details: details}
}

// List is an ordered collection of diagnostics, sorted stably by their
// attached order key (object/field source order), then by object/field name.
type List []Error

func (l List) Error() string {
	lines := make([]string, 0, len(l))
	for _, e := range l {
		lines = append(lines, e.Error())
	}
	return strings.Join(lines, "\n")
}

// Sorted returns a copy of l ordered by (order, ObjectName, FieldName).
func (l List) Sorted() List {
	out := make(List, len(l))
	copy(out, l)
	for i := 1; i < len(out); i++ {
		j := i
		for j > 0 && less(out[j], out[j-1]) {
			out[j], out[j-1] = out[j-1], out[j]
			j--
		}
	}
	return out
}

func less(a, b Error) bool {
	if a.order != b.order {
		return a.order < b.order
	}
	if a.ObjectName != b.ObjectName {
		return a.ObjectName < b.ObjectName
	}
	return a.FieldName < b.FieldName
}

// HasErrors reports whether the list contains any diagnostic.
func (l List) HasErrors() bool {
	return len(l) > 0
}
