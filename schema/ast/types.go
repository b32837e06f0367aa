// Package ast holds the data model parsed, resolved, and validated schema
// files are turned into: core types, fields, objects (records/structs),
// enums, output targets, and the root Program aggregate.
package ast

import "github.com/samber/mo"

// CoreType is the closed set of primitive types the lexer recognizes in
// field-type position.
type CoreType int

const (
	CoreString CoreType = iota + 1
	CoreInt32
	CoreInt64
	CoreFloat64
	CoreBoolean
	CoreDateTime
	CoreUUID
	CoreBytes
)

var coreTypeSpellings = map[string]CoreType{
	"string":   CoreString,
	"int32":    CoreInt32,
	"int64":    CoreInt64,
	"float64":  CoreFloat64,
	"boolean":  CoreBoolean,
	"datetime": CoreDateTime,
	"uuid":     CoreUUID,
	"bytes":    CoreBytes,
}

// CoreTypeFromString recognizes a core type spelling, returning mo.None if
// the string is not one of the eight built-in primitives.
func CoreTypeFromString(s string) mo.Option[CoreType] {
	if t, ok := coreTypeSpellings[s]; ok {
		return mo.Some(t)
	}
	return mo.None[CoreType]()
}

// String renders the canonical spelling of a core type.
func (c CoreType) String() string {
	for spelling, t := range coreTypeSpellings {
		if t == c {
			return spelling
		}
	}
	return "unknown"
}

// CustomKind distinguishes the two things a Custom field type may resolve to.
type CustomKind int

const (
	KindObject CustomKind = iota + 1
	KindEnum
)

// FieldType is either a built-in Core type or an unresolved-at-parse-time
// Custom reference to an object or enum, filled in by the resolver.
type FieldType struct {
	Core   mo.Option[CoreType]
	Custom mo.Option[CustomRef]
}

// CustomRef names a custom type reference and (once resolved) its kind.
type CustomRef struct {
	Name string
	Kind CustomKind
}

// IsCore reports whether this FieldType is a built-in primitive.
func (f FieldType) IsCore() bool { return f.Core.IsPresent() }

// IsCustom reports whether this FieldType references another object/enum.
func (f FieldType) IsCustom() bool { return f.Custom.IsPresent() }

// String renders the field type's name, core spelling or custom type name.
func (f FieldType) String() string {
	if c, ok := f.Core.Get(); ok {
		return c.String()
	}
	if c, ok := f.Custom.Get(); ok {
		return c.Name
	}
	return ""
}

func CoreFieldType(c CoreType) FieldType {
	return FieldType{Core: mo.Some(c)}
}

func CustomFieldType(name string, kind CustomKind) FieldType {
	return FieldType{Custom: mo.Some(CustomRef{Name: name, Kind: kind})}
}

// FieldReferenceKind categorizes how a field's data is located.
type FieldReferenceKind int

const (
	Local FieldReferenceKind = iota + 1
	RefFieldType
	RefImplicitJoin
	RefExplicitJoin
)

// FieldLocation identifies where a field's value originates.
type FieldLocation struct {
	Reference FieldReferenceKind
	// ObjectOrJoinName holds the foreign object name for RefFieldType, the
	// local join-field name for RefImplicitJoin, or the join name for
	// RefExplicitJoin. Empty for Local.
	ObjectOrJoinName string
	// TargetField is the field name on the other side of the reference.
	TargetField string
}

// FieldFunction is a namespaced, named annotation on a field or object, e.g.
// db:primary_key or db:default(now()).
type FieldFunction struct {
	Namespace string
	Name      string
	Args      []string
}

// Field describes a single property of an object.
type Field struct {
	Name            string
	FieldTypeString string
	FieldType       mo.Option[FieldType]
	Optional        bool
	Array           bool
	Functions       []FieldFunction
	Location        FieldLocation
	// Alias, when non-empty, is the name a `+ Object.Field as Alias` inline
	// projected the field under; Name already reflects it.
	Alias string
	// order is the field's declaration position within its object, used for
	// deterministic output and error sorting.
	order int
}

// Order returns the field's declaration index within its enclosing object.
func (f Field) Order() int { return f.order }

// WithOrder returns a copy of f with its declaration order set.
func (f Field) WithOrder(order int) Field {
	f.order = order
	return f
}

// Resolved reports whether the field's type has been filled in by the
// resolver.
func (f Field) Resolved() bool {
	return f.FieldType.IsPresent()
}

// FunctionsInNamespace returns every function on this field in the given
// namespace (e.g. "db").
func (f Field) FunctionsInNamespace(ns string) []FieldFunction {
	var out []FieldFunction
	for _, fn := range f.Functions {
		if fn.Namespace == ns {
			out = append(out, fn)
		}
	}
	return out
}

// HasFunction reports whether the field declares a function with the given
// namespace and name.
func (f Field) HasFunction(ns, name string) bool {
	for _, fn := range f.Functions {
		if fn.Namespace == ns && fn.Name == name {
			return true
		}
	}
	return false
}

// ObjectType distinguishes database-backed records from plain struct
// aggregates.
type ObjectType int

const (
	Record ObjectType = iota + 1
	Struct
)

// ObjectJoin is a reusable named JOIN declared on a record.
type ObjectJoin struct {
	Name          string
	ForeignEntity string
	LocalField    string
	ForeignField  string
	Condition     string
}

// QueryArg is a single named, typed argument to a query.
type QueryArg struct {
	Name string
	Type string
}

// QueryReturn is the cardinality a query yields.
type QueryReturn int

const (
	ReturnNone QueryReturn = iota
	ReturnOne
	ReturnMany
)

// Query is a named, opaque SQL-ish statement attached to a record.
type Query struct {
	Name    string
	Args    []QueryArg
	Body    string
	Returns QueryReturn
}

// Object is the umbrella type for both records (persistent) and structs
// (plain aggregates).
type Object struct {
	Type         ObjectType
	Name         string
	Fields       []Field
	Inherits     mo.Option[string]
	Categories   []string
	TableName    mo.Option[string]
	UseSnippets  []string
	Functions    []FieldFunction
	Queries      []Query
	Joins        []ObjectJoin
	ReuseAll     bool
	ReuseExclude []string
	// order is the object's declaration position in the source, used for
	// stable tie-breaking in dependency ordering.
	order int
}

func (o Object) Order() int { return o.order }

func (o Object) WithOrder(order int) Object {
	o.order = order
	return o
}

// TableNameOrEmpty returns the declared table name, or "" for structs/records
// that have none (a validation error in the latter case).
func (o Object) TableNameOrEmpty() string {
	return o.TableName.OrEmpty()
}

// DependsOn lists the names of objects this object references, via field
// references, inheritance, or joins — used to build the dependency graph.
func (o Object) DependsOn() []string {
	var deps []string
	seen := map[string]bool{}
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		deps = append(deps, name)
	}
	if parent, ok := o.Inherits.Get(); ok {
		add(parent)
	}
	for _, f := range o.Fields {
		if ft, ok := f.FieldType.Get(); ok {
			if custom, ok := ft.Custom.Get(); ok && custom.Kind == KindObject {
				add(custom.Name)
			}
		}
		if f.Location.Reference == RefFieldType {
			add(f.Location.ObjectOrJoinName)
		}
	}
	for _, j := range o.Joins {
		add(j.ForeignEntity)
	}
	return deps
}

// Enum is a fixed set of named cases, each with an optional explicit value.
type Enum struct {
	Name       string
	Categories []string
	Options    []EnumCase
	order      int
}

func (e Enum) Order() int          { return e.order }
func (e Enum) WithOrder(o int) Enum { e.order = o; return e }

// EnumCase is a single enum option; Value defaults to Name when absent.
type EnumCase struct {
	Name  string
	Value mo.Option[string]
}

// ValueOrName returns the case's explicit value, defaulting to its name.
func (c EnumCase) ValueOrName() string {
	return c.Value.OrElse(c.Name)
}

// Output describes one named generation target: a blueprint profile,
// optional location, category/exclude filters, and a free-form option bag.
type Output struct {
	Profile    string
	Location   mo.Option[string]
	Categories []string
	Exclude    []string
	Options    map[string]string
}

// BoolOption reads a typed boolean option from the bag, defaulting if absent
// or not "true"/"false".
func (o Output) BoolOption(key string, def bool) bool {
	switch o.Options[key] {
	case "true":
		return true
	case "false":
		return false
	}
	return def
}

// Snippet is a named, reusable bundle of fields declared at the top level
// and spliced into objects via `! NAME`.
type Snippet struct {
	Name   string
	Fields []Field
}

// Configuration is a peripheral, opaque named key/value block.
type Configuration struct {
	Name    string
	Entries map[string]string
}

// Instance is a peripheral, opaque named instantiation of a configuration.
type Instance struct {
	Name    string
	Of      string
	Entries map[string]string
}

// Import records a schema-level `import "path"` statement. The core never
// resolves cross-file schemas; it is carried for round-tripping only.
type Import struct {
	Path string
}

// Program is the root aggregate: every entity parsed from a schema, with
// cross-references resolved and validated.
type Program struct {
	Objects        []Object
	Enums          []Enum
	Outputs        []Output
	Configurations []Configuration
	Instances      []Instance
	Snippets       []Snippet
	Imports        []Import
}

// ObjectByName finds an object by name, or mo.None if it doesn't exist.
func (p *Program) ObjectByName(name string) mo.Option[*Object] {
	for i := range p.Objects {
		if p.Objects[i].Name == name {
			return mo.Some(&p.Objects[i])
		}
	}
	return mo.None[*Object]()
}

// EnumByName finds an enum by name, or mo.None if it doesn't exist.
func (p *Program) EnumByName(name string) mo.Option[*Enum] {
	for i := range p.Enums {
		if p.Enums[i].Name == name {
			return mo.Some(&p.Enums[i])
		}
	}
	return mo.None[*Enum]()
}

// SnippetByName finds a top-level snippet by name.
func (p *Program) SnippetByName(name string) mo.Option[*Snippet] {
	for i := range p.Snippets {
		if p.Snippets[i].Name == name {
			return mo.Some(&p.Snippets[i])
		}
	}
	return mo.None[*Snippet]()
}
