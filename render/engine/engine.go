// Package engine implements component H: the FlyToken-driven renderer that
// walks a parsed blueprint.ast.Node tree against a render/context.Context,
// writing through a file-routing writer into a render/output.Description.
package engine

import (
	"fmt"
	"strings"

	bpast "github.com/kcmvp/repack/blueprint/ast"
	"github.com/kcmvp/repack/render/context"
	"github.com/kcmvp/repack/render/output"
	"github.com/kcmvp/repack/schema/ast"
)

// Render runs a blueprint's directive tree against program/typeMaps for the
// given pre-filtered objects/enums, writing into desc. Objects are
// topologically sorted by dependency (join/reference/inheritance) first, so
// `<each.object>` emits dependencies before dependents and `<eachr.object>`
// the exact reverse — what a DDL blueprint needs for CREATE-before-DROP
// ordering. defaultFile is the buffer written to until the blueprint's own
// `<file NAME/>` directives (if any) switch it elsewhere.
//
// Rendering runs in the standard two passes: an import-gathering pass per
// file, then a content pass that splices each file's deduplicated, sorted
// imports at its `<imports/>` marker.
func Render(nodes []bpast.Node, program *ast.Program, objects []ast.Object, enums []ast.Enum, typeMaps map[string]map[string]string, blueprintTypes map[string]string, out ast.Output, desc *output.Description, defaultFile string) {
	base := context.Global(program, typeMaps, out, blueprintTypes)
	base.Objects = topoSort(objects)
	base.Enums = enums

	funcs := map[string]bpast.Node{}
	collectFuncs(nodes, funcs)

	collecting := newRouter(defaultFile, funcs)
	execute(nodes, base, collecting)
	resolved := map[string][]string{}
	for file, c := range collecting.collectors {
		resolved[file] = c.Sorted()
	}

	writing := newRouter(defaultFile, funcs)
	writing.desc = desc
	writing.resolved = resolved
	primeFile(writing, defaultFile)
	execute(nodes, base, writing)
}

// RenderObject runs a blueprint against a single object's scope (the usual
// entrypoint for one-file-per-object emitters like the systems-language or
// TypeScript struct blueprints) and returns its content directly, for tests
// and simple callers that don't need the full multi-file Description.
func RenderObject(nodes []bpast.Node, program *ast.Program, obj ast.Object, typeMaps map[string]map[string]string) string {
	const file = "out"
	base := context.Global(program, typeMaps, ast.Output{}, nil).WithObject(&obj)

	funcs := map[string]bpast.Node{}
	collectFuncs(nodes, funcs)

	collecting := newRouter(file, funcs)
	execute(nodes, base, collecting)
	resolved := map[string][]string{}
	for f, c := range collecting.collectors {
		resolved[f] = c.Sorted()
	}

	desc := output.NewDescription(ast.Output{})
	writing := newRouter(file, funcs)
	writing.desc = desc
	writing.resolved = resolved
	primeFile(writing, file)
	execute(nodes, base, writing)
	return desc.File(file).Content()
}

// primeFile seeds a file's resolved imports ahead of any content being
// written to it — needed for the initially-active file, since switchFile
// only fires on a later `<file NAME/>` directive.
func primeFile(w *router, file string) {
	if lines, ok := w.resolved[file]; ok {
		w.desc.File(file).SetResolvedImports(lines)
	}
}

// router is the writer the engine drives directives through. It owns the
// "currently active output file" (switched by `<file NAME/>`) and, during
// the import-collecting pass, a per-file ImportCollector; desc is nil during
// that pass so writes are discarded and only imports are gathered.
type router struct {
	desc       *output.Description
	file       string
	collectors map[string]*output.ImportCollector
	resolved   map[string][]string
	funcs      map[string]bpast.Node
}

func newRouter(defaultFile string, funcs map[string]bpast.Node) *router {
	return &router{file: defaultFile, collectors: map[string]*output.ImportCollector{}, funcs: funcs}
}

func (r *router) WriteString(s string) {
	if r.desc == nil {
		return
	}
	r.desc.File(r.file).WriteString(s)
}

func (r *router) AddImport(path string) {
	c, ok := r.collectors[r.file]
	if !ok {
		c = output.NewImportCollector()
		r.collectors[r.file] = c
	}
	c.AddImport(path)
}

func (r *router) switchFile(name string) {
	r.file = name
	if r.desc != nil {
		if lines, ok := r.resolved[name]; ok {
			r.desc.File(name).SetResolvedImports(lines)
		}
	}
}

func (r *router) writeImportsMarker() {
	if r.desc == nil {
		return
	}
	r.desc.File(r.file).WriteImportsMarker()
}

func execute(nodes []bpast.Node, ctx context.Context, w *router) {
	for _, n := range nodes {
		executeOne(n, ctx, w)
	}
}

func executeOne(n bpast.Node, ctx context.Context, w *router) {
	if n.IsLiteral() {
		w.WriteString(n.Text)
		return
	}

	switch n.Name {
	case "each":
		executeEach(n, ctx, w, false)
	case "eachr":
		executeEach(n, ctx, w, true)
	case "if":
		if truthy(n.Sub, ctx) {
			execute(n.Children, ctx, w)
		}
	case "ifn":
		if !truthy(n.Sub, ctx) {
			execute(n.Children, ctx, w)
		}
	case "sep":
		if !ctx.Last {
			if len(n.Children) > 0 {
				execute(n.Children, ctx, w)
			} else {
				w.WriteString(n.Arg)
			}
		}
	case "import":
		w.AddImport(n.Arg)
	case "imports":
		w.writeImportsMarker()
	case "br":
		w.WriteString("\n")
	case "link":
		w.WriteString(linkedType(n.Sub, ctx))
	case "ref":
		if ctx.Field != nil {
			w.WriteString(ctx.Field.Location.ObjectOrJoinName)
		}
	case "autoimport":
		if path := mappedOnly(n.Sub, ctx); path != "" {
			w.AddImport(fmt.Sprintf("%q", path))
		}
	case "file":
		name := n.Arg
		if n.Sub != "" {
			name = ctx.Variable(n.Sub+".name") + n.Arg
		}
		w.switchFile(name)
	case "func":
		if hasFunction(ctx, n.Sub, n.Arg) {
			execute(n.Children, ctx, w)
		}
	case "nfunc":
		if !hasFunction(ctx, n.Sub, n.Arg) {
			execute(n.Children, ctx, w)
		}
	case "exec":
		if fn, ok := w.funcs[n.Arg]; ok && hasFunction(ctx, fn.Sub, fn.Arg) {
			execute(fn.Children, ctx, w)
		}
	case "meta", "define":
		// Consumed at blueprint registration time (blueprint/store.Register);
		// any surviving occurrence here is a no-op.
	default:
		key := n.Name
		if n.Sub != "" {
			key = n.Name + "." + n.Sub
		}
		w.WriteString(ctx.Variable(key))
	}
}

// collectFuncs registers every `<func.NS NAME>`/`<nfunc.NS NAME>` block in
// the tree by its NAME, regardless of where it sits, so `<exec NAME/>` can
// find and replay one declared anywhere else in the blueprint.
func collectFuncs(nodes []bpast.Node, reg map[string]bpast.Node) {
	for _, n := range nodes {
		if n.Name == "func" || n.Name == "nfunc" {
			reg[n.Arg] = n
		}
		collectFuncs(n.Children, reg)
	}
}

func executeEach(n bpast.Node, ctx context.Context, w *router, reverse bool) {
	switch n.Sub {
	case "object":
		objects := ctx.Objects
		if reverse {
			objects = reversedObjects(objects)
		}
		for i, obj := range objects {
			child := ctx.WithObject(&obj)
			child.Index = i
			child.Last = i == len(objects)-1
			execute(n.Children, child, w)
		}
	case "enum":
		enums := ctx.Enums
		if reverse {
			enums = reversedEnums(enums)
		}
		for i, e := range enums {
			child := ctx.WithEnum(&e)
			child.Index = i
			child.Last = i == len(enums)-1
			execute(n.Children, child, w)
		}
	case "field":
		if ctx.Object == nil {
			return
		}
		fields := ctx.Object.Fields
		if reverse {
			fields = reversedFields(fields)
		}
		for i, f := range fields {
			child := ctx.WithField(&f)
			child.Index = i
			child.Last = i == len(fields)-1
			execute(n.Children, child, w)
		}
	case "case":
		if ctx.Enum == nil {
			return
		}
		cases := ctx.Enum.Options
		if reverse {
			cases = reversedCases(cases)
		}
		for i, c := range cases {
			child := ctx.WithCase(&c)
			child.Index = i
			child.Last = i == len(cases)-1
			execute(n.Children, child, w)
		}
	case "join":
		if ctx.Object == nil {
			return
		}
		joins := ctx.Object.Joins
		if reverse {
			joins = reversedJoins(joins)
		}
		for i, j := range joins {
			child := ctx.WithJoin(&j)
			child.Index = i
			child.Last = i == len(joins)-1
			execute(n.Children, child, w)
		}
	case "arg":
		ns, name, found := strings.Cut(n.Arg, ":")
		if !found {
			return
		}
		args := functionArgs(ctx, ns, name)
		if reverse {
			args = reversedStrings(args)
		}
		for i, a := range args {
			child := ctx.WithArg(a)
			child.Index = i
			child.Last = i == len(args)-1
			execute(n.Children, child, w)
		}
	}
}

// topoSort orders objects so that every dependency (inheritance, ref()
// fields, join targets, custom-object field types) precedes its dependent,
// breaking ties by original declaration order. `<eachr.object>` reverses
// this result, giving DROP TABLE statements the exact opposite order of
// CREATE TABLE.
func topoSort(objects []ast.Object) []ast.Object {
	byName := map[string]ast.Object{}
	for _, o := range objects {
		byName[o.Name] = o
	}

	visited := map[string]bool{}
	visiting := map[string]bool{}
	out := make([]ast.Object, 0, len(objects))

	var visit func(o ast.Object)
	visit = func(o ast.Object) {
		if visited[o.Name] || visiting[o.Name] {
			return
		}
		visiting[o.Name] = true
		for _, dep := range o.DependsOn() {
			if depObj, ok := byName[dep]; ok {
				visit(depObj)
			}
		}
		visiting[o.Name] = false
		visited[o.Name] = true
		out = append(out, o)
	}
	for _, o := range objects {
		visit(o)
	}
	return out
}

func reversedObjects(objs []ast.Object) []ast.Object {
	out := make([]ast.Object, len(objs))
	for i, o := range objs {
		out[len(objs)-1-i] = o
	}
	return out
}

func reversedEnums(enums []ast.Enum) []ast.Enum {
	out := make([]ast.Enum, len(enums))
	for i, e := range enums {
		out[len(enums)-1-i] = e
	}
	return out
}

func reversedFields(fields []ast.Field) []ast.Field {
	out := make([]ast.Field, len(fields))
	for i, f := range fields {
		out[len(fields)-1-i] = f
	}
	return out
}

func reversedCases(cases []ast.EnumCase) []ast.EnumCase {
	out := make([]ast.EnumCase, len(cases))
	for i, c := range cases {
		out[len(cases)-1-i] = c
	}
	return out
}

func reversedJoins(joins []ast.ObjectJoin) []ast.ObjectJoin {
	out := make([]ast.ObjectJoin, len(joins))
	for i, j := range joins {
		out[len(joins)-1-i] = j
	}
	return out
}

func reversedStrings(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[len(args)-1-i] = a
	}
	return out
}

func functionArgs(ctx context.Context, ns, name string) []string {
	if fn := lookupFunction(ctx, ns, name); fn != nil {
		return fn.Args
	}
	return nil
}

// hasFunction reports whether the current field or (absent a field) object
// declares a function with the given namespace and name — the gate `func`,
// `nfunc`, and `exec` all evaluate against.
func hasFunction(ctx context.Context, ns, name string) bool {
	return lookupFunction(ctx, ns, name) != nil
}

func lookupFunction(ctx context.Context, ns, name string) *ast.FieldFunction {
	if ctx.Field != nil {
		for i, fn := range ctx.Field.Functions {
			if fn.Namespace == ns && fn.Name == name {
				return &ctx.Field.Functions[i]
			}
		}
	}
	if ctx.Object != nil {
		for i, fn := range ctx.Object.Functions {
			if fn.Namespace == ns && fn.Name == name {
				return &ctx.Object.Functions[i]
			}
		}
	}
	return nil
}

// truthy evaluates an `if.SUB`/`ifn.SUB` condition against the current
// context.
func truthy(sub string, ctx context.Context) bool {
	switch sub {
	case "optional":
		return ctx.Field != nil && ctx.Field.Optional
	case "array":
		return ctx.Field != nil && ctx.Field.Array
	case "struct":
		return ctx.Object != nil && ctx.Object.Type == ast.Struct
	case "record":
		return ctx.Object != nil && ctx.Object.Type == ast.Record
	case "first":
		return ctx.Index == 0
	case "ref":
		return ctx.Field != nil && ctx.Field.Location.Reference == ast.RefFieldType
	case "custom":
		return ctx.Field != nil && fieldTypePresent(ctx.Field) && func() bool {
			ft, _ := ctx.Field.FieldType.Get()
			return ft.IsCustom()
		}()
	case "core":
		return ctx.Field != nil && fieldTypePresent(ctx.Field) && func() bool {
			ft, _ := ctx.Field.FieldType.Get()
			return ft.IsCore()
		}()
	default:
		if ns, name, found := strings.Cut(sub, ":"); found {
			switch ns {
			case "core":
				return ctx.Field != nil && ctx.Variable("field.type") == name
			case "opt":
				return ctx.Output.BoolOption(name, false)
			default:
				return hasFunction(ctx, ns, name)
			}
		}
		return false
	}
}

func fieldTypePresent(f *ast.Field) bool {
	return f.FieldType.IsPresent()
}

// linkedType resolves the current field's type spelling through the named
// type map (e.g. "go", "ts", "pk"), consulting the active blueprint's own
// `<define.T>` overrides first, falling back to the plain spelling when
// neither has one.
func linkedType(mapName string, ctx context.Context) string {
	if ctx.Field == nil {
		return ""
	}
	spelling := ctx.Variable("field.type")
	if mapped, ok := ctx.BlueprintTypes[spelling]; ok {
		return mapped
	}
	table, ok := ctx.TypeMaps[mapName]
	if !ok {
		return spelling
	}
	if mapped, ok := table[spelling]; ok {
		return mapped
	}
	return spelling
}

// mappedOnly looks up the current field's type spelling in the named map,
// returning "" (no fallback to the plain spelling) when the map or key is
// absent — used by `<autoimport.NAME/>`, where "no entry" means "no import
// needed" rather than "spell it literally".
func mappedOnly(mapName string, ctx context.Context) string {
	if ctx.Field == nil {
		return ""
	}
	table, ok := ctx.TypeMaps[mapName]
	if !ok {
		return ""
	}
	return table[ctx.Variable("field.type")]
}
