package engine_test

import (
	"strings"
	"testing"

	bpparser "github.com/kcmvp/repack/blueprint/parser"
	"github.com/kcmvp/repack/render/engine"
	"github.com/kcmvp/repack/render/output"
	"github.com/kcmvp/repack/schema/ast"
	"github.com/kcmvp/repack/schema/parser"
	"github.com/kcmvp/repack/schema/resolver"
	"github.com/stretchr/testify/require"
)

func mustProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	program, errs := parser.Parse(src)
	require.False(t, errs.HasErrors(), "%v", errs)
	require.False(t, resolver.Resolve(program).HasErrors())
	return program
}

func TestRenderObjectVariablesAndFields(t *testing.T) {
	program := mustProgram(t, `record User @users {
id int64 db:primary_key
name string?
}`)
	nodes, errs := bpparser.Parse(`type <object.name/> struct {
<each.field>	<field.name/> <if.optional>*</if><link.go/>
</each>}`)
	require.False(t, errs.HasErrors())

	out := engine.RenderObject(nodes, program, program.Objects[0], map[string]map[string]string{
		"go": {"int64": "int64", "string": "string"},
	})

	require.True(t, strings.Contains(out, "type User struct {"))
	require.True(t, strings.Contains(out, "id int64"))
	require.True(t, strings.Contains(out, "name *string"))
}

func TestRenderImportsTwoPass(t *testing.T) {
	program := mustProgram(t, `record Event @events {
id int64 db:primary_key
at datetime
}`)
	nodes, errs := bpparser.Parse(`<each.field><if.core:datetime><import "time"/></if></each>
<imports/>
type <object.name/> struct{}`)
	require.False(t, errs.HasErrors())

	out := engine.RenderObject(nodes, program, program.Objects[0], map[string]map[string]string{})
	require.True(t, strings.Contains(out, `"time"`))
}

func TestRenderSeparator(t *testing.T) {
	program := mustProgram(t, `record Wide @wides {
a int64
b int64
c int64
}`)
	nodes, errs := bpparser.Parse(`<each.field><field.name/><sep>, </sep></each>`)
	require.False(t, errs.HasErrors())

	out := engine.RenderObject(nodes, program, program.Objects[0], nil)
	require.Equal(t, "a, b, c", out)
}

func TestRenderCombinedAcrossObjects(t *testing.T) {
	program := mustProgram(t, `record A @as {
id int64 db:primary_key
}
record B @bs {
id int64 db:primary_key
}`)
	nodes, errs := bpparser.Parse(`<each.object><object.name/> </each>`)
	require.False(t, errs.HasErrors())

	desc := output.NewDescription(ast.Output{})
	engine.Render(nodes, program, program.Objects, program.Enums, nil, nil, ast.Output{}, desc, "combined.txt")
	require.Equal(t, "A B ", desc.File("combined.txt").Content())
}

func TestRenderEachrReversesObjectOrder(t *testing.T) {
	program := mustProgram(t, `record A @as {
id int64 db:primary_key
}
record B @bs {
id int64 db:primary_key
owner ref(A.id)
}`)
	nodes, errs := bpparser.Parse(`<eachr.object><object.name/> </eachr>`)
	require.False(t, errs.HasErrors())

	desc := output.NewDescription(ast.Output{})
	engine.Render(nodes, program, program.Objects, program.Enums, nil, nil, ast.Output{}, desc, "out.txt")
	require.Equal(t, "B A ", desc.File("out.txt").Content())
}

func TestRenderFileDirectiveRoutesPerObject(t *testing.T) {
	program := mustProgram(t, `record A @as {
id int64 db:primary_key
}
record B @bs {
id int64 db:primary_key
}`)
	nodes, errs := bpparser.Parse(`<each.object><file.object .go/>package p // <object.name/>
</each>`)
	require.False(t, errs.HasErrors())

	desc := output.NewDescription(ast.Output{})
	engine.Render(nodes, program, program.Objects, program.Enums, nil, nil, ast.Output{}, desc, "default.txt")
	require.Contains(t, desc.File("A.go").Content(), "// A")
	require.Contains(t, desc.File("B.go").Content(), "// B")
}

func TestRenderFuncRendersInlineAndExecReplays(t *testing.T) {
	program := mustProgram(t, `record User @users {
id int64 db:primary_key
name string
}`)
	nodes, errs := bpparser.Parse(`<each.object><each.field><func.db primary_key>PK </func><exec primary_key/></each></each>`)
	require.False(t, errs.HasErrors())

	desc := output.NewDescription(ast.Output{})
	engine.Render(nodes, program, program.Objects, program.Enums, nil, nil, ast.Output{}, desc, "out.txt")
	require.Equal(t, "PK PK ", desc.File("out.txt").Content())
}

func TestRenderOptTruthy(t *testing.T) {
	program := mustProgram(t, `record User @users {
id int64 db:primary_key
}`)
	out := ast.Output{Options: map[string]string{"make_index": "true"}}
	nodes, errs := bpparser.Parse(`<if.opt:make_index>INDEX</if>`)
	require.False(t, errs.HasErrors())
	desc := output.NewDescription(out)
	engine.Render(nodes, program, program.Objects, program.Enums, nil, nil, out, desc, "out.txt")
	require.Equal(t, "INDEX", desc.File("out.txt").Content())
}
