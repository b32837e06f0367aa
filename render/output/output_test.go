package output_test

import (
	"testing"

	"github.com/kcmvp/repack/render/output"
	"github.com/kcmvp/repack/schema/ast"
	"github.com/samber/mo"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func sampleProgram() *ast.Program {
	return &ast.Program{
		Objects: []ast.Object{
			{Name: "Public", Categories: []string{"api"}},
			{Name: "Internal", Categories: []string{"internal"}},
			{Name: "PublicHelper", Categories: []string{"api"}},
		},
	}
}

func TestDescriptionCategoryFilter(t *testing.T) {
	out := ast.Output{Categories: []string{"api"}}
	desc := output.NewDescription(out)
	objects := desc.Objects(sampleProgram())
	require.Len(t, objects, 2)
	require.Equal(t, "Public", objects[0].Name)
	require.Equal(t, "PublicHelper", objects[1].Name)
}

func TestDescriptionExcludeGlob(t *testing.T) {
	out := ast.Output{Exclude: []string{"Public*"}}
	desc := output.NewDescription(out)
	objects := desc.Objects(sampleProgram())
	require.Len(t, objects, 1)
	require.Equal(t, "Internal", objects[0].Name)
}

func TestDescriptionFlushWritesFiles(t *testing.T) {
	out := ast.Output{Location: mo.Some("gen")}
	desc := output.NewDescription(out)
	desc.File("a.go").WriteString("package a\n")
	desc.File("b.go").WriteString("package b\n")

	fs := afero.NewMemMapFs()
	require.NoError(t, desc.Flush(fs))

	content, err := afero.ReadFile(fs, "gen/a.go")
	require.NoError(t, err)
	require.Equal(t, "package a\n", string(content))

	exists, err := afero.Exists(fs, "gen/b.go")
	require.NoError(t, err)
	require.True(t, exists)
}

func TestTokenBufferImportsMarker(t *testing.T) {
	buf := output.NewTokenBuffer()
	buf.SetResolvedImports([]string{`"fmt"`, `"time"`})
	buf.WriteString("package x\n")
	buf.WriteImportsMarker()
	require.Equal(t, "package x\n\"fmt\"\n\"time\"\n", buf.Content())
}

func TestImportCollector(t *testing.T) {
	c := output.NewImportCollector()
	c.AddImport(`"b"`)
	c.AddImport(`"a"`)
	c.AddImport(`"a"`)
	require.Equal(t, []string{`"a"`, `"b"`}, c.Sorted())
}
