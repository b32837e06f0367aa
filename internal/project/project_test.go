package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFindModuleRootWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/widget\n\ngo 1.22\n")
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, ok := findModuleRoot(nested)
	require.True(t, ok)
	require.Equal(t, root, found)
}

func TestFindModuleRootNotFound(t *testing.T) {
	_, ok := findModuleRoot(os.TempDir())
	require.False(t, ok)
}

func TestLoadReadsModuleAndDefaults(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/widget\n\ngo 1.22\n\nrequire github.com/spf13/cobra v1.8.0\n")

	p, err := Load(root)
	require.NoError(t, err)
	require.Equal(t, "example.com/widget", p.Module)
	require.Equal(t, "schema", p.Config.SchemaDir)
	require.Equal(t, "blueprints", p.Config.BlueprintDir)
	require.Equal(t, "gen", p.Config.OutputRoot)
}

func TestLoadReadsRepackConfigOverrides(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/widget\n\ngo 1.22\n")
	writeFile(t, filepath.Join(root, "repack.yaml"), "schemaDir: defs\noutputRoot: build\n")

	p, err := Load(root)
	require.NoError(t, err)
	require.Equal(t, "defs", p.Config.SchemaDir)
	require.Equal(t, "blueprints", p.Config.BlueprintDir)
	require.Equal(t, "build", p.Config.OutputRoot)
}

func TestLoadMissingGoModErrors(t *testing.T) {
	root := t.TempDir()
	_, err := Load(root)
	require.Error(t, err)
}

func TestDependsOn(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/widget\n\ngo 1.22\n\nrequire (\n\tgithub.com/spf13/cobra v1.8.0\n\tgithub.com/spf13/viper v1.18.0\n)\n")

	p, err := Load(root)
	require.NoError(t, err)

	found := p.DependsOn("github.com/spf13/cobra", "github.com/not/present")
	matches, ok := found.Get()
	require.True(t, ok)
	require.Equal(t, []string{"github.com/spf13/cobra"}, matches)
	require.True(t, found.IsPresent())

	none := p.DependsOn("github.com/not/present")
	require.False(t, none.IsPresent())
}

func TestPathResolvers(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/widget\n\ngo 1.22\n")

	p, err := Load(root)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "schema"), p.SchemaPath())
	require.Equal(t, filepath.Join(root, "blueprints"), p.BlueprintPath())
	require.Equal(t, filepath.Join(root, "gen"), p.OutputPath())
}
