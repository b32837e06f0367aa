package main

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestLoadProgramMergesFilesInOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/schema/b_order.repack", []byte(`record Order @orders {
id int64 db:primary_key
}`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/schema/a_user.repack", []byte(`record User @users {
id int64 db:primary_key
name string
}`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/schema/notes.txt", []byte("ignored"), 0o644))

	program, errs := loadProgram(fs, "/schema")
	require.False(t, errs.HasErrors(), "%v", errs)
	require.Len(t, program.Objects, 2)
	// a_user.repack sorts before b_order.repack lexicographically.
	require.Equal(t, "User", program.Objects[0].Name)
	require.Equal(t, "Order", program.Objects[1].Name)
}

func TestLoadProgramReportsUnresolvedType(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/schema/bad.repack", []byte(`record Widget @widgets {
id int64 db:primary_key
owner Missing
}`), 0o644))

	_, errs := loadProgram(fs, "/schema")
	require.True(t, errs.HasErrors())
}

func TestLoadProgramMissingDirReturnsError(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, errs := loadProgram(fs, "/nowhere")
	require.True(t, errs.HasErrors())
}
