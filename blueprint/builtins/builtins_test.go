package builtins_test

import (
	"testing"

	"github.com/kcmvp/repack/blueprint/builtins"
	"github.com/kcmvp/repack/blueprint/store"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoadsAllThreeBuiltins(t *testing.T) {
	s := store.New()
	require.False(t, builtins.Register(s).HasErrors())

	for _, id := range []string{builtins.Go, builtins.TypeScript, builtins.Postgres} {
		_, ok := s.Get(id)
		require.True(t, ok, "missing builtin %q", id)
	}
}

func TestTypeMapReadsTypeMapping(t *testing.T) {
	m := builtins.TypeMap("go")
	require.Equal(t, "time.Time", m["datetime"])
	require.Equal(t, "int64", m["int64"])
}

func TestImportMapReadsImportsByDSLType(t *testing.T) {
	m := builtins.ImportMap("go")
	require.Equal(t, "time", m["datetime"])
	require.NotContains(t, m, "string")
}

func TestPKMapReadsPKByDSLType(t *testing.T) {
	m := builtins.PKMap("postgres")
	require.Equal(t, "PRIMARY KEY", m["int64"])
	require.Contains(t, m["uuid"], "gen_random_uuid")
}
