// Package builtins embeds the three generator targets repack ships without
// any user configuration: a systems-language (Go-shaped) struct emitter, a
// TypeScript interface emitter, and a PostgreSQL DDL emitter, plus the SQL
// type-mapping table they're driven by.
package builtins

import (
	_ "embed"
	"fmt"

	"github.com/kcmvp/repack/apperr"
	"github.com/kcmvp/repack/blueprint/store"
	"github.com/tidwall/gjson"
)

//go:embed templates/go.bp
var goBlueprint string

//go:embed templates/typescript.bp
var typescriptBlueprint string

//go:embed templates/postgres.bp
var postgresBlueprint string

//go:embed drivers.json
var driversJSON []byte

// IDs of the builtin blueprints. Register adds them in no fixed order.
const (
	Go         = "go"
	TypeScript = "typescript"
	Postgres   = "postgres"
)

// Register loads every builtin blueprint into s. Called before any
// user-supplied blueprint directory is loaded, so user blueprints can
// shadow a builtin by reusing its id.
func Register(s *store.Store) apperr.List {
	var errs apperr.List
	for id, src := range map[string]string{
		Go:         goBlueprint,
		TypeScript: typescriptBlueprint,
		Postgres:   postgresBlueprint,
	} {
		if regErrs := s.Register(id, src); regErrs.HasErrors() {
			errs = append(errs, regErrs...)
		}
	}
	return errs
}

// TypeMap builds the named (e.g. "go", "ts", "postgres") core-type spelling
// table the render engine consults for `<link.NAME/>`, read out of the
// embedded drivers.json via gjson path queries.
func TypeMap(name string) map[string]string {
	out := map[string]string{}
	path := fmt.Sprintf("%s.typeMapping", name)
	gjson.GetBytes(driversJSON, path).ForEach(func(key, value gjson.Result) bool {
		out[key.String()] = value.String()
		return true
	})
	return out
}

// ImportMap builds the named core-type -> import-path table the render
// engine consults for `<autoimport.NAME/>` (e.g. `go`'s "datetime" field
// needing `"time"`), read out of drivers.json's `imports` subtree.
func ImportMap(name string) map[string]string {
	return subMap(name, "imports")
}

// PKMap builds the named core-type -> primary-key-constraint table the
// render engine consults via `<link.NAME/>` inside a `db:primary_key`
// guard (e.g. `postgres`'s "uuid" needing a `gen_random_uuid()` default),
// read out of drivers.json's `pk` subtree.
func PKMap(name string) map[string]string {
	return subMap(name, "pk")
}

func subMap(profile, subtree string) map[string]string {
	out := map[string]string{}
	path := fmt.Sprintf("%s.%s", profile, subtree)
	gjson.GetBytes(driversJSON, path).ForEach(func(key, value gjson.Result) bool {
		out[key.String()] = value.String()
		return true
	})
	return out
}
