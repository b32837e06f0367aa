// Package project locates the host project's root and loads repack's own
// configuration from it — the ambient "where am I, what's configured"
// concern every subcommand needs before it can do anything else.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"golang.org/x/mod/modfile"
)

// Project holds the working directory's resolved root, parsed go.mod, and
// any repack.yaml/repack.json configuration found there.
type Project struct {
	Root   string
	Module string
	Mod    *modfile.File
	Config *Config
}

// Config is repack's own project-level configuration, read from
// repack.yaml/repack.json/repack.toml (any format viper supports) at the
// project root.
type Config struct {
	// SchemaDir is where .repack schema files are read from. Defaults to
	// "schema".
	SchemaDir string
	// BlueprintDir is where user blueprint (.bp) files are read from,
	// shadowing builtins of the same id. Defaults to "blueprints".
	BlueprintDir string
	// OutputRoot is the configured root for generated files, resolved by
	// OutputPath. Defaults to "gen". `repack generate` does not read it: an
	// output profile with no explicit location is written relative to the
	// working directory.
	OutputRoot string
}

// Current is the global project context, resolved once at startup. It is
// nil when no go.mod could be found walking up from the working directory
// (e.g. under `go test` in an isolated temp dir) — callers must check it.
var Current *Project

func init() {
	wd, err := os.Getwd()
	if err != nil {
		color.Red("repack: could not get working directory: %v\n", err)
		return
	}

	root, ok := findModuleRoot(wd)
	if !ok {
		return
	}

	p, err := Load(root)
	if err != nil {
		color.Red("repack: %v\n", err)
		return
	}
	Current = p
}

// findModuleRoot walks up from dir looking for the nearest go.mod.
func findModuleRoot(dir string) (string, bool) {
	cur := dir
	for {
		if _, err := os.Stat(filepath.Join(cur, "go.mod")); err == nil {
			return cur, true
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", false
		}
		cur = parent
	}
}

// Load reads go.mod and repack's own configuration rooted at root.
func Load(root string) (*Project, error) {
	modPath := filepath.Join(root, "go.mod")
	modBytes, err := os.ReadFile(modPath)
	if err != nil {
		return nil, fmt.Errorf("could not read go.mod: %w", err)
	}
	modFile, err := modfile.Parse(modPath, modBytes, nil)
	if err != nil {
		return nil, fmt.Errorf("could not parse go.mod: %w", err)
	}

	cfg := loadConfig(root)

	return &Project{
		Root:   root,
		Module: modFile.Module.Mod.Path,
		Mod:    modFile,
		Config: cfg,
	}, nil
}

func loadConfig(root string) *Config {
	v := viper.New()
	v.SetConfigName("repack")
	v.AddConfigPath(root)
	v.SetDefault("schemaDir", "schema")
	v.SetDefault("blueprintDir", "blueprints")
	v.SetDefault("outputRoot", "gen")

	// A missing config file is not an error: every default applies.
	_ = v.ReadInConfig()

	return &Config{
		SchemaDir:    v.GetString("schemaDir"),
		BlueprintDir: v.GetString("blueprintDir"),
		OutputRoot:   v.GetString("outputRoot"),
	}
}

// DependsOn reports which of the given module paths are this project's own
// module or are required or replaced by its go.mod.
func (p *Project) DependsOn(deps ...string) mo.Option[[]string] {
	if p == nil || p.Mod == nil || len(deps) == 0 {
		return mo.None[[]string]()
	}
	available := map[string]struct{}{p.Module: {}}
	for _, req := range p.Mod.Require {
		available[req.Mod.Path] = struct{}{}
	}
	for _, rep := range p.Mod.Replace {
		if rep.Old.Path != "" {
			available[rep.Old.Path] = struct{}{}
		}
		if rep.New.Path != "" {
			available[rep.New.Path] = struct{}{}
		}
	}

	var matched []string
	for _, d := range deps {
		if _, ok := available[d]; ok {
			matched = append(matched, d)
		}
	}
	if len(matched) == 0 {
		return mo.None[[]string]()
	}
	return mo.Some(matched)
}

// SchemaPath resolves the configured schema directory to an absolute path.
func (p *Project) SchemaPath() string {
	return filepath.Join(p.Root, p.Config.SchemaDir)
}

// BlueprintPath resolves the configured user blueprint directory to an
// absolute path.
func (p *Project) BlueprintPath() string {
	return filepath.Join(p.Root, p.Config.BlueprintDir)
}

// OutputPath resolves the configured default output root to an absolute
// path.
func (p *Project) OutputPath() string {
	return filepath.Join(p.Root, p.Config.OutputRoot)
}
