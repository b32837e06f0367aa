package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/kcmvp/repack/apperr"
	"github.com/kcmvp/repack/blueprint/builtins"
	"github.com/kcmvp/repack/blueprint/store"
	"github.com/kcmvp/repack/internal/project"
	"github.com/kcmvp/repack/render/engine"
	"github.com/kcmvp/repack/render/output"
	"github.com/kcmvp/repack/schema/ast"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// profileDefaults names the buffer a builtin profile writes into before any
// `<file NAME/>` directive inside its own blueprint switches it elsewhere,
// absent an explicit `file` output option overriding it. The per-object
// blueprints (go, typescript) route every object/enum to its own file
// themselves; postgres accumulates everything into one combined buffer.
type profileDefaults struct {
	file string
}

var builtinProfiles = map[string]profileDefaults{
	builtins.Postgres: {file: "schema.sql"},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Resolve, validate, and render the project's schema through its configured outputs",
	RunE: func(cmd *cobra.Command, args []string) error {
		if project.Current == nil {
			return fmt.Errorf("no go.mod found; run repack from inside a Go module")
		}
		fs := afero.NewOsFs()
		proj := project.Current

		program, errs := loadProgram(fs, proj.SchemaPath())
		if errs.HasErrors() {
			for _, e := range errs.Sorted() {
				color.Red(e.Error())
			}
			return fmt.Errorf("%d error(s) found", len(errs))
		}

		blueprints := store.New()
		if regErrs := builtins.Register(blueprints); regErrs.HasErrors() {
			return regErrs
		}
		if regErrs := blueprints.LoadDir(fs, proj.BlueprintPath()); regErrs.HasErrors() {
			return regErrs
		}

		typeMaps := map[string]map[string]string{
			"go":        builtins.TypeMap("go"),
			"ts":        builtins.TypeMap("ts"),
			"postgres":  builtins.TypeMap("postgres"),
			"goimports": builtins.ImportMap("go"),
			"pk":        builtins.PKMap("postgres"),
		}

		for _, out := range program.Outputs {
			if err := renderOutput(program, out, blueprints, typeMaps); err != nil {
				return err
			}
		}

		color.Green("generated %d output profile(s)\n", len(program.Outputs))
		return nil
	},
}

func renderOutput(program *ast.Program, out ast.Output, blueprints *store.Store, typeMaps map[string]map[string]string) error {
	bp, ok := blueprints.Get(out.Profile)
	if !ok {
		return apperr.New(apperr.UnknownBlueprint, fmt.Sprintf("output %q: blueprint %q is not registered", out.Profile, out.Profile))
	}

	defaults := builtinProfiles[out.Profile]
	defaultFile := firstNonEmpty(out.Options["file"], defaults.file, out.Profile+".txt")

	desc := output.NewDescription(out)
	objects := desc.Objects(program)
	enums := desc.Enums(program)

	engine.Render(bp.Nodes, program, objects, enums, typeMaps, bp.Types, out, desc, defaultFile)

	return desc.Flush(afero.NewOsFs())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
