package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/kcmvp/repack/internal/project"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse, resolve, and validate the project's schema without generating anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		if project.Current == nil {
			return fmt.Errorf("no go.mod found; run repack from inside a Go module")
		}
		fs := afero.NewOsFs()
		program, errs := loadProgram(fs, project.Current.SchemaPath())
		if errs.HasErrors() {
			for _, e := range errs.Sorted() {
				color.Red(e.Error())
			}
			return fmt.Errorf("%d error(s) found", len(errs))
		}
		color.Green("schema valid: %d object(s), %d enum(s), %d output(s)\n",
			len(program.Objects), len(program.Enums), len(program.Outputs))
		return nil
	},
}
