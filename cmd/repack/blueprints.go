package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/kcmvp/repack/blueprint/builtins"
	"github.com/kcmvp/repack/blueprint/store"
	"github.com/kcmvp/repack/internal/project"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var blueprintsCmd = &cobra.Command{
	Use:   "blueprints",
	Short: "Inspect the blueprints available to this project",
}

var blueprintsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every registered blueprint id (builtins plus project overrides)",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := store.New()
		if errs := builtins.Register(s); errs.HasErrors() {
			return errs
		}
		if project.Current != nil {
			fs := afero.NewOsFs()
			if errs := s.LoadDir(fs, project.Current.BlueprintPath()); errs.HasErrors() {
				return errs
			}
		}
		ids := s.IDs()
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Println(id)
		}
		color.Green("%d blueprint(s)\n", len(ids))
		return nil
	},
}

func init() {
	blueprintsCmd.AddCommand(blueprintsListCmd)
}
