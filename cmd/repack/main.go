// Command repack is a schema-driven, multi-target code generator: it reads
// a hand-written schema DSL describing records, structs, and enums, and
// renders them through blueprints into one or more output targets.
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "repack",
	Short: "Schema-driven, multi-target code generation",
	Long: `repack reads schema files describing records, structs, and enums,
resolves and validates their types and references, and renders them
through blueprints into one or more generated output targets.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(blueprintsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("repack: %v\n", err)
		os.Exit(1)
	}
}
