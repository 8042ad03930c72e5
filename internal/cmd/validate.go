package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <project-file>",
	Short: "Validate a project file",
	Long: `Validate checks a project file's fields and dependency graph without
running any analysis.

Examples:
  # Validate a project definition
  costplan validate project.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	eng, renderer, _, err := newEngine()
	if err != nil {
		return err
	}

	p, err := loadProject(args[0])
	if err != nil {
		return err
	}

	result := eng.Validate(p)
	fmt.Fprint(cmd.OutOrStdout(), renderer.Validation(p.Name, result))
	if !result.OK {
		return result.Err
	}
	return nil
}
