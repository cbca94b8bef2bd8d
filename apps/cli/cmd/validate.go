package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/BBGONE/courier/packages/requestfile"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Validate request files against the schema",
	Long: `Validate one or more YAML request files without sending anything.

Examples:
  courier validate request.yaml
  courier validate requests/*.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	failures := 0
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			red.Fprintf(cmd.OutOrStdout(), "✗ %s", path)
			fmt.Fprintf(cmd.OutOrStdout(), ": %v\n", err)
			failures++
			continue
		}
		if err := requestfile.Validate(data); err != nil {
			red.Fprintf(cmd.OutOrStdout(), "✗ %s", path)
			fmt.Fprintf(cmd.OutOrStdout(), ": %v\n", err)
			failures++
			continue
		}
		green.Fprintf(cmd.OutOrStdout(), "✓ %s\n", path)
	}

	if failures > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d files invalid\n", failures, len(args))
		os.Exit(ExitValidationError)
	}
	return nil
}
