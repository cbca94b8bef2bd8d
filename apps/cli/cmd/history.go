package cmd

import (
	"github.com/spf13/cobra"

	"github.com/BBGONE/courier/packages/core/config"
	"github.com/BBGONE/courier/packages/history"
	"github.com/BBGONE/courier/packages/output"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded executions",
	Long: `Show executions recorded with "send --record", newest first.

Examples:
  courier history
  courier history --limit 50`,
	RunE: historyCommand,
}

var (
	historyLimitFlag  int
	historyConfigFlag string
)

func init() {
	historyCmd.Flags().IntVar(&historyLimitFlag, "limit", 20, "Maximum number of entries to show")
	historyCmd.Flags().StringVar(&historyConfigFlag, "config", getEnvString("COURIER_CONFIG", ""), "Path to config file (env: COURIER_CONFIG)")
	historyCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("COURIER_NO_COLOR", false), "Disable colored output (env: COURIER_NO_COLOR)")
}

func historyCommand(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := config.LoadConfig(historyConfigFlag)
	if err != nil {
		return exitWith(ExitConfigError, err)
	}

	store, err := history.Open(cfg.HistoryDB)
	if err != nil {
		return exitWith(ExitConfigError, err)
	}
	defer store.Close()

	entries, err := store.Recent(historyLimitFlag)
	if err != nil {
		return exitWith(ExitConfigError, err)
	}

	console := output.NewConsole(
		output.WithWriter(cmd.OutOrStdout()),
		output.WithNoColor(noColorFlag || cfg.GetNoColor()),
	)
	console.History(entries)
	return nil
}
