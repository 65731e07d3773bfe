package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"gooze.dev/pkg/testimport/internal/domain"
)

const defaultHistoryLimit = 20

var historyLimitFlag int

// historyCmd represents the history command.
var historyCmd = newHistoryCmd()

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show previously recorded import runs",
		Long: `Show the most recent import runs recorded in the run history database.
Recording is enabled with history.enabled in the configuration.`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := workflow.History(cmd.Context(), domain.HistoryArgs{Limit: historyLimitFlag})
			if errors.Is(err, domain.ErrHistoryDisabled) {
				cmd.PrintErrln("Run history is disabled; set history.enabled: true in " + configFileName)
			}

			return err
		},
	}

	cmd.Flags().IntVarP(&historyLimitFlag, limitFlagName, "n", defaultHistoryLimit, "maximum number of runs to show (0 for all)")

	return cmd
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
