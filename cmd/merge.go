package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gooze.dev/pkg/testimport/internal/domain"
	m "gooze.dev/pkg/testimport/internal/model"
)

// mergeCmd represents the merge command.
var mergeCmd = newMergeCmd()

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge sharded results into a single result",
		Long:  "Merge the results in shard_* subdirectories of the output directory into a single result.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			output := m.Path(viper.GetString(outputFlagName))
			return workflow.Merge(cmd.Context(), domain.MergeArgs{Output: output})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}
