package cmd

import (
	"github.com/spf13/cobra"

	"gooze.dev/pkg/testimport/internal/domain"
	m "gooze.dev/pkg/testimport/internal/model"
)

var listBaseDirFlag string

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [patterns...]",
		Short: "List the report files matched by the patterns",
		Long:  listLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			baseDir, err := resolveBaseDir(stringFlagOrConfig(cmd, baseDirFlagName, reportBaseDirKey))
			if err != nil {
				return err
			}

			return workflow.List(cmd.Context(), domain.ListArgs{
				Patterns: reportPatterns(args),
				BaseDir:  m.Path(baseDir),
			})
		},
	}

	configureReportFlags(cmd, &listBaseDirFlag)

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
