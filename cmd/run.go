package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gooze.dev/pkg/testimport/internal/domain"
	m "gooze.dev/pkg/testimport/internal/model"
)

var runParallelFlag int
var runShardFlag string
var runBaseDirFlag string
var runXSLTFlag string
var runModuleKeyFlag string

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [patterns...]",
		Short: "Import unit test reports",
		Long:  runLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			shardIndex, totalShards, err := parseShardFlag(runShardFlag)
			if err != nil {
				return err
			}

			baseDir, err := resolveBaseDir(stringFlagOrConfig(cmd, baseDirFlagName, reportBaseDirKey))
			if err != nil {
				return err
			}

			return workflow.Run(cmd.Context(), domain.RunArgs{
				Patterns:   reportPatterns(args),
				BaseDir:    m.Path(baseDir),
				Stylesheet: viper.GetString(reportXSLTKey),
				ModuleKey:  viper.GetString(moduleKeyConfigKey),
				Output:     m.Path(viper.GetString(outputFlagName)),
				Parallel:   viper.GetInt(runParallelConfigKey),
				ShardIndex: shardIndex,
				ShardCount: totalShards,
			})
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&runParallelFlag, runParallelFlagName, "p", viper.GetInt(runParallelConfigKey), "number of report files parsed in parallel")
	bindFlagToConfig(cmd.Flags().Lookup(runParallelFlagName), runParallelConfigKey)
	cmd.Flags().StringVarP(&runShardFlag, shardFlagName, "s", "", "shard index and total shard count in the format INDEX/TOTAL (e.g., 0/3)")
	configureReportFlags(cmd, &runBaseDirFlag)
	cmd.Flags().StringVar(&runXSLTFlag, xsltFlagName, viper.GetString(reportXSLTKey), "stylesheet applied to every report before parsing (path, bundled name or URL)")
	bindFlagToConfig(cmd.Flags().Lookup(xsltFlagName), reportXSLTKey)
	cmd.Flags().StringVar(&runModuleKeyFlag, moduleKeyFlagName, viper.GetString(moduleKeyConfigKey), "sub-module key; reports are only imported for the root module")
	bindFlagToConfig(cmd.Flags().Lookup(moduleKeyFlagName), moduleKeyConfigKey)
}

// configureReportFlags adds the flags shared by run and list. They are not
// bound to viper since both commands define them.
func configureReportFlags(cmd *cobra.Command, baseDir *string) {
	cmd.Flags().StringVarP(baseDir, baseDirFlagName, "b", "", "directory relative report patterns are resolved against (default: working directory)")
}

func stringFlagOrConfig(cmd *cobra.Command, flagName, key string) string {
	if flag := cmd.Flags().Lookup(flagName); flag != nil && flag.Changed {
		return flag.Value.String()
	}

	return viper.GetString(key)
}

// reportPatterns prefers patterns given on the command line over report.paths.
func reportPatterns(args []string) []string {
	if len(args) > 0 {
		return args
	}

	return viper.GetStringSlice(reportPathsKey)
}

// parseShardFlag reads INDEX/TOTAL. An empty value selects every file.
func parseShardFlag(shard string) (int, int, error) {
	if shard == "" {
		return 0, 1, nil
	}

	rawIndex, rawTotal, ok := strings.Cut(shard, "/")

	index, indexErr := strconv.Atoi(rawIndex)
	total, totalErr := strconv.Atoi(rawTotal)

	if !ok || indexErr != nil || totalErr != nil || total <= 0 || index < 0 || index >= total {
		return 0, 0, fmt.Errorf("invalid --%s %q: expected INDEX/TOTAL with 0 <= INDEX < TOTAL", shardFlagName, shard)
	}

	return index, total, nil
}
