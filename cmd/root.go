// Package cmd provides the root command and CLI setup for testimport.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gooze.dev/pkg/testimport/internal/adapter"
	"gooze.dev/pkg/testimport/internal/controller"
	"gooze.dev/pkg/testimport/internal/domain"
)

var reportFS adapter.ReportFSAdapter
var transform adapter.TransformAdapter
var chain domain.ParserChain
var importer domain.Importer
var reportStore adapter.ReportStore
var historyStore adapter.HistoryStore
var publisher adapter.ResultPublisher
var workflow domain.Workflow
var ui controller.UI

// reportsOutputDirFlag is a root-level flag shared by commands that read/write results.
var reportsOutputDirFlag string

// verboseFlag switches the log file to debug level.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	cfg, err := loadConfig()
	if err != nil {
		slog.Warn("Falling back to default configuration", "error", err)
	}

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	reportFS = adapter.NewLocalReportFSAdapter()
	transform = adapter.NewXSLTTransformAdapter(configDir(), "", nil)
	chain = domain.NewParserChain(reportFS)
	importer = domain.NewImporter(reportFS, transform, chain)
	reportStore = adapter.NewReportStore()

	var options []domain.WorkflowOption

	if cfg.History.Enabled {
		historyStore = adapter.NewHistoryStore(cfg.History.Driver, cfg.History.DSN)
		options = append(options, domain.WithHistoryStore(historyStore))
	}

	if cfg.S3.Enabled() {
		publisher = adapter.NewS3Publisher(cfg.S3)
		options = append(options, domain.WithPublisher(publisher))
	}

	workflow = domain.NewWorkflow(reportStore, ui, importer, options...)
}

const patternsHelp = `Report patterns are resolved against the base directory and support:
  - *              any characters within one path segment
  - **             any number of directories
  - ?              a single character
  - reports/       everything below a directory`

const rootLongDescription = `Testimport reads unit test reports written by xUnit and NUnit style
runners, adds them up into one result and derives the test measures
(tests, errors, failures, skipped, success density, execution time).

` + patternsHelp

const runLongDescription = `Import the report files matching the given patterns
(default: report.paths from the configuration).

` + patternsHelp

const listLongDescription = `List the report files the given patterns match.

` + patternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "testimport",
		Short: "Unit test report importer",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for import results",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "write debug output to the log file")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}
