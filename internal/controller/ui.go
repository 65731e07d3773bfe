// Package controller provides output adapters for displaying import progress and results.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	m "gooze.dev/pkg/testimport/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeList StartMode = iota
	ModeRun
	ModeMerge
	ModeHistory
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithListMode sets the UI to report listing mode.
func WithListMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeList
	}
}

// WithRunMode sets the UI to import mode.
func WithRunMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeRun
	}
}

// WithMergeMode sets the UI to shard merge mode.
func WithMergeMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeMerge
	}
}

// WithHistoryMode sets the UI to run history mode.
func WithHistoryMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeHistory
	}
}

func newStartConfig(options ...StartOption) StartConfig {
	cfg := StartConfig{mode: ModeRun}
	for _, option := range options {
		option(&cfg)
	}

	return cfg
}

// Summary is everything shown at the end of an import or merge.
type Summary struct {
	Run         m.RunResult
	FailedCases []m.TestCase // first failed cases, for display
	FailedTotal int
	ResultPath  m.Path
	Location    string // remote copy of the result, if uploaded
}

// UI defines the interface for displaying import progress and results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayNotice(ctx context.Context, message string)
	DisplayReportFiles(ctx context.Context, files []m.Path, shardIndex int, shardCount int) error
	DisplayFileResult(ctx context.Context, result m.FileResult)
	DisplaySummary(ctx context.Context, summary Summary) error
	DisplayHistory(ctx context.Context, runs []m.RunSummary) error
}

// IsTTY reports whether w is an interactive terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewUI picks the interactive TUI for terminals and SimpleUI otherwise.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}
