package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	m "gooze.dev/pkg/testimport/internal/model"
)

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd  *cobra.Command
	mode StartMode
	now  func() time.Time
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd, now: time.Now}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mode = newStartConfig(options...).mode

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
	// SimpleUI doesn't block - it just prints and continues
}

// DisplayNotice prints a single informational line.
func (s *SimpleUI) DisplayNotice(ctx context.Context, message string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s\n", message)
}

// DisplayReportFiles prints the discovered report files. During a run only
// the count is printed.
func (s *SimpleUI) DisplayReportFiles(ctx context.Context, files []m.Path, shardIndex int, shardCount int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.mode == ModeRun {
		if shardCount > 1 {
			s.printf("Importing %d report file(s) (Shard %d/%d)\n", len(files), shardIndex, shardCount)
		} else {
			s.printf("Importing %d report file(s)\n", len(files))
		}

		return nil
	}

	s.printf("\n%s", renderFilesTable(files))

	return nil
}

// DisplayFileResult prints the outcome of one report file.
func (s *SimpleUI) DisplayFileResult(ctx context.Context, result m.FileResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	switch result.Status {
	case m.FileParsed:
		s.printf("Imported %s (%s, %d tests)\n", result.Path, result.Parser, result.Delta.Tests)
	case m.FileEmpty:
		s.printf("Imported %s (%s, empty)\n", result.Path, result.Parser)
	default:
		s.printf("Skipped %s (%s): %v\n", result.Path, result.Status, result.Err)
	}
}

// DisplaySummary prints the per-file table, the measures and failed tests.
func (s *SimpleUI) DisplaySummary(ctx context.Context, summary Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderSummary(summary))

	return nil
}

// DisplayHistory prints recorded runs, most recent first.
func (s *SimpleUI) DisplayHistory(ctx context.Context, runs []m.RunSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(runs) == 0 {
		s.printf("No runs recorded\n")
		return nil
	}

	s.printf("\n%s", renderHistoryTable(runs, s.now()))

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
