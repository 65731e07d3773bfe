package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gooze.dev/pkg/testimport/internal/adapter"
	"gooze.dev/pkg/testimport/internal/controller"
	m "gooze.dev/pkg/testimport/internal/model"
	"gooze.dev/pkg/testimport/pkg"
)

// DisplayedFailures is the number of failed test cases listed in a summary.
const DisplayedFailures = 20

// ErrHistoryDisabled is returned by History when no history store is configured.
var ErrHistoryDisabled = errors.New("run history is disabled")

// ListArgs contains the arguments for listing report files.
type ListArgs struct {
	Patterns []string
	BaseDir  m.Path
}

// RunArgs contains the arguments for importing report files.
type RunArgs struct {
	Patterns   []string
	BaseDir    m.Path
	Stylesheet string
	// ModuleKey is set when the import is requested for a sub-module. Reports
	// are imported once, at the root, so such runs do nothing.
	ModuleKey  string
	Output     m.Path
	Parallel   int
	ShardIndex int
	ShardCount int
}

// MergeArgs contains the arguments for merging shard results.
type MergeArgs struct {
	Output m.Path
}

// HistoryArgs contains the arguments for listing recorded runs.
type HistoryArgs struct {
	Limit int
}

// Workflow defines the commands offered by testimport.
type Workflow interface {
	List(ctx context.Context, args ListArgs) error
	Run(ctx context.Context, args RunArgs) error
	Merge(ctx context.Context, args MergeArgs) error
	History(ctx context.Context, args HistoryArgs) error
}

// SpillFactory creates the buffer that collects failed test cases.
type SpillFactory func() (pkg.FileSpill[m.TestCase], error)

// WorkflowOption configures optional workflow sinks.
type WorkflowOption func(*workflow)

// WithHistoryStore records every run and enables History.
func WithHistoryStore(store adapter.HistoryStore) WorkflowOption {
	return func(w *workflow) {
		w.history = store
	}
}

// WithPublisher uploads every result after it is written locally.
func WithPublisher(publisher adapter.ResultPublisher) WorkflowOption {
	return func(w *workflow) {
		w.publisher = publisher
	}
}

// WithSpillFactory replaces the failed test case buffer.
func WithSpillFactory(factory SpillFactory) WorkflowOption {
	return func(w *workflow) {
		w.newSpill = factory
	}
}

type workflow struct {
	adapter.ReportStore
	controller.UI
	Importer

	history   adapter.HistoryStore
	publisher adapter.ResultPublisher
	newSpill  SpillFactory
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	reportStore adapter.ReportStore,
	ui controller.UI,
	importer Importer,
	options ...WorkflowOption,
) Workflow {
	w := &workflow{
		ReportStore: reportStore,
		UI:          ui,
		Importer:    importer,
		newSpill: func() (pkg.FileSpill[m.TestCase], error) {
			return pkg.NewFileSpill[m.TestCase]("")
		},
	}

	for _, option := range options {
		option(w)
	}

	return w
}

// List shows the report files the configured patterns match.
func (w *workflow) List(ctx context.Context, args ListArgs) error {
	if err := w.Start(ctx, controller.WithListMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}

	defer w.Close(ctx)

	files, err := w.Discover(ctx, args.Patterns, args.BaseDir)
	if err != nil {
		slog.Error("Failed to discover reports", "error", err)
		return fmt.Errorf("discover reports: %w", err)
	}

	if err := w.DisplayReportFiles(ctx, files, 0, 1); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)

	return nil
}

// Run imports every matching report and publishes the measures.
func (w *workflow) Run(ctx context.Context, args RunArgs) error {
	if err := w.Start(ctx, controller.WithRunMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}

	defer w.Close(ctx)

	if args.ModuleKey != "" {
		slog.Info("Skipping import for sub-module", "module", args.ModuleKey)
		w.DisplayNotice(ctx, fmt.Sprintf("Skipping module %s: reports are imported at the root", args.ModuleKey))

		return nil
	}

	files, err := w.Discover(ctx, args.Patterns, args.BaseDir)
	if err != nil {
		slog.Error("Failed to discover reports", "error", err)
		return fmt.Errorf("discover reports: %w", err)
	}

	if args.ShardCount < 1 {
		args.ShardIndex, args.ShardCount = 0, 1
	}

	files = ShardFiles(files, args.ShardIndex, args.ShardCount)

	if err := w.DisplayReportFiles(ctx, files, args.ShardIndex, args.ShardCount); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	spill, err := w.newSpill()
	if err != nil {
		return fmt.Errorf("create failure buffer: %w", err)
	}

	defer func() {
		if err := spill.Close(); err != nil {
			slog.Warn("Failed to close failure buffer", "error", err)
		}
	}()

	run, err := w.Import(ctx, files, ImportArgs{
		Stylesheet: args.Stylesheet,
		Parallel:   args.Parallel,
		Failures:   spill,
		OnFile: func(result m.FileResult) {
			w.DisplayFileResult(ctx, result)
		},
	})
	if err != nil {
		slog.Error("Failed to import reports", "error", err)
		return err
	}

	output, shard := args.Output, ""
	if args.ShardCount > 1 {
		output = m.Path(filepath.Join(string(args.Output), adapter.ShardDirPrefix+strconv.Itoa(args.ShardIndex)))
		shard = fmt.Sprintf("%d/%d", args.ShardIndex, args.ShardCount)
	}

	summary, err := w.publish(ctx, "run", output, run.Stored(shard))
	if err != nil {
		return err
	}

	summary.Run = run
	summary.FailedTotal = int(spill.Len())

	summary.FailedCases, err = spill.Head(DisplayedFailures)
	if err != nil {
		slog.Warn("Failed to read failed test cases", "error", err)
	}

	if err := w.DisplaySummary(ctx, summary); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)

	return nil
}

// Merge combines the shard_* results below the output directory into one
// result written to the output directory itself.
func (w *workflow) Merge(ctx context.Context, args MergeArgs) error {
	if err := w.Start(ctx, controller.WithMergeMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}

	defer w.Close(ctx)

	paths, err := w.FindShardResults(ctx, args.Output)
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		return fmt.Errorf("no shard results found in %s", args.Output)
	}

	run := m.RunResult{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}

	for _, path := range paths {
		shard, err := w.LoadResult(ctx, path)
		if err != nil {
			slog.Error("Failed to load shard result", "path", path, "error", err)
			return fmt.Errorf("load shard result: %w", err)
		}

		run.Aggregate.Merge(shard.Aggregate)

		for _, record := range shard.Files {
			run.Files = append(run.Files, fileResultFromRecord(record))
		}
	}

	if measures, ok := ComputeMeasures(run.Aggregate); ok {
		run.Measures = &measures
	}

	summary, err := w.publish(ctx, "merge", args.Output, run.Stored(""))
	if err != nil {
		return err
	}

	summary.Run = run

	if err := w.DisplaySummary(ctx, summary); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)

	return nil
}

// History lists recorded runs, most recent first.
func (w *workflow) History(ctx context.Context, args HistoryArgs) error {
	if w.history == nil {
		return ErrHistoryDisabled
	}

	if err := w.Start(ctx, controller.WithHistoryMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}

	defer w.Close(ctx)

	if err := w.history.Start(ctx); err != nil {
		return fmt.Errorf("open history: %w", err)
	}

	defer func() {
		if err := w.history.Stop(); err != nil {
			slog.Warn("Failed to close history", "error", err)
		}
	}()

	runs, err := w.history.ListRuns(ctx, args.Limit)
	if err != nil {
		return err
	}

	if err := w.DisplayHistory(ctx, runs); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)

	return nil
}

// publish writes the result file and feeds the optional sinks. Failures of
// the optional sinks are logged and reported, never fatal.
func (w *workflow) publish(ctx context.Context, command string, output m.Path, result m.StoredResult) (controller.Summary, error) {
	var summary controller.Summary

	path, err := w.SaveResult(ctx, output, result)
	if err != nil {
		return summary, fmt.Errorf("save result: %w", err)
	}

	summary.ResultPath = path

	if w.publisher != nil {
		location, err := w.publisher.Publish(ctx, result)
		if err != nil {
			w.DisplayNotice(ctx, fmt.Sprintf("Upload failed: %v", err))
		} else {
			summary.Location = location
		}
	}

	if w.history != nil {
		if err := w.recordHistory(ctx, command, result); err != nil {
			slog.Warn("Failed to record run history", "error", err)
			w.DisplayNotice(ctx, fmt.Sprintf("Run history not updated: %v", err))
		}
	}

	return summary, nil
}

func (w *workflow) recordHistory(ctx context.Context, command string, result m.StoredResult) error {
	if err := w.history.Start(ctx); err != nil {
		return err
	}

	defer func() {
		if err := w.history.Stop(); err != nil {
			slog.Warn("Failed to close history", "error", err)
		}
	}()

	summary := m.RunSummary{
		ID:        result.RunID,
		Command:   command,
		CreatedAt: result.CreatedAt,
		Files:     len(result.Files),
		Aggregate: result.Aggregate,
	}

	if result.Measures != nil {
		density := result.Measures.SuccessDensity
		summary.SuccessDensity = &density
	}

	return w.history.RecordRun(ctx, summary)
}

func fileResultFromRecord(record m.FileRecord) m.FileResult {
	result := m.FileResult{
		Path:   record.Path,
		Parser: record.Parser,
		Status: record.Status,
		Delta:  record.Delta,
	}

	if record.Error != "" {
		result.Err = errors.New(record.Error)
	}

	return result
}
