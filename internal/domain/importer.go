package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gooze.dev/pkg/testimport/internal/adapter"
	m "gooze.dev/pkg/testimport/internal/model"
	"gooze.dev/pkg/testimport/pkg"
)

// ImportArgs configures one import over an already discovered file list.
type ImportArgs struct {
	// Stylesheet, when set, pre-processes every report before parsing.
	Stylesheet string
	// Parallel is the number of files parsed at once. Values below 1 mean 1.
	Parallel int
	// Failures receives every failed or errored test case. Optional.
	Failures pkg.FileSpill[m.TestCase]
	// OnFile is called once per file after its outcome is known. Calls are
	// serialized. Optional.
	OnFile func(m.FileResult)
}

// Importer discovers report files and folds them into a single run result.
type Importer interface {
	Discover(ctx context.Context, patterns []string, baseDir m.Path) ([]m.Path, error)
	Import(ctx context.Context, files []m.Path, args ImportArgs) (m.RunResult, error)
}

type importer struct {
	adapter.ReportFSAdapter
	adapter.TransformAdapter
	ParserChain
}

// NewImporter creates an Importer. transform may be nil when no stylesheet is
// ever configured.
func NewImporter(fsAdapter adapter.ReportFSAdapter, transform adapter.TransformAdapter, chain ParserChain) Importer {
	return &importer{
		ReportFSAdapter:  fsAdapter,
		TransformAdapter: transform,
		ParserChain:      chain,
	}
}

// Discover resolves every pattern against baseDir and scans for report files.
// Patterns that cannot be resolved are dropped.
func (i *importer) Discover(ctx context.Context, patterns []string, baseDir m.Path) ([]m.Path, error) {
	resolved := make([]m.Path, 0, len(patterns))

	for _, pattern := range patterns {
		path, ok := i.ResolvePattern(ctx, pattern, baseDir)
		if !ok {
			continue
		}

		resolved = append(resolved, path)
	}

	files, err := i.Scan(ctx, resolved)
	if err != nil {
		return nil, fmt.Errorf("scan reports: %w", err)
	}

	return files, nil
}

// Import parses files and commits each file's contribution once it parsed
// completely. A file never contributes partially. Per-file problems are
// recorded in the result; only cancellation aborts the import.
func (i *importer) Import(ctx context.Context, files []m.Path, args ImportArgs) (m.RunResult, error) {
	run := m.RunResult{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Files:     make([]m.FileResult, len(files)),
	}

	var (
		mu    sync.Mutex
		group errgroup.Group
	)

	group.SetLimit(max(args.Parallel, 1))

	for index, file := range files {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			result, cases := i.importFile(ctx, file, args.Stylesheet)

			mu.Lock()
			defer mu.Unlock()

			if result.Committed() {
				run.Aggregate.Merge(result.Delta)
			}

			run.Files[index] = result

			if args.Failures != nil {
				for _, tc := range cases {
					if !tc.Failed() {
						continue
					}

					if err := args.Failures.Append(tc); err != nil {
						slog.Warn("Failed to record failed test case", "test", tc.Name, "error", err)
					}
				}
			}

			if args.OnFile != nil {
				args.OnFile(result)
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return run, fmt.Errorf("import reports: %w", err)
	}

	if measures, ok := ComputeMeasures(run.Aggregate); ok {
		run.Measures = &measures
	}

	slog.Info("Import finished",
		"run", run.ID,
		"files", len(files),
		"tests", run.Aggregate.Tests,
		"unrecognized", run.CountByStatus(m.FileUnrecognized),
		"malformed", run.CountByStatus(m.FileMalformed),
		"failed", run.CountByStatus(m.FileFailed),
	)

	return run, nil
}

func (i *importer) importFile(ctx context.Context, file m.Path, stylesheet string) (m.FileResult, []m.TestCase) {
	target := file

	if stylesheet != "" {
		if i.TransformAdapter == nil {
			return m.FileResult{Path: file, Status: m.FileFailed, Err: errors.New("no transform adapter configured")}, nil
		}

		transformed, err := i.Transform(ctx, file, stylesheet)
		if err != nil {
			slog.Error("Failed to transform report", "path", file, "error", err)
			return m.FileResult{Path: file, Status: m.FileFailed, Err: err}, nil
		}

		target = transformed
	}

	result, cases := i.ParseFile(ctx, target)
	result.Path = file

	return result, cases
}

// ShardFiles keeps the files whose position modulo total equals index. A
// total below 2 keeps every file.
func ShardFiles(files []m.Path, index, total int) []m.Path {
	if total < 2 {
		return files
	}

	shard := make([]m.Path, 0, len(files)/total+1)

	for position, file := range files {
		if position%total == index {
			shard = append(shard, file)
		}
	}

	return shard
}
