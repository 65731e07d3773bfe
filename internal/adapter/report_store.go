package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
	m "gooze.dev/pkg/testimport/internal/model"
)

// ResultFileName is the name of the result file written into an output directory.
const ResultFileName = "testimport-result.yaml"

// ShardDirPrefix prefixes the output sub-directory of each shard.
const ShardDirPrefix = "shard_"

// ReportStore persists run results as YAML documents.
type ReportStore interface {
	SaveResult(ctx context.Context, dir m.Path, result m.StoredResult) (m.Path, error)
	LoadResult(ctx context.Context, path m.Path) (m.StoredResult, error)
	FindShardResults(ctx context.Context, dir m.Path) ([]m.Path, error)
}

type reportStore struct{}

// NewReportStore creates a ReportStore backed by the local filesystem.
func NewReportStore() ReportStore {
	return &reportStore{}
}

// SaveResult writes result to <dir>/testimport-result.yaml.
func (s *reportStore) SaveResult(_ context.Context, dir m.Path, result m.StoredResult) (m.Path, error) {
	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		slog.Error("Failed to create output directory", "path", dir, "error", err)
		return "", fmt.Errorf("create output directory: %w", err)
	}

	data, err := yaml.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}

	path := filepath.Join(string(dir), ResultFileName)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		slog.Error("Failed to write result file", "path", path, "error", err)
		return "", fmt.Errorf("write result file: %w", err)
	}

	slog.Info("Saved result", "path", path, "files", len(result.Files))

	return m.Path(path), nil
}

// LoadResult reads a result file written by SaveResult.
func (s *reportStore) LoadResult(_ context.Context, path m.Path) (m.StoredResult, error) {
	var result m.StoredResult

	data, err := os.ReadFile(string(path))
	if err != nil {
		return result, fmt.Errorf("read result file: %w", err)
	}

	if err := yaml.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("decode result file %s: %w", path, err)
	}

	if result.Version > m.StoredResultVersion {
		return result, fmt.Errorf("result file %s has unsupported version %d", path, result.Version)
	}

	return result, nil
}

// FindShardResults returns the result files found in the shard_* directories
// below dir, sorted by path.
func (s *reportStore) FindShardResults(_ context.Context, dir m.Path) ([]m.Path, error) {
	matches, err := doublestar.Glob(os.DirFS(string(dir)), ShardDirPrefix+"*/"+ResultFileName, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("find shard results: %w", err)
	}

	sort.Strings(matches)

	paths := make([]m.Path, 0, len(matches))
	for _, match := range matches {
		paths = append(paths, m.Path(filepath.Join(string(dir), filepath.FromSlash(match))))
	}

	return paths, nil
}
