// Package adapter contains filesystem, transform and publishing adapters for
// the report importer.
package adapter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	m "gooze.dev/pkg/testimport/internal/model"
)

// ReportFSAdapter abstracts the filesystem operations needed to find and read
// report files so the domain layer can be tested without touching the disk.
//
//nolint:interfacebloat // Result files, shard merges and report reads share one adapter.
type ReportFSAdapter interface {
	// ResolvePattern turns a configured pattern into a normalized absolute
	// glob. It returns false when the pattern cannot be normalized.
	ResolvePattern(ctx context.Context, pattern string, baseDir m.Path) (m.Path, bool)

	// Scan expands normalized globs into a sorted, deduplicated list of
	// existing regular files.
	Scan(ctx context.Context, patterns []m.Path) ([]m.Path, error)

	// Open opens a report for reading.
	Open(ctx context.Context, path m.Path) (io.ReadCloser, error)

	// FileInfo returns metadata for a path.
	FileInfo(ctx context.Context, path m.Path) (os.FileInfo, error)

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(ctx context.Context, path m.Path) ([]byte, error)

	// WriteFile writes content to a file, creating parent directories.
	WriteFile(ctx context.Context, path m.Path, content []byte, perm os.FileMode) error

	// JoinPath joins path elements into a single path.
	JoinPath(ctx context.Context, elem ...string) m.Path
}

// LocalReportFSAdapter implements ReportFSAdapter on the local filesystem.
type LocalReportFSAdapter struct{}

// NewLocalReportFSAdapter constructs a LocalReportFSAdapter.
func NewLocalReportFSAdapter() *LocalReportFSAdapter {
	return &LocalReportFSAdapter{}
}

// ResolvePattern keeps absolute patterns that normalize, otherwise joins the
// pattern to baseDir and normalizes again.
func (a *LocalReportFSAdapter) ResolvePattern(_ context.Context, pattern string, baseDir m.Path) (m.Path, bool) {
	if strings.TrimSpace(pattern) == "" {
		slog.Debug("Not a valid report path", "pattern", pattern)
		return "", false
	}

	if normalized, ok := normalizePath(pattern); ok && filepath.IsAbs(normalized) {
		return m.Path(normalized), true
	}

	if normalized, ok := normalizePath(string(baseDir) + string(filepath.Separator) + pattern); ok {
		return m.Path(normalized), true
	}

	slog.Debug("Not a valid report path", "pattern", pattern, "baseDir", baseDir)

	return "", false
}

// Scan expands every pattern. A pattern naming a directory, or ending with a
// separator, matches everything below it. Copies left behind by a stylesheet
// transformation are never reported.
func (a *LocalReportFSAdapter) Scan(ctx context.Context, patterns []m.Path) ([]m.Path, error) {
	seen := make(map[string]struct{})

	for _, pattern := range patterns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		glob := a.expandDirectoryPattern(string(pattern))

		matches, err := doublestar.FilepathGlob(glob, doublestar.WithFilesOnly())
		if err != nil {
			slog.Warn("Skipping invalid report pattern", "pattern", pattern, "error", err)
			continue
		}

		for _, match := range matches {
			if strings.HasSuffix(match, TransformedSuffix) {
				slog.Debug("Skipping transformed report copy", "path", match)
				continue
			}

			seen[filepath.Clean(match)] = struct{}{}
		}
	}

	files := make([]m.Path, 0, len(seen))
	for path := range seen {
		files = append(files, m.Path(path))
	}

	sort.Slice(files, func(i, j int) bool { return files[i] < files[j] })

	slog.Info("Scanner found report files", "count", len(files))

	return files, nil
}

func (a *LocalReportFSAdapter) expandDirectoryPattern(pattern string) string {
	if strings.HasSuffix(pattern, string(filepath.Separator)) || strings.HasSuffix(pattern, "/") {
		return pattern + "**"
	}

	if hasGlobMeta(pattern) {
		return pattern
	}

	if info, err := os.Stat(pattern); err == nil && info.IsDir() {
		return filepath.Join(pattern, "**")
	}

	return pattern
}

// Open opens a report file for reading.
func (a *LocalReportFSAdapter) Open(_ context.Context, path m.Path) (io.ReadCloser, error) {
	// #nosec G304 - report paths come from the configured patterns
	return os.Open(string(path))
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalReportFSAdapter) FileInfo(_ context.Context, path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// ReadFile loads file contents from disk.
func (a *LocalReportFSAdapter) ReadFile(_ context.Context, path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// WriteFile writes content to path, creating missing parent directories.
func (a *LocalReportFSAdapter) WriteFile(_ context.Context, path m.Path, content []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return err
	}

	return os.WriteFile(string(path), content, perm)
}

// JoinPath joins path elements into a single path.
func (a *LocalReportFSAdapter) JoinPath(_ context.Context, elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}

func hasGlobMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// errEscapesRoot marks a path whose ".." segments climb above its root.
var errEscapesRoot = errors.New("path escapes its root")

// normalizePath removes "." and ".." segments and duplicate separators. It
// fails for empty paths and for paths whose ".." segments climb above the
// root (absolute) or above the first segment (relative). A trailing separator
// is preserved.
func normalizePath(path string) (string, bool) {
	cleaned, err := normalize(path)
	if err != nil {
		return "", false
	}

	return cleaned, true
}

func normalize(path string) (string, error) {
	if path == "" {
		return "", errEscapesRoot
	}

	volume := filepath.VolumeName(path)
	rest := filepath.ToSlash(path[len(volume):])
	absolute := strings.HasPrefix(rest, "/")
	trailing := strings.HasSuffix(rest, "/") && len(rest) > 1

	var segments []string

	for _, segment := range strings.Split(rest, "/") {
		switch segment {
		case "", ".":
			continue
		case "..":
			if len(segments) == 0 {
				return "", errEscapesRoot
			}

			segments = segments[:len(segments)-1]
		default:
			segments = append(segments, segment)
		}
	}

	joined := strings.Join(segments, "/")
	if absolute {
		joined = "/" + joined
	}

	if trailing && len(segments) > 0 {
		joined += "/"
	}

	if joined == "" {
		joined = "."
	}

	return volume + filepath.FromSlash(joined), nil
}
