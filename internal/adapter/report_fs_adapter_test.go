package adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "gooze.dev/pkg/testimport/internal/model"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"/a/b/../c", "/a/c", true},
		{"/a/./b//c", "/a/b/c", true},
		{"/a/b/", "/a/b/", true},
		{"/a/..", "/", true},
		{"/", "/", true},
		{"a/b/../c", "a/c", true},
		{"./a", "a", true},
		{"/../x", "", false},
		{"../x", "", false},
		{"a/../../x", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := normalizePath(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocalReportFSAdapter_ResolvePattern(t *testing.T) {
	a := NewLocalReportFSAdapter()
	ctx := context.Background()

	tests := []struct {
		name    string
		pattern string
		baseDir m.Path
		want    m.Path
		wantOK  bool
	}{
		{"absolute kept", "/reports/**/*.xml", "/base", "/reports/**/*.xml", true},
		{"absolute normalized", "/reports/x/../TEST-*.xml", "/base", "/reports/TEST-*.xml", true},
		{"relative joined", "target/reports/*.xml", "/base", "/base/target/reports/*.xml", true},
		{"parent of base", "../other/*.xml", "/base/module", "/base/other/*.xml", true},
		{"trailing separator kept", "reports/", "/base", "/base/reports/", true},
		{"escapes root", "../../../x.xml", "/base", "", false},
		{"blank", "  ", "/base", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := a.ResolvePattern(ctx, tt.pattern, tt.baseDir)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func setupReportTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	for _, rel := range []string{
		"module-a/TEST-one.xml",
		"module-a/nested/TEST-two.xml",
		"module-a/nested/notes.txt",
		"module-b/TEST-three.xml",
	} {
		writeTestFile(t, filepath.Join(root, rel), "<testsuite/>")
	}

	mustMkdir(t, filepath.Join(root, "module-c", "dir.xml"))

	return root
}

func TestLocalReportFSAdapter_Scan(t *testing.T) {
	a := NewLocalReportFSAdapter()
	ctx := context.Background()
	root := setupReportTree(t)

	rel := func(paths []m.Path) []string {
		out := make([]string, 0, len(paths))
		for _, p := range paths {
			r, err := filepath.Rel(root, string(p))
			require.NoError(t, err)
			out = append(out, filepath.ToSlash(r))
		}

		return out
	}

	t.Run("double star", func(t *testing.T) {
		files, err := a.Scan(ctx, []m.Path{m.Path(filepath.Join(root, "**", "*.xml"))})
		require.NoError(t, err)
		assert.Equal(t, []string{
			"module-a/TEST-one.xml",
			"module-a/nested/TEST-two.xml",
			"module-b/TEST-three.xml",
		}, rel(files))
	})

	t.Run("single star stays in one directory", func(t *testing.T) {
		files, err := a.Scan(ctx, []m.Path{m.Path(filepath.Join(root, "module-a", "*.xml"))})
		require.NoError(t, err)
		assert.Equal(t, []string{"module-a/TEST-one.xml"}, rel(files))
	})

	t.Run("question mark", func(t *testing.T) {
		files, err := a.Scan(ctx, []m.Path{m.Path(filepath.Join(root, "module-?", "TEST-*.xml"))})
		require.NoError(t, err)
		assert.Equal(t, []string{"module-a/TEST-one.xml", "module-b/TEST-three.xml"}, rel(files))
	})

	t.Run("directory pattern scans everything below", func(t *testing.T) {
		files, err := a.Scan(ctx, []m.Path{m.Path(filepath.Join(root, "module-a"))})
		require.NoError(t, err)
		assert.Equal(t, []string{
			"module-a/TEST-one.xml",
			"module-a/nested/TEST-two.xml",
			"module-a/nested/notes.txt",
		}, rel(files))
	})

	t.Run("trailing separator scans everything below", func(t *testing.T) {
		files, err := a.Scan(ctx, []m.Path{m.Path(filepath.Join(root, "module-b") + string(filepath.Separator))})
		require.NoError(t, err)
		assert.Equal(t, []string{"module-b/TEST-three.xml"}, rel(files))
	})

	t.Run("overlapping patterns are deduplicated", func(t *testing.T) {
		files, err := a.Scan(ctx, []m.Path{
			m.Path(filepath.Join(root, "**", "TEST-*.xml")),
			m.Path(filepath.Join(root, "module-a", "TEST-one.xml")),
		})
		require.NoError(t, err)
		assert.Len(t, files, 3)
	})

	t.Run("directories are never reported", func(t *testing.T) {
		files, err := a.Scan(ctx, []m.Path{m.Path(filepath.Join(root, "module-c", "*.xml"))})
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("invalid pattern is skipped", func(t *testing.T) {
		files, err := a.Scan(ctx, []m.Path{
			m.Path(filepath.Join(root, "module-[", "*.xml")),
			m.Path(filepath.Join(root, "module-b", "*.xml")),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"module-b/TEST-three.xml"}, rel(files))
	})

	t.Run("transformed copies are skipped", func(t *testing.T) {
		writeTestFile(t, filepath.Join(root, "module-b", "TEST-three.xml"+TransformedSuffix), "<testsuite/>")

		files, err := a.Scan(ctx, []m.Path{
			m.Path(filepath.Join(root, "module-b")),
			m.Path(filepath.Join(root, "**", "*")),
		})
		require.NoError(t, err)
		assert.NotContains(t, rel(files), "module-b/TEST-three.xml"+TransformedSuffix)
		assert.Contains(t, rel(files), "module-b/TEST-three.xml")
	})

	t.Run("no patterns", func(t *testing.T) {
		files, err := a.Scan(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := a.Scan(cancelled, []m.Path{m.Path(root)})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLocalReportFSAdapter_Files(t *testing.T) {
	a := NewLocalReportFSAdapter()
	ctx := context.Background()
	root := t.TempDir()

	path := a.JoinPath(ctx, root, "out", "nested", "file.yaml")
	require.NoError(t, a.WriteFile(ctx, path, []byte("hello"), 0o600))

	content, err := a.ReadFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	info, err := a.FileInfo(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size())

	rc, err := a.Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, rc.Close())

	_, err = a.Open(ctx, m.Path(filepath.Join(root, "missing")))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()

	mustMkdir(t, filepath.Dir(path))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(path, 0o750))
}
