package domain

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gooze.dev/pkg/testimport/internal/adapter"
	m "gooze.dev/pkg/testimport/internal/model"
)

type stubParser struct {
	name  string
	err   error
	calls int
}

func (p *stubParser) Name() string { return p.name }

func (p *stubParser) Parse(r io.Reader) (Contribution, error) {
	p.calls++

	if _, err := io.ReadAll(r); err != nil {
		return Contribution{}, err
	}

	if p.err != nil {
		return Contribution{}, p.err
	}

	return Contribution{Delta: m.Aggregate{Tests: 1, Passed: 1}}, nil
}

func writeReport(t *testing.T, content string) m.Path {
	t.Helper()

	path := filepath.Join(t.TempDir(), "report.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return m.Path(path)
}

func TestParserChain_ParseFile(t *testing.T) {
	chain := NewParserChain(adapter.NewLocalReportFSAdapter())
	ctx := context.Background()

	tests := []struct {
		name       string
		fixture    string
		wantStatus m.FileStatus
		wantParser string
		wantTests  int
	}{
		{"xunit report", "xunit/xunit-result-2.xml", m.FileParsed, "xunit", 5},
		{"nunit report", "nunit/nunit3-test-run.xml", m.FileParsed, "nunit", 9},
		{"xunit report with byte order mark", "xunit/bom-utf8.xml", m.FileParsed, "xunit", 2},
		{"nunit report with byte order mark", "nunit/bom-utf8.xml", m.FileParsed, "nunit", 3},
		{"empty report", "xunit/empty.xml", m.FileEmpty, "xunit", 0},
		{"malformed xunit", "xunit/invalid-time-xunit-report.xml", m.FileMalformed, "xunit", 0},
		{"malformed nunit", "nunit/invalid.xml", m.FileMalformed, "nunit", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _ := chain.ParseFile(ctx, m.Path(filepath.Join("testdata", tt.fixture)))

			assert.Equal(t, tt.wantStatus, result.Status)
			assert.Equal(t, tt.wantParser, result.Parser)
			assert.Equal(t, tt.wantTests, result.Delta.Tests)
		})
	}
}

func TestParserChain_MalformedContributesNothing(t *testing.T) {
	chain := NewParserChain(adapter.NewLocalReportFSAdapter())

	result, cases := chain.ParseFile(context.Background(), "testdata/xunit/invalid-time-xunit-report.xml")

	assert.True(t, result.Delta.IsZero())
	assert.Nil(t, cases)
	assert.ErrorIs(t, result.Err, ErrMalformedReport)
	assert.False(t, result.Committed())
}

func TestParserChain_Unrecognized(t *testing.T) {
	chain := NewParserChain(adapter.NewLocalReportFSAdapter())
	path := writeReport(t, "<coverage line-rate=\"0.5\"><packages/></coverage>")

	result, _ := chain.ParseFile(context.Background(), path)

	assert.Equal(t, m.FileUnrecognized, result.Status)
	assert.Empty(t, result.Parser)
	assert.ErrorIs(t, result.Err, ErrFormatMismatch)
}

func TestParserChain_StopsAtFirstClaim(t *testing.T) {
	first := &stubParser{name: "first", err: ErrFormatMismatch}
	second := &stubParser{name: "second"}
	third := &stubParser{name: "third"}

	chain := NewParserChain(adapter.NewLocalReportFSAdapter(), first, second, third)
	result, _ := chain.ParseFile(context.Background(), writeReport(t, "<x/>"))

	assert.Equal(t, m.FileParsed, result.Status)
	assert.Equal(t, "second", result.Parser)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.Equal(t, 0, third.calls)
}

func TestParserChain_MalformedStopsChain(t *testing.T) {
	first := &stubParser{name: "first", err: malformed("first", "broken")}
	second := &stubParser{name: "second"}

	chain := NewParserChain(adapter.NewLocalReportFSAdapter(), first, second)
	result, _ := chain.ParseFile(context.Background(), writeReport(t, "<x/>"))

	assert.Equal(t, m.FileMalformed, result.Status)
	assert.Equal(t, 0, second.calls)
}

func TestParserChain_ReadFailures(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		chain := NewParserChain(adapter.NewLocalReportFSAdapter())

		result, _ := chain.ParseFile(context.Background(), m.Path(filepath.Join(t.TempDir(), "missing.xml")))

		assert.Equal(t, m.FileFailed, result.Status)
		assert.ErrorIs(t, result.Err, os.ErrNotExist)
	})

	t.Run("parser read error", func(t *testing.T) {
		readErr := errors.New("disk on fire")
		chain := NewParserChain(adapter.NewLocalReportFSAdapter(), &stubParser{name: "p", err: readErr})

		result, _ := chain.ParseFile(context.Background(), writeReport(t, "<x/>"))

		assert.Equal(t, m.FileFailed, result.Status)
		assert.ErrorIs(t, result.Err, readErr)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		chain := NewParserChain(adapter.NewLocalReportFSAdapter())
		result, _ := chain.ParseFile(ctx, writeReport(t, "<testsuite/>"))

		assert.Equal(t, m.FileFailed, result.Status)
		assert.ErrorIs(t, result.Err, context.Canceled)
	})
}
