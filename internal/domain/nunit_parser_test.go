package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "gooze.dev/pkg/testimport/internal/model"
)

func TestNUnitParser_Fixtures(t *testing.T) {
	got, err := parseFixture(t, NewNUnitParser(), "nunit/ConsoleApplicationCSharp.Test.unittest.report.xml")
	require.NoError(t, err)
	assert.Equal(t, m.Aggregate{Tests: 2, Passed: 2}, got.Delta)
	assert.Empty(t, got.Cases)

	got, err = parseFixture(t, NewNUnitParser(), "nunit/nunit3-test-run.xml")
	require.NoError(t, err)
	assert.Equal(t, m.Aggregate{Tests: 9, Passed: 7, Skipped: 2, Failures: 2}, got.Delta)
}

func TestNUnitParser_ByteOrderMark(t *testing.T) {
	got, err := parseFixture(t, NewNUnitParser(), "nunit/bom-utf8.xml")
	require.NoError(t, err)
	assert.Equal(t, m.Aggregate{Tests: 3, Passed: 2, Failures: 1}, got.Delta)

	got, err = NewNUnitParser().Parse(strings.NewReader("\ufeff<test-results total=\"3\" failures=\"1\"/>"))
	require.NoError(t, err)
	assert.Equal(t, m.Aggregate{Tests: 3, Passed: 2, Failures: 1}, got.Delta)
}

func TestNUnitParser_MissingTotalIsMalformed(t *testing.T) {
	got, err := parseFixture(t, NewNUnitParser(), "nunit/invalid.xml")
	require.ErrorIs(t, err, ErrMalformedReport)
	assert.True(t, got.Delta.IsZero())
	assert.Contains(t, err.Error(), `missing attribute "total"`)
}

func TestNUnitParser_Attributes(t *testing.T) {
	tests := []struct {
		name string
		root string
		want m.Aggregate
	}{
		{
			name: "total only",
			root: `<test-results total="2"/>`,
			want: m.Aggregate{Tests: 2, Passed: 2},
		},
		{
			name: "failed is the fallback for failures",
			root: `<test-run total="4" failed="1"/>`,
			want: m.Aggregate{Tests: 4, Passed: 3, Failures: 1},
		},
		{
			name: "failures wins over failed",
			root: `<test-run total="4" failures="2" failed="1"/>`,
			want: m.Aggregate{Tests: 4, Passed: 2, Failures: 2},
		},
		{
			name: "not-run is the fallback for ignored",
			root: `<test-results total="5" not-run="2"/>`,
			want: m.Aggregate{Tests: 5, Passed: 5, Skipped: 2},
		},
		{
			name: "inconclusive is excluded from tests",
			root: `<test-results total="6" errors="1" inconclusive="2" ignored="1"/>`,
			want: m.Aggregate{Tests: 4, Passed: 3, Skipped: 3, Errors: 1},
		},
		{
			name: "explicit skipped wins when non-zero",
			root: `<test-run total="6" inconclusive="1" skipped="4"/>`,
			want: m.Aggregate{Tests: 5, Passed: 5, Skipped: 4},
		},
		{
			name: "explicit zero skipped is recomputed",
			root: `<test-results total="6" ignored="2" skipped="0"/>`,
			want: m.Aggregate{Tests: 6, Passed: 6, Skipped: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewNUnitParser().Parse(strings.NewReader(tt.root))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Delta)
			assert.Zero(t, got.Delta.DurationMillis)
		})
	}
}

func TestNUnitParser_NonIntegerAttributeIsMalformed(t *testing.T) {
	for _, root := range []string{
		`<test-results total="two"/>`,
		`<test-results total="2" failures="1.5"/>`,
	} {
		_, err := NewNUnitParser().Parse(strings.NewReader(root))
		require.ErrorIs(t, err, ErrMalformedReport, root)
	}
}

func TestNUnitParser_FormatMismatch(t *testing.T) {
	for _, input := range []string{"", `<?xml version="1.0"?>`, "plain text", "<<"} {
		_, err := NewNUnitParser().Parse(strings.NewReader(input))
		require.ErrorIs(t, err, ErrFormatMismatch, input)
	}
}
