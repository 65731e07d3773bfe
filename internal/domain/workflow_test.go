package domain

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gooze.dev/pkg/testimport/internal/adapter"
	adaptermocks "gooze.dev/pkg/testimport/internal/adapter/mocks"
	"gooze.dev/pkg/testimport/internal/controller"
	controllermocks "gooze.dev/pkg/testimport/internal/controller/mocks"
	m "gooze.dev/pkg/testimport/internal/model"
	"gooze.dev/pkg/testimport/pkg"
)

func expectUILifecycle(ui *controllermocks.MockUI) {
	ui.On("Start", mock.Anything, mock.Anything).Return(nil).Once()
	ui.On("Close", mock.Anything).Return().Once()
}

func spillIn(t *testing.T) WorkflowOption {
	dir := t.TempDir()

	return WithSpillFactory(func() (pkg.FileSpill[m.TestCase], error) {
		return pkg.NewFileSpill[m.TestCase](dir)
	})
}

func TestWorkflow_RunSkipsSubModules(t *testing.T) {
	ui := controllermocks.NewMockUI(t)
	store := adaptermocks.NewMockReportStore(t)

	expectUILifecycle(ui)
	ui.On("DisplayNotice", mock.Anything, mock.MatchedBy(func(msg string) bool {
		return assert.Contains(t, msg, "module-a")
	})).Return().Once()

	w := NewWorkflow(store, ui, newTestImporter(nil))

	err := w.Run(context.Background(), RunArgs{
		Patterns:  []string{"**/*.xml"},
		BaseDir:   testdataDir(t),
		ModuleKey: "module-a",
	})
	require.NoError(t, err)
	store.AssertNotCalled(t, "SaveResult", mock.Anything, mock.Anything, mock.Anything)
}

func TestWorkflow_Run(t *testing.T) {
	ui := controllermocks.NewMockUI(t)
	store := adaptermocks.NewMockReportStore(t)
	history := adaptermocks.NewMockHistoryStore(t)
	publisher := adaptermocks.NewMockResultPublisher(t)
	output := m.Path(t.TempDir())
	resultPath := m.Path(filepath.Join(string(output), adapter.ResultFileName))

	expectUILifecycle(ui)
	ui.On("DisplayReportFiles", mock.Anything, fixturePaths(t, "xunit/xunit-result-2.xml"), 0, 1).Return(nil).Once()
	ui.On("DisplayFileResult", mock.Anything, mock.MatchedBy(func(r m.FileResult) bool {
		return r.Status == m.FileParsed && r.Parser == "xunit"
	})).Return().Once()
	ui.On("DisplaySummary", mock.Anything, mock.MatchedBy(func(s controller.Summary) bool {
		return s.FailedTotal == 2 &&
			len(s.FailedCases) == 2 &&
			s.ResultPath == resultPath &&
			s.Location == "s3://bucket/key" &&
			s.Run.Aggregate.Tests == 5
	})).Return(nil).Once()
	ui.On("Wait", mock.Anything).Return().Once()

	store.On("SaveResult", mock.Anything, output, mock.MatchedBy(func(r m.StoredResult) bool {
		return r.Shard == "" && r.Aggregate.Tests == 5 && r.Measures != nil && len(r.Files) == 1
	})).Return(resultPath, nil).Once()

	publisher.On("Publish", mock.Anything, mock.Anything).Return("s3://bucket/key", nil).Once()

	history.On("Start", mock.Anything).Return(nil).Once()
	history.On("RecordRun", mock.Anything, mock.MatchedBy(func(run m.RunSummary) bool {
		return run.Command == "run" &&
			run.Files == 1 &&
			run.SuccessDensity != nil &&
			*run.SuccessDensity == 60
	})).Return(nil).Once()
	history.On("Stop").Return(nil).Once()

	w := NewWorkflow(store, ui, newTestImporter(nil), WithHistoryStore(history), WithPublisher(publisher), spillIn(t))

	err := w.Run(context.Background(), RunArgs{
		Patterns: []string{"xunit/xunit-result-2.xml"},
		BaseDir:  testdataDir(t),
		Output:   output,
		Parallel: 2,
	})
	require.NoError(t, err)
}

func TestWorkflow_RunShard(t *testing.T) {
	ui := controllermocks.NewMockUI(t)
	store := adaptermocks.NewMockReportStore(t)
	output := m.Path(t.TempDir())
	shardDir := m.Path(filepath.Join(string(output), "shard_1"))

	all := fixturePaths(t,
		"xunit/xunit-result-2.xml",
		"xunit/xunit-result-SAMPLE.xml",
		"xunit/xunit-result-SAMPLE_with_fileName.xml",
		"xunit/xunit-result-skippedonly.xml",
	)

	expectUILifecycle(ui)
	ui.On("DisplayReportFiles", mock.Anything, []m.Path{all[1], all[3]}, 1, 2).Return(nil).Once()
	ui.On("DisplayFileResult", mock.Anything, mock.Anything).Return().Twice()
	ui.On("DisplaySummary", mock.Anything, mock.Anything).Return(nil).Once()
	ui.On("Wait", mock.Anything).Return().Once()

	store.On("SaveResult", mock.Anything, shardDir, mock.MatchedBy(func(r m.StoredResult) bool {
		return r.Shard == "1/2" && len(r.Files) == 2
	})).Return(m.Path(filepath.Join(string(shardDir), adapter.ResultFileName)), nil).Once()

	w := NewWorkflow(store, ui, newTestImporter(nil), spillIn(t))

	err := w.Run(context.Background(), RunArgs{
		Patterns:   []string{"xunit/xunit-result-[2Ss]*.xml"},
		BaseDir:    testdataDir(t),
		Output:     output,
		ShardIndex: 1,
		ShardCount: 2,
	})
	require.NoError(t, err)
}

func TestWorkflow_RunSinkFailuresAreNotFatal(t *testing.T) {
	ui := controllermocks.NewMockUI(t)
	store := adaptermocks.NewMockReportStore(t)
	history := adaptermocks.NewMockHistoryStore(t)
	publisher := adaptermocks.NewMockResultPublisher(t)

	expectUILifecycle(ui)
	ui.On("DisplayReportFiles", mock.Anything, mock.Anything, 0, 1).Return(nil).Once()
	ui.On("DisplayFileResult", mock.Anything, mock.Anything).Return().Once()
	ui.On("DisplayNotice", mock.Anything, "Upload failed: access denied").Return().Once()
	ui.On("DisplayNotice", mock.Anything, "Run history not updated: locked").Return().Once()
	ui.On("DisplaySummary", mock.Anything, mock.MatchedBy(func(s controller.Summary) bool {
		return s.Location == ""
	})).Return(nil).Once()
	ui.On("Wait", mock.Anything).Return().Once()

	store.On("SaveResult", mock.Anything, mock.Anything, mock.Anything).Return(m.Path("out/result.yaml"), nil).Once()
	publisher.On("Publish", mock.Anything, mock.Anything).Return("", errors.New("access denied")).Once()
	history.On("Start", mock.Anything).Return(errors.New("locked")).Once()

	w := NewWorkflow(store, ui, newTestImporter(nil), WithHistoryStore(history), WithPublisher(publisher), spillIn(t))

	err := w.Run(context.Background(), RunArgs{
		Patterns: []string{"nunit/nunit3-test-run.xml"},
		BaseDir:  testdataDir(t),
		Output:   "out",
	})
	require.NoError(t, err)
}

func TestWorkflow_RunSaveFailure(t *testing.T) {
	ui := controllermocks.NewMockUI(t)
	store := adaptermocks.NewMockReportStore(t)
	saveErr := errors.New("read-only file system")

	expectUILifecycle(ui)
	ui.On("DisplayReportFiles", mock.Anything, mock.Anything, 0, 1).Return(nil).Once()
	store.On("SaveResult", mock.Anything, mock.Anything, mock.Anything).Return(m.Path(""), saveErr).Once()

	w := NewWorkflow(store, ui, newTestImporter(nil), spillIn(t))

	err := w.Run(context.Background(), RunArgs{BaseDir: testdataDir(t), Output: "out"})
	require.ErrorIs(t, err, saveErr)
}

func TestWorkflow_List(t *testing.T) {
	ui := controllermocks.NewMockUI(t)

	expectUILifecycle(ui)
	ui.On("DisplayReportFiles", mock.Anything, fixturePaths(t, "nunit/invalid.xml", "nunit/nunit3-test-run.xml"), 0, 1).Return(nil).Once()
	ui.On("Wait", mock.Anything).Return().Once()

	w := NewWorkflow(adaptermocks.NewMockReportStore(t), ui, newTestImporter(nil))

	err := w.List(context.Background(), ListArgs{
		Patterns: []string{"nunit/i*.xml", "nunit/nunit3-*.xml", "nunit/invalid.xml"},
		BaseDir:  testdataDir(t),
	})
	require.NoError(t, err)
}

func TestWorkflow_Merge(t *testing.T) {
	ui := controllermocks.NewMockUI(t)
	store := adapter.NewReportStore()
	ctx := context.Background()
	output := t.TempDir()

	shards := []m.StoredResult{
		{
			RunID:     "a",
			Shard:     "0/2",
			Aggregate: m.Aggregate{Tests: 3, Passed: 2, Failures: 1, DurationMillis: 10},
			Files:     []m.FileRecord{{Path: "a.xml", Parser: "xunit", Status: m.FileParsed}},
		},
		{
			RunID:     "b",
			Shard:     "1/2",
			Aggregate: m.Aggregate{Tests: 2, Passed: 1, Errors: 1, DurationMillis: 5},
			Files:     []m.FileRecord{{Path: "b.xml", Status: m.FileMalformed, Error: "bad time"}},
		},
	}

	for i, shard := range shards {
		_, err := store.SaveResult(ctx, m.Path(filepath.Join(output, "shard_"+string(rune('0'+i)))), shard)
		require.NoError(t, err)
	}

	expectUILifecycle(ui)
	ui.On("DisplaySummary", mock.Anything, mock.MatchedBy(func(s controller.Summary) bool {
		return len(s.Run.Files) == 2 && s.Run.Files[1].Err != nil && s.Run.Measures != nil
	})).Return(nil).Once()
	ui.On("Wait", mock.Anything).Return().Once()

	w := NewWorkflow(store, ui, newTestImporter(nil))
	require.NoError(t, w.Merge(ctx, MergeArgs{Output: m.Path(output)}))

	merged, err := store.LoadResult(ctx, m.Path(filepath.Join(output, adapter.ResultFileName)))
	require.NoError(t, err)

	assert.Equal(t, m.Aggregate{Tests: 5, Passed: 3, Failures: 1, Errors: 1, DurationMillis: 15}, merged.Aggregate)
	require.NotNil(t, merged.Measures)
	assert.InDelta(t, 60.0, merged.Measures.SuccessDensity, 0.001)
	assert.Empty(t, merged.Shard)
	assert.Len(t, merged.Files, 2)
}

func TestWorkflow_MergeWithoutShards(t *testing.T) {
	ui := controllermocks.NewMockUI(t)
	expectUILifecycle(ui)

	w := NewWorkflow(adapter.NewReportStore(), ui, newTestImporter(nil))

	err := w.Merge(context.Background(), MergeArgs{Output: m.Path(t.TempDir())})
	require.ErrorContains(t, err, "no shard results found")
}

func TestWorkflow_History(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		w := NewWorkflow(adaptermocks.NewMockReportStore(t), controllermocks.NewMockUI(t), newTestImporter(nil))

		err := w.History(context.Background(), HistoryArgs{Limit: 5})
		require.ErrorIs(t, err, ErrHistoryDisabled)
	})

	t.Run("lists runs", func(t *testing.T) {
		ui := controllermocks.NewMockUI(t)
		history := adaptermocks.NewMockHistoryStore(t)
		runs := []m.RunSummary{{ID: "run-1", Command: "run", CreatedAt: time.Now()}}

		expectUILifecycle(ui)
		ui.On("DisplayHistory", mock.Anything, runs).Return(nil).Once()
		ui.On("Wait", mock.Anything).Return().Once()

		history.On("Start", mock.Anything).Return(nil).Once()
		history.On("ListRuns", mock.Anything, 5).Return(runs, nil).Once()
		history.On("Stop").Return(nil).Once()

		w := NewWorkflow(adaptermocks.NewMockReportStore(t), ui, newTestImporter(nil), WithHistoryStore(history))

		require.NoError(t, w.History(context.Background(), HistoryArgs{Limit: 5}))
	})
}
