package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	m "gooze.dev/pkg/testimport/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// HistoryStore records a summary of every run in a local database.
type HistoryStore interface {
	Start(ctx context.Context) error
	Stop() error

	RecordRun(ctx context.Context, run m.RunSummary) error
	ListRuns(ctx context.Context, limit int) ([]m.RunSummary, error)
}

// historyRun is the database row behind m.RunSummary.
type historyRun struct {
	ID             uint   `gorm:"primaryKey"`
	RunID          string `gorm:"not null;uniqueIndex"`
	Command        string
	CreatedAt      time.Time `gorm:"index"`
	Files          int
	Tests          int
	Passed         int
	Skipped        int
	Failures       int
	Errors         int
	DurationMillis int64
	SuccessDensity *float64
}

func (historyRun) TableName() string {
	return "runs"
}

var _ HistoryStore = (*historyStore)(nil)

// History database drivers.
const (
	HistoryDriverSQLite   = "sqlite"
	HistoryDriverPostgres = "postgres"
)

type historyStore struct {
	driver string
	dsn    string
	db     *gorm.DB
}

// NewHistoryStore creates a HistoryStore. For the sqlite driver dsn is a file
// path, or ":memory:" for a throwaway database; for postgres it is a
// connection string.
func NewHistoryStore(driver, dsn string) HistoryStore {
	return &historyStore{driver: driver, dsn: dsn}
}

// Start opens the database and runs migrations.
func (s *historyStore) Start(ctx context.Context) error {
	var dialector gorm.Dialector

	switch s.driver {
	case HistoryDriverSQLite, "":
		if s.dsn != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(s.dsn), 0o750); err != nil {
				return fmt.Errorf("creating history directory: %w", err)
			}
		}

		dialector = sqlite.Open(s.dsn)
	case HistoryDriverPostgres:
		dialector = postgres.Open(s.dsn)
	default:
		return fmt.Errorf("unsupported history driver: %s", s.driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Discard})
	if err != nil {
		return fmt.Errorf("opening history database: %w", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&historyRun{}); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}

		return fmt.Errorf("running history migrations: %w", err)
	}

	s.db = db

	slog.Debug("History database connected", "driver", s.driver)

	return nil
}

// Stop closes the underlying database connection.
func (s *historyStore) Stop() error {
	if s.db == nil {
		return nil
	}

	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("getting underlying db: %w", err)
	}

	return sqlDB.Close()
}

// RecordRun inserts or updates the row keyed by the run id.
func (s *historyStore) RecordRun(ctx context.Context, run m.RunSummary) error {
	row := &historyRun{
		RunID:          run.ID,
		Command:        run.Command,
		CreatedAt:      run.CreatedAt,
		Files:          run.Files,
		Tests:          run.Aggregate.Tests,
		Passed:         run.Aggregate.Passed,
		Skipped:        run.Aggregate.Skipped,
		Failures:       run.Aggregate.Failures,
		Errors:         run.Aggregate.Errors,
		DurationMillis: run.Aggregate.DurationMillis,
		SuccessDensity: run.SuccessDensity,
	}

	result := s.db.WithContext(ctx).
		Where("run_id = ?", run.ID).
		Assign(row).
		FirstOrCreate(row)
	if result.Error != nil {
		return fmt.Errorf("recording run: %w", result.Error)
	}

	return nil
}

// ListRuns returns the most recent runs first. A limit of zero or less
// returns every run.
func (s *historyStore) ListRuns(ctx context.Context, limit int) ([]m.RunSummary, error) {
	var rows []historyRun

	query := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	runs := make([]m.RunSummary, 0, len(rows))
	for _, row := range rows {
		runs = append(runs, m.RunSummary{
			ID:        row.RunID,
			Command:   row.Command,
			CreatedAt: row.CreatedAt,
			Files:     row.Files,
			Aggregate: m.Aggregate{
				Tests:          row.Tests,
				Passed:         row.Passed,
				Skipped:        row.Skipped,
				Failures:       row.Failures,
				Errors:         row.Errors,
				DurationMillis: row.DurationMillis,
			},
			SuccessDensity: row.SuccessDensity,
		})
	}

	return runs, nil
}
