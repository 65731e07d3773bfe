package model

import "time"

// StoredResultVersion is the current layout of the result file.
const StoredResultVersion = 1

// FileRecord is the persisted form of a FileResult.
type FileRecord struct {
	Path   Path       `yaml:"path"`
	Parser string     `yaml:"parser,omitempty"`
	Status FileStatus `yaml:"status"`
	Error  string     `yaml:"error,omitempty"`
	Delta  Aggregate  `yaml:"delta"`
}

// StoredResult is the document written after every run and read back by the
// merge command.
type StoredResult struct {
	Version   int          `yaml:"version"`
	RunID     string       `yaml:"run_id"`
	CreatedAt time.Time    `yaml:"created_at"`
	Shard     string       `yaml:"shard,omitempty"`
	Aggregate Aggregate    `yaml:"aggregate"`
	Measures  *Measures    `yaml:"measures,omitempty"`
	Files     []FileRecord `yaml:"files"`
}

// RunSummary is one row of the run history.
type RunSummary struct {
	ID             string
	Command        string
	CreatedAt      time.Time
	Files          int
	Aggregate      Aggregate
	SuccessDensity *float64
}
