package model

import "time"

// FileStatus describes how the parser chain handled a report file.
type FileStatus string

const (
	// FileParsed means a parser claimed the file and its counts were committed.
	FileParsed FileStatus = "parsed"
	// FileEmpty means the file is a well-formed report with no test suites.
	FileEmpty FileStatus = "empty"
	// FileUnrecognized means every parser declined the file.
	FileUnrecognized FileStatus = "unrecognized"
	// FileMalformed means a parser recognized the format but the data is broken.
	FileMalformed FileStatus = "malformed"
	// FileFailed means the file could not be read or transformed.
	FileFailed FileStatus = "failed"
)

// FileResult is the outcome of importing a single report file.
type FileResult struct {
	Path   Path
	Parser string
	Status FileStatus
	Delta  Aggregate
	Err    error
}

// Committed reports whether the file contributed to the run aggregate.
func (r FileResult) Committed() bool {
	return r.Status == FileParsed || r.Status == FileEmpty
}

// Record converts the result into its persisted form.
func (r FileResult) Record() FileRecord {
	record := FileRecord{
		Path:   r.Path,
		Parser: r.Parser,
		Status: r.Status,
		Delta:  r.Delta,
	}

	if r.Err != nil {
		record.Error = r.Err.Error()
	}

	return record
}

// RunResult is the outcome of one import run.
type RunResult struct {
	ID        string
	StartedAt time.Time
	Aggregate Aggregate
	Files     []FileResult
	Measures  *Measures // nil when the reports contain no test cases
}

// CountByStatus returns how many files ended with the given status.
func (r RunResult) CountByStatus(status FileStatus) int {
	count := 0

	for _, file := range r.Files {
		if file.Status == status {
			count++
		}
	}

	return count
}

// Stored converts the run into the document written to the result file.
func (r RunResult) Stored(shard string) StoredResult {
	files := make([]FileRecord, 0, len(r.Files))
	for _, file := range r.Files {
		files = append(files, file.Record())
	}

	return StoredResult{
		Version:   StoredResultVersion,
		RunID:     r.ID,
		CreatedAt: r.StartedAt,
		Shard:     shard,
		Aggregate: r.Aggregate,
		Measures:  r.Measures,
		Files:     files,
	}
}
