package model

// Aggregate accumulates test counts and execution time across report files.
//
// Passed is internal bookkeeping: it is never published as a measure, but it
// is kept so that aggregates persisted by sharded runs can be merged exactly.
type Aggregate struct {
	Tests          int   `yaml:"tests"`
	Passed         int   `yaml:"passed"`
	Skipped        int   `yaml:"skipped"`
	Failures       int   `yaml:"failures"`
	Errors         int   `yaml:"errors"`
	DurationMillis int64 `yaml:"duration_ms"`
}

// Merge adds every field of delta to the aggregate.
func (a *Aggregate) Merge(delta Aggregate) {
	a.Tests += delta.Tests
	a.Passed += delta.Passed
	a.Skipped += delta.Skipped
	a.Failures += delta.Failures
	a.Errors += delta.Errors
	a.DurationMillis += delta.DurationMillis
}

// Add records a single test case outcome.
func (a *Aggregate) Add(status TestStatus, durationMillis int64) {
	a.Tests++
	a.DurationMillis += durationMillis

	switch status {
	case StatusOK:
		a.Passed++
	case StatusSkipped:
		a.Skipped++
	case StatusFailure:
		a.Failures++
	case StatusError:
		a.Errors++
	}
}

// IsZero reports whether nothing has been accumulated.
func (a Aggregate) IsZero() bool {
	return a == Aggregate{}
}
