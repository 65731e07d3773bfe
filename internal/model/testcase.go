package model

// TestStatus is the outcome of a single test case.
type TestStatus string

const (
	// StatusOK marks a test case that ran and passed.
	StatusOK TestStatus = "ok"
	// StatusFailure marks a failed assertion.
	StatusFailure TestStatus = "failure"
	// StatusError marks a test case that raised an unexpected error.
	StatusError TestStatus = "error"
	// StatusSkipped marks a test case that was not executed.
	StatusSkipped TestStatus = "skipped"
)

// TestCase is the per-case detail produced by the hierarchical suite parser.
type TestCase struct {
	Name       string // classname/name when a classname is present
	Status     TestStatus
	TimeMillis int64
	Message    string
	StackTrace string
	Suite      string
	File       string // test case filename, else the enclosing suite filename
}

// Failed reports whether the case counts against the success density.
func (tc TestCase) Failed() bool {
	return tc.Status == StatusFailure || tc.Status == StatusError
}
