package domain

import (
	"errors"
	"fmt"
	"io"

	m "gooze.dev/pkg/testimport/internal/model"
)

// ErrFormatMismatch is returned by a parser that does not recognize the
// document. The chain moves on to the next parser.
var ErrFormatMismatch = errors.New("report format not recognized")

// ErrMalformedReport is matched by every MalformedReportError.
var ErrMalformedReport = errors.New("malformed report")

// MalformedReportError is returned by a parser that recognized the document
// but could not interpret its data. The chain stops for that file.
type MalformedReportError struct {
	Parser string
	Reason error
}

func (e *MalformedReportError) Error() string {
	return fmt.Sprintf("malformed %s report: %v", e.Parser, e.Reason)
}

// Unwrap exposes both the sentinel and the underlying reason.
func (e *MalformedReportError) Unwrap() []error {
	return []error{ErrMalformedReport, e.Reason}
}

func malformed(parser string, format string, args ...any) error {
	return &MalformedReportError{Parser: parser, Reason: fmt.Errorf(format, args...)}
}

// Contribution is what a parser extracted from one report file. It is
// committed to the run aggregate only after the whole file parsed.
type Contribution struct {
	Delta m.Aggregate
	Cases []m.TestCase
	Empty bool
}

// ReportParser interprets one report format.
//
// Parse returns ErrFormatMismatch when the document is not in its format, a
// *MalformedReportError when it is but the data is broken, and any other error
// when reading the document failed.
type ReportParser interface {
	Name() string
	Parse(r io.Reader) (Contribution, error)
}

// DefaultParsers returns the parsers in the order the chain tries them.
func DefaultParsers() []ReportParser {
	return []ReportParser{
		NewXUnitParser(),
		NewNUnitParser(),
	}
}
