package domain

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	m "gooze.dev/pkg/testimport/internal/model"
)

const nunitParserName = "nunit"

// Attribute fallback chains of the flat result summary. The first attribute
// present wins; an absent chain resolves to zero.
var (
	nunitTotal        = intField{names: []string{"total"}, required: true}
	nunitFailures     = intField{names: []string{"failures", "failed"}}
	nunitErrors       = intField{names: []string{"errors"}}
	nunitInconclusive = intField{names: []string{"inconclusive"}}
	nunitIgnored      = intField{names: []string{"ignored", "not-run"}}
	nunitSkipped      = intField{names: []string{"skipped"}}
)

// NUnitParser reads the rolled-up counts on the root element of NUnit 2 and
// NUnit 3 result files. It has no per-test detail and no duration.
type NUnitParser struct{}

// NewNUnitParser creates an NUnitParser.
func NewNUnitParser() *NUnitParser {
	return &NUnitParser{}
}

// Name implements ReportParser.
func (p *NUnitParser) Name() string {
	return nunitParserName
}

// Parse implements ReportParser. Everything is computed before the single
// contribution is returned, so a failure never leaves partial counts.
func (p *NUnitParser) Parse(r io.Reader) (Contribution, error) {
	dec, rr := newDecoder(r)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return Contribution{}, fmt.Errorf("%w: no root element", ErrFormatMismatch)
		}

		if err != nil {
			if readErr := rr.readFailure(); readErr != nil {
				return Contribution{}, readErr
			}

			return Contribution{}, fmt.Errorf("%w: %v", ErrFormatMismatch, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			delta, err := p.summary(t)
			if err != nil {
				return Contribution{}, &MalformedReportError{Parser: nunitParserName, Reason: err}
			}

			return Contribution{Delta: delta}, nil
		case xml.CharData:
			if !isBlank(t) {
				return Contribution{}, fmt.Errorf("%w: text before the root element", ErrFormatMismatch)
			}
		}
	}
}

func (p *NUnitParser) summary(root xml.StartElement) (m.Aggregate, error) {
	var values [6]int

	fields := []intField{nunitTotal, nunitFailures, nunitErrors, nunitInconclusive, nunitIgnored, nunitSkipped}
	for i, field := range fields {
		value, _, err := field.resolve(root)
		if err != nil {
			return m.Aggregate{}, err
		}

		values[i] = value
	}

	total, failures, errs, inconclusive, ignored, skipped := values[0], values[1], values[2], values[3], values[4], values[5]

	// An explicit zero is indistinguishable from an absent attribute here.
	if skipped == 0 {
		skipped = inconclusive + ignored
	}

	return m.Aggregate{
		Tests:    total - inconclusive,
		Passed:   total - errs - failures - inconclusive,
		Skipped:  skipped,
		Failures: failures,
		Errors:   errs,
	}, nil
}
