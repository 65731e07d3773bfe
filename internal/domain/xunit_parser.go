package domain

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	m "gooze.dev/pkg/testimport/internal/model"
)

const (
	xunitParserName = "xunit"

	suitesElement = "testsuites"
	suiteElement  = "testsuite"
	caseElement   = "testcase"

	skippedElement = "skipped"
	failureElement = "failure"
	errorElement   = "error"

	// notRunStatus marks test cases googletest did not execute.
	notRunStatus = "notrun"

	timePrecision = 3

	// maxMillis is 2^63, the first float64 that does not fit in an int64.
	maxMillis = float64(math.MaxInt64)
)

// XUnitParser reads JUnit-style reports whose testsuite elements may be
// nested to any depth. It streams the document and keeps an explicit stack of
// enclosing suites instead of recursing.
type XUnitParser struct{}

// NewXUnitParser creates an XUnitParser.
func NewXUnitParser() *XUnitParser {
	return &XUnitParser{}
}

// Name implements ReportParser.
func (p *XUnitParser) Name() string {
	return xunitParserName
}

// Parse implements ReportParser.
//
// A document without any root element is an empty report. A document is
// claimed as soon as a testsuite element (at any depth) or a testsuites root
// is seen; errors after that point are malformed-report errors.
func (p *XUnitParser) Parse(r io.Reader) (Contribution, error) {
	dec, rr := newDecoder(r)

	scan := &xunitScan{dec: dec, rr: rr}
	if err := scan.run(); err != nil {
		return Contribution{}, err
	}

	scan.result.Empty = scan.suites == 0

	return scan.result, nil
}

// suiteFrame is the context a test case inherits from its nearest suite.
type suiteFrame struct {
	name  string
	file  string
	depth int
}

type xunitScan struct {
	dec *xml.Decoder
	rr  *reportReader

	stack   []suiteFrame
	depth   int
	sawRoot bool
	claimed bool
	suites  int

	result Contribution
}

func (s *xunitScan) run() error {
	for {
		tok, err := s.dec.Token()
		if errors.Is(err, io.EOF) {
			return s.finish()
		}

		if err != nil {
			return s.fail(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if err := s.start(t); err != nil {
				return err
			}
		case xml.EndElement:
			s.end()
		case xml.CharData:
			if !s.sawRoot && !isBlank(t) {
				return fmt.Errorf("%w: text before the root element", ErrFormatMismatch)
			}
		}
	}
}

func (s *xunitScan) finish() error {
	if !s.sawRoot {
		return nil
	}

	if !s.claimed {
		return fmt.Errorf("%w: no <%s> element found", ErrFormatMismatch, suiteElement)
	}

	return nil
}

func (s *xunitScan) fail(err error) error {
	if readErr := s.rr.readFailure(); readErr != nil {
		return readErr
	}

	if s.claimed {
		return malformed(xunitParserName, "%w", err)
	}

	return fmt.Errorf("%w: %v", ErrFormatMismatch, err)
}

func (s *xunitScan) start(t xml.StartElement) error {
	if !s.sawRoot {
		s.sawRoot = true
		s.claimed = t.Name.Local == suitesElement
	}

	if len(s.stack) == 0 {
		s.depth++

		if t.Name.Local == suiteElement {
			s.pushSuite(t, suiteFrame{})
		}

		return nil
	}

	// Inside a suite every other child subtree is consumed, so t is always a
	// direct child of the innermost suite.
	parent := s.stack[len(s.stack)-1]

	switch t.Name.Local {
	case suiteElement:
		s.depth++
		s.pushSuite(t, parent)

		return nil
	case caseElement:
		return s.parseCase(t, parent)
	default:
		return s.skip()
	}
}

func (s *xunitScan) end() {
	if n := len(s.stack); n > 0 && s.stack[n-1].depth == s.depth {
		s.stack = s.stack[:n-1]
	}

	s.depth--
}

func (s *xunitScan) pushSuite(t xml.StartElement, parent suiteFrame) {
	s.claimed = true
	s.suites++

	frame := suiteFrame{
		name:  attrOrEmpty(t, "name"),
		file:  parent.file,
		depth: s.depth,
	}

	if file, ok := lookupAttr(t, "filename"); ok {
		frame.file = file
	}

	s.stack = append(s.stack, frame)
}

func (s *xunitScan) parseCase(t xml.StartElement, suite suiteFrame) error {
	name := attrOrEmpty(t, "name")
	if classname, ok := lookupAttr(t, "classname"); ok {
		name = classname + "/" + name
	}

	tc := m.TestCase{
		Name:   name,
		Status: m.StatusOK,
		Suite:  suite.name,
		File:   suite.file,
	}

	if file, ok := lookupAttr(t, "filename"); ok {
		tc.File = file
	}

	millis, err := parseTimeAttr(t)
	if err != nil {
		return malformed(xunitParserName, "test case %q: %w", name, err)
	}

	tc.TimeMillis = millis

	if attrOrEmpty(t, "status") == notRunStatus {
		tc.Status = m.StatusSkipped

		if err := s.skip(); err != nil {
			return err
		}
	} else if err := s.readOutcome(&tc); err != nil {
		return err
	}

	s.result.Delta.Add(tc.Status, tc.TimeMillis)
	s.result.Cases = append(s.result.Cases, tc)

	return nil
}

// readOutcome inspects only the first child element of a test case and
// consumes the rest of it.
func (s *xunitScan) readOutcome(tc *m.TestCase) error {
	for {
		tok, err := s.dec.Token()
		if err != nil {
			return s.fail(err)
		}

		switch t := tok.(type) {
		case xml.EndElement:
			return nil
		case xml.StartElement:
			switch t.Name.Local {
			case skippedElement:
				tc.Status = m.StatusSkipped

				if err := s.skip(); err != nil {
					return err
				}
			case failureElement, errorElement:
				tc.Status = m.StatusFailure
				if t.Name.Local == errorElement {
					tc.Status = m.StatusError
				}

				tc.Message = attrOrEmpty(t, "message")

				stack, err := s.collectText()
				if err != nil {
					return err
				}

				tc.StackTrace = stack
			default:
				if err := s.skip(); err != nil {
					return err
				}
			}

			return s.skip()
		}
	}
}

// collectText gathers all character data below the current element.
func (s *xunitScan) collectText() (string, error) {
	var b strings.Builder

	for depth := 1; depth > 0; {
		tok, err := s.dec.Token()
		if err != nil {
			return "", s.fail(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			b.Write(t)
		}
	}

	return b.String(), nil
}

func (s *xunitScan) skip() error {
	if err := s.dec.Skip(); err != nil {
		return s.fail(err)
	}

	return nil
}

// parseTimeAttr converts the time attribute (seconds) to milliseconds. A
// missing or empty attribute is zero.
func parseTimeAttr(t xml.StartElement) (int64, error) {
	raw, ok := lookupAttr(t, "time")
	if !ok || raw == "" {
		return 0, nil
	}

	seconds, err := parseDecimal(raw)
	if err != nil {
		return 0, err
	}

	if math.IsNaN(seconds) {
		return 0, nil
	}

	millis := scaleHalfUp(seconds*1000, timePrecision)
	if millis >= maxMillis || millis < -maxMillis {
		return 0, fmt.Errorf("cannot parse time %q: value out of range", raw)
	}

	return int64(millis), nil
}

// parseDecimal parses a locale-invariant decimal. English grouping separators
// are accepted.
func parseDecimal(raw string) (float64, error) {
	value := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")

	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse time %q: %w", raw, err)
	}

	if math.IsInf(v, 0) {
		return 0, fmt.Errorf("cannot parse time %q: value out of range", raw)
	}

	return v, nil
}
