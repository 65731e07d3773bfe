package domain

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// reportReader remembers the last error of the underlying reader so that
// decoding failures can be told apart from I/O failures.
type reportReader struct {
	r   io.Reader
	err error
}

func (rr *reportReader) Read(p []byte) (int, error) {
	n, err := rr.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		rr.err = err
	}

	return n, err
}

// newDecoder returns an XML decoder that drops a leading byte order mark
// (UTF-16 documents are decoded to UTF-8) and transcodes documents declaring
// a legacy encoding (ISO-8859-1, windows-1252, ...).
func newDecoder(r io.Reader) (*xml.Decoder, *reportReader) {
	rr := &reportReader{r: r}
	dec := xml.NewDecoder(transform.NewReader(rr, unicode.BOMOverride(transform.Nop)))
	dec.CharsetReader = charsetReader

	return dec, rr
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	// Only a byte order mark gets a UTF-16 document this far, and it has
	// already been decoded.
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(label)), "utf-16") {
		return input, nil
	}

	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q: %w", label, err)
	}

	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}

	return enc.NewDecoder().Reader(input), nil
}

// readFailure returns the I/O error behind a decoder error, if any.
func (rr *reportReader) readFailure() error {
	if rr.err == nil {
		return nil
	}

	return fmt.Errorf("read report: %w", rr.err)
}

// isBlank reports whether char data outside the root element is only whitespace.
func isBlank(data xml.CharData) bool {
	return len(bytes.TrimSpace(data)) == 0
}

// lookupAttr returns the first attribute with the given local name.
func lookupAttr(start xml.StartElement, name string) (string, bool) {
	for _, attr := range start.Attr {
		if attr.Name.Local == name {
			return attr.Value, true
		}
	}

	return "", false
}

// attrOrEmpty returns the attribute value or "" when it is absent.
func attrOrEmpty(start xml.StartElement, name string) string {
	value, _ := lookupAttr(start, name)
	return value
}

// intField resolves an integer through an ordered list of candidate
// attribute names. The first present attribute wins.
type intField struct {
	names    []string
	required bool
}

// resolve returns the value, whether any candidate was present, and an error
// when the winning attribute is not an integer or a required one is missing.
func (f intField) resolve(start xml.StartElement) (int, bool, error) {
	for _, name := range f.names {
		raw, ok := lookupAttr(start, name)
		if !ok {
			continue
		}

		value, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return 0, true, fmt.Errorf("expected an integer instead of %q for the attribute %q", raw, name)
		}

		return value, true, nil
	}

	if f.required {
		return 0, false, fmt.Errorf("missing attribute %q in element <%s>", f.names[0], start.Name.Local)
	}

	return 0, false, nil
}
