package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gooze.dev/pkg/testimport/internal/adapter"
	m "gooze.dev/pkg/testimport/internal/model"
)

// ParserChain offers a report file to each parser in turn until one claims it.
type ParserChain interface {
	ParseFile(ctx context.Context, path m.Path) (m.FileResult, []m.TestCase)
}

type parserChain struct {
	adapter.ReportFSAdapter
	parsers []ReportParser
}

// NewParserChain creates a ParserChain. With no parsers it uses DefaultParsers.
func NewParserChain(fsAdapter adapter.ReportFSAdapter, parsers ...ReportParser) ParserChain {
	if len(parsers) == 0 {
		parsers = DefaultParsers()
	}

	return &parserChain{
		ReportFSAdapter: fsAdapter,
		parsers:         parsers,
	}
}

// ParseFile never returns an error: the outcome is carried by the result
// status. The delta in the result is only set when the file was claimed.
func (c *parserChain) ParseFile(ctx context.Context, path m.Path) (m.FileResult, []m.TestCase) {
	result := m.FileResult{Path: path}

	for _, parser := range c.parsers {
		if err := ctx.Err(); err != nil {
			result.Status = m.FileFailed
			result.Err = err

			return result, nil
		}

		contribution, err := c.parseWith(ctx, parser, path)

		switch {
		case err == nil:
			result.Parser = parser.Name()
			result.Delta = contribution.Delta
			result.Status = m.FileParsed

			if contribution.Empty {
				result.Status = m.FileEmpty
			}

			slog.Debug("Parsed report", "path", path, "parser", parser.Name(), "tests", contribution.Delta.Tests)

			return result, contribution.Cases
		case errors.Is(err, ErrFormatMismatch):
			slog.Debug("Parser declined report", "path", path, "parser", parser.Name())
			continue
		case errors.Is(err, ErrMalformedReport):
			slog.Error("Failed to parse report", "path", path, "parser", parser.Name(), "error", err)

			result.Parser = parser.Name()
			result.Status = m.FileMalformed
			result.Err = err

			return result, nil
		default:
			slog.Error("Failed to read report", "path", path, "parser", parser.Name(), "error", err)

			result.Status = m.FileFailed
			result.Err = err

			return result, nil
		}
	}

	slog.Warn("Report format not recognized", "path", path)

	result.Status = m.FileUnrecognized
	result.Err = fmt.Errorf("%s: %w", path, ErrFormatMismatch)

	return result, nil
}

func (c *parserChain) parseWith(ctx context.Context, parser ReportParser, path m.Path) (Contribution, error) {
	file, err := c.Open(ctx, path)
	if err != nil {
		return Contribution{}, fmt.Errorf("open report: %w", err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Warn("Failed to close report", "path", path, "error", err)
		}
	}()

	return parser.Parse(file)
}
