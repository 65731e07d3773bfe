package controller

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	units "github.com/docker/go-units"
	"github.com/olekukonko/tablewriter"
	m "gooze.dev/pkg/testimport/internal/model"
)

const notAvailable = "n/a"

func newTable(buffer *bytes.Buffer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(buffer)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	return table
}

func renderFilesTable(files []m.Path) string {
	var buffer bytes.Buffer

	table := newTable(&buffer, []string{"#", "Report"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})

	for i, file := range files {
		table.Append([]string{strconv.Itoa(i + 1), string(file)})
	}

	table.SetFooter([]string{"", fmt.Sprintf("Total Files %d", len(files))})
	table.Render()

	return buffer.String()
}

func renderFileResultsTable(files []m.FileResult) string {
	var buffer bytes.Buffer

	table := newTable(&buffer, []string{"Report", "Parser", "Status", "Tests"})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT,
	})

	for _, file := range files {
		parser := file.Parser
		if parser == "" {
			parser = "-"
		}

		table.Append([]string{string(file.Path), parser, string(file.Status), strconv.Itoa(file.Delta.Tests)})
	}

	table.Render()

	return buffer.String()
}

func renderMeasuresTable(agg m.Aggregate, measures *m.Measures) string {
	var buffer bytes.Buffer

	table := newTable(&buffer, []string{"Measure", "Value"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})

	if measures == nil {
		table.Append([]string{"Tests", "0"})
		table.Append([]string{"Success density", notAvailable})
	} else {
		table.Append([]string{"Tests", strconv.Itoa(measures.Tests)})
		table.Append([]string{"Passed", strconv.Itoa(agg.Passed)})
		table.Append([]string{"Skipped", strconv.Itoa(measures.Skipped)})
		table.Append([]string{"Failures", strconv.Itoa(measures.Failures)})
		table.Append([]string{"Errors", strconv.Itoa(measures.Errors)})
		table.Append([]string{"Success density", formatDensity(&measures.SuccessDensity)})
		table.Append([]string{"Execution time", formatMillis(measures.ExecutionTimeMillis)})
	}

	table.Render()

	return buffer.String()
}

func renderFailedCases(cases []m.TestCase, total int) string {
	if total == 0 {
		return ""
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Failed tests (%d):\n", total)

	for _, tc := range cases {
		fmt.Fprintf(&b, "  [%s] %s", tc.Status, tc.Name)

		if tc.File != "" {
			fmt.Fprintf(&b, " (%s)", tc.File)
		}

		b.WriteString("\n")

		if tc.Message != "" {
			fmt.Fprintf(&b, "      %s\n", firstLine(tc.Message))
		}
	}

	if hidden := total - len(cases); hidden > 0 {
		fmt.Fprintf(&b, "  ... and %d more\n", hidden)
	}

	return b.String()
}

func renderSummary(summary Summary) string {
	var b strings.Builder

	run := summary.Run
	fmt.Fprintf(&b, "Run %s: %d report file(s)", run.ID, len(run.Files))

	var problems []string

	for _, status := range []m.FileStatus{m.FileEmpty, m.FileUnrecognized, m.FileMalformed, m.FileFailed} {
		if n := run.CountByStatus(status); n > 0 {
			problems = append(problems, fmt.Sprintf("%d %s", n, status))
		}
	}

	if len(problems) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(problems, ", "))
	}

	b.WriteString("\n\n")

	if len(run.Files) > 0 {
		b.WriteString(renderFileResultsTable(run.Files))
		b.WriteString("\n")
	}

	b.WriteString(renderMeasuresTable(run.Aggregate, run.Measures))

	if failed := renderFailedCases(summary.FailedCases, summary.FailedTotal); failed != "" {
		b.WriteString("\n")
		b.WriteString(failed)
	}

	if summary.ResultPath != "" {
		fmt.Fprintf(&b, "\nResult written to %s\n", summary.ResultPath)
	}

	if summary.Location != "" {
		fmt.Fprintf(&b, "Result uploaded to %s\n", summary.Location)
	}

	return b.String()
}

func renderHistoryTable(runs []m.RunSummary, now time.Time) string {
	var buffer bytes.Buffer

	table := newTable(&buffer, []string{"Run", "Command", "When", "Files", "Tests", "Failures", "Errors", "Density"})

	for _, run := range runs {
		table.Append([]string{
			run.ID,
			run.Command,
			units.HumanDuration(now.Sub(run.CreatedAt)) + " ago",
			strconv.Itoa(run.Files),
			strconv.Itoa(run.Aggregate.Tests),
			strconv.Itoa(run.Aggregate.Failures),
			strconv.Itoa(run.Aggregate.Errors),
			formatDensity(run.SuccessDensity),
		})
	}

	table.SetFooter([]string{"", "", "", "", "", "", "Total Runs", strconv.Itoa(len(runs))})
	table.Render()

	return buffer.String()
}

func formatDensity(density *float64) string {
	if density == nil {
		return notAvailable
	}

	return strconv.FormatFloat(*density, 'f', 2, 64) + "%"
}

func formatMillis(millis int64) string {
	d := time.Duration(millis) * time.Millisecond
	if d < time.Second {
		return fmt.Sprintf("%d ms", millis)
	}

	return fmt.Sprintf("%d ms (%s)", millis, units.HumanDuration(d))
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
