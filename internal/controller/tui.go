package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	m "gooze.dev/pkg/testimport/internal/model"
	"golang.org/x/term"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mutedStyle = lipgloss.NewStyle().Faint(true)
)

// pagerReserve is the number of lines around the viewport: title, two blank
// lines and the footer.
const pagerReserve = 4

// TUI implements UI for interactive terminals. Progress is printed as it
// happens; final output that does not fit the terminal opens in a pager.
type TUI struct {
	output io.Writer

	mu      sync.Mutex
	mode    StartMode
	title   string
	pending string
	now     func() time.Time
	size    func() (int, int, bool)
	runner  func(tea.Model) error
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	t := &TUI{output: output, now: time.Now}
	t.size = t.terminalSize
	t.runner = t.runProgram

	return t
}

// Start initializes the UI.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.mode = newStartConfig(options...).mode
	t.title = modeTitle(t.mode)
	t.pending = ""

	t.write(titleStyle.Render("testimport · "+t.title) + "\n\n")

	return nil
}

// Close finalizes the UI.
func (t *TUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.pending = ""
}

// Wait shows the final output, paging it when it is taller than the terminal.
func (t *TUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.mu.Lock()
	content := t.pending
	t.pending = ""
	t.mu.Unlock()

	if content == "" {
		return
	}

	width, height, ok := t.size()
	if !ok || strings.Count(content, "\n")+pagerReserve <= height {
		t.write(content)
		return
	}

	if err := t.runner(newPagerModel(t.title, content, width, height)); err != nil {
		t.write(content)
	}
}

// DisplayNotice prints a single informational line.
func (t *TUI) DisplayNotice(ctx context.Context, message string) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.write(warnStyle.Render(message) + "\n")
}

// DisplayReportFiles shows the discovered report files.
func (t *TUI) DisplayReportFiles(ctx context.Context, files []m.Path, shardIndex int, shardCount int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.mode == ModeRun {
		line := fmt.Sprintf("Importing %d report file(s)", len(files))
		if shardCount > 1 {
			line += fmt.Sprintf(" (Shard %d/%d)", shardIndex, shardCount)
		}

		t.write(mutedStyle.Render(line) + "\n")

		return nil
	}

	if len(files) == 0 {
		t.pending = "No report files found\n"
		return nil
	}

	t.pending = renderFilesTable(files)

	return nil
}

// DisplayFileResult prints a colored status line for one report file.
func (t *TUI) DisplayFileResult(ctx context.Context, result m.FileResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.write(formatFileResultLine(result) + "\n")
}

// DisplaySummary queues the run summary for Wait.
func (t *TUI) DisplaySummary(ctx context.Context, summary Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.pending = "\n" + renderSummary(summary)

	return nil
}

// DisplayHistory queues the run history table for Wait.
func (t *TUI) DisplayHistory(ctx context.Context, runs []m.RunSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if len(runs) == 0 {
		t.pending = "No runs recorded\n"
		return nil
	}

	t.pending = renderHistoryTable(runs, t.now())

	return nil
}

func (t *TUI) write(s string) {
	_, _ = fmt.Fprint(t.output, s)
}

func (t *TUI) terminalSize() (int, int, bool) {
	f, ok := t.output.(*os.File)
	if !ok {
		return 0, 0, false
	}

	width, height, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0, 0, false
	}

	return width, height, true
}

func (t *TUI) runProgram(model tea.Model) error {
	program := tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen())
	_, err := program.Run()

	return err
}

func modeTitle(mode StartMode) string {
	switch mode {
	case ModeList:
		return "report files"
	case ModeMerge:
		return "shard merge"
	case ModeHistory:
		return "run history"
	default:
		return "import"
	}
}

func formatFileResultLine(result m.FileResult) string {
	switch result.Status {
	case m.FileParsed:
		return okStyle.Render("✓ ") + fmt.Sprintf("%s (%s, %d tests)", result.Path, result.Parser, result.Delta.Tests)
	case m.FileEmpty:
		return mutedStyle.Render("∅ ") + fmt.Sprintf("%s (%s, empty)", result.Path, result.Parser)
	case m.FileUnrecognized:
		return warnStyle.Render("? ") + fmt.Sprintf("%s (unrecognized)", result.Path)
	default:
		return errorStyle.Render("✗ ") + fmt.Sprintf("%s (%s): %v", result.Path, result.Status, result.Err)
	}
}

// pagerModel shows long output in a scrollable viewport.
type pagerModel struct {
	title    string
	viewport viewport.Model
	quitting bool
}

func newPagerModel(title, content string, width, height int) pagerModel {
	vp := viewport.New(width, max(height-pagerReserve, 1))
	vp.SetContent(content)

	return pagerModel{title: title, viewport: vp}
}

func (pm pagerModel) Init() tea.Cmd {
	return nil
}

func (pm pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		pm.viewport.Width = msg.Width
		pm.viewport.Height = max(msg.Height-pagerReserve, 1)

		return pm, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			pm.quitting = true
			return pm, tea.Quit
		case "g", "home":
			pm.viewport.GotoTop()
			return pm, nil
		case "G", "end":
			pm.viewport.GotoBottom()
			return pm, nil
		}
	}

	var cmd tea.Cmd

	pm.viewport, cmd = pm.viewport.Update(msg)

	return pm, cmd
}

func (pm pagerModel) View() string {
	if pm.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("testimport · " + pm.title))
	b.WriteString("\n\n")
	b.WriteString(pm.viewport.View())
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf(
		"%3.f%% | ↑/k: up | ↓/j: down | g: top | G: bottom | q: quit",
		pm.viewport.ScrollPercent()*100,
	)))

	return b.String()
}
