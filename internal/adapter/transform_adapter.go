package adapter

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	getter "github.com/hashicorp/go-getter"
	m "gooze.dev/pkg/testimport/internal/model"
)

// TransformedSuffix is appended to a report path to name its transformed copy.
const TransformedSuffix = ".after_xslt"

const stylesheetDir = "xsl"

// TransformError reports a report file that could not be pre-processed.
type TransformError struct {
	Path       m.Path
	Stylesheet string
	Err        error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform %s with %s: %v", e.Path, e.Stylesheet, e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// TransformAdapter rewrites a report with a stylesheet before parsing.
type TransformAdapter interface {
	// Transform applies the stylesheet and returns the path to parse instead
	// of report. Empty reports are returned unchanged.
	Transform(ctx context.Context, report m.Path, stylesheet string) (m.Path, error)
}

// CommandRunner executes an external program and returns its combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// XSLTTransformAdapter runs stylesheets through xsltproc.
//
// A stylesheet identifier is resolved as a local file, then as a stylesheet
// bundled under <configDir>/xsl, then as a go-getter source which is
// downloaded once per adapter.
type XSLTTransformAdapter struct {
	configDir string
	cacheDir  string
	run       CommandRunner

	mu       sync.Mutex
	resolved map[string]string
}

// NewXSLTTransformAdapter constructs an XSLTTransformAdapter.
func NewXSLTTransformAdapter(configDir, cacheDir string, runner CommandRunner) *XSLTTransformAdapter {
	if runner == nil {
		runner = runCommand
	}

	if cacheDir == "" {
		cacheDir = filepath.Join(os.TempDir(), "testimport-xsl")
	}

	return &XSLTTransformAdapter{
		configDir: configDir,
		cacheDir:  cacheDir,
		run:       runner,
		resolved:  map[string]string{},
	}
}

// Transform implements TransformAdapter.
func (a *XSLTTransformAdapter) Transform(ctx context.Context, report m.Path, stylesheet string) (m.Path, error) {
	info, err := os.Stat(string(report))
	if err != nil {
		return "", &TransformError{Path: report, Stylesheet: stylesheet, Err: err}
	}

	if info.Size() == 0 {
		slog.Debug("Skipping transform of empty report", "path", report)
		return report, nil
	}

	sheet, err := a.resolveStylesheet(ctx, stylesheet)
	if err != nil {
		return "", &TransformError{Path: report, Stylesheet: stylesheet, Err: err}
	}

	output := m.Path(string(report) + TransformedSuffix)

	out, err := a.run(ctx, "xsltproc", "--nonet", "-o", string(output), sheet, string(report))
	if err != nil {
		slog.Error("Failed to transform report", "path", report, "stylesheet", sheet, "output", string(out), "error", err)

		return "", &TransformError{
			Path:       report,
			Stylesheet: stylesheet,
			Err:        fmt.Errorf("xsltproc: %w: %s", err, strings.TrimSpace(string(out))),
		}
	}

	slog.Debug("Transformed report", "path", report, "output", output)

	return output, nil
}

func (a *XSLTTransformAdapter) resolveStylesheet(ctx context.Context, id string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if path, ok := a.resolved[id]; ok {
		return path, nil
	}

	path, err := a.locateStylesheet(ctx, id)
	if err != nil {
		return "", err
	}

	a.resolved[id] = path

	return path, nil
}

func (a *XSLTTransformAdapter) locateStylesheet(ctx context.Context, id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("empty stylesheet identifier")
	}

	candidates := []string{id}
	if a.configDir != "" {
		candidates = append(candidates,
			filepath.Join(a.configDir, stylesheetDir, id),
			filepath.Join(a.configDir, stylesheetDir, id+".xsl"),
		)
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, nil
		}
	}

	return a.fetchStylesheet(ctx, id)
}

func (a *XSLTTransformAdapter) fetchStylesheet(ctx context.Context, id string) (string, error) {
	pwd, err := os.Getwd()
	if err != nil {
		pwd = "."
	}

	detected, err := getter.Detect(id, pwd, getter.Detectors)
	if err != nil {
		return "", fmt.Errorf("detect stylesheet source: %w", err)
	}

	if err := os.MkdirAll(a.cacheDir, 0o750); err != nil {
		return "", fmt.Errorf("create stylesheet cache: %w", err)
	}

	sum := sha256.Sum256([]byte(detected))
	dst := filepath.Join(a.cacheDir, hex.EncodeToString(sum[:8])+".xsl")

	client := &getter.Client{
		Ctx:     ctx,
		Src:     detected,
		Dst:     dst,
		Mode:    getter.ClientModeFile,
		Getters: getter.Getters,
	}

	slog.Info("Fetching stylesheet", "source", detected, "destination", dst)

	if err := client.Get(); err != nil {
		return "", fmt.Errorf("fetch stylesheet: %w", err)
	}

	return dst, nil
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	// #nosec G204 - the program name is fixed by the adapter
	cmd := exec.CommandContext(ctx, name, args...)

	var output bytes.Buffer

	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()

	return output.Bytes(), err
}
