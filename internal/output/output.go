package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/browser"
)

// Stdout is the OutputPath value that writes the report to standard output.
const Stdout = "-"

// Viewer opens a written report for the user.
type Viewer interface {
	Open(path string) error
}

// Browser opens files with the platform's default browser.
type Browser struct{}

// Open launches the default browser on path.
func (Browser) Open(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve report path: %w", err)
	}
	if err := browser.OpenFile(abs); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	return nil
}

// Write stores doc at path, replacing any previous report. For path "-" the
// document goes to stdout instead.
func Write(path string, doc []byte, stdout io.Writer) error {
	if path == Stdout {
		_, err := stdout.Write(doc)
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	// Write to a temp file and rename, so a viewer never sees a half-written report.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename report: %w", err)
	}
	return nil
}
