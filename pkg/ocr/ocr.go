// Package ocr is the boundary to the external OCR tool. It adds a text
// layer to scanned PDFs by shelling out to ocrmypdf; pages that already
// carry text are left alone.
package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrToolNotFound means the OCR binary is not on PATH.
var ErrToolNotFound = errors.New("ocr: tool not found")

// ErrToolFailed means the OCR binary ran and exited non-zero.
var ErrToolFailed = errors.New("ocr: tool failed")

// Runner invokes the OCR tool with fixed options.
type Runner struct {
	binary   string
	language string
	deskew   bool
}

// New builds a Runner. An empty binary defaults to ocrmypdf, an empty
// language to eng.
func New(binary, language string, deskew bool) *Runner {
	if binary == "" {
		binary = "ocrmypdf"
	}
	if language == "" {
		language = "eng"
	}
	return &Runner{binary: binary, language: language, deskew: deskew}
}

// Run OCRs inputPDF into a temporary directory and returns the output
// path. The --skip-text flag keeps already-searchable pages untouched.
func (r *Runner) Run(ctx context.Context, inputPDF string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "invoice_ocr_")
	if err != nil {
		return "", fmt.Errorf("ocr: temp dir: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(inputPDF), filepath.Ext(inputPDF))
	outPDF := filepath.Join(tmpDir, stem+"_ocr.pdf")

	args := []string{"--skip-text", "-l", r.language}
	if r.deskew {
		args = append(args, "--deskew")
	}
	args = append(args, inputPDF, outPDF)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrToolNotFound, r.binary)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%w: exit code %d: %s",
				ErrToolFailed, exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("ocr: run %s: %w", r.binary, err)
	}

	return outPDF, nil
}
