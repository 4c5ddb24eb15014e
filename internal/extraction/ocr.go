package extraction

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Runner lets tests stub the external recognition command.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	err := cmd.Run()
	return out.Bytes(), errb.Bytes(), err
}

// Tesseract implements Recognizer by invoking the tesseract binary.
type Tesseract struct {
	binary string
	lang   string
	runner Runner
}

// NewTesseract creates a Tesseract recognizer. Empty arguments fall back to
// the "tesseract" binary on PATH and English.
func NewTesseract(binary, lang string) *Tesseract {
	if binary == "" {
		binary = "tesseract"
	}
	if lang == "" {
		lang = "eng"
	}
	return &Tesseract{binary: binary, lang: lang, runner: execRunner{}}
}

// NewTesseractWithRunner creates a Tesseract recognizer with a custom Runner
// for testing.
func NewTesseractWithRunner(binary, lang string, runner Runner) *Tesseract {
	t := NewTesseract(binary, lang)
	t.runner = runner
	return t
}

// Recognize writes the page image to a temp file and runs
// "tesseract <file> stdout -l <lang>".
func (t *Tesseract) Recognize(ctx context.Context, pngData []byte) (string, error) {
	f, err := os.CreateTemp("", "cardsight-page-*.png")
	if err != nil {
		return "", fmt.Errorf("creating temp image: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(pngData); err != nil {
		f.Close()
		return "", fmt.Errorf("writing temp image: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing temp image: %w", err)
	}

	out, errb, err := t.runner.Run(ctx, t.binary, f.Name(), "stdout", "-l", t.lang)
	if err != nil {
		return "", fmt.Errorf("tesseract: %s: %w", strings.TrimSpace(string(errb)), err)
	}
	return string(out), nil
}
