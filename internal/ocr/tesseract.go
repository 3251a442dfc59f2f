package ocr

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/rotisserie/eris"
)

// Tesseract extracts text from images using the tesseract CLI tool.
type Tesseract struct {
	binPath string
	lang    string
}

// NewTesseract creates a Tesseract extractor. Empty binPath and lang default
// to "tesseract" and "eng".
func NewTesseract(binPath, lang string) *Tesseract {
	if binPath == "" {
		binPath = "tesseract"
	}
	if lang == "" {
		lang = "eng"
	}
	return &Tesseract{binPath: binPath, lang: lang}
}

// ExtractText runs tesseract on the given image and returns stdout.
func (t *Tesseract) ExtractText(ctx context.Context, imagePath string) (string, error) {
	cmd := exec.CommandContext(ctx, t.binPath, imagePath, "stdout", "-l", t.lang)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", eris.Wrapf(err, "ocr: tesseract failed for %s: %s", imagePath, stderr.String())
	}

	return stdout.String(), nil
}
