// Package ocr extracts text from business card images. The engine is a
// black box to the rest of the system: raw transcription in, opaque text
// out, consumed by the extraction pipeline's normalizer.
package ocr

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/cardlink/cardscan/internal/config"
)

// Extractor transcribes a card image into raw text.
type Extractor interface {
	ExtractText(ctx context.Context, imagePath string) (string, error)
}

// NewExtractor creates an Extractor based on config.
func NewExtractor(cfg config.OCRConfig) (Extractor, error) {
	switch cfg.Provider {
	case "tesseract", "":
		return NewTesseract(cfg.TesseractPath, cfg.Language), nil
	case "mistral":
		if cfg.MistralKey == "" {
			return nil, eris.New("ocr: mistral provider requires mistral_api_key")
		}
		return NewMistralOCR(cfg.MistralKey, cfg.MistralModel), nil
	default:
		return nil, eris.Errorf("ocr: unknown provider %q", cfg.Provider)
	}
}
