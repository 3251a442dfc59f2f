// Package ner provides clients for the external entity-recognition
// collaborator. The contract is deliberately loose: a recognizer takes plain
// text and returns labeled spans; an empty list and a transport error are
// both ordinary outcomes that the extraction pipeline degrades through.
package ner

import (
	"github.com/rotisserie/eris"

	"github.com/cardlink/cardscan/internal/config"
	"github.com/cardlink/cardscan/internal/extract"
)

// NewRecognizer creates a recognizer from config. Provider "off" (or empty)
// returns nil, which the pipeline treats as "no entity merge".
func NewRecognizer(cfg config.NERConfig) (extract.Recognizer, error) {
	switch cfg.Provider {
	case "off", "":
		return nil, nil
	case "http":
		if cfg.URL == "" {
			return nil, eris.New("ner: http provider requires url")
		}
		return NewHTTPRecognizer(cfg.URL, cfg.TimeoutSecs), nil
	case "anthropic":
		if cfg.AnthropicKey == "" {
			return nil, eris.New("ner: anthropic provider requires anthropic_api_key")
		}
		return NewAnthropicRecognizer(cfg.AnthropicKey, cfg.AnthropicModel), nil
	default:
		return nil, eris.Errorf("ner: unknown provider %q", cfg.Provider)
	}
}
