package ner

import (
	"context"
	"encoding/json"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"

	"github.com/cardlink/cardscan/internal/model"
)

const defaultAnthropicModel = "claude-haiku-4-5-20251001"

const nerSystemPrompt = `Extract named entities from business card text. Return a valid JSON object: {"entities": [{"text": "<span>", "label": "PERSON|ORGANIZATION|TITLE|EMAIL|PHONE", "salience": <0.0-1.0>}]}. Only include spans present verbatim in the input. Return {"entities": []} if nothing qualifies.`

// AnthropicRecognizer recognizes entities with a single small-model Messages
// call. It honors the same contract as the HTTP recognizer: one attempt,
// errors left to the caller.
type AnthropicRecognizer struct {
	client sdk.Client
	model  string
}

// NewAnthropicRecognizer creates an AnthropicRecognizer. If model is empty,
// the default is used.
func NewAnthropicRecognizer(apiKey, model string) *AnthropicRecognizer {
	if model == "" {
		model = defaultAnthropicModel
	}
	return &AnthropicRecognizer{
		client: sdk.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Recognize prompts the model for a strict-JSON entity list.
func (r *AnthropicRecognizer) Recognize(ctx context.Context, text string) ([]model.Entity, error) {
	msg, err := r.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(r.model),
		MaxTokens: 512,
		System:    []sdk.TextBlockParam{{Text: nerSystemPrompt}},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(text)),
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "ner: anthropic call")
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		sb.WriteString(block.Text)
	}
	return parseEntityJSON(sb.String())
}

// parseEntityJSON decodes the model's JSON reply, tolerating markdown fences.
func parseEntityJSON(text string) ([]model.Entity, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var parsed nerResponse
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, eris.Wrap(err, "ner: unmarshal model reply")
	}

	entities := make([]model.Entity, 0, len(parsed.Entities))
	for _, e := range parsed.Entities {
		label, ok := model.NormalizeEntityLabel(e.Label)
		if !ok {
			continue
		}
		entities = append(entities, model.Entity{
			Text:     e.Text,
			Label:    label,
			Salience: e.Salience,
		})
	}
	return entities, nil
}
