package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/cardlink/cardscan/internal/model"
)

const defaultTimeout = 5 * time.Second

// HTTPRecognizer calls a spaCy-style NER service: POST {"text": ...} and
// read back {"entities": [{text, label, salience}]}. One attempt per call,
// bounded by the configured timeout; the caller decides what a failure means.
type HTTPRecognizer struct {
	url    string
	client *http.Client
}

// NewHTTPRecognizer creates an HTTPRecognizer. timeoutSecs <= 0 selects the
// default timeout.
func NewHTTPRecognizer(url string, timeoutSecs int) *HTTPRecognizer {
	timeout := defaultTimeout
	if timeoutSecs > 0 {
		timeout = time.Duration(timeoutSecs) * time.Second
	}
	return &HTTPRecognizer{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type nerRequest struct {
	Text string `json:"text"`
}

type nerResponse struct {
	Entities []nerEntity `json:"entities"`
}

type nerEntity struct {
	Text     string  `json:"text"`
	Label    string  `json:"label"`
	Salience float64 `json:"salience"`
}

// Recognize sends the text to the NER service and returns the labeled spans
// it recognized. Spans with labels the merge layer does not understand are
// dropped here.
func (r *HTTPRecognizer) Recognize(ctx context.Context, text string) ([]model.Entity, error) {
	body, err := json.Marshal(nerRequest{Text: text})
	if err != nil {
		return nil, eris.Wrap(err, "ner: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "ner: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "ner: service call")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "ner: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("ner: service returned %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed nerResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, eris.Wrap(err, "ner: unmarshal response")
	}

	entities := make([]model.Entity, 0, len(parsed.Entities))
	for _, e := range parsed.Entities {
		label, ok := model.NormalizeEntityLabel(e.Label)
		if !ok {
			zap.L().Debug("ner: dropping span with unknown label",
				zap.String("label", e.Label),
			)
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
