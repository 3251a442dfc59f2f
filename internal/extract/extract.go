// Package extract turns noisy OCR text from a scanned business card into a
// structured, confidence-scored contact draft.
//
// The pipeline is strictly sequential and pure: normalize, classify each
// line once against an ordered rule table, canonicalize phones, resolve the
// best name candidate, infer organization/website from the email domain when
// nothing better was classified, and optionally merge externally recognized
// entities over the heuristic result. One input produces one output; no
// stage holds state across invocations, so invocations may run concurrently.
package extract

import (
	"context"

	"go.uber.org/zap"

	"github.com/cardlink/cardscan/internal/model"
)

// Options configures one extraction. Values are copied per invocation and
// never mutated, so a single Options may be shared across goroutines.
type Options struct {
	DefaultCountry     string // ISO 3166-1 alpha-2, informational
	DefaultCountryCode string // calling code applied to national-format numbers
	MaxPhoneLen        int    // canonical digit cap, clamped to [8,15]
	Vocab              *Vocab // nil selects the built-in vocabulary
}

func (o Options) withDefaults() Options {
	if o.DefaultCountry == "" {
		o.DefaultCountry = "TH"
	}
	if o.DefaultCountryCode == "" {
		o.DefaultCountryCode = "+66"
	}
	if o.MaxPhoneLen <= 0 {
		o.MaxPhoneLen = maxPhoneDigits
	}
	if o.Vocab == nil {
		o.Vocab = DefaultVocab()
	}
	return o
}

// Recognizer is the entity-recognition collaborator contract. An empty
// entity list and a transport error are both valid outcomes; the pipeline
// treats them identically.
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]model.Entity, error)
}

// draftState accumulates the fold over classification events before the
// final ContactDraft is assembled.
type draftState struct {
	email, website, title, org model.Field
	phone                      model.Field
	additionalPhones           []model.Field
	seenPhones                 map[string]bool
	names                      []nameCandidate
	titleLines                 map[int]bool
}

func fieldOf(value string, confidence float64) model.Field {
	return model.NewField(value, confidence)
}

// Extract runs the heuristic pipeline on raw OCR text. It never fails: empty
// or garbage input yields a draft with empty fields at zero confidence.
func Extract(raw string, opts Options) model.ContactDraft {
	opts = opts.withDefaults()

	cleaned, lines := Normalize(raw)
	events := ClassifyLines(lines, opts.Vocab)

	st := draftState{
		seenPhones: make(map[string]bool),
		titleLines: make(map[int]bool),
	}

	for _, ev := range events {
		switch ev.Category {
		case CategoryEmail:
			if st.email.IsZero() {
				st.email = fieldOf(ev.Value, ev.Confidence)
			}
		case CategoryLabeledPhone, CategoryLoosePhone:
			collectPhones(&st, ev.Value, ev.Confidence, opts)
		case CategoryFax:
			// Consumed so no other rule mis-reads the line; never captured.
		case CategoryWebsite:
			if st.website.IsZero() {
				st.website = fieldOf(ev.Value, ev.Confidence)
			}
		case CategoryTitle:
			st.titleLines[ev.Line] = true
			if st.title.IsZero() {
				st.title = fieldOf(ev.Value, ev.Confidence)
			}
		case CategoryOrganization:
			if st.org.IsZero() {
				st.org = fieldOf(ev.Value, ev.Confidence)
			}
		case CategoryName:
			st.names = append(st.names, nameCandidate{
				value:    ev.Value,
				nickname: ev.Nickname,
				line:     ev.Line,
			})
		}
	}

	draft := model.ContactDraft{
		Email:            st.email,
		Phone:            st.phone,
		AdditionalPhones: st.additionalPhones,
		Website:          st.website,
		Position:         st.title,
		Company:          st.org,
	}

	if first, last, nick, ok := resolveName(st.names, st.titleLines, opts.Vocab); ok {
		draft.FirstName = fieldOf(first, ConfScoredName)
		draft.LastName = fieldOf(last, ConfScoredName)
		draft.Nickname = fieldOf(nick, ConfScoredName)
	} else if first, last := nameFromEmail(st.email.Value); first != "" {
		draft.FirstName = fieldOf(first, ConfEmailName)
		draft.LastName = fieldOf(last, ConfEmailName)
	}

	if draft.Company.IsZero() {
		draft.Company = fieldOf(companyFromEmail(st.email.Value), ConfEmailCompany)
	}
	if draft.Website.IsZero() {
		draft.Website = fieldOf(websiteFromEmail(st.email.Value), ConfEmailWebsite)
	}
	if cleaned != "" {
		draft.Notes = fieldOf(cleaned, ConfNotes)
	}

	zap.L().Debug("extract: heuristic pipeline done",
		zap.Int("lines", len(lines)),
		zap.Int("events", len(events)),
		zap.Int("name_candidates", len(st.names)),
		zap.Bool("email_found", !draft.Email.IsZero()),
		zap.Bool("phone_found", !draft.Phone.IsZero()),
	)

	return draft
}

// ExtractWithEntities runs the heuristic pipeline and then, when a
// recognizer is supplied, merges its entities over the result. Recognizer
// failure degrades to the heuristic-only draft; it is never surfaced.
func ExtractWithEntities(ctx context.Context, raw string, rec Recognizer, opts Options) model.ContactDraft {
	opts = opts.withDefaults()
	draft := Extract(raw, opts)

	if rec == nil {
		return draft
	}
	cleaned, _ := Normalize(raw)
	entities, err := rec.Recognize(ctx, cleaned)
	if err != nil {
		zap.L().Warn("extract: entity recognition unavailable, using heuristic result",
			zap.Error(err),
		)
		return draft
	}
	return MergeEntities(draft, entities, opts.Vocab)
}
