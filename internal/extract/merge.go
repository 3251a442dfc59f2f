package extract

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/cardlink/cardscan/internal/model"
)

// The merge layer reconciles externally recognized entities with the
// heuristic draft, independently per field. It is strictly additive or
// overriding: with no usable entities the heuristic result stands untouched.

var capTokenRe = regexp.MustCompile(`^[A-Z][a-zA-Z'\-]*$`)

// MergeEntities applies the entity precedence policy over a heuristic draft:
// a name-shaped PERSON entity replaces the heuristic name outright, an
// ORGANIZATION entity replaces a weaker heuristic company, a TITLE entity
// always sets the position.
func MergeEntities(draft model.ContactDraft, entities []model.Entity, v *Vocab) model.ContactDraft {
	if len(entities) == 0 {
		return draft
	}
	if v == nil {
		v = DefaultVocab()
	}

	if person, ok := bestPerson(entities); ok {
		parts := strings.Fields(person.Text)
		draft.FirstName = fieldOf(capWords(parts[0]), ConfEntityPerson)
		draft.LastName = fieldOf(capWords(strings.Join(parts[1:], " ")), ConfEntityPerson)
		// The nickname came off the discarded name line; it no longer
		// belongs to the name now on the draft.
		draft.Nickname = model.Field{}
		zap.L().Debug("merge: PERSON entity replaced heuristic name",
			zap.String("entity", person.Text),
		)
	}

	for _, e := range entities {
		switch e.Label {
		case model.LabelOrganization:
			text := v.TruncateAtAddressMarker(strings.TrimSpace(e.Text))
			if text == "" {
				continue
			}
			if draft.Company.IsZero() || draft.Company.Confidence < ConfEntityOrg {
				draft.Company = fieldOf(text, ConfEntityOrg)
				zap.L().Debug("merge: ORGANIZATION entity set company",
					zap.String("entity", text),
				)
			}
		case model.LabelTitle:
			text := strings.TrimSpace(e.Text)
			if text != "" {
				draft.Position = fieldOf(text, ConfEntityTitle)
			}
		}
	}

	return draft
}

// bestPerson returns the PERSON entity with the highest salience among those
// passing the name-shape filter, ties broken by order of appearance.
func bestPerson(entities []model.Entity) (model.Entity, bool) {
	var best model.Entity
	found := false
	for _, e := range entities {
		if e.Label != model.LabelPerson || !isNameShaped(e.Text) {
			continue
		}
		if !found || e.Salience > best.Salience {
			best = e
			found = true
		}
	}
	return best, found
}

// isNameShaped accepts two or more whitespace-separated capitalized tokens.
// Single ambiguous tokens and anything containing digits are rejected: those
// are NER noise, not names.
func isNameShaped(text string) bool {
	if digitRe.MatchString(text) {
		return false
	}
	tokens := strings.Fields(text)
	if len(tokens) < 2 {
		return false
	}
	for _, t := range tokens {
		if !capTokenRe.MatchString(t) {
			return false
		}
	}
	return true
}
