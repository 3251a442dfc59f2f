package extract

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardlink/cardscan/internal/model"
)

type stubRecognizer struct {
	entities []model.Entity
	err      error
}

func (s *stubRecognizer) Recognize(ctx context.Context, text string) ([]model.Entity, error) {
	return s.entities, s.err
}

func TestExtract_FullCard(t *testing.T) {
	raw := "John Smith\nDirector\nAcme Co., Ltd.\njohn.smith@acme.com\nTel: 081-234-5678"
	draft := Extract(raw, Options{DefaultCountryCode: "+66"})

	assert.Equal(t, "John", draft.FirstName.Value)
	assert.Equal(t, "Smith", draft.LastName.Value)
	assert.Equal(t, ConfScoredName, draft.FirstName.Confidence)
	assert.Contains(t, draft.Position.Value, "Director")
	assert.Equal(t, "Acme Co., Ltd.", draft.Company.Value)
	assert.Equal(t, ConfOrgLine, draft.Company.Confidence)
	assert.Equal(t, "john.smith@acme.com", draft.Email.Value)
	assert.Equal(t, ConfEmailLine, draft.Email.Confidence)
	assert.Equal(t, "+66812345678", draft.Phone.Value)
	assert.Equal(t, ConfLabeledPhone, draft.Phone.Confidence)
	// No website line on the card: inferred from the email domain.
	assert.Equal(t, "acme.com", draft.Website.Value)
	assert.Equal(t, ConfEmailWebsite, draft.Website.Confidence)
}

func TestExtract_TwoPhoneLines(t *testing.T) {
	raw := "Tel: 02-123-4567\nMobile: 089-999-0000"
	draft := Extract(raw, Options{DefaultCountryCode: "+66"})

	assert.Equal(t, "+6621234567", draft.Phone.Value)
	require.Len(t, draft.AdditionalPhones, 1)
	assert.Equal(t, "+66899990000", draft.AdditionalPhones[0].Value)
}

func TestExtract_NameFallsBackToEmail(t *testing.T) {
	draft := Extract("kalanyoo.ammaranon@univ.ac.th", Options{})

	assert.Equal(t, "Kalanyoo", draft.FirstName.Value)
	assert.Equal(t, "Ammaranon", draft.LastName.Value)
	assert.Equal(t, ConfEmailName, draft.FirstName.Confidence)
	assert.Less(t, draft.FirstName.Confidence, ConfScoredName)
}

func TestExtract_FaxNeverCaptured(t *testing.T) {
	draft := Extract("Fax: 02-111-2222", Options{})

	assert.True(t, draft.Phone.IsZero())
	assert.Empty(t, draft.AdditionalPhones)
}

func TestExtract_InferredCompanyAndWebsite(t *testing.T) {
	draft := Extract("info@widgetco.io", Options{})

	assert.Equal(t, "widgetco.io", draft.Website.Value)
	assert.Equal(t, ConfEmailWebsite, draft.Website.Confidence)
	assert.Equal(t, "Widgetco", draft.Company.Value)
	assert.Equal(t, ConfEmailCompany, draft.Company.Confidence)
}

func TestExtract_EmptyInput(t *testing.T) {
	draft := Extract("", Options{})

	assert.True(t, draft.FirstName.IsZero())
	assert.True(t, draft.LastName.IsZero())
	assert.True(t, draft.Email.IsZero())
	assert.True(t, draft.Phone.IsZero())
	assert.True(t, draft.Company.IsZero())
	assert.True(t, draft.Website.IsZero())
	assert.True(t, draft.Notes.IsZero())
	assert.Empty(t, draft.AdditionalPhones)
}

func TestExtract_StickyFirstWins(t *testing.T) {
	raw := "first@acme.com\nsecond@acme.com"
	draft := Extract(raw, Options{})

	assert.Equal(t, "first@acme.com", draft.Email.Value)
}

func TestExtract_NotesCarryCleanedText(t *testing.T) {
	draft := Extract("John Smith\nAcme Co., Ltd.", Options{})

	assert.Equal(t, "John Smith\nAcme Co., Ltd.", draft.Notes.Value)
	assert.Equal(t, ConfNotes, draft.Notes.Confidence)
}

func TestExtract_NoDuplicatePhones(t *testing.T) {
	inputs := []string{
		"Tel: 02-123-4567\nMobile: 02 123 4567",
		"Tel: 081-234-5678\nTel: 081-234-5678\n+66 81 234 5678",
		"02-123-4567, 089-999-0000, 02-123-4567",
	}
	for _, raw := range inputs {
		draft := Extract(raw, Options{DefaultCountryCode: "+66"})
		seen := map[string]bool{}
		if !draft.Phone.IsZero() {
			seen[draft.Phone.Value] = true
		}
		for _, p := range draft.AdditionalPhones {
			assert.False(t, seen[p.Value], "duplicate %q for input %q", p.Value, raw)
			seen[p.Value] = true
		}
	}
}

func TestExtractWithEntities_NilRecognizer(t *testing.T) {
	raw := "John Smith\njohn@acme.com"
	assert.Equal(t, Extract(raw, Options{}), ExtractWithEntities(context.Background(), raw, nil, Options{}))
}

func TestExtractWithEntities_ErrorDegradesToHeuristic(t *testing.T) {
	raw := "John Smith\nDirector\njohn@acme.com"

	failing := &stubRecognizer{err: eris.New("service unavailable")}
	empty := &stubRecognizer{}

	ctx := context.Background()
	got := ExtractWithEntities(ctx, raw, failing, Options{})
	want := ExtractWithEntities(ctx, raw, empty, Options{})

	assert.Equal(t, want, got)
	assert.Equal(t, Extract(raw, Options{}), got)
}

func TestExtractWithEntities_PersonOverridesEmptyName(t *testing.T) {
	rec := &stubRecognizer{entities: []model.Entity{
		{Text: "Jane Doe", Label: model.LabelPerson, Salience: 0.9},
	}}
	draft := ExtractWithEntities(context.Background(), "Acme Co., Ltd.", rec, Options{})

	assert.Equal(t, "Jane", draft.FirstName.Value)
	assert.Equal(t, "Doe", draft.LastName.Value)
	assert.Equal(t, ConfEntityPerson, draft.FirstName.Confidence)
}

func TestOptions_SharedAcrossInvocations(t *testing.T) {
	opts := Options{DefaultCountryCode: "+66", Vocab: DefaultVocab()}
	a := Extract("Tel: 081-234-5678", opts)
	b := Extract("Tel: 081-234-5678", opts)

	assert.Equal(t, a, b)
	assert.Equal(t, "+66", opts.DefaultCountryCode)
}
