package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardlink/cardscan/internal/model"
)

func TestMergeEntities_EmptyListIsNoOp(t *testing.T) {
	draft := Extract("John Smith\nAcme Co., Ltd.", Options{})
	assert.Equal(t, draft, MergeEntities(draft, nil, DefaultVocab()))
	assert.Equal(t, draft, MergeEntities(draft, []model.Entity{}, DefaultVocab()))
}

func TestMergeEntities_PersonReplacesHeuristicName(t *testing.T) {
	draft := Extract("John Smith\nAcme Co., Ltd.", Options{})
	merged := MergeEntities(draft, []model.Entity{
		{Text: "Jane Doe", Label: model.LabelPerson, Salience: 0.8},
	}, DefaultVocab())

	assert.Equal(t, "Jane", merged.FirstName.Value)
	assert.Equal(t, "Doe", merged.LastName.Value)
	assert.Equal(t, ConfEntityPerson, merged.FirstName.Confidence)
}

func TestMergeEntities_PersonClearsStaleNickname(t *testing.T) {
	draft := Extract(`John Smith "Johnny"`+"\nAcme Co., Ltd.", Options{})
	require.Equal(t, "Johnny", draft.Nickname.Value)

	merged := MergeEntities(draft, []model.Entity{
		{Text: "Jane Doe", Label: model.LabelPerson, Salience: 0.8},
	}, DefaultVocab())

	assert.Equal(t, "Jane", merged.FirstName.Value)
	assert.True(t, merged.Nickname.IsZero())
}

func TestMergeEntities_HighestSalienceWins(t *testing.T) {
	merged := MergeEntities(model.ContactDraft{}, []model.Entity{
		{Text: "John Smith", Label: model.LabelPerson, Salience: 0.3},
		{Text: "Jane Doe", Label: model.LabelPerson, Salience: 0.9},
	}, DefaultVocab())

	assert.Equal(t, "Jane", merged.FirstName.Value)
}

func TestMergeEntities_SalienceTieKeepsFirst(t *testing.T) {
	merged := MergeEntities(model.ContactDraft{}, []model.Entity{
		{Text: "John Smith", Label: model.LabelPerson, Salience: 0.5},
		{Text: "Jane Doe", Label: model.LabelPerson, Salience: 0.5},
	}, DefaultVocab())

	assert.Equal(t, "John", merged.FirstName.Value)
}

func TestMergeEntities_PersonFailingShapeFilterIgnored(t *testing.T) {
	draft := model.ContactDraft{FirstName: model.NewField("John", ConfScoredName)}
	merged := MergeEntities(draft, []model.Entity{
		{Text: "acme", Label: model.LabelPerson, Salience: 0.9},
		{Text: "Agent 47", Label: model.LabelPerson, Salience: 0.9},
	}, DefaultVocab())

	assert.Equal(t, "John", merged.FirstName.Value)
	assert.Equal(t, ConfScoredName, merged.FirstName.Confidence)
}

func TestMergeEntities_OrgReplacesWeakerCompany(t *testing.T) {
	draft := model.ContactDraft{Company: model.NewField("Acme", ConfOrgLine)}
	merged := MergeEntities(draft, []model.Entity{
		{Text: "Acme Holdings Co., Ltd.", Label: model.LabelOrganization},
	}, DefaultVocab())

	assert.Equal(t, "Acme Holdings Co., Ltd.", merged.Company.Value)
	assert.Equal(t, ConfEntityOrg, merged.Company.Confidence)
}

func TestMergeEntities_OrgDoesNotDowngradeEqualConfidence(t *testing.T) {
	draft := model.ContactDraft{Company: model.NewField("First Org", ConfEntityOrg)}
	merged := MergeEntities(draft, []model.Entity{
		{Text: "Second Org", Label: model.LabelOrganization},
	}, DefaultVocab())

	assert.Equal(t, "First Org", merged.Company.Value)
}

func TestMergeEntities_OrgTruncatedAtAddressMarker(t *testing.T) {
	merged := MergeEntities(model.ContactDraft{}, []model.Entity{
		{Text: "Acme Co. 42 Sukhumvit Street Bangkok", Label: model.LabelOrganization},
	}, DefaultVocab())

	assert.Equal(t, "Acme Co. 42 Sukhumvit", merged.Company.Value)
}

func TestMergeEntities_TitleAlwaysSetsPosition(t *testing.T) {
	draft := model.ContactDraft{Position: model.NewField("Director", ConfTitleLine)}
	merged := MergeEntities(draft, []model.Entity{
		{Text: "Chief Technology Officer", Label: model.LabelTitle},
	}, DefaultVocab())

	assert.Equal(t, "Chief Technology Officer", merged.Position.Value)
	assert.Equal(t, ConfEntityTitle, merged.Position.Confidence)
}

func TestIsNameShaped(t *testing.T) {
	assert.True(t, isNameShaped("Jane Doe"))
	assert.True(t, isNameShaped("Jean-Luc O'Brien Picard"))
	assert.False(t, isNameShaped("Jane"))
	assert.False(t, isNameShaped("jane doe"))
	assert.False(t, isNameShaped("Agent 47"))
	assert.False(t, isNameShaped(""))
}
