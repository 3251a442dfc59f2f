package model

import "strings"

// EntityLabel classifies a span returned by an entity-recognition service.
type EntityLabel string

const (
	LabelPerson       EntityLabel = "PERSON"
	LabelOrganization EntityLabel = "ORGANIZATION"
	LabelTitle        EntityLabel = "TITLE"
	LabelEmail        EntityLabel = "EMAIL"
	LabelPhone        EntityLabel = "PHONE"
)

// entityLabelAliases maps label spellings seen across NER backends (spaCy
// uses ORG and JOB_TITLE, others use WORK_OF_ART-style variants) onto the
// canonical labels the merge layer understands.
var entityLabelAliases = map[string]EntityLabel{
	"PERSON":       LabelPerson,
	"PER":          LabelPerson,
	"ORGANIZATION": LabelOrganization,
	"ORG":          LabelOrganization,
	"TITLE":        LabelTitle,
	"JOB_TITLE":    LabelTitle,
	"EMAIL":        LabelEmail,
	"PHONE":        LabelPhone,
}

// NormalizeEntityLabel maps a backend label spelling to its canonical form.
// Unknown labels come back unchanged with ok=false so callers can skip them.
func NormalizeEntityLabel(raw string) (EntityLabel, bool) {
	l, ok := entityLabelAliases[strings.ToUpper(strings.TrimSpace(raw))]
	if !ok {
		return EntityLabel(raw), false
	}
	return l, true
}

// Entity is a labeled text span from an external recognition service.
// Consumed read-only by the merge layer.
type Entity struct {
	Text     string      `json:"text"`
	Label    EntityLabel `json:"label"`
	Salience float64     `json:"salience,omitempty"`
}
