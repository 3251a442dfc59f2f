package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// Category names the semantic bucket a line was classified into.
type Category string

const (
	CategoryEmail        Category = "email"
	CategoryLabeledPhone Category = "labeled_phone"
	CategoryFax          Category = "fax"
	CategoryLoosePhone   Category = "loose_phone"
	CategoryWebsite      Category = "website"
	CategoryTitle        Category = "title"
	CategoryOrganization Category = "organization"
	CategoryName         Category = "name"
)

// Classification is one line's classification event: the category, the
// captured value, and the confidence tier the producing rule assigns.
// The classifier emits at most one per line.
type Classification struct {
	Category   Category
	Value      string
	Nickname   string // name lines only
	Confidence float64
	Line       int
}

// Rule is a pure classification function. It returns nil when the line does
// not match. Rules are stateless; all shared knowledge lives in the vocab.
type Rule struct {
	Name  string
	Apply func(line string, idx int, v *Vocab) *Classification
}

var (
	emailRe       = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneLabelRe  = regexp.MustCompile(`(?i)\b(Tel|Phone|Mobile|Mob|Cell|Fax)\.?\s*:?\s*(.+)$`)
	phoneLooseRe  = regexp.MustCompile(`\+?\d[\d\s\-().]{6,}\d`)
	websiteRe     = regexp.MustCompile(`(?i)\b((?:https?://)?(?:www\.)?[a-z0-9\-]+(?:\.[a-z0-9\-]+)+(?:/[^\s]*)?)\b`)
	domainLikeRe  = regexp.MustCompile(`(?i)\b[a-z0-9\-]+\.[a-z]{2,}(?:\.[a-z]{2,})?\b`)
	leadingJunkRe = regexp.MustCompile(`^[^\p{L}\p{N}]+`)
	digitRe       = regexp.MustCompile(`\d`)
	schemeRe      = regexp.MustCompile(`(?i)^https?://`)
	wwwRe         = regexp.MustCompile(`(?i)^www\.`)
)

// Rules is the classifier's fixed priority order. First match wins per line;
// the order resolves every ambiguity deterministically (a line matching both
// the title and organization vocabularies is an organization).
func Rules() []Rule {
	return []Rule{
		{Name: "email", Apply: matchEmail},
		{Name: "labeled-phone", Apply: matchLabeledPhone},
		{Name: "loose-phone", Apply: matchLoosePhone},
		{Name: "website", Apply: matchWebsite},
		{Name: "job-title", Apply: matchTitle},
		{Name: "organization", Apply: matchOrganization},
		{Name: "name-candidate", Apply: matchName},
	}
}

// ClassifyLines runs each line through the rule table once, in priority
// order, collecting at most one classification event per line.
func ClassifyLines(lines []string, v *Vocab) []Classification {
	rules := Rules()
	var events []Classification
	for i, line := range lines {
		for _, r := range rules {
			if c := r.Apply(line, i, v); c != nil {
				events = append(events, *c)
				break
			}
		}
	}
	return events
}

func matchEmail(line string, idx int, _ *Vocab) *Classification {
	m := emailRe.FindString(line)
	if m == "" {
		return nil
	}
	return &Classification{
		Category:   CategoryEmail,
		Value:      strings.ToLower(m),
		Confidence: ConfEmailLine,
		Line:       idx,
	}
}

func matchLabeledPhone(line string, idx int, _ *Vocab) *Classification {
	m := phoneLabelRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	rest := m[2]
	if !digitRe.MatchString(rest) {
		return nil
	}
	cat := CategoryLabeledPhone
	conf := ConfLabeledPhone
	if strings.EqualFold(m[1], "fax") {
		// Fax numbers consume the line but are never captured as phones.
		cat = CategoryFax
		conf = 0
	}
	return &Classification{Category: cat, Value: rest, Confidence: conf, Line: idx}
}

func matchLoosePhone(line string, idx int, _ *Vocab) *Classification {
	if !phoneLooseRe.MatchString(line) {
		return nil
	}
	return &Classification{
		Category:   CategoryLoosePhone,
		Value:      line,
		Confidence: ConfLoosePhone,
		Line:       idx,
	}
}

func matchWebsite(line string, idx int, _ *Vocab) *Classification {
	if strings.Contains(line, "@") {
		return nil
	}
	m := websiteRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	return &Classification{
		Category:   CategoryWebsite,
		Value:      cleanURL(m[1]),
		Confidence: ConfWebsiteLine,
		Line:       idx,
	}
}

func matchTitle(line string, idx int, v *Vocab) *Classification {
	if !v.MatchesJobTitle(line) {
		return nil
	}
	// Organization wins the tie: "Director Co., Ltd." is a company.
	if looksLikeOrganization(line, v) {
		return nil
	}
	// Keep the substring starting at the first title keyword, dropping any
	// leading decoration the OCR attached.
	value := line
	if loc := v.jobTitleRe.FindStringIndex(line); loc != nil {
		value = line[loc[0]:]
	}
	return &Classification{
		Category:   CategoryTitle,
		Value:      collapseSpaces(value),
		Confidence: ConfTitleLine,
		Line:       idx,
	}
}

func matchOrganization(line string, idx int, v *Vocab) *Classification {
	if !looksLikeOrganization(line, v) {
		return nil
	}
	if strings.Contains(line, "@") || domainLikeRe.MatchString(line) {
		return nil
	}
	return &Classification{
		Category:   CategoryOrganization,
		Value:      collapseSpaces(line),
		Confidence: ConfOrgLine,
		Line:       idx,
	}
}

func matchName(line string, idx int, v *Vocab) *Classification {
	cleaned := leadingJunkRe.ReplaceAllString(line, "")
	m := v.nameLineRe.FindStringSubmatch(cleaned)
	if m == nil {
		return nil
	}
	candidate := m[1]
	if v.nameNoise.MatchString(candidate) || digitRe.MatchString(candidate) {
		return nil
	}
	nick := m[2]
	if nick == "" {
		nick = m[3]
	}
	return &Classification{
		Category:   CategoryName,
		Value:      candidate,
		Nickname:   strings.TrimSpace(nick),
		Confidence: ConfScoredName,
		Line:       idx,
	}
}

// looksLikeOrganization reports whether a line reads as a company or
// institution: a legal-entity suffix, an institutional hint word, or a
// digit-free run that is mostly uppercase letters.
func looksLikeOrganization(line string, v *Vocab) bool {
	if v.MatchesOrg(line) {
		return true
	}
	if v.orgHintRe.MatchString(line) {
		return true
	}
	if digitRe.MatchString(line) {
		return false
	}
	letters, uppers := 0, 0
	for _, r := range line {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				uppers++
			}
		}
	}
	return letters > 6 && float64(uppers) >= 0.6*float64(letters)
}

// cleanURL reduces a website match to its bare hostname.
func cleanURL(raw string) string {
	u := strings.TrimSpace(raw)
	u = schemeRe.ReplaceAllString(u, "")
	u = wwwRe.ReplaceAllString(u, "")
	if idx := strings.IndexAny(u, "/?#"); idx >= 0 {
		u = u[:idx]
	}
	return strings.ToLower(u)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
