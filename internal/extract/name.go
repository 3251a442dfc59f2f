package extract

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Cards place the person's name prominently, so proximity to the top of the
// card is the strongest signal; shape and adjacency to the job-title line
// refine it. All candidates are scored and the best one wins; names are the
// one field that is not first-match-wins.

var (
	strictNameRe = regexp.MustCompile(`^[A-Z][a-zA-Z'\-]+(?:\s+[A-Z][a-zA-Z'\-]+){1,2}$`)
	segmentSplit = regexp.MustCompile(`[\s._\-]+`)

	titleCaser = cases.Title(language.Und)
)

type nameCandidate struct {
	value    string
	nickname string
	line     int
}

// scoreName rates a candidate line. Higher is better; zero means the
// candidate is unusable.
func scoreName(c nameCandidate, titleLines map[int]bool, v *Vocab) int {
	score := 0
	if c.line <= 2 {
		score += 3
	}
	if strictNameRe.MatchString(c.value) {
		score += 3
	}
	if titleLines[c.line-1] || titleLines[c.line+1] {
		score += 2
	}
	if !v.MatchesOrg(c.value) && !websiteRe.MatchString(c.value) && !emailRe.MatchString(c.value) {
		score++
	}
	return score
}

// resolveName picks the best candidate and splits it: first token becomes
// the first name, the remainder joined becomes the last name. A single-token
// candidate yields no last name.
func resolveName(candidates []nameCandidate, titleLines map[int]bool, v *Vocab) (first, last, nickname string, ok bool) {
	best := -1
	var chosen nameCandidate
	for _, c := range candidates {
		if sc := scoreName(c, titleLines, v); sc > best {
			best = sc
			chosen = c
		}
	}
	if best <= 0 {
		return "", "", "", false
	}

	parts := strings.Fields(chosen.value)
	first = capWords(parts[0])
	if len(parts) > 1 {
		last = capWords(strings.Join(parts[1:], " "))
	}
	nickname = strings.Trim(chosen.nickname, `"'`)
	return first, last, nickname, true
}

// nameFromEmail infers a name from the email local-part, splitting on the
// separators people actually use in addresses. Deliberately low confidence.
func nameFromEmail(email string) (first, last string) {
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		return "", ""
	}
	var segs []string
	for _, s := range segmentSplit.Split(local, -1) {
		if s != "" {
			segs = append(segs, s)
		}
	}
	switch {
	case len(segs) >= 2:
		return capWords(segs[0]), capWords(strings.Join(segs[1:], " "))
	case len(segs) == 1:
		return capWords(segs[0]), ""
	default:
		return "", ""
	}
}

// capWords splits on whitespace, dots, underscores, and hyphens, and
// title-cases each piece Unicode-correctly.
func capWords(s string) string {
	var words []string
	for _, w := range segmentSplit.Split(s, -1) {
		if w != "" {
			words = append(words, titleCaser.String(strings.ToLower(w)))
		}
	}
	return strings.Join(words, " ")
}
