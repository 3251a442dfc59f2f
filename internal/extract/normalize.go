package extract

import (
	"regexp"
	"strings"
)

// OCR output carries predictable damage: zero-width characters, table rules
// read as pipes or equals runs, spaces injected into email addresses and
// domains, curly quotes, and occasionally an entire card collapsed onto one
// line. Normalize repairs what it can and splits the result into trimmed,
// non-empty lines. It is deterministic and idempotent.

var (
	zeroWidthRe   = regexp.MustCompile(`[\x{200B}-\x{200D}\x{FEFF}]`)
	pipeNoiseRe   = regexp.MustCompile(`[|=]+`)
	atSpaceRe     = regexp.MustCompile(`\s*@\s+|\s+@\s*`)
	dotSpaceRe    = regexp.MustCompile(`\s+\.\s+`)
	schemeSpaceRe = regexp.MustCompile(`(?i)(https?):\s*/\s*/`)
	trunkZeroRe   = regexp.MustCompile(`\( ?0 ?\)`)
	underscoreTLD = regexp.MustCompile(`(?i)_+\s*co\.th`)
	spaceRunRe    = regexp.MustCompile(`[ \t]+`)

	// Field labels that OCR sometimes runs together on a single line.
	// A break is injected before each so the classifier sees one field per line.
	fieldLabelRe = regexp.MustCompile(`(?i)\s+((?:Tel|Phone|Mobile|Mob|Cell|Fax|E-?mail|Website|Www)\.?\s*:)`)

	quoteReplacer = strings.NewReplacer("“", `"`, "”", `"`, "’", "'", "‘", "'")
)

// Normalize cleans raw OCR text and returns the cleaned text together with
// its ordered non-empty trimmed lines.
func Normalize(raw string) (string, []string) {
	text := zeroWidthRe.ReplaceAllString(raw, "")
	text = pipeNoiseRe.ReplaceAllString(text, " ")
	text = atSpaceRe.ReplaceAllString(text, "@")
	text = dotSpaceRe.ReplaceAllString(text, ".")
	text = schemeSpaceRe.ReplaceAllString(text, "$1://")
	text = trunkZeroRe.ReplaceAllString(text, "")
	text = quoteReplacer.Replace(text)
	text = underscoreTLD.ReplaceAllString(text, ".co.th")
	text = fieldLabelRe.ReplaceAllString(text, "\n$1")
	text = spaceRunRe.ReplaceAllString(text, " ")

	var lines []string
	var out []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		out = append(out, trimmed)
		if trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return strings.Join(out, "\n"), lines
}
