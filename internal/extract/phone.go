package extract

import (
	"regexp"
	"strings"
)

const (
	minPhoneDigits = 8
	maxPhoneDigits = 15 // ITU E.164 limit
)

var (
	extensionRe = regexp.MustCompile(`(?i)\b(?:ext\.?|x)\s*\.?:?\s*\d{1,6}\b`)
	nonPhoneRe  = regexp.MustCompile(`[^\d+]`)
)

// NormalizePhone canonicalizes one phone-shaped substring: digits plus an
// optional leading "+", international "00" prefix rewritten to "+", national
// numbers (leading 0, 9-11 digits) rewritten with the default country
// calling code, and the result capped at maxLen digits. It is total: any
// input either yields a canonical 8-15 digit number or the empty string.
// Extension suffixes are stripped outright, never embedded in the result.
func NormalizePhone(raw, countryCode string, maxLen int) string {
	if maxLen <= 0 || maxLen > maxPhoneDigits {
		maxLen = maxPhoneDigits
	}
	if maxLen < minPhoneDigits {
		maxLen = minPhoneDigits
	}

	s := extensionRe.ReplaceAllString(raw, "")
	s = nonPhoneRe.ReplaceAllString(s, "")
	// A "+" is only meaningful as a prefix.
	if strings.HasPrefix(s, "+") {
		s = "+" + strings.ReplaceAll(s[1:], "+", "")
	} else {
		s = strings.ReplaceAll(s, "+", "")
	}
	if strings.HasPrefix(s, "00") {
		s = "+" + s[2:]
	}
	if s == "" || s == "+" {
		return ""
	}

	if strings.HasPrefix(s, "+") {
		if len(s)-1 > maxLen {
			s = s[:maxLen+1]
		}
		if len(s)-1 < minPhoneDigits {
			return ""
		}
		return s
	}

	if strings.HasPrefix(s, "0") && len(s) >= 9 && len(s) <= 11 && countryCode != "" {
		s = countryCode + s[1:]
		if len(s)-1 > maxLen {
			s = s[:maxLen+1]
		}
		return s
	}

	if len(s) >= minPhoneDigits && len(s) <= maxLen {
		return s
	}
	return ""
}

// collectPhones extracts every phone-shaped run from a classified phone
// line, canonicalizes each, and records them on the draft: the first valid
// number becomes the primary phone, later distinct numbers append to
// additionalPhones. Duplicates by canonical value are collapsed.
func collectPhones(draft *draftState, raw string, confidence float64, opts Options) {
	raw = extensionRe.ReplaceAllString(raw, "")
	for _, run := range phoneLooseRe.FindAllString(raw, -1) {
		canonical := NormalizePhone(run, opts.DefaultCountryCode, opts.MaxPhoneLen)
		if canonical == "" {
			continue
		}
		if draft.seenPhones[canonical] {
			continue
		}
		draft.seenPhones[canonical] = true
		if draft.phone.IsZero() {
			draft.phone = fieldOf(canonical, confidence)
		} else {
			draft.additionalPhones = append(draft.additionalPhones, fieldOf(canonical, confidence))
		}
	}
}
