package extract

import (
	"regexp"
	"strings"
)

var nonLetterRe = regexp.MustCompile(`[^a-zA-Z]`)

// companyFromEmail derives an organization name from the email domain's root
// label: "info@widgetco.io" → "Widgetco". Last-resort only; the confidence
// tier sits well below a directly classified organization line.
func companyFromEmail(email string) string {
	domain := emailDomain(email)
	if domain == "" {
		return ""
	}
	root, _, _ := strings.Cut(domain, ".")
	root = nonLetterRe.ReplaceAllString(root, "")
	if root == "" {
		return ""
	}
	return capWords(root)
}

// websiteFromEmail falls back to the email domain as the website. The
// weakest signal in the system, assigned the lowest confidence tier.
func websiteFromEmail(email string) string {
	return emailDomain(email)
}

func emailDomain(email string) string {
	_, domain, found := strings.Cut(email, "@")
	if !found {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(domain), "www.")
}
