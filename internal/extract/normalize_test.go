package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_RepairsOCRArtifacts(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"zero width stripped", "John​Smith", "JohnSmith"},
		{"pipes to spaces", "John|Smith", "John Smith"},
		{"equals noise", "=== Acme ===", "Acme"},
		{"email space before at", "john @acme.com", "john@acme.com"},
		{"email space after at", "john@ acme.com", "john@acme.com"},
		{"domain dot spacing", "acme . com", "acme.com"},
		{"scheme split", "http: / /acme.com", "http://acme.com"},
		{"trunk zero removed", "+66 (0) 81 234 5678", "+66 81 234 5678"},
		{"curly quotes", "John “Johnny” Smith", `John "Johnny" Smith`},
		{"underscore tld", "info@lhbank_ co.th", "info@lhbank.co.th"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Normalize(tt.in)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_SplitsLines(t *testing.T) {
	_, lines := Normalize("John Smith\r\n\r\n  Director  \nAcme Co.\n\n")
	assert.Equal(t, []string{"John Smith", "Director", "Acme Co."}, lines)
}

func TestNormalize_InjectsBreaksBeforeFieldLabels(t *testing.T) {
	_, lines := Normalize("John Smith Tel: 081-234-5678 E-mail: j@acme.com")
	assert.Equal(t, []string{"John Smith", "Tel: 081-234-5678", "E-mail: j@acme.com"}, lines)
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"John Smith\nDirector\nAcme Co., Ltd.\njohn.smith@acme.com\nTel: 081-234-5678",
		"messy |= text  with   runs\nname @ acme . com",
		"John Smith Tel: 02 123 4567 Fax: 02 123 4568",
		"",
		"plain line",
	}
	for _, in := range inputs {
		once, _ := Normalize(in)
		twice, _ := Normalize(once)
		assert.Equal(t, once, twice, "re-normalizing must be a no-op for %q", in)
	}
}

func TestNormalize_EmptyInput(t *testing.T) {
	text, lines := Normalize("")
	assert.Equal(t, "", text)
	assert.Empty(t, lines)
}
