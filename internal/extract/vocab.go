package extract

import (
	"os"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Vocab holds the word lists the classifier matches against. The rule order
// is fixed; only these lists are tunable.
type Vocab struct {
	JobTitles      []string `yaml:"job_titles"`
	OrgSuffixes    []string `yaml:"org_suffixes"`
	OrgHints       []string `yaml:"org_hints"`
	Honorifics     []string `yaml:"honorifics"`
	NameNoise      []string `yaml:"name_noise"`
	AddressMarkers []string `yaml:"address_markers"`

	jobTitleRe *regexp.Regexp
	orgRe      *regexp.Regexp
	orgHintRe  *regexp.Regexp
	nameNoise  *regexp.Regexp
	nameLineRe *regexp.Regexp
}

// DefaultVocab returns the built-in vocabulary, compiled and ready to match.
func DefaultVocab() *Vocab {
	v := &Vocab{
		JobTitles: []string{
			"Lecturer", "Professor", "Manager", "Director", "Engineer", "Consultant",
			"Officer", "President", "Founder", "Intern", "Chairperson", "Head",
			"Senior", "Vice President", "Specialist", "Analyst", "Advisor",
			"Coordinator", "Representative", "Executive", "Assistant", "Associate",
			"Chief", "CEO", "CTO", "CFO", "COO", "Dean", "Researcher",
		},
		OrgSuffixes: []string{
			`Co\.?`, `Co\.,?\s*Ltd\.?`, `Ltd\.?`, "LLC", `Corp\.?`, `Inc\.?`,
			"Company", "Corporation", "Limited", "Bank", "University", "Institute",
			"Faculty", "Department", "Division", "Group", "Holdings?", "Studio",
			"Agency", "Enterprises?", "Solutions?", "Services?",
		},
		OrgHints: []string{
			"Bank", "University", `Dept\.?`, "Department", "Division", "Institute",
			"College", "School", "Hospital", "Chamber",
		},
		Honorifics: []string{
			`Dr\.`, `Prof\.`, `Mr\.`, `Mrs\.`, `Ms\.`, "Miss", `M\.S\.`, `Ph\.D\.`,
		},
		NameNoise: []string{
			"tel", "mobile", "fax", "e-?mail", "email", "www", "http", "ext",
			"bank", "division", "department", "faculty", "university",
		},
		AddressMarkers: []string{
			"Street", "Road", "Avenue", "Building", "Floor", "Campus",
			"Department", "District", "Province",
		},
	}
	v.compile()
	return v
}

// LoadVocab reads a YAML vocabulary override. Lists present in the file
// replace the defaults wholesale; absent lists keep the built-ins.
func LoadVocab(path string) (*Vocab, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "extract: read vocab %s", path)
	}
	v := DefaultVocab()
	if err := yaml.Unmarshal(data, v); err != nil {
		return nil, eris.Wrapf(err, "extract: parse vocab %s", path)
	}
	v.compile()
	return v, nil
}

func (v *Vocab) compile() {
	v.jobTitleRe = regexp.MustCompile(`(?i)\b(` + strings.Join(v.JobTitles, "|") + `)\b`)
	v.orgRe = regexp.MustCompile(`(?i)\b(` + strings.Join(v.OrgSuffixes, "|") + `)\b`)
	v.orgHintRe = regexp.MustCompile(`(?i)\b(` + strings.Join(v.OrgHints, "|") + `)\b`)
	v.nameNoise = regexp.MustCompile(`(?i)(` + strings.Join(v.NameNoise, "|") + `)`)
	v.nameLineRe = regexp.MustCompile(
		`^(?:(?:` + strings.Join(v.Honorifics, "|") + `)\s*)?` +
			`([A-Z][a-zA-Z'\-]+(?:\s+[A-Z][a-zA-Z'\-]+){0,3})` +
			`(?:\s*\(([^)]+)\)|\s*["']([^"']+)["'])?\s*$`)
}

// MatchesJobTitle reports whether the line contains a job-title keyword.
func (v *Vocab) MatchesJobTitle(line string) bool {
	return v.jobTitleRe.MatchString(line)
}

// MatchesOrg reports whether the line carries a legal-entity suffix.
func (v *Vocab) MatchesOrg(line string) bool {
	return v.orgRe.MatchString(line)
}

// TruncateAtAddressMarker cuts entity text at the first address-like keyword,
// dropping the street-address tail a recognizer sometimes glues onto an
// organization span.
func (v *Vocab) TruncateAtAddressMarker(text string) string {
	lower := strings.ToLower(text)
	cut := len(text)
	for _, marker := range v.AddressMarkers {
		if idx := strings.Index(lower, strings.ToLower(marker)); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	return strings.Trim(text[:cut], " \t,-")
}
