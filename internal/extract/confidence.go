package extract

// Confidence tiers. Every rule in the pipeline assigns exactly one of these,
// so a field's confidence identifies the rule that produced it. Values are
// ordered: a direct classification always outranks an inference from the
// email address, and the entity merge tiers sit above the heuristic name
// tiers but below a directly matched email line.
const (
	ConfEmailLine    = 0.95 // email pattern matched on its own line
	ConfEntityPerson = 0.93 // PERSON entity passed the name-shape filter
	ConfEntityTitle  = 0.93 // TITLE entity
	ConfLabeledPhone = 0.90 // "Tel:"/"Mobile:" label followed by digits
	ConfEntityOrg    = 0.85 // ORGANIZATION entity
	ConfLoosePhone   = 0.80 // unlabeled phone-shaped digit run
	ConfWebsiteLine  = 0.80 // URL-shaped line with no @
	ConfScoredName   = 0.75 // best-scoring capitalized name line
	ConfTitleLine    = 0.70 // job-title vocabulary match
	ConfOrgLine      = 0.70 // legal-suffix or uppercase organization line
	ConfNotes        = 0.50 // cleaned source text carried as notes
	ConfEmailName    = 0.40 // name inferred from the email local-part
	ConfEmailCompany = 0.30 // company inferred from the email domain root
	ConfEmailWebsite = 0.20 // website inferred from the email domain
)
