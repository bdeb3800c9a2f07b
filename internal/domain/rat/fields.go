package rat

import "strings"

// criticalFieldCount is the denominator of the compliance score: name,
// purpose, legal basis, security measures, retention period.
const criticalFieldCount = 5

// ComplianceScore is the percentage of critical fields that are populated.
// It is a coarse completeness gauge, not a legal judgment.
func ComplianceScore(r *Record) int {
	filled := 0
	if strings.TrimSpace(r.Name) != "" {
		filled++
	}
	if len(r.Purposes) > 0 {
		filled++
	}
	if ValidLegalBasis(r.LegalBasis) {
		filled++
	}
	if len(r.TechnicalMeasures) > 0 || len(r.OrganizationalMeasures) > 0 {
		filled++
	}
	if strings.TrimSpace(r.RetentionPeriod) != "" {
		filled++
	}
	return filled * 100 / criticalFieldCount
}

// ValidateForTriage checks the fields triage depends on and returns every
// issue at once. Optional collections are allowed to be empty; this only
// rejects what the classifier cannot interpret.
func ValidateForTriage(r *Record) []FieldIssue {
	var issues []FieldIssue
	add := func(field, reason string) {
		issues = append(issues, FieldIssue{Field: field, Reason: reason})
	}

	if strings.TrimSpace(r.Name) == "" {
		add("name", "activity name is required")
	}
	if len(r.Purposes) == 0 {
		add("purposes", "at least one stated purpose is required")
	}
	if r.LegalBasis == "" {
		add("legalBasis", "legal basis is required")
	} else if !ValidLegalBasis(r.LegalBasis) {
		add("legalBasis", "unknown legal basis")
	}
	if email := strings.TrimSpace(r.ContactEmail); email != "" {
		at := strings.Index(email, "@")
		if at <= 0 || at == len(email)-1 {
			add("contactEmail", "must be a valid email address")
		}
	}
	if r.Transfer.Exists && len(r.Transfer.Countries) == 0 {
		add("internationalTransfer.countries", "destination countries are required when a transfer exists")
	}
	if !r.Transfer.Exists && len(r.Transfer.Countries) > 0 {
		add("internationalTransfer.exists", "countries listed but transfer flagged as not existing")
	}
	if r.MinorsData && len(r.SensitiveCategories) == 0 {
		// Minors' data is itself a sensitive category; record it explicitly
		// so the register export shows it.
		add("sensitiveCategories", "minors' data must be listed as a sensitive category")
	}
	return issues
}
