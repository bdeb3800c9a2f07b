package rat

import "testing"

func TestComplianceScore(t *testing.T) {
	var rec Record
	rec.Normalize()
	if got := ComplianceScore(&rec); got != 0 {
		t.Fatalf("empty record score = %d, want 0", got)
	}

	rec.Name = "Nómina"
	rec.Purposes = []string{"Pago de remuneraciones"}
	if got := ComplianceScore(&rec); got != 40 {
		t.Fatalf("score = %d, want 40", got)
	}

	rec.LegalBasis = BasisLegalObligation
	rec.TechnicalMeasures = []string{"cifrado en reposo"}
	rec.RetentionPeriod = "6 años"
	if got := ComplianceScore(&rec); got != 100 {
		t.Fatalf("score = %d, want 100", got)
	}
}

func TestValidateForTriageCollectsAllIssues(t *testing.T) {
	rec := Record{
		ContactEmail: "not-an-email",
		LegalBasis:   "vibes",
		Transfer:     InternationalTransfer{Exists: true},
	}
	rec.Normalize()

	issues := ValidateForTriage(&rec)
	fields := map[string]bool{}
	for _, issue := range issues {
		fields[issue.Field] = true
	}
	for _, want := range []string{"name", "purposes", "legalBasis", "contactEmail", "internationalTransfer.countries"} {
		if !fields[want] {
			t.Fatalf("expected issue for %q, got %v", want, issues)
		}
	}
}

func TestValidateForTriageAcceptsMinimalRecord(t *testing.T) {
	rec := minimalRecord()
	if issues := ValidateForTriage(&rec); len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
}

func TestNormalizeReplacesNilCollections(t *testing.T) {
	var rec Record
	rec.Normalize()
	if rec.Purposes == nil || rec.DataCategories == nil || rec.SensitiveCategories == nil || rec.Transfer.Countries == nil {
		t.Fatal("Normalize left a nil collection")
	}
}
