package rat

import (
	"reflect"
	"testing"
)

func minimalRecord() Record {
	rec := Record{
		Name:            "Gestión de clientes",
		Purposes:        []string{"Atención comercial"},
		LegalBasis:      BasisContract,
		RetentionPeriod: "5 años",
	}
	rec.Normalize()
	return rec
}

func taskTypes(cls Classification) []string {
	var out []string
	for _, task := range cls.RequiredTasks {
		out = append(out, task.ArtifactType)
	}
	return out
}

func TestClassifyEmptyRecordIsLowRisk(t *testing.T) {
	var rec Record
	rec.Normalize()
	cls := Classify(&rec, "")
	if cls.RiskLevel != RiskLow {
		t.Fatalf("expected low risk, got %s", cls.RiskLevel)
	}
	if len(cls.RequiredTasks) != 0 {
		t.Fatalf("expected no tasks, got %v", taskTypes(cls))
	}
}

func TestClassifySocioeconomicData(t *testing.T) {
	rec := minimalRecord()
	rec.SensitiveCategories = []string{"situación socioeconómica"}

	cls := Classify(&rec, "")
	if cls.RiskLevel != RiskHigh {
		t.Fatalf("expected high risk, got %s", cls.RiskLevel)
	}
	if len(cls.RequiredTasks) != 1 {
		t.Fatalf("expected exactly one task, got %v", taskTypes(cls))
	}
	task := cls.RequiredTasks[0]
	if task.ArtifactType != ArtifactImpactAssessment || task.DueInDays != 30 {
		t.Fatalf("unexpected task: %+v", task)
	}
	if task.LegalBasisRef != "Art. 19" || task.Priority != PriorityHigh {
		t.Fatalf("unexpected citation or priority: %+v", task)
	}
}

func TestClassifyInternationalTransfer(t *testing.T) {
	rec := minimalRecord()
	rec.Transfer = InternationalTransfer{Exists: true, Countries: []string{"USA"}}
	rec.Normalize()

	cls := Classify(&rec, "")
	if cls.RiskLevel != RiskMedium {
		t.Fatalf("expected medium risk, got %s", cls.RiskLevel)
	}
	want := []string{ArtifactTransferAgreement, ArtifactPrivacyImpactAssessment}
	if !reflect.DeepEqual(taskTypes(cls), want) {
		t.Fatalf("expected %v, got %v", want, taskTypes(cls))
	}
	if cls.RequiredTasks[0].DueInDays != 45 || cls.RequiredTasks[1].DueInDays != 30 {
		t.Fatalf("unexpected due days: %+v", cls.RequiredTasks)
	}
}

func TestClassifyHealthDataWithTransfer(t *testing.T) {
	rec := minimalRecord()
	rec.SensitiveCategories = []string{"datos de salud"}
	rec.Transfer = InternationalTransfer{Exists: true, Countries: []string{"Brasil"}}
	rec.Normalize()

	cls := Classify(&rec, "")
	if cls.RiskLevel != RiskCritical {
		t.Fatalf("expected critical risk for health data, got %s", cls.RiskLevel)
	}
	want := []string{ArtifactImpactAssessment, ArtifactTransferAgreement, ArtifactPrivacyImpactAssessment}
	if !reflect.DeepEqual(taskTypes(cls), want) {
		t.Fatalf("expected %v, got %v", want, taskTypes(cls))
	}
}

func TestClassifyMinorsDataIsCritical(t *testing.T) {
	rec := minimalRecord()
	rec.MinorsData = true
	rec.SensitiveCategories = []string{"datos de menores"}

	cls := Classify(&rec, "")
	if cls.RiskLevel != RiskCritical {
		t.Fatalf("expected critical risk for minors' data, got %s", cls.RiskLevel)
	}
}

func TestClassifyAutomatedDecisions(t *testing.T) {
	rec := minimalRecord()
	rec.AutomatedDecisions = true

	cls := Classify(&rec, "")
	if cls.RiskLevel != RiskHigh {
		t.Fatalf("expected high risk, got %s", cls.RiskLevel)
	}
	if len(cls.RequiredTasks) != 1 {
		t.Fatalf("expected one task, got %v", taskTypes(cls))
	}
	task := cls.RequiredTasks[0]
	if task.ArtifactType != ArtifactAlgorithmicImpactAssessment || task.DueInDays != 15 || task.LegalBasisRef != "Art. 20" {
		t.Fatalf("unexpected task: %+v", task)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	rec := minimalRecord()
	rec.SensitiveCategories = []string{"afiliación sindical"}
	rec.AutomatedDecisions = true
	rec.Transfer = InternationalTransfer{Exists: true, Countries: []string{"Perú"}}
	rec.Normalize()

	first := Classify(&rec, "pesca")
	second := Classify(&rec, "pesca")
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("classification is not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestClassifyIndustryOverlayIsAdditive(t *testing.T) {
	rec := minimalRecord()
	rec.SensitiveCategories = []string{"biométrico"}

	base := Classify(&rec, "")
	overlay := Classify(&rec, "Pesca")
	if len(overlay.SectorChecklist) == 0 {
		t.Fatal("fisheries tenant expects sector checklist items")
	}
	if !reflect.DeepEqual(taskTypes(base), taskTypes(overlay)) {
		t.Fatal("overlay must not change the base trigger set")
	}
	if base.RiskLevel != overlay.RiskLevel {
		t.Fatal("overlay must not change the risk level")
	}
}

func TestCategoryKind(t *testing.T) {
	cases := map[string]string{
		"Salud":                    CategoryHealth,
		"situación socioeconómica": CategorySocioeconomic,
		"huella dactilar":          CategoryBiometric,
		"afiliación política":      CategoryPolitical,
		"datos de menores":         CategoryMinors,
		"preferencias de compra":   CategoryOther,
	}
	for label, want := range cases {
		if got := CategoryKind(label); got != want {
			t.Fatalf("CategoryKind(%q) = %q, want %q", label, got, want)
		}
	}
}
