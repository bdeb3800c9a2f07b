package rat

import "strings"

// Label synonyms per canonical category, matched against folded sensitive
// category labels. Labels that match nothing still count as sensitive data,
// they just cannot escalate risk beyond High.
var categorySynonyms = map[string][]string{
	CategoryHealth:        {"salud", "sanitario", "historial medico", "datos medicos", "health", "medical"},
	CategoryBiometric:     {"biometrico", "biometrica", "huella", "reconocimiento facial", "biometric"},
	CategorySocioeconomic: {"socioeconomico", "socioeconomica", "situacion socioeconomica", "socioeconomic"},
	CategoryUnion:         {"sindical", "afiliacion sindical", "union membership", "trade union"},
	CategoryPolitical:     {"politica", "politico", "afiliacion politica", "opinion politica", "political"},
	CategoryMinors:        {"menores", "ninos", "ninas", "adolescentes", "minors", "children"},
}

var accentFolder = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
	"Á", "a", "É", "e", "Í", "i", "Ó", "o", "Ú", "u", "Ü", "u", "Ñ", "n",
)

// foldLabel lowercases and strips the accents that appear in Spanish
// category labels, so "Situación Socioeconómica" and "situacion
// socioeconomica" classify identically.
func foldLabel(label string) string {
	return strings.TrimSpace(strings.ToLower(accentFolder.Replace(label)))
}

// CategoryKind maps a free-form sensitive-data label to its canonical kind.
func CategoryKind(label string) string {
	folded := foldLabel(label)
	if folded == "" {
		return CategoryOther
	}
	for kind, synonyms := range categorySynonyms {
		for _, syn := range synonyms {
			if folded == syn || strings.Contains(folded, syn) {
				return kind
			}
		}
	}
	return CategoryOther
}

// Industry overlays: additive regulator-specific checklist annotations keyed
// by the tenant's industry classification. They never replace base triggers.
var industryChecklists = map[string][]string{
	"pesca": {
		"Verificar inscripción en el registro sectorial de SERNAPESCA",
		"Revisar tratamiento de datos de tripulación embarcada",
	},
	"salud": {
		"Verificar ficha clínica electrónica conforme a la normativa MINSAL",
		"Confirmar acuerdos de confidencialidad con prestadores externos",
	},
	"financiero": {
		"Revisar reporte de tratamiento de datos crediticios ante la CMF",
		"Confirmar plazos de conservación de información comercial",
	},
	"educacion": {
		"Verificar consentimiento de apoderados para datos de estudiantes menores",
	},
}

// SectorChecklist returns the overlay items for an industry classification.
func SectorChecklist(industry string) []string {
	items := industryChecklists[foldLabel(industry)]
	out := make([]string, len(items))
	copy(out, items)
	return out
}

// Classify evaluates the trigger rules over a normalized record and the
// tenant's industry. It is a pure function: identical input always yields the
// identical trigger set, risk level and score.
func Classify(r *Record, industry string) Classification {
	cls := Classification{
		RiskLevel:       RiskLow,
		RequiredTasks:   []TaskDraft{},
		ComplianceScore: ComplianceScore(r),
		SectorChecklist: SectorChecklist(industry),
	}

	sensitive := len(r.SensitiveCategories) > 0 || r.MinorsData
	critical := r.MinorsData
	for _, label := range r.SensitiveCategories {
		switch CategoryKind(label) {
		case CategoryHealth, CategoryMinors:
			critical = true
		}
	}

	if sensitive {
		cls.RequiredTasks = append(cls.RequiredTasks, TaskDraft{
			ArtifactType:  ArtifactImpactAssessment,
			LegalBasisRef: "Art. 19",
			DueInDays:     30,
			Priority:      PriorityHigh,
		})
		if critical {
			cls.RiskLevel = maxRisk(cls.RiskLevel, RiskCritical)
		} else {
			cls.RiskLevel = maxRisk(cls.RiskLevel, RiskHigh)
		}
	}

	if r.AutomatedDecisions {
		cls.RequiredTasks = append(cls.RequiredTasks, TaskDraft{
			ArtifactType:  ArtifactAlgorithmicImpactAssessment,
			LegalBasisRef: "Art. 20",
			DueInDays:     15,
			Priority:      PriorityHigh,
		})
		cls.RiskLevel = maxRisk(cls.RiskLevel, RiskHigh)
	}

	if r.Transfer.Exists {
		cls.RequiredTasks = append(cls.RequiredTasks,
			TaskDraft{
				ArtifactType:  ArtifactTransferAgreement,
				LegalBasisRef: "Art. 31",
				DueInDays:     45,
				Priority:      PriorityMedium,
			},
			TaskDraft{
				ArtifactType:  ArtifactPrivacyImpactAssessment,
				LegalBasisRef: "Art. 21",
				DueInDays:     30,
				Priority:      PriorityMedium,
			},
		)
		cls.RiskLevel = maxRisk(cls.RiskLevel, RiskMedium)
	}

	return cls
}
