package rat

// State is the lifecycle state of a processing-activity record.
type State string

const (
	StateDraft            State = "draft"
	StateInReview         State = "in_review"
	StatePendingApproval  State = "pending_approval"
	StateApproved         State = "approved"
	StateChangesRequested State = "changes_requested"
	StateRejected         State = "rejected"
	StateActive           State = "active"
	StateCertified        State = "certified"
	StateInactive         State = "inactive"
)

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

var riskRank = map[RiskLevel]int{
	RiskLow:      0,
	RiskMedium:   1,
	RiskHigh:     2,
	RiskCritical: 3,
}

func maxRisk(a, b RiskLevel) RiskLevel {
	if riskRank[b] > riskRank[a] {
		return b
	}
	return a
}

type LegalBasis string

const (
	BasisConsent            LegalBasis = "consent"
	BasisLegitimateInterest LegalBasis = "legitimate_interest"
	BasisLegalObligation    LegalBasis = "legal_obligation"
	BasisContract           LegalBasis = "contract"
	BasisVitalInterest      LegalBasis = "vital_interest"
	BasisPublicTask         LegalBasis = "public_task"
)

var legalBases = map[LegalBasis]bool{
	BasisConsent:            true,
	BasisLegitimateInterest: true,
	BasisLegalObligation:    true,
	BasisContract:           true,
	BasisVitalInterest:      true,
	BasisPublicTask:         true,
}

func ValidLegalBasis(b LegalBasis) bool {
	return legalBases[b]
}

// Artifact types for compliance tasks a triage run can demand.
const (
	ArtifactImpactAssessment            = "impact-assessment"
	ArtifactAlgorithmicImpactAssessment = "algorithmic-impact-assessment"
	ArtifactPrivacyImpactAssessment     = "privacy-impact-assessment"
	ArtifactTransferAgreement           = "transfer-agreement"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Canonical sensitive-data category kinds decided from free-form labels.
const (
	CategoryHealth        = "health"
	CategoryBiometric     = "biometric"
	CategorySocioeconomic = "socioeconomic"
	CategoryUnion         = "union"
	CategoryPolitical     = "political"
	CategoryMinors        = "minors"
	CategoryOther         = "other"
)
