package rat

import "time"

// InternationalTransfer describes cross-border flows of the record's data.
type InternationalTransfer struct {
	Exists     bool     `json:"exists"`
	Countries  []string `json:"countries"`
	Safeguards string   `json:"safeguards"`
}

// Record is the record of processing activities (RAT), the central entity.
// TenantID is set once at creation and never changes. All collection fields
// are kept non-nil: the classifier runs set-membership tests over them and
// treats empty as "no risk contribution", never as an error.
type Record struct {
	ID                string    `json:"id"`
	TenantID          string    `json:"tenantId"`
	Name              string    `json:"name"`
	ResponsibleArea   string    `json:"responsibleArea"`
	ResponsiblePerson string    `json:"responsiblePerson"`
	ContactEmail      string    `json:"contactEmail"`
	Purposes          []string  `json:"purposes"`
	LegalBasis        LegalBasis `json:"legalBasis"`

	SubjectCategories   []string        `json:"subjectCategories"`
	DataCategories      map[string]bool `json:"dataCategories"`
	SensitiveCategories []string        `json:"sensitiveCategories"`
	MinorsData          bool            `json:"minorsData"`
	AutomatedDecisions  bool            `json:"automatedDecisions"`

	StorageSystems     []string              `json:"storageSystems"`
	InternalRecipients []string              `json:"internalRecipients"`
	ExternalRecipients []string              `json:"externalRecipients"`
	Transfer           InternationalTransfer `json:"internationalTransfer"`

	RetentionPeriod string `json:"retentionPeriod"`
	DisposalMethod  string `json:"disposalMethod"`

	TechnicalMeasures      []string `json:"technicalMeasures"`
	OrganizationalMeasures []string `json:"organizationalMeasures"`

	State State `json:"state"`
	// Snapshot of the last triage run, kept on the record for the register
	// export and dashboard.
	RiskLevel       RiskLevel `json:"riskLevel"`
	ComplianceScore int       `json:"complianceScore"`

	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Normalize replaces nil collections with empty ones so downstream logic is
// total over the type.
func (r *Record) Normalize() {
	if r.Purposes == nil {
		r.Purposes = []string{}
	}
	if r.SubjectCategories == nil {
		r.SubjectCategories = []string{}
	}
	if r.DataCategories == nil {
		r.DataCategories = map[string]bool{}
	}
	if r.SensitiveCategories == nil {
		r.SensitiveCategories = []string{}
	}
	if r.StorageSystems == nil {
		r.StorageSystems = []string{}
	}
	if r.InternalRecipients == nil {
		r.InternalRecipients = []string{}
	}
	if r.ExternalRecipients == nil {
		r.ExternalRecipients = []string{}
	}
	if r.Transfer.Countries == nil {
		r.Transfer.Countries = []string{}
	}
	if r.TechnicalMeasures == nil {
		r.TechnicalMeasures = []string{}
	}
	if r.OrganizationalMeasures == nil {
		r.OrganizationalMeasures = []string{}
	}
}

// TaskDraft is a compliance task the classifier demands; the emitter turns it
// into a persisted task. DueInDays stays a relative offset until the task is
// actually created.
type TaskDraft struct {
	ArtifactType  string `json:"artifactType"`
	LegalBasisRef string `json:"legalBasisReference"`
	DueInDays     int    `json:"dueInDays"`
	Priority      string `json:"priority"`
}

// Classification is the triage verdict for one record.
type Classification struct {
	RiskLevel       RiskLevel   `json:"riskLevel"`
	RequiredTasks   []TaskDraft `json:"requiredTasks"`
	ComplianceScore int         `json:"complianceScore"`
	SectorChecklist []string    `json:"sectorChecklist"`
}

// EmittedTask reports what the store did with one task draft during a triage
// save. Created is false when an existing task absorbed the draft.
type EmittedTask struct {
	ID           string `json:"id"`
	ArtifactType string `json:"artifactType"`
	Created      bool   `json:"created"`
}
