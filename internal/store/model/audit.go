package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	api "github.com/dealradar/audit-engine/api/v1alpha1"
)

// Audit lifecycle states. An audit starts running and moves exactly once
// to completed or failed; terminal states are absorbing.
const (
	AuditStatusRunning   = "running"
	AuditStatusCompleted = "completed"
	AuditStatusFailed    = "failed"
)

// Executive enrichment states.
const (
	EnrichmentPending  = "pending"
	EnrichmentEnriched = "enriched"
	EnrichmentCached   = "cached"
	EnrichmentFailed   = "failed"
)

type AuditReport struct {
	ID                 uuid.UUID `gorm:"primaryKey"`
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          *time.Time
	DealID             string `gorm:"not null;uniqueIndex:audit_reports_deal_stage;index:audit_reports_deal_idx"`
	StageID            string `gorm:"not null;uniqueIndex:audit_reports_deal_stage"`
	CompanyName        string `gorm:"not null"`
	Domain             string
	LinkedInCompanyID  *string
	LinkedInCompanyURL *string
	LinkedInAvailable  bool
	SourceReports      *JSONField[[]api.SourceReport]  `gorm:"type:jsonb"`
	ScoringSignals     *JSONField[[]api.ScoringSignal] `gorm:"type:jsonb"`
	ScoreTotal         *int
	DataQualityScore   *int
	FinalReport        *string
	Status             string `gorm:"not null;type:VARCHAR(50)"`
	CompletedAt        *time.Time
	Executives         []Executive    `gorm:"foreignKey:AuditReportID;references:ID;constraint:OnDelete:CASCADE;"`
	Posts              []LinkedInPost `gorm:"foreignKey:AuditReportID;references:ID;constraint:OnDelete:CASCADE;"`
}

type Experience struct {
	Company        string `json:"company"`
	Title          string `json:"title"`
	DurationMonths *int   `json:"duration_months,omitempty"`
}

type Education struct {
	School string `json:"school"`
	Degree string `json:"degree,omitempty"`
}

type Executive struct {
	ID                uuid.UUID `gorm:"primaryKey"`
	CreatedAt         time.Time `gorm:"not null"`
	AuditReportID     uuid.UUID `gorm:"not null;index:executives_audit_idx"`
	LinkedInURL       string
	SalesNavigatorURL string
	FullName          string `gorm:"not null"`
	Headline          string
	CurrentJobTitle   string
	Employer          string
	IsCurrentEmployee bool
	Experiences       *JSONField[[]Experience] `gorm:"type:jsonb"`
	Educations        *JSONField[[]Education]  `gorm:"type:jsonb"`
	Skills            *JSONField[[]string]     `gorm:"type:jsonb"`
	ConnectedWith     *JSONField[[]string]     `gorm:"type:jsonb"`
	EnrichmentStatus  string                   `gorm:"not null;default:pending;type:VARCHAR(50)"`
	Flagged           bool
}

type LinkedInPost struct {
	ID            uuid.UUID `gorm:"primaryKey"`
	CreatedAt     time.Time `gorm:"not null"`
	AuditReportID uuid.UUID `gorm:"not null;index:linkedin_posts_audit_idx"`
	AuthorName    string    `gorm:"not null"`
	AuthorURL     string
	PostID        string
	PostURL       string
	Text          string
	PublishedOn   string `gorm:"type:VARCHAR(10)"` // YYYY-MM-DD
	Reactions     int
	Comments      int
	Reshares      int
	IsReshare     bool
}

type AuditReportList []AuditReport

func (a AuditReport) String() string {
	val, _ := json.Marshal(a)
	return string(val)
}

func (e Executive) String() string {
	val, _ := json.Marshal(e)
	return string(val)
}

// TerminalStatus reports whether a status admits no further transitions.
func TerminalStatus(status string) bool {
	return status == AuditStatusCompleted || status == AuditStatusFailed
}
