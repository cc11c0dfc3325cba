package mappers

import (
	"time"

	api "github.com/dealradar/audit-engine/api/v1alpha1"
	"github.com/dealradar/audit-engine/internal/scoring"
	"github.com/dealradar/audit-engine/internal/store/model"
)

func AuditToApi(audit model.AuditReport) api.AuditSummary {
	summary := api.AuditSummary{
		ID:               audit.ID.String(),
		DealID:           audit.DealID,
		StageID:          audit.StageID,
		CompanyName:      audit.CompanyName,
		Domain:           audit.Domain,
		LinkedInAvail:    audit.LinkedInAvailable,
		Status:           audit.Status,
		ScoreTotal:       audit.ScoreTotal,
		DataQualityScore: audit.DataQualityScore,
		CreatedAt:        audit.CreatedAt.Format(time.RFC3339),
	}
	if audit.ScoreTotal != nil {
		verdict := scoring.VerdictFor(*audit.ScoreTotal)
		summary.Verdict = &verdict
	}
	if audit.CompletedAt != nil {
		completed := audit.CompletedAt.Format(time.RFC3339)
		summary.CompletedAt = &completed
	}
	return summary
}

func AuditListToApi(audits model.AuditReportList) []api.AuditSummary {
	out := make([]api.AuditSummary, 0, len(audits))
	for _, audit := range audits {
		out = append(out, AuditToApi(audit))
	}
	return out
}
