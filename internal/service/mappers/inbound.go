package mappers

import (
	"github.com/google/uuid"

	"github.com/dealradar/audit-engine/internal/consolidation"
	"github.com/dealradar/audit-engine/internal/store/model"
)

type AuditCreateForm struct {
	DealID      string
	StageID     string
	CompanyName string
	Domain      string
}

func (f AuditCreateForm) ToModel() model.AuditReport {
	return model.AuditReport{
		ID:          uuid.New(),
		DealID:      f.DealID,
		StageID:     f.StageID,
		CompanyName: f.CompanyName,
		Domain:      f.Domain,
		Status:      model.AuditStatusRunning,
	}
}

func ExecutivesFromRoster(auditID uuid.UUID, roster []consolidation.MergedExecutive) []model.Executive {
	executives := make([]model.Executive, 0, len(roster))
	for _, e := range roster {
		executive := model.Executive{
			ID:                uuid.New(),
			AuditReportID:     auditID,
			LinkedInURL:       e.LinkedInURL,
			FullName:          e.FullName,
			Headline:          e.Headline,
			CurrentJobTitle:   e.CurrentJobTitle,
			Employer:          e.Employer,
			IsCurrentEmployee: e.IsCurrentEmployee,
			EnrichmentStatus:  model.EnrichmentPending,
			Flagged:           e.Flagged,
		}
		if len(e.Skills) > 0 {
			executive.Skills = model.MakeJSONField(e.Skills)
		}
		if len(e.ConnectedWith) > 0 {
			executive.ConnectedWith = model.MakeJSONField(e.ConnectedWith)
		}
		executives = append(executives, executive)
	}
	return executives
}

func PostsFromRecords(auditID uuid.UUID, records []consolidation.PostRecord) []model.LinkedInPost {
	posts := make([]model.LinkedInPost, 0, len(records))
	for _, p := range records {
		posts = append(posts, model.LinkedInPost{
			ID:            uuid.New(),
			AuditReportID: auditID,
			AuthorName:    p.Author,
			AuthorURL:     p.AuthorURL,
			PostURL:       p.PostURL,
			Text:          p.Text,
			PublishedOn:   p.Date,
			Reactions:     p.Reactions,
			Comments:      p.Comments,
			Reshares:      p.Reshares,
			IsReshare:     p.IsReshare,
		})
	}
	return posts
}
