package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealradar/audit-engine/internal/store/model"
)

type Post interface {
	ListByAudit(ctx context.Context, auditID uuid.UUID) ([]model.LinkedInPost, error)
	ReplaceForAudit(ctx context.Context, auditID uuid.UUID, posts []model.LinkedInPost) error
}

type PostStore struct {
	db *gorm.DB
}

var _ Post = (*PostStore)(nil)

func NewPostStore(db *gorm.DB) Post {
	return &PostStore{db: db}
}

func (p *PostStore) ListByAudit(ctx context.Context, auditID uuid.UUID) ([]model.LinkedInPost, error) {
	var posts []model.LinkedInPost
	result := p.getDB(ctx).Order("created_at").Find(&posts, "audit_report_id = ?", auditID)
	if result.Error != nil {
		return nil, result.Error
	}
	return posts, nil
}

func (p *PostStore) ReplaceForAudit(ctx context.Context, auditID uuid.UUID, posts []model.LinkedInPost) error {
	db := p.getDB(ctx)
	if err := db.Delete(&model.LinkedInPost{}, "audit_report_id = ?", auditID).Error; err != nil {
		return err
	}
	if len(posts) == 0 {
		return nil
	}
	for i := range posts {
		posts[i].AuditReportID = auditID
		if posts[i].ID == (uuid.UUID{}) {
			posts[i].ID = uuid.New()
		}
	}
	return db.Create(&posts).Error
}

func (p *PostStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return p.db
}
