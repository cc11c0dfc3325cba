package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealradar/audit-engine/internal/store/model"
)

type Executive interface {
	ListByAudit(ctx context.Context, auditID uuid.UUID) ([]model.Executive, error)
	ReplaceForAudit(ctx context.Context, auditID uuid.UUID, executives []model.Executive) error
	UpdateEnrichmentStatus(ctx context.Context, id uuid.UUID, status string) error
}

type ExecutiveStore struct {
	db *gorm.DB
}

var _ Executive = (*ExecutiveStore)(nil)

func NewExecutiveStore(db *gorm.DB) Executive {
	return &ExecutiveStore{db: db}
}

func (e *ExecutiveStore) ListByAudit(ctx context.Context, auditID uuid.UUID) ([]model.Executive, error) {
	var executives []model.Executive
	result := e.getDB(ctx).Order("created_at").Find(&executives, "audit_report_id = ?", auditID)
	if result.Error != nil {
		return nil, result.Error
	}
	return executives, nil
}

// ReplaceForAudit swaps the audit's roster atomically. Consolidation is
// idempotent, so re-running it overwrites rather than appends.
func (e *ExecutiveStore) ReplaceForAudit(ctx context.Context, auditID uuid.UUID, executives []model.Executive) error {
	db := e.getDB(ctx)
	if err := db.Delete(&model.Executive{}, "audit_report_id = ?", auditID).Error; err != nil {
		return err
	}
	if len(executives) == 0 {
		return nil
	}
	for i := range executives {
		executives[i].AuditReportID = auditID
		if executives[i].ID == (uuid.UUID{}) {
			executives[i].ID = uuid.New()
		}
	}
	return db.Create(&executives).Error
}

func (e *ExecutiveStore) UpdateEnrichmentStatus(ctx context.Context, id uuid.UUID, status string) error {
	result := e.getDB(ctx).Model(&model.Executive{}).Where("id = ?", id).Update("enrichment_status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (e *ExecutiveStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return e.db
}
