package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	api "github.com/dealradar/audit-engine/api/v1alpha1"
	"github.com/dealradar/audit-engine/internal/store/model"
)

type AuditReport interface {
	List(ctx context.Context, filter *AuditReportQueryFilter) (model.AuditReportList, error)
	Get(ctx context.Context, id uuid.UUID) (*model.AuditReport, error)
	GetByDealStage(ctx context.Context, dealID, stageID string) (*model.AuditReport, error)
	Create(ctx context.Context, audit model.AuditReport) (*model.AuditReport, error)
	SetLinkedInCompany(ctx context.Context, id uuid.UUID, companyID, companyURL *string, available bool) error
	SetSourceReports(ctx context.Context, id uuid.UUID, reports []api.SourceReport) error
	SetScoringResult(ctx context.Context, id uuid.UUID, result api.ScoringResult) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, finalReport *string) (*model.AuditReport, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type AuditReportStore struct {
	db *gorm.DB
}

// Make sure we conform to AuditReport interface
var _ AuditReport = (*AuditReportStore)(nil)

func NewAuditReportStore(db *gorm.DB) AuditReport {
	return &AuditReportStore{db: db}
}

func (a *AuditReportStore) List(ctx context.Context, filter *AuditReportQueryFilter) (model.AuditReportList, error) {
	var audits model.AuditReportList
	tx := a.getDB(ctx).Model(&audits).Order("created_at DESC")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	result := tx.Find(&audits)
	if result.Error != nil {
		return nil, result.Error
	}
	return audits, nil
}

func (a *AuditReportStore) Get(ctx context.Context, id uuid.UUID) (*model.AuditReport, error) {
	var audit model.AuditReport
	result := a.getDB(ctx).Preload("Executives").Preload("Posts").First(&audit, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &audit, nil
}

func (a *AuditReportStore) GetByDealStage(ctx context.Context, dealID, stageID string) (*model.AuditReport, error) {
	var audit model.AuditReport
	result := a.getDB(ctx).First(&audit, "deal_id = ? AND stage_id = ?", dealID, stageID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &audit, nil
}

// Create inserts a new audit in the running state. The unique
// (deal_id, stage_id) index rejects a second live audit for the pair.
func (a *AuditReportStore) Create(ctx context.Context, audit model.AuditReport) (*model.AuditReport, error) {
	audit.Status = model.AuditStatusRunning
	result := a.getDB(ctx).Clauses(clause.Returning{}).Create(&audit)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &audit, nil
}

func (a *AuditReportStore) SetLinkedInCompany(ctx context.Context, id uuid.UUID, companyID, companyURL *string, available bool) error {
	return a.updateColumns(ctx, id, map[string]any{
		"linked_in_company_id":  companyID,
		"linked_in_company_url": companyURL,
		"linked_in_available":   available,
	})
}

func (a *AuditReportStore) SetSourceReports(ctx context.Context, id uuid.UUID, reports []api.SourceReport) error {
	return a.updateColumns(ctx, id, map[string]any{
		"source_reports": model.MakeJSONField(reports),
	})
}

func (a *AuditReportStore) SetScoringResult(ctx context.Context, id uuid.UUID, result api.ScoringResult) error {
	return a.updateColumns(ctx, id, map[string]any{
		"scoring_signals":    model.MakeJSONField(result.ScoringSignals),
		"score_total":        result.ScoreTotal,
		"data_quality_score": result.DataQualityScore,
	})
}

// UpdateStatus moves the audit to a terminal state. Only running audits
// transition; completed_at is stamped exactly on entry to the terminal
// state.
func (a *AuditReportStore) UpdateStatus(ctx context.Context, id uuid.UUID, status string, finalReport *string) (*model.AuditReport, error) {
	if !model.TerminalStatus(status) {
		return nil, fmt.Errorf("%w: %q is not a terminal status", ErrInvalidTransition, status)
	}

	var audit model.AuditReport
	if err := a.getDB(ctx).First(&audit, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	if audit.Status != model.AuditStatusRunning {
		return nil, fmt.Errorf("%w: audit %s is %s", ErrInvalidTransition, id, audit.Status)
	}

	now := time.Now()
	updates := map[string]any{
		"status":       status,
		"completed_at": now,
		"updated_at":   now,
	}
	if finalReport != nil {
		updates["final_report"] = finalReport
	}
	if err := a.getDB(ctx).Model(&audit).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &audit, nil
}

func (a *AuditReportStore) Delete(ctx context.Context, id uuid.UUID) error {
	result := a.getDB(ctx).Select(clause.Associations).Delete(&model.AuditReport{ID: id})
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}
	return nil
}

func (a *AuditReportStore) updateColumns(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	result := a.getDB(ctx).Model(&model.AuditReport{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (a *AuditReportStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return a.db
}
