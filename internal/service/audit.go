package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	api "github.com/dealradar/audit-engine/api/v1alpha1"
	"github.com/dealradar/audit-engine/internal/consolidation"
	"github.com/dealradar/audit-engine/internal/scoring"
	"github.com/dealradar/audit-engine/internal/service/mappers"
	"github.com/dealradar/audit-engine/internal/store"
	"github.com/dealradar/audit-engine/internal/store/model"
	"github.com/dealradar/audit-engine/pkg/log"
	"github.com/dealradar/audit-engine/pkg/metrics"
)

type AuditService struct {
	store        store.Store
	relevance    *consolidation.RelevanceFilter
	consolidator *consolidation.Consolidator
	engine       *scoring.Engine
	logger       *log.StructuredLogger
}

func NewAuditService(store store.Store, relevance *consolidation.RelevanceFilter, consolidator *consolidation.Consolidator, engine *scoring.Engine) *AuditService {
	return &AuditService{
		store:        store,
		relevance:    relevance,
		consolidator: consolidator,
		engine:       engine,
		logger:       log.NewDebugLogger("audit_service"),
	}
}

type AuditFilter struct {
	DealID            string
	StageID           string
	Status            string
	CompanyNameLike   string
	LinkedInAvailable *bool
}

func (as *AuditService) ListAudits(ctx context.Context, filter *AuditFilter) (model.AuditReportList, error) {
	logger := as.logger.WithContext(ctx)
	tracer := logger.Operation("list_audits").
		WithString("deal_id", filter.DealID).
		WithString("stage_id", filter.StageID).
		WithString("status", filter.Status).
		Build()

	storeFilter := store.NewAuditReportQueryFilter()
	if filter.DealID != "" {
		storeFilter = storeFilter.ByDealID(filter.DealID)
	}
	if filter.StageID != "" {
		storeFilter = storeFilter.ByStageID(filter.StageID)
	}
	if filter.Status != "" {
		storeFilter = storeFilter.ByStatus(filter.Status)
	}
	if filter.CompanyNameLike != "" {
		storeFilter = storeFilter.ByCompanyNameLike(filter.CompanyNameLike)
	}
	if filter.LinkedInAvailable != nil {
		storeFilter = storeFilter.ByLinkedInAvailable(*filter.LinkedInAvailable)
	}

	audits, err := as.store.AuditReport().List(ctx, storeFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list audits: %w", err)
	}

	tracer.Success().WithInt("count", len(audits)).Log()
	return audits, nil
}

func (as *AuditService) GetAudit(ctx context.Context, id uuid.UUID) (*model.AuditReport, error) {
	logger := as.logger.WithContext(ctx)
	tracer := logger.Operation("get_audit").WithUUID("audit_id", id).Build()

	audit, err := as.store.AuditReport().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrAuditNotFound(id)
		}
		tracer.Error(err).Log()
		return nil, fmt.Errorf("failed to get audit: %w", err)
	}

	tracer.Success().WithString("status", audit.Status).Log()
	return audit, nil
}

func (as *AuditService) GetAuditByDealStage(ctx context.Context, dealID, stageID string) (*model.AuditReport, error) {
	audit, err := as.store.AuditReport().GetByDealStage(ctx, dealID, stageID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrAuditNotFoundByDealStage(dealID, stageID)
		}
		return nil, fmt.Errorf("failed to get audit: %w", err)
	}
	return audit, nil
}

func (as *AuditService) CreateAudit(ctx context.Context, createForm mappers.AuditCreateForm) (*model.AuditReport, error) {
	logger := as.logger.WithContext(ctx)
	tracer := logger.Operation("create_audit").
		WithString("deal_id", createForm.DealID).
		WithString("stage_id", createForm.StageID).
		WithString("company_name", createForm.CompanyName).
		Build()

	if createForm.DealID == "" || createForm.StageID == "" {
		return nil, NewErrInvalidForm("deal_id and stage_id are required")
	}
	if createForm.CompanyName == "" {
		return nil, NewErrInvalidForm("company_name is required")
	}

	audit := createForm.ToModel()
	tracer.Step("convert_form_to_model").WithUUID("audit_id", audit.ID).Log()

	ctx, err := as.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_, _ = store.Rollback(ctx)
	}()

	createdAudit, err := as.store.AuditReport().Create(ctx, audit)
	if err != nil {
		_, _ = store.Rollback(ctx)

		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, NewErrAuditAlreadyExists(createForm.DealID, createForm.StageID)
		}

		return nil, fmt.Errorf("failed to create audit: %w", err)
	}

	tracer.Step("audit_created_in_db").WithUUID("created_audit_id", createdAudit.ID).Log()

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	tracer.Success().
		WithUUID("audit_id", createdAudit.ID).
		WithString("company_name", createdAudit.CompanyName).
		Log()

	return createdAudit, nil
}

func (as *AuditService) RegisterLinkedInCompany(ctx context.Context, id uuid.UUID, companyID, companyURL *string, available bool) error {
	logger := as.logger.WithContext(ctx)
	tracer := logger.Operation("register_linkedin_company").
		WithUUID("audit_id", id).
		WithBool("available", available).
		Build()

	if _, err := as.runningAudit(ctx, id); err != nil {
		return err
	}

	if err := as.store.AuditReport().SetLinkedInCompany(ctx, id, companyID, companyURL, available); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return NewErrAuditNotFound(id)
		}
		tracer.Error(err).Log()
		return fmt.Errorf("failed to register linkedin company: %w", err)
	}

	tracer.Success().WithStringPtr("company_id", companyID).Log()
	return nil
}

// ProcessBatches filters each batch's posts for relevance, consolidates
// all batches into the canonical roster, and replaces the audit's
// persisted executives and posts with the outcome. Reprocessing the same
// batches is idempotent.
func (as *AuditService) ProcessBatches(ctx context.Context, id uuid.UUID, batches []consolidation.Batch) (*consolidation.Result, error) {
	logger := as.logger.WithContext(ctx)
	tracer := logger.Operation("process_batches").
		WithUUID("audit_id", id).
		WithInt("batch_count", len(batches)).
		Build()

	if _, err := as.runningAudit(ctx, id); err != nil {
		return nil, err
	}

	filtered := make([]consolidation.Batch, len(batches))
	kept := 0
	for i, batch := range batches {
		filtered[i] = batch
		filtered[i].Posts = as.relevance.Apply(batch.Posts)
		kept += len(filtered[i].Posts)
	}
	tracer.Step("relevance_filtered").WithInt("posts_kept", kept).Log()

	result := as.consolidator.Consolidate(filtered)
	tracer.Step("consolidated").
		WithInt("executives", len(result.Executives)).
		WithInt("posts", len(result.Posts)).
		WithInt("edges", len(result.Edges)).
		WithInt("themes", len(result.Themes)).
		Log()

	ctx, err := as.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_, _ = store.Rollback(ctx)
	}()

	if err := as.store.Executive().ReplaceForAudit(ctx, id, mappers.ExecutivesFromRoster(id, result.Executives)); err != nil {
		return nil, fmt.Errorf("failed to persist executives: %w", err)
	}
	if err := as.store.Post().ReplaceForAudit(ctx, id, mappers.PostsFromRecords(id, result.Posts)); err != nil {
		return nil, fmt.Errorf("failed to persist posts: %w", err)
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	tracer.Success().WithInt("roster_size", len(result.Executives)).Log()
	return &result, nil
}

// RunScoring scores the source reports, persists them together with the
// scoring outcome, and completes the audit. A duplicate same-authority
// emission fails the audit instead.
func (as *AuditService) RunScoring(ctx context.Context, id uuid.UUID, reports []api.SourceReport) (*api.ScoringResult, error) {
	logger := as.logger.WithContext(ctx)
	tracer := logger.Operation("run_scoring").
		WithUUID("audit_id", id).
		WithInt("report_count", len(reports)).
		Build()

	if _, err := as.runningAudit(ctx, id); err != nil {
		return nil, err
	}

	started := time.Now()
	result, err := as.engine.Score(reports)
	if err != nil {
		var dup *scoring.ErrDuplicateEmission
		if errors.As(err, &dup) {
			reason := err.Error()
			if _, failErr := as.FailAudit(ctx, id, &reason); failErr != nil {
				tracer.Error(failErr).Log()
			}
		}
		tracer.Error(err).Log()
		return nil, err
	}
	metrics.ObserveScoringDurationMetric(time.Since(started).Seconds())
	if result.Degraded {
		metrics.IncreaseDegradedScoringsMetric()
	}

	tracer.Step("scored").
		WithInt("score_total", result.ScoreTotal).
		WithInt("data_quality_score", result.DataQualityScore).
		WithString("verdict", string(result.Verdict)).
		Log()

	ctx, err = as.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_, _ = store.Rollback(ctx)
	}()

	if err := as.store.AuditReport().SetSourceReports(ctx, id, reports); err != nil {
		return nil, fmt.Errorf("failed to persist source reports: %w", err)
	}
	if err := as.store.AuditReport().SetScoringResult(ctx, id, result); err != nil {
		return nil, fmt.Errorf("failed to persist scoring result: %w", err)
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	tracer.Success().WithString("verdict", string(result.Verdict)).Log()
	return &result, nil
}

// CompleteAudit moves a running audit to completed, optionally attaching
// the final markdown report.
func (as *AuditService) CompleteAudit(ctx context.Context, id uuid.UUID, finalReport *string) (*model.AuditReport, error) {
	audit, err := as.transition(ctx, id, model.AuditStatusCompleted, finalReport)
	if err != nil {
		return nil, err
	}
	metrics.IncreaseAuditsCompletedMetric(model.AuditStatusCompleted, string(verdictOf(audit)))
	if audit.ScoreTotal != nil {
		metrics.ObserveAuditScoreMetric(string(verdictOf(audit)), *audit.ScoreTotal)
	}
	return audit, nil
}

// FailAudit moves a running audit to failed. The reason, when given, is
// stored as the final report so operators can see why the run died.
func (as *AuditService) FailAudit(ctx context.Context, id uuid.UUID, reason *string) (*model.AuditReport, error) {
	audit, err := as.transition(ctx, id, model.AuditStatusFailed, reason)
	if err != nil {
		return nil, err
	}
	metrics.IncreaseAuditsCompletedMetric(model.AuditStatusFailed, string(verdictOf(audit)))
	return audit, nil
}

func (as *AuditService) DeleteAudit(ctx context.Context, id uuid.UUID) error {
	logger := as.logger.WithContext(ctx)
	tracer := logger.Operation("delete_audit").WithUUID("audit_id", id).Build()

	if err := as.store.AuditReport().Delete(ctx, id); err != nil {
		tracer.Error(err).Log()
		return fmt.Errorf("failed to delete audit: %w", err)
	}

	tracer.Success().Log()
	return nil
}

func (as *AuditService) transition(ctx context.Context, id uuid.UUID, status string, finalReport *string) (*model.AuditReport, error) {
	logger := as.logger.WithContext(ctx)
	tracer := logger.Operation("transition_audit").
		WithUUID("audit_id", id).
		WithString("target_status", status).
		Build()

	audit, err := as.store.AuditReport().UpdateStatus(ctx, id, status, finalReport)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrRecordNotFound):
			return nil, NewErrAuditNotFound(id)
		case errors.Is(err, store.ErrInvalidTransition):
			current, getErr := as.store.AuditReport().Get(ctx, id)
			if getErr == nil {
				return nil, NewErrAuditTerminal(id, current.Status)
			}
			return nil, NewErrAuditTerminal(id, "terminal")
		default:
			tracer.Error(err).Log()
			return nil, fmt.Errorf("failed to update audit status: %w", err)
		}
	}

	tracer.Success().WithString("status", status).Log()
	return audit, nil
}

func (as *AuditService) runningAudit(ctx context.Context, id uuid.UUID) (*model.AuditReport, error) {
	audit, err := as.store.AuditReport().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrAuditNotFound(id)
		}
		return nil, fmt.Errorf("failed to get audit: %w", err)
	}
	if audit.Status != model.AuditStatusRunning {
		return nil, NewErrAuditTerminal(id, audit.Status)
	}
	return audit, nil
}

func verdictOf(audit *model.AuditReport) api.Verdict {
	if audit.ScoreTotal == nil {
		return api.VerdictPass
	}
	return scoring.VerdictFor(*audit.ScoreTotal)
}
