package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/riverqueue/river"

	"github.com/dealradar/audit-engine/internal/scoring"
	"github.com/dealradar/audit-engine/internal/service"
	"github.com/dealradar/audit-engine/pkg/log"
	"github.com/dealradar/audit-engine/pkg/requestid"
)

const (
	JobTimeout = 2 * time.Minute
	JobKind    = "score_audit"
)

type ScoringWorker struct {
	river.WorkerDefaults[ScoreAuditArgs]
	auditService *service.AuditService
}

func NewScoringWorker(auditService *service.AuditService) *ScoringWorker {
	return &ScoringWorker{auditService: auditService}
}

func (w *ScoringWorker) Timeout(job *river.Job[ScoreAuditArgs]) time.Duration {
	return JobTimeout
}

func (w *ScoringWorker) Work(ctx context.Context, job *river.Job[ScoreAuditArgs]) error {
	ctx = requestid.ToContext(ctx, requestid.Generate())
	logger := log.NewDebugLogger("scoring_worker").
		WithContext(ctx).
		Operation("score_audit").
		WithUUID("audit_id", job.Args.AuditID).
		WithInt("report_count", len(job.Args.Reports)).
		Build()

	logger.Step("job_started").Log()

	if err := ctx.Err(); err != nil {
		return err
	}

	result, err := w.auditService.RunScoring(ctx, job.Args.AuditID, job.Args.Reports)
	if err != nil {
		// A duplicate emission already failed the audit; the job must not retry.
		var dup *scoring.ErrDuplicateEmission
		if errors.As(err, &dup) {
			logger.Error(err).WithString("step", "duplicate_emission").Log()
			return river.JobCancel(err)
		}
		logger.Error(err).WithString("step", "run_scoring").Log()
		return err
	}

	logger.Step("scored").
		WithInt("score_total", result.ScoreTotal).
		WithString("verdict", string(result.Verdict)).
		Log()

	if _, err := w.auditService.CompleteAudit(ctx, job.Args.AuditID, nil); err != nil {
		logger.Error(err).WithString("step", "complete_audit").Log()
		return err
	}

	logger.Success().Log()
	return river.RecordOutput(ctx, result)
}
