package jobs

import (
	"github.com/google/uuid"
	"github.com/riverqueue/river"

	api "github.com/dealradar/audit-engine/api/v1alpha1"
)

// ScoreAuditArgs contains the arguments for a scoring job. The source
// reports travel in river_job.args as JSON.
type ScoreAuditArgs struct {
	AuditID uuid.UUID          `json:"audit_id"`
	Reports []api.SourceReport `json:"reports"`
}

// Kind returns the job kind for River registration.
func (ScoreAuditArgs) Kind() string {
	return JobKind
}

// InsertOpts returns the default insert options for this job type.
func (ScoreAuditArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		Queue:       DefaultQueue,
		MaxAttempts: MaxJobRetries,
	}
}
