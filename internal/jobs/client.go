package jobs

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"

	"github.com/dealradar/audit-engine/internal/service"
)

const (
	DefaultQueue  = "scoring"
	MaxJobRetries = 1
)

type Client struct {
	*river.Client[pgx.Tx]
}

func NewClient(ctx context.Context, pool *pgxpool.Pool, auditService *service.AuditService, maxWorkers int) (*Client, error) {
	if maxWorkers <= 0 {
		maxWorkers = 5
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewScoringWorker(auditService))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			DefaultQueue: {MaxWorkers: maxWorkers},
		},
		Workers: workers,
	})
	if err != nil {
		return nil, err
	}

	return &Client{Client: riverClient}, nil
}

func (c *Client) InsertJob(ctx context.Context, args ScoreAuditArgs) (int64, error) {
	result, err := c.Insert(ctx, args, &river.InsertOpts{
		Queue:       DefaultQueue,
		MaxAttempts: MaxJobRetries,
	})
	if err != nil {
		return 0, err
	}
	return result.Job.ID, nil
}
