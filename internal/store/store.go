package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/dealradar/audit-engine/internal/store/model"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	AuditReport() AuditReport
	Executive() Executive
	Post() Post
	Migrate() error
	Close() error
}

type DataStore struct {
	db          *gorm.DB
	auditReport AuditReport
	executive   Executive
	post        Post
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:          db,
		auditReport: NewAuditReportStore(db),
		executive:   NewExecutiveStore(db),
		post:        NewPostStore(db),
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db)
}

func (s *DataStore) AuditReport() AuditReport {
	return s.auditReport
}

func (s *DataStore) Executive() Executive {
	return s.executive
}

func (s *DataStore) Post() Post {
	return s.post
}

// Migrate creates the schema in-process. Deployments run goose
// migrations instead; this path serves sqlite and tests.
func (s *DataStore) Migrate() error {
	return s.db.AutoMigrate(
		&model.AuditReport{},
		&model.Executive{},
		&model.LinkedInPost{},
	)
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
