package store_test

import (
	"context"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	api "github.com/dealradar/audit-engine/api/v1alpha1"
	"github.com/dealradar/audit-engine/internal/config"
	st "github.com/dealradar/audit-engine/internal/store"
	"github.com/dealradar/audit-engine/internal/store/model"
)

func newAudit(dealID, stageID string) model.AuditReport {
	return model.AuditReport{
		ID:          uuid.New(),
		DealID:      dealID,
		StageID:     stageID,
		CompanyName: "Acme",
		Domain:      "acme.example",
	}
}

var _ = Describe("audit report store", Ordered, func() {
	var (
		s      st.Store
		gormdb *gorm.DB
	)

	BeforeAll(func() {
		cfg, err := config.New()
		Expect(err).To(BeNil())
		db, err := st.InitDB(cfg)
		Expect(err).To(BeNil())
		gormdb = db

		s = st.NewStore(db)
		Expect(s).ToNot(BeNil())
		Expect(s.Migrate()).To(Succeed())
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM linked_in_posts;")
		gormdb.Exec("DELETE FROM executives;")
		gormdb.Exec("DELETE FROM audit_reports;")
	})

	Context("create", func() {
		It("creates an audit in the running state", func() {
			audit, err := s.AuditReport().Create(context.TODO(), newAudit("deal-1", "stage-1"))
			Expect(err).To(BeNil())
			Expect(audit.Status).To(Equal(model.AuditStatusRunning))
			Expect(audit.CompletedAt).To(BeNil())
		})

		It("rejects a second audit for the same deal and stage", func() {
			_, err := s.AuditReport().Create(context.TODO(), newAudit("deal-1", "stage-1"))
			Expect(err).To(BeNil())

			_, err = s.AuditReport().Create(context.TODO(), newAudit("deal-1", "stage-1"))
			Expect(err).To(MatchError(st.ErrDuplicateKey))
		})

		It("allows the same deal with another stage", func() {
			_, err := s.AuditReport().Create(context.TODO(), newAudit("deal-1", "stage-1"))
			Expect(err).To(BeNil())

			_, err = s.AuditReport().Create(context.TODO(), newAudit("deal-1", "stage-2"))
			Expect(err).To(BeNil())
		})
	})

	Context("get", func() {
		It("returns ErrRecordNotFound for an unknown id", func() {
			_, err := s.AuditReport().Get(context.TODO(), uuid.New())
			Expect(err).To(MatchError(st.ErrRecordNotFound))
		})

		It("finds an audit by deal and stage", func() {
			created, err := s.AuditReport().Create(context.TODO(), newAudit("deal-7", "stage-1"))
			Expect(err).To(BeNil())

			audit, err := s.AuditReport().GetByDealStage(context.TODO(), "deal-7", "stage-1")
			Expect(err).To(BeNil())
			Expect(audit.ID).To(Equal(created.ID))
		})
	})

	Context("list", func() {
		It("filters by status", func() {
			a, err := s.AuditReport().Create(context.TODO(), newAudit("deal-1", "stage-1"))
			Expect(err).To(BeNil())
			_, err = s.AuditReport().Create(context.TODO(), newAudit("deal-2", "stage-1"))
			Expect(err).To(BeNil())
			_, err = s.AuditReport().UpdateStatus(context.TODO(), a.ID, model.AuditStatusCompleted, nil)
			Expect(err).To(BeNil())

			audits, err := s.AuditReport().List(context.TODO(), st.NewAuditReportQueryFilter().ByStatus(model.AuditStatusRunning))
			Expect(err).To(BeNil())
			Expect(audits).To(HaveLen(1))
			Expect(audits[0].DealID).To(Equal("deal-2"))
		})

		It("filters by deal id", func() {
			_, err := s.AuditReport().Create(context.TODO(), newAudit("deal-1", "stage-1"))
			Expect(err).To(BeNil())
			_, err = s.AuditReport().Create(context.TODO(), newAudit("deal-1", "stage-2"))
			Expect(err).To(BeNil())
			_, err = s.AuditReport().Create(context.TODO(), newAudit("deal-2", "stage-1"))
			Expect(err).To(BeNil())

			audits, err := s.AuditReport().List(context.TODO(), st.NewAuditReportQueryFilter().ByDealID("deal-1"))
			Expect(err).To(BeNil())
			Expect(audits).To(HaveLen(2))
		})
	})

	Context("lifecycle", func() {
		It("stamps completed_at on the terminal transition", func() {
			audit, err := s.AuditReport().Create(context.TODO(), newAudit("deal-1", "stage-1"))
			Expect(err).To(BeNil())

			updated, err := s.AuditReport().UpdateStatus(context.TODO(), audit.ID, model.AuditStatusCompleted, nil)
			Expect(err).To(BeNil())

			stored, err := s.AuditReport().Get(context.TODO(), updated.ID)
			Expect(err).To(BeNil())
			Expect(stored.Status).To(Equal(model.AuditStatusCompleted))
			Expect(stored.CompletedAt).ToNot(BeNil())
		})

		It("rejects leaving a terminal state", func() {
			audit, err := s.AuditReport().Create(context.TODO(), newAudit("deal-1", "stage-1"))
			Expect(err).To(BeNil())

			_, err = s.AuditReport().UpdateStatus(context.TODO(), audit.ID, model.AuditStatusCompleted, nil)
			Expect(err).To(BeNil())

			_, err = s.AuditReport().UpdateStatus(context.TODO(), audit.ID, model.AuditStatusFailed, nil)
			Expect(err).To(MatchError(st.ErrInvalidTransition))
		})

		It("rejects running as a transition target", func() {
			audit, err := s.AuditReport().Create(context.TODO(), newAudit("deal-1", "stage-1"))
			Expect(err).To(BeNil())

			_, err = s.AuditReport().UpdateStatus(context.TODO(), audit.ID, model.AuditStatusRunning, nil)
			Expect(err).To(MatchError(st.ErrInvalidTransition))
		})

		It("stores the final report on failure", func() {
			audit, err := s.AuditReport().Create(context.TODO(), newAudit("deal-1", "stage-1"))
			Expect(err).To(BeNil())

			reason := "duplicate emission for signal budget_it_database"
			_, err = s.AuditReport().UpdateStatus(context.TODO(), audit.ID, model.AuditStatusFailed, &reason)
			Expect(err).To(BeNil())

			stored, err := s.AuditReport().Get(context.TODO(), audit.ID)
			Expect(err).To(BeNil())
			Expect(stored.FinalReport).ToNot(BeNil())
			Expect(*stored.FinalReport).To(Equal(reason))
		})
	})

	Context("scoring persistence", func() {
		It("stores source reports and the scoring result", func() {
			audit, err := s.AuditReport().Create(context.TODO(), newAudit("deal-1", "stage-1"))
			Expect(err).To(BeNil())

			reports := []api.SourceReport{{
				SourceName: "news",
				Signals: []api.Signal{{
					SignalID:   "nouveau_dsi_dir_transfo",
					Status:     api.SignalStatusDetected,
					Confidence: api.ConfidenceHigh,
				}},
			}}
			Expect(s.AuditReport().SetSourceReports(context.TODO(), audit.ID, reports)).To(Succeed())

			result := api.ScoringResult{
				ScoringSignals: []api.ScoringSignal{{
					SignalID:       "nouveau_dsi_dir_transfo",
					Status:         api.SignalStatusDetected,
					Confidence:     api.ConfidenceHigh,
					BasePoints:     30,
					WeightedPoints: 30,
				}},
				ScoreTotal:       30,
				DataQualityScore: 100,
				Verdict:          api.VerdictPass,
			}
			Expect(s.AuditReport().SetScoringResult(context.TODO(), audit.ID, result)).To(Succeed())

			stored, err := s.AuditReport().Get(context.TODO(), audit.ID)
			Expect(err).To(BeNil())
			Expect(stored.ScoreTotal).ToNot(BeNil())
			Expect(*stored.ScoreTotal).To(Equal(30))
			Expect(stored.DataQualityScore).ToNot(BeNil())
			Expect(*stored.DataQualityScore).To(Equal(100))
			Expect(stored.SourceReports).ToNot(BeNil())
			Expect(stored.SourceReports.Data).To(HaveLen(1))
			Expect(stored.ScoringSignals).ToNot(BeNil())
			Expect(stored.ScoringSignals.Data[0].WeightedPoints).To(Equal(30))
		})
	})

	Context("children", func() {
		It("replaces the roster idempotently", func() {
			audit, err := s.AuditReport().Create(context.TODO(), newAudit("deal-1", "stage-1"))
			Expect(err).To(BeNil())

			roster := []model.Executive{
				{FullName: "Jean Dupont", CurrentJobTitle: "DSI", EnrichmentStatus: model.EnrichmentPending},
				{FullName: "Marie Curie", CurrentJobTitle: "CEO", EnrichmentStatus: model.EnrichmentPending},
			}
			Expect(s.Executive().ReplaceForAudit(context.TODO(), audit.ID, roster)).To(Succeed())
			Expect(s.Executive().ReplaceForAudit(context.TODO(), audit.ID, roster)).To(Succeed())

			executives, err := s.Executive().ListByAudit(context.TODO(), audit.ID)
			Expect(err).To(BeNil())
			Expect(executives).To(HaveLen(2))
		})

		It("deletes children with the audit", func() {
			audit, err := s.AuditReport().Create(context.TODO(), newAudit("deal-1", "stage-1"))
			Expect(err).To(BeNil())

			Expect(s.Executive().ReplaceForAudit(context.TODO(), audit.ID, []model.Executive{
				{FullName: "Jean Dupont", EnrichmentStatus: model.EnrichmentPending},
			})).To(Succeed())
			Expect(s.Post().ReplaceForAudit(context.TODO(), audit.ID, []model.LinkedInPost{
				{AuthorName: "Jean Dupont", Text: "cap sur le cloud"},
			})).To(Succeed())

			Expect(s.AuditReport().Delete(context.TODO(), audit.ID)).To(Succeed())

			count := -1
			Expect(gormdb.Raw("SELECT COUNT(*) FROM executives;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(0))
			Expect(gormdb.Raw("SELECT COUNT(*) FROM linked_in_posts;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(0))
		})

		It("updates an executive's enrichment status", func() {
			audit, err := s.AuditReport().Create(context.TODO(), newAudit("deal-1", "stage-1"))
			Expect(err).To(BeNil())

			Expect(s.Executive().ReplaceForAudit(context.TODO(), audit.ID, []model.Executive{
				{FullName: "Jean Dupont", EnrichmentStatus: model.EnrichmentPending},
			})).To(Succeed())

			executives, err := s.Executive().ListByAudit(context.TODO(), audit.ID)
			Expect(err).To(BeNil())
			Expect(executives).To(HaveLen(1))

			Expect(s.Executive().UpdateEnrichmentStatus(context.TODO(), executives[0].ID, model.EnrichmentEnriched)).To(Succeed())

			executives, err = s.Executive().ListByAudit(context.TODO(), audit.ID)
			Expect(err).To(BeNil())
			Expect(executives[0].EnrichmentStatus).To(Equal(model.EnrichmentEnriched))
		})
	})

	Context("transaction", func() {
		It("rolls back an uncommitted create", func() {
			ctx, err := s.NewTransactionContext(context.TODO())
			Expect(err).To(BeNil())

			_, err = s.AuditReport().Create(ctx, newAudit("deal-tx", "stage-1"))
			Expect(err).To(BeNil())

			_, err = st.Rollback(ctx)
			Expect(err).To(BeNil())

			count := -1
			Expect(gormdb.Raw("SELECT COUNT(*) FROM audit_reports;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(0))
		})

		It("commits a create", func() {
			ctx, err := s.NewTransactionContext(context.TODO())
			Expect(err).To(BeNil())

			_, err = s.AuditReport().Create(ctx, newAudit("deal-tx", "stage-2"))
			Expect(err).To(BeNil())

			_, err = st.Commit(ctx)
			Expect(err).To(BeNil())

			count := 0
			Expect(gormdb.Raw("SELECT COUNT(*) FROM audit_reports;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(1))
		})
	})
})
