package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	api "github.com/dealradar/audit-engine/api/v1alpha1"
	"github.com/dealradar/audit-engine/internal/catalog"
	"github.com/dealradar/audit-engine/internal/config"
	"github.com/dealradar/audit-engine/internal/consolidation"
	"github.com/dealradar/audit-engine/internal/scoring"
	"github.com/dealradar/audit-engine/internal/service"
	"github.com/dealradar/audit-engine/internal/service/mappers"
	"github.com/dealradar/audit-engine/internal/store"
	"github.com/dealradar/audit-engine/internal/store/model"
)

var _ = Describe("audit service", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		svc    *service.AuditService
	)

	BeforeAll(func() {
		cfg, err := config.New()
		Expect(err).To(BeNil())
		db, err := store.InitDB(cfg)
		Expect(err).To(BeNil())
		gormdb = db

		s = store.NewStore(db)
		Expect(s.Migrate()).To(Succeed())

		signalCatalog, err := catalog.DefaultSignalCatalog()
		Expect(err).To(BeNil())
		keywordCatalog, err := catalog.DefaultKeywordCatalog()
		Expect(err).To(BeNil())
		engine, err := scoring.NewEngine(signalCatalog, nil)
		Expect(err).To(BeNil())

		svc = service.NewAuditService(
			s,
			consolidation.NewRelevanceFilter(keywordCatalog),
			consolidation.NewConsolidator(nil),
			engine,
		)
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM linked_in_posts;")
		gormdb.Exec("DELETE FROM executives;")
		gormdb.Exec("DELETE FROM audit_reports;")
	})

	createAudit := func(dealID, stageID string) *model.AuditReport {
		audit, err := svc.CreateAudit(context.TODO(), mappers.AuditCreateForm{
			DealID:      dealID,
			StageID:     stageID,
			CompanyName: "Acme",
			Domain:      "acme.example",
		})
		Expect(err).To(BeNil())
		return audit
	}

	Context("CreateAudit", func() {
		It("creates a running audit", func() {
			audit := createAudit("deal-1", "stage-1")
			Expect(audit.Status).To(Equal(model.AuditStatusRunning))
		})

		It("rejects a duplicate deal and stage pair", func() {
			createAudit("deal-1", "stage-1")

			_, err := svc.CreateAudit(context.TODO(), mappers.AuditCreateForm{
				DealID:      "deal-1",
				StageID:     "stage-1",
				CompanyName: "Acme",
			})
			var dup *service.ErrAuditAlreadyExists
			Expect(errors.As(err, &dup)).To(BeTrue())
		})

		It("rejects a form without identity", func() {
			_, err := svc.CreateAudit(context.TODO(), mappers.AuditCreateForm{CompanyName: "Acme"})
			var invalid *service.ErrInvalidForm
			Expect(errors.As(err, &invalid)).To(BeTrue())
		})
	})

	Context("ProcessBatches", func() {
		It("consolidates executives and persists the roster", func() {
			audit := createAudit("deal-1", "stage-1")

			result, err := svc.ProcessBatches(context.TODO(), audit.ID, []consolidation.Batch{
				{Number: 1, Executives: []consolidation.ExecutiveRecord{
					{FullName: "Jean Dupont", CurrentJobTitle: "DSI"},
				}},
				{Number: 2, Executives: []consolidation.ExecutiveRecord{
					{FullName: "jean dupont", CurrentJobTitle: "DSI", Employer: "Acme", Headline: "DSI Acme"},
					{FullName: "Marie Curie", CurrentJobTitle: "CEO"},
				}},
			})
			Expect(err).To(BeNil())
			Expect(result.Executives).To(HaveLen(2))

			stored, err := s.Executive().ListByAudit(context.TODO(), audit.ID)
			Expect(err).To(BeNil())
			Expect(stored).To(HaveLen(2))
			Expect(stored[0].EnrichmentStatus).To(Equal(model.EnrichmentPending))
		})

		It("filters post text through the relevance catalog", func() {
			audit := createAudit("deal-1", "stage-1")

			result, err := svc.ProcessBatches(context.TODO(), audit.ID, []consolidation.Batch{
				{Number: 1, Posts: []consolidation.PostRecord{
					{Author: "Jean Dupont", Date: "2026-01-10", Text: "notre transformation digitale avance"},
					{Author: "Marie Curie", Date: "2026-01-11", Text: "joyeux anniversaire à tous"},
				}},
			})
			Expect(err).To(BeNil())
			Expect(result.Posts).To(HaveLen(2))

			posts, err := s.Post().ListByAudit(context.TODO(), audit.ID)
			Expect(err).To(BeNil())
			Expect(posts).To(HaveLen(2))

			texts := map[string]string{}
			for _, p := range posts {
				texts[p.AuthorName] = p.Text
			}
			Expect(texts["Jean Dupont"]).ToNot(BeEmpty())
			Expect(texts["Marie Curie"]).To(BeEmpty())
		})

		It("is idempotent across reprocessing", func() {
			audit := createAudit("deal-1", "stage-1")
			batches := []consolidation.Batch{
				{Number: 1, Executives: []consolidation.ExecutiveRecord{
					{FullName: "Jean Dupont", CurrentJobTitle: "DSI"},
				}},
			}

			_, err := svc.ProcessBatches(context.TODO(), audit.ID, batches)
			Expect(err).To(BeNil())
			_, err = svc.ProcessBatches(context.TODO(), audit.ID, batches)
			Expect(err).To(BeNil())

			stored, err := s.Executive().ListByAudit(context.TODO(), audit.ID)
			Expect(err).To(BeNil())
			Expect(stored).To(HaveLen(1))
		})

		It("refuses terminal audits", func() {
			audit := createAudit("deal-1", "stage-1")
			_, err := svc.CompleteAudit(context.TODO(), audit.ID, nil)
			Expect(err).To(BeNil())

			_, err = svc.ProcessBatches(context.TODO(), audit.ID, nil)
			var terminal *service.ErrAuditTerminal
			Expect(errors.As(err, &terminal)).To(BeTrue())
		})
	})

	Context("RunScoring", func() {
		It("persists the scoring result", func() {
			audit := createAudit("deal-1", "stage-1")

			result, err := svc.RunScoring(context.TODO(), audit.ID, []api.SourceReport{{
				SourceName: "news",
				Signals: []api.Signal{
					{SignalID: "nouveau_dsi_dir_transfo", Status: api.SignalStatusDetected, Confidence: api.ConfidenceHigh},
					{SignalID: "programme_transfo_annonce", Status: api.SignalStatusDetected, Confidence: api.ConfidenceMedium},
				},
			}})
			Expect(err).To(BeNil())
			Expect(result.ScoreTotal).To(BeNumerically(">", 0))

			stored, err := svc.GetAudit(context.TODO(), audit.ID)
			Expect(err).To(BeNil())
			Expect(stored.ScoreTotal).ToNot(BeNil())
			Expect(*stored.ScoreTotal).To(Equal(result.ScoreTotal))
			Expect(stored.SourceReports).ToNot(BeNil())
		})

		It("fails the audit on a duplicate emission", func() {
			audit := createAudit("deal-1", "stage-1")

			_, err := svc.RunScoring(context.TODO(), audit.ID, []api.SourceReport{
				{SourceName: "news", Signals: []api.Signal{
					{SignalID: "nouveau_dsi_dir_transfo", Status: api.SignalStatusDetected, Confidence: api.ConfidenceHigh},
				}},
				{SourceName: "linkedin", Signals: []api.Signal{
					{SignalID: "nouveau_dsi_dir_transfo", Status: api.SignalStatusDetected, Confidence: api.ConfidenceLow},
				}},
			})
			var dup *scoring.ErrDuplicateEmission
			Expect(errors.As(err, &dup)).To(BeTrue())

			stored, err := svc.GetAudit(context.TODO(), audit.ID)
			Expect(err).To(BeNil())
			Expect(stored.Status).To(Equal(model.AuditStatusFailed))
			Expect(stored.FinalReport).ToNot(BeNil())
		})
	})

	Context("lifecycle", func() {
		It("completes a running audit", func() {
			audit := createAudit("deal-1", "stage-1")

			report := "# Audit Acme\nGO"
			completed, err := svc.CompleteAudit(context.TODO(), audit.ID, &report)
			Expect(err).To(BeNil())
			Expect(completed).ToNot(BeNil())

			stored, err := svc.GetAudit(context.TODO(), audit.ID)
			Expect(err).To(BeNil())
			Expect(stored.Status).To(Equal(model.AuditStatusCompleted))
			Expect(stored.CompletedAt).ToNot(BeNil())
			Expect(stored.FinalReport).ToNot(BeNil())
		})

		It("refuses to fail a completed audit", func() {
			audit := createAudit("deal-1", "stage-1")
			_, err := svc.CompleteAudit(context.TODO(), audit.ID, nil)
			Expect(err).To(BeNil())

			_, err = svc.FailAudit(context.TODO(), audit.ID, nil)
			var terminal *service.ErrAuditTerminal
			Expect(errors.As(err, &terminal)).To(BeTrue())
		})

		It("deletes an audit with its children", func() {
			audit := createAudit("deal-1", "stage-1")
			_, err := svc.ProcessBatches(context.TODO(), audit.ID, []consolidation.Batch{
				{Number: 1, Executives: []consolidation.ExecutiveRecord{{FullName: "Jean Dupont"}}},
			})
			Expect(err).To(BeNil())

			Expect(svc.DeleteAudit(context.TODO(), audit.ID)).To(Succeed())

			_, err = svc.GetAudit(context.TODO(), audit.ID)
			var notFound *service.ErrResourceNotFound
			Expect(errors.As(err, &notFound)).To(BeTrue())

			count := -1
			Expect(gormdb.Raw("SELECT COUNT(*) FROM executives;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(0))
		})
	})

	Context("ListAudits", func() {
		It("filters by status and company name", func() {
			a := createAudit("deal-1", "stage-1")
			createAudit("deal-2", "stage-1")
			_, err := svc.CompleteAudit(context.TODO(), a.ID, nil)
			Expect(err).To(BeNil())

			audits, err := svc.ListAudits(context.TODO(), &service.AuditFilter{Status: model.AuditStatusRunning})
			Expect(err).To(BeNil())
			Expect(audits).To(HaveLen(1))
			Expect(audits[0].DealID).To(Equal("deal-2"))

			audits, err = svc.ListAudits(context.TODO(), &service.AuditFilter{CompanyNameLike: "Acm"})
			Expect(err).To(BeNil())
			Expect(audits).To(HaveLen(2))
		})
	})
})
