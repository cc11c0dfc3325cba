package store

import (
	"gorm.io/gorm"
)

type BaseQuerier struct {
	QueryFn []func(tx *gorm.DB) *gorm.DB
}

type AuditReportQueryFilter BaseQuerier

func NewAuditReportQueryFilter() *AuditReportQueryFilter {
	return &AuditReportQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (f *AuditReportQueryFilter) ByDealID(dealID string) *AuditReportQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("deal_id = ?", dealID)
	})
	return f
}

func (f *AuditReportQueryFilter) ByStageID(stageID string) *AuditReportQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("stage_id = ?", stageID)
	})
	return f
}

func (f *AuditReportQueryFilter) ByStatus(status string) *AuditReportQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status = ?", status)
	})
	return f
}

func (f *AuditReportQueryFilter) ByCompanyNameLike(pattern string) *AuditReportQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("company_name LIKE ?", "%"+pattern+"%")
	})
	return f
}

func (f *AuditReportQueryFilter) ByLinkedInAvailable(available bool) *AuditReportQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		if available {
			return tx.Where("linked_in_available IS TRUE")
		}
		return tx.Where("linked_in_available IS NOT TRUE")
	})
	return f
}
