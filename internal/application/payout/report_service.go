package payout

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/royaltyops/backend/internal/domain/payout"
	"github.com/royaltyops/backend/internal/domain/royalty"
)

// ReportService exposes quarterly balance reports to the interfaces layer.
// Reports are created by the paid-transition handler, never through here.
type ReportService struct {
	reportRepo payout.QuarterlyReportRepository
	logger     *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(reportRepo payout.QuarterlyReportRepository, logger *zap.Logger) *ReportService {
	return &ReportService{reportRepo: reportRepo, logger: logger}
}

// GetForPeriod loads the payee's report for a quarter label like "Q1 2025"
func (s *ReportService) GetForPeriod(ctx context.Context, tenantID, payeeID uuid.UUID, periodLabel string) (*payout.QuarterlyBalanceReport, error) {
	period, err := royalty.ParseQuarterPeriod(periodLabel)
	if err != nil {
		return nil, err
	}
	return s.reportRepo.FindForPayeePeriod(ctx, tenantID, payeeID, period.Year, period.Quarter)
}

// GetLatest loads the payee's most recent report
func (s *ReportService) GetLatest(ctx context.Context, tenantID, payeeID uuid.UUID) (*payout.QuarterlyBalanceReport, error) {
	return s.reportRepo.FindLatestForPayee(ctx, tenantID, payeeID)
}
