package royalty

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/royaltyops/backend/internal/domain/royalty"
	"github.com/royaltyops/backend/internal/domain/shared"
)

// StatementService exposes statement calculation to the interfaces layer
type StatementService struct {
	calculator *royalty.StatementCalculator
	ledger     *royalty.OwnershipLedger
	publisher  shared.EventPublisher
	logger     *zap.Logger
}

// NewStatementService creates a new StatementService
func NewStatementService(
	calculator *royalty.StatementCalculator,
	ledger *royalty.OwnershipLedger,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *StatementService {
	return &StatementService{
		calculator: calculator,
		ledger:     ledger,
		publisher:  publisher,
		logger:     logger,
	}
}

// Calculate resolves the payee, derives the quarter window from the period
// label, and runs the statement calculation.
func (s *StatementService) Calculate(ctx context.Context, tenantID uuid.UUID, req CalculateStatementRequest) (*royalty.RoyaltyStatement, error) {
	period, err := royalty.ParseQuarterPeriod(req.Period)
	if err != nil {
		return nil, err
	}
	start, end := period.Range()
	window, err := royalty.NewDateRange(start, end)
	if err != nil {
		return nil, err
	}

	payee, err := s.ledger.ResolvePayee(ctx, tenantID, req.PayeeID)
	if err != nil {
		return nil, err
	}

	statement, err := s.calculator.Calculate(ctx, payee, window, req.AgreementID)
	if err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, royalty.NewStatementCalculatedEvent(tenantID, statement)); err != nil {
		s.logger.Error("failed to publish statement calculated event", zap.Error(err))
	}
	return statement, nil
}
