package payout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/royaltyops/backend/internal/domain/payout"
	"github.com/royaltyops/backend/internal/domain/royalty"
	"github.com/royaltyops/backend/internal/domain/shared"
	"github.com/royaltyops/backend/internal/infrastructure/resilience"
)

// PayoutService owns the payout lifecycle: creating drafts from calculated
// statements, moving them through the workflow, and fanning out batch
// transitions. Mutations run through an optimistic working set: the change is
// applied locally, written to the repository, then confirmed, or rolled back
// to the pre-apply state when the write fails. A second mutation arriving
// while one is unconfirmed is rejected with CONFLICTING_OPERATION instead of
// queued, so every audit entry reflects a state the caller saw.
type PayoutService struct {
	payoutRepo payout.PayoutRepository
	auditRepo  payout.WorkflowAuditRepository
	batchRepo  payout.BatchOperationRepository
	ledger     *royalty.OwnershipLedger
	calculator *royalty.StatementCalculator
	publisher  shared.EventPublisher
	logger     *zap.Logger
	working    *resilience.Coordinator[payout.Payout]
}

// NewPayoutService creates a new PayoutService
func NewPayoutService(
	payoutRepo payout.PayoutRepository,
	auditRepo payout.WorkflowAuditRepository,
	batchRepo payout.BatchOperationRepository,
	ledger *royalty.OwnershipLedger,
	calculator *royalty.StatementCalculator,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *PayoutService {
	return &PayoutService{
		payoutRepo: payoutRepo,
		auditRepo:  auditRepo,
		batchRepo:  batchRepo,
		ledger:     ledger,
		calculator: calculator,
		publisher:  publisher,
		logger:     logger,
		working:    resilience.NewCoordinator[payout.Payout](logger),
	}
}

// CreatePayout calculates the payee's statement for the period and stores it
// as a draft payout. One payout per payee and period.
func (s *PayoutService) CreatePayout(ctx context.Context, tenantID uuid.UUID, req CreatePayoutRequest) (*payout.Payout, error) {
	period, err := royalty.ParseQuarterPeriod(req.Period)
	if err != nil {
		return nil, err
	}

	existing, err := s.payoutRepo.FindByPayeeAndPeriod(ctx, tenantID, req.PayeeID, req.Period)
	if err != nil && !shared.IsCode(err, shared.CodeNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists,
			fmt.Sprintf("A payout already exists for payee %s in %s", req.PayeeID, req.Period))
	}

	statement, err := s.calculateStatement(ctx, tenantID, req.PayeeID, period, req.AgreementID)
	if err != nil {
		return nil, err
	}

	p, err := payout.NewPayoutFromStatement(tenantID, req.Period, statement)
	if err != nil {
		return nil, err
	}
	updateID, err := s.working.Apply(ctx, resilience.OpCreate, p.ID, *p)
	if err != nil {
		return nil, err
	}
	saveErr := s.payoutRepo.Save(ctx, p)
	s.settle(updateID, saveErr)
	if saveErr != nil {
		return nil, saveErr
	}
	s.publishEvents(ctx, p)

	s.logger.Info("payout draft created",
		zap.String("payout_id", p.ID.String()),
		zap.String("payee_id", p.PayeeID.String()),
		zap.String("period", p.Period),
		zap.String("amount_due", p.AmountDue.StringFixed(2)),
	)
	return p, nil
}

// Recalculate reruns the statement for a draft payout and replaces its figures
func (s *PayoutService) Recalculate(ctx context.Context, tenantID, payoutID uuid.UUID) (*payout.Payout, error) {
	p, err := s.payoutRepo.FindByIDForTenant(ctx, tenantID, payoutID)
	if err != nil {
		return nil, err
	}
	if err := s.working.Put(p.ID, *p); err != nil {
		return nil, err
	}

	period, err := royalty.ParseQuarterPeriod(p.Period)
	if err != nil {
		return nil, err
	}
	statement, err := s.calculateStatement(ctx, tenantID, p.PayeeID, period, p.AgreementID)
	if err != nil {
		return nil, err
	}
	if err := p.UpdateFromStatement(statement); err != nil {
		return nil, err
	}
	updateID, err := s.working.Apply(ctx, resilience.OpUpdate, p.ID, *p)
	if err != nil {
		return nil, err
	}
	saveErr := s.payoutRepo.Save(ctx, p)
	s.settle(updateID, saveErr)
	if saveErr != nil {
		return nil, saveErr
	}
	s.publishEvents(ctx, p)
	return p, nil
}

// Transition moves one payout to a new workflow stage
func (s *PayoutService) Transition(ctx context.Context, tenantID, payoutID uuid.UUID, req TransitionRequest) (*payout.Payout, error) {
	p, err := s.payoutRepo.FindByIDForTenant(ctx, tenantID, payoutID)
	if err != nil {
		return nil, err
	}
	if err := s.working.Put(p.ID, *p); err != nil {
		return nil, err
	}

	if err := p.Transition(req.Stage, req.Reason, req.Metadata); err != nil {
		return nil, err
	}

	updateID, err := s.working.Apply(ctx, resilience.OpUpdate, p.ID, *p)
	if err != nil {
		return nil, err
	}
	saveErr := s.payoutRepo.Save(ctx, p)
	s.settle(updateID, saveErr)
	if saveErr != nil {
		return nil, saveErr
	}
	if len(p.AuditTrail) > 0 {
		latest := p.AuditTrail[len(p.AuditTrail)-1:]
		if err := s.auditRepo.Append(ctx, latest); err != nil {
			// The transition is committed; a missing audit row is logged
			// loudly but does not roll it back.
			s.logger.Error("failed to append workflow audit entry",
				zap.String("payout_id", p.ID.String()),
				zap.Error(err),
			)
		}
	}
	s.publishEvents(ctx, p)

	s.logger.Info("payout stage changed",
		zap.String("payout_id", p.ID.String()),
		zap.String("stage", string(p.Stage)),
	)
	return p, nil
}

// BatchTransition applies the same stage transition to several payouts,
// recording a per-payout outcome. The batch itself always succeeds; callers
// inspect the results for partial failures.
func (s *PayoutService) BatchTransition(ctx context.Context, tenantID uuid.UUID, req BatchTransitionRequest) (*payout.BatchOperation, error) {
	batch, err := payout.NewBatchOperation(tenantID, req.Stage, req.Reason)
	if err != nil {
		return nil, err
	}

	for _, payoutID := range req.PayoutIDs {
		_, err := s.Transition(ctx, tenantID, payoutID, TransitionRequest{
			Stage:  req.Stage,
			Reason: req.Reason,
		})
		if err != nil {
			batch.RecordFailure(payoutID, err)
			continue
		}
		batch.RecordSuccess(payoutID)
	}
	batch.Finalize()

	if err := s.batchRepo.Save(ctx, batch); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, batch)
	return batch, nil
}

// GetPayout loads a payout with its audit trail
func (s *PayoutService) GetPayout(ctx context.Context, tenantID, payoutID uuid.UUID) (*payout.Payout, error) {
	p, err := s.payoutRepo.FindByIDForTenant(ctx, tenantID, payoutID)
	if err != nil {
		return nil, err
	}
	trail, err := s.auditRepo.ListForPayout(ctx, tenantID, payoutID)
	if err != nil {
		return nil, err
	}
	p.AuditTrail = trail
	return p, nil
}

// ListPayouts lists payouts for a tenant
func (s *PayoutService) ListPayouts(ctx context.Context, tenantID uuid.UUID, filter payout.PayoutFilter) ([]payout.Payout, error) {
	return s.payoutRepo.FindAllForTenant(ctx, tenantID, filter)
}

// CountPayouts counts payouts matching the filter
func (s *PayoutService) CountPayouts(ctx context.Context, tenantID uuid.UUID, filter payout.PayoutFilter) (int64, error) {
	return s.payoutRepo.CountForTenant(ctx, tenantID, filter)
}

func (s *PayoutService) calculateStatement(
	ctx context.Context,
	tenantID, payeeID uuid.UUID,
	period royalty.QuarterPeriod,
	agreementID *uuid.UUID,
) (*royalty.RoyaltyStatement, error) {
	start, end := period.Range()
	window, err := royalty.NewDateRange(start, end)
	if err != nil {
		return nil, err
	}
	payee, err := s.ledger.ResolvePayee(ctx, tenantID, payeeID)
	if err != nil {
		return nil, err
	}
	return s.calculator.Calculate(ctx, payee, window, agreementID)
}

// settle confirms the working-set entry after a successful write, or rolls it
// back to the pre-apply state after a failed one
func (s *PayoutService) settle(updateID uint64, writeErr error) {
	if writeErr == nil {
		if err := s.working.Confirm(updateID); err != nil {
			s.logger.Warn("failed to confirm optimistic update", zap.Error(err))
		}
		return
	}
	if _, err := s.working.Revert(updateID); err != nil {
		s.logger.Warn("failed to revert optimistic update", zap.Error(err))
	}
}

// publishEvents drains and publishes an aggregate's pending events
func (s *PayoutService) publishEvents(ctx context.Context, agg shared.AggregateRoot) {
	events := agg.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish domain events", zap.Error(err))
	}
	agg.ClearDomainEvents()
}
