package payout

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/royaltyops/backend/internal/domain/payout"
	"github.com/royaltyops/backend/internal/domain/royalty"
	"github.com/royaltyops/backend/internal/domain/shared"
)

// DefaultIdempotencyTTL is how long processed paid events are remembered
const DefaultIdempotencyTTL = 24 * time.Hour

// PayoutPaidHandler reacts to a payout reaching the paid stage by generating
// the payee's quarterly balance report. The transition itself never waits on
// this work and never rolls back if it fails; delivery is at-least-once, so
// the handler dedupes through the idempotency store and the unique
// payee/year/quarter constraint on reports.
type PayoutPaidHandler struct {
	payoutRepo  payout.PayoutRepository
	reportRepo  payout.QuarterlyReportRepository
	idempotency shared.IdempotencyStore
	publisher   shared.EventPublisher
	logger      *zap.Logger
	ttl         time.Duration
}

// PaidHandlerOption customizes a PayoutPaidHandler
type PaidHandlerOption func(*PayoutPaidHandler)

// WithIdempotencyTTL overrides how long processed events are remembered
func WithIdempotencyTTL(ttl time.Duration) PaidHandlerOption {
	return func(h *PayoutPaidHandler) {
		if ttl > 0 {
			h.ttl = ttl
		}
	}
}

// NewPayoutPaidHandler creates a new PayoutPaidHandler
func NewPayoutPaidHandler(
	payoutRepo payout.PayoutRepository,
	reportRepo payout.QuarterlyReportRepository,
	idempotency shared.IdempotencyStore,
	publisher shared.EventPublisher,
	logger *zap.Logger,
	opts ...PaidHandlerOption,
) *PayoutPaidHandler {
	h := &PayoutPaidHandler{
		payoutRepo:  payoutRepo,
		reportRepo:  reportRepo,
		idempotency: idempotency,
		publisher:   publisher,
		logger:      logger,
		ttl:         DefaultIdempotencyTTL,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *PayoutPaidHandler) EventTypes() []string {
	return []string{payout.EventTypePayoutStatusChanged}
}

// Handle processes a PayoutStatusChangedEvent
func (h *PayoutPaidHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	changed, ok := event.(*payout.PayoutStatusChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			payout.EventTypePayoutStatusChanged, event.EventType())
	}
	if changed.NewStage != payout.StagePaid {
		return nil
	}

	// Marked only after the work completes, so a failed delivery stays
	// retryable. Concurrent duplicates are caught by the unique index below.
	processed, err := h.idempotency.IsProcessed(ctx, event.EventID().String())
	if err != nil {
		// Store trouble degrades to the database uniqueness check below
		h.logger.Warn("idempotency store unavailable", zap.Error(err))
	} else if processed {
		h.logger.Debug("paid event already processed",
			zap.String("event_id", event.EventID().String()),
		)
		return nil
	}

	period, err := royalty.ParseQuarterPeriod(changed.Period)
	if err != nil {
		h.logger.Error("paid payout carries an unparseable period",
			zap.String("payout_id", event.AggregateID().String()),
			zap.String("period", changed.Period),
			zap.Error(err),
		)
		return err
	}

	exists, err := h.reportRepo.ExistsForPayeePeriod(ctx, event.TenantID(), changed.PayeeID, period.Year, period.Quarter)
	if err != nil {
		return err
	}
	if exists {
		h.logger.Debug("quarterly report already exists",
			zap.String("payee_id", changed.PayeeID.String()),
			zap.String("period", changed.Period),
		)
		h.markProcessed(ctx, event)
		return nil
	}

	p, err := h.payoutRepo.FindByIDForTenant(ctx, event.TenantID(), event.AggregateID())
	if err != nil {
		return err
	}

	opening := decimal.Zero
	latest, err := h.reportRepo.FindLatestForPayee(ctx, event.TenantID(), changed.PayeeID)
	if err != nil && !shared.IsCode(err, shared.CodeNotFound) {
		return err
	}
	if latest != nil {
		opening = latest.ClosingBalance
	}

	report, err := payout.NewQuarterlyBalanceReport(
		event.TenantID(), changed.PayeeID, period,
		opening, p.NetRoyalties, p.TotalExpenses, p.AmountDue,
	)
	if err != nil {
		return err
	}
	if err := h.reportRepo.Save(ctx, report); err != nil {
		if shared.IsCode(err, shared.CodeAlreadyExists) {
			// A concurrent delivery won the race; the invariant held
			h.markProcessed(ctx, event)
			return nil
		}
		return err
	}

	events := report.GetDomainEvents()
	if len(events) > 0 {
		if err := h.publisher.Publish(ctx, events...); err != nil {
			h.logger.Error("failed to publish report created event", zap.Error(err))
		}
		report.ClearDomainEvents()
	}

	h.markProcessed(ctx, event)
	h.logger.Info("quarterly balance report created",
		zap.String("payee_id", changed.PayeeID.String()),
		zap.String("period", changed.Period),
		zap.String("closing_balance", report.ClosingBalance.StringFixed(2)),
	)
	return nil
}

func (h *PayoutPaidHandler) markProcessed(ctx context.Context, event shared.DomainEvent) {
	if _, err := h.idempotency.MarkProcessed(ctx, event.EventID().String(), h.ttl); err != nil {
		h.logger.Warn("failed to mark event processed", zap.Error(err))
	}
}

var _ shared.EventHandler = (*PayoutPaidHandler)(nil)
