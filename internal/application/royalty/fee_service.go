package royalty

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/royaltyops/backend/internal/domain/royalty"
	"github.com/royaltyops/backend/internal/domain/shared"
	"github.com/royaltyops/backend/internal/domain/shared/valueobject"
	"github.com/royaltyops/backend/internal/domain/works"
)

// FeeService coordinates fee proration: it loads the selected works, runs the
// domain split, and publishes the result.
type FeeService struct {
	workRepo  works.WorkRepository
	prorator  *royalty.FeeProrationService
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewFeeService creates a new FeeService
func NewFeeService(
	workRepo works.WorkRepository,
	prorator *royalty.FeeProrationService,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *FeeService {
	return &FeeService{
		workRepo:  workRepo,
		prorator:  prorator,
		publisher: publisher,
		logger:    logger,
	}
}

// ProrateFee splits the requested fee across the selected works. Every
// requested work must exist for the tenant; a missing work fails the whole
// request rather than silently shrinking the denominator of the equal split.
func (s *FeeService) ProrateFee(ctx context.Context, tenantID uuid.UUID, req ProrateFeeRequest) (*royalty.FeeProrationResult, error) {
	currency := valueobject.Currency(req.Currency)
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	fee, err := valueobject.NewMoneyFromString(req.FeeAmount, currency)
	if err != nil {
		return nil, shared.NewFieldError(shared.CodeInvalidInput, "fee_amount", err.Error())
	}

	selected, err := s.workRepo.FindByIDs(ctx, tenantID, req.WorkIDs)
	if err != nil {
		return nil, err
	}
	if len(selected) != len(req.WorkIDs) {
		found := make(map[uuid.UUID]bool, len(selected))
		for i := range selected {
			found[selected[i].ID] = true
		}
		for _, id := range req.WorkIDs {
			if !found[id] {
				return nil, shared.NewFieldError(shared.CodeNotFound, "work_ids",
					fmt.Sprintf("Work %s not found", id))
			}
		}
	}

	overrides := make(map[uuid.UUID]valueobject.Money, len(req.Overrides))
	for workID, amount := range req.Overrides {
		money, err := valueobject.NewMoneyFromString(amount, currency)
		if err != nil {
			return nil, shared.NewFieldError(shared.CodeInvalidInput, "overrides", err.Error())
		}
		overrides[workID] = money
	}

	result, err := s.prorator.ProrateFee(fee, selected, overrides)
	if err != nil {
		return nil, err
	}

	if !result.UnallocatedRemainder.IsZero() {
		s.logger.Warn("fee overrides leave an unallocated remainder",
			zap.String("tenant_id", tenantID.String()),
			zap.String("remainder", result.UnallocatedRemainder.String()),
		)
	}

	if err := s.publisher.Publish(ctx, royalty.NewFeeProratedEvent(tenantID, result)); err != nil {
		s.logger.Error("failed to publish fee prorated event", zap.Error(err))
	}
	return result, nil
}
