package royalty

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/royaltyops/backend/internal/domain/shared"
	"github.com/royaltyops/backend/internal/domain/shared/valueobject"
	"github.com/royaltyops/backend/internal/domain/works"
)

// WriterFeeAllocation is one controlled writer's cut of a work's controlled
// amount, rounded to cash precision.
type WriterFeeAllocation struct {
	WriterID            uuid.UUID         `json:"writer_id"`
	WriterName          string            `json:"writer_name"`
	OwnershipPercentage decimal.Decimal   `json:"ownership_percentage"`
	Amount              valueobject.Money `json:"amount"`
}

// FeeAllocation is one work's slice of a prorated fee
type FeeAllocation struct {
	WorkID            uuid.UUID             `json:"work_id"`
	WorkTitle         string                `json:"work_title"`
	AllocatedAmount   valueobject.Money     `json:"allocated_amount"`
	CustomOverride    bool                  `json:"custom_override"`
	ControlledShare   decimal.Decimal       `json:"controlled_share"` // 0-1
	ControlledAmount  valueobject.Money     `json:"controlled_amount"`
	FullyUncontrolled bool                  `json:"fully_uncontrolled"`
	WriterAllocations []WriterFeeAllocation `json:"writer_allocations"`
}

// FeeProrationResult is the full split of a fee across the selected works.
// UnallocatedRemainder is only non-zero when every work carries a custom
// override and the overrides do not consume the fee exactly; it is reported
// rather than silently dropped so the caller can flag the inconsistency.
type FeeProrationResult struct {
	Fee                  valueobject.Money `json:"fee"`
	Allocations          []FeeAllocation   `json:"allocations"`
	UnallocatedRemainder valueobject.Money `json:"unallocated_remainder"`
}

// FeeProrationService splits a licensing or sync fee across works and their
// controlled writers. It is a pure calculation service; persistence of the
// resulting allocations is the caller's concern.
type FeeProrationService struct{}

// NewFeeProrationService creates a new FeeProrationService
func NewFeeProrationService() *FeeProrationService {
	return &FeeProrationService{}
}

// ProrateFee distributes fee across the selected works. Works present in
// overrides receive the override amount; the remaining works equally divide
// what is left. Within each work the controlled amount is split across
// controlled writers in proportion to their ownership percentage.
//
// All intermediate math runs at full decimal precision; per-writer amounts
// are rounded half-up to cash precision with the last writer absorbing the
// rounding drift, so writer amounts always sum exactly to the rounded
// controlled amount.
func (s *FeeProrationService) ProrateFee(
	fee valueobject.Money,
	selected []works.Work,
	overrides map[uuid.UUID]valueobject.Money,
) (*FeeProrationResult, error) {
	if fee.IsNegative() {
		return nil, shared.NewFieldError(shared.CodeInvalidInput, "fee", "Fee cannot be negative")
	}

	result := &FeeProrationResult{
		Fee:                  fee,
		Allocations:          make([]FeeAllocation, 0, len(selected)),
		UnallocatedRemainder: valueobject.Zero(fee.Currency()),
	}
	if len(selected) == 0 {
		return result, nil
	}

	overrideTotal := valueobject.Zero(fee.Currency())
	overridden := 0
	for i := range selected {
		if amount, ok := overrides[selected[i].ID]; ok {
			if amount.IsNegative() {
				return nil, shared.NewFieldError(shared.CodeInvalidInput, "overrides", "Override amounts cannot be negative")
			}
			var err error
			overrideTotal, err = overrideTotal.Add(amount)
			if err != nil {
				return nil, shared.NewFieldError(shared.CodeInvalidInput, "overrides", err.Error())
			}
			overridden++
		}
	}

	remaining, err := fee.Subtract(overrideTotal)
	if err != nil {
		return nil, shared.NewFieldError(shared.CodeInvalidInput, "overrides", err.Error())
	}

	equalShare := valueobject.Zero(fee.Currency())
	if overridden == len(selected) {
		// Every work is pinned; whatever the overrides do not consume is
		// surfaced for the caller to reconcile.
		result.UnallocatedRemainder = remaining
	} else {
		if remaining.IsNegative() {
			// The equal split would hand negative amounts to the
			// non-overridden works.
			return nil, shared.NewFieldError(shared.CodeInvalidInput, "overrides",
				"Override amounts exceed the fee")
		}
		equalShare, err = remaining.Divide(decimal.NewFromInt(int64(len(selected) - overridden)))
		if err != nil {
			return nil, err
		}
	}

	for i := range selected {
		work := &selected[i]
		allocated := equalShare
		isOverride := false
		if amount, ok := overrides[work.ID]; ok {
			allocated = amount
			isOverride = true
		}
		result.Allocations = append(result.Allocations, s.allocateWork(work, allocated, isOverride))
	}

	return result, nil
}

// allocateWork splits one work's allocated amount across its controlled writers
func (s *FeeProrationService) allocateWork(work *works.Work, allocated valueobject.Money, isOverride bool) FeeAllocation {
	controlledShare := work.ControlledShare()
	controlledAmount := allocated.Multiply(controlledShare)

	alloc := FeeAllocation{
		WorkID:            work.ID,
		WorkTitle:         work.Title,
		AllocatedAmount:   allocated,
		CustomOverride:    isOverride,
		ControlledShare:   controlledShare,
		ControlledAmount:  controlledAmount,
		FullyUncontrolled: work.IsFullyUncontrolled(),
		WriterAllocations: make([]WriterFeeAllocation, 0),
	}

	controlled := work.ControlledWriters()
	controlledTotal := work.ControlledPercentageTotal()
	if len(controlled) == 0 || controlledTotal.IsZero() {
		// Nothing to split; the zero controlled amount plus the
		// FullyUncontrolled flag let the caller warn the user.
		for _, ws := range controlled {
			alloc.WriterAllocations = append(alloc.WriterAllocations, WriterFeeAllocation{
				WriterID:            ws.WriterID,
				WriterName:          ws.WriterName,
				OwnershipPercentage: ws.OwnershipPercentage,
				Amount:              valueobject.Zero(allocated.Currency()),
			})
		}
		return alloc
	}

	roundedControlled := controlledAmount.RoundCash()
	distributed := valueobject.Zero(allocated.Currency())
	for i, ws := range controlled {
		var amount valueobject.Money
		if i == len(controlled)-1 {
			// Last writer absorbs rounding drift so the per-work
			// conservation invariant holds exactly.
			amount = roundedControlled.MustSubtract(distributed)
		} else {
			ratio := ws.OwnershipPercentage.Div(controlledTotal)
			amount = controlledAmount.Multiply(ratio).RoundCash()
			distributed = distributed.MustAdd(amount)
		}
		alloc.WriterAllocations = append(alloc.WriterAllocations, WriterFeeAllocation{
			WriterID:            ws.WriterID,
			WriterName:          ws.WriterName,
			OwnershipPercentage: ws.OwnershipPercentage,
			Amount:              amount,
		})
	}

	return alloc
}
