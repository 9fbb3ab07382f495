package payout

import (
	"github.com/google/uuid"

	"github.com/royaltyops/backend/internal/domain/payout"
)

// CreatePayoutRequest asks for a payout draft to be calculated and stored
type CreatePayoutRequest struct {
	PayeeID     uuid.UUID  `json:"payee_id" binding:"required"`
	Period      string     `json:"period" binding:"required"`
	AgreementID *uuid.UUID `json:"agreement_id,omitempty"`
}

// TransitionRequest moves a payout to a new workflow stage
type TransitionRequest struct {
	Stage    payout.WorkflowStage `json:"stage" binding:"required"`
	Reason   string               `json:"reason,omitempty"`
	Metadata map[string]string    `json:"metadata,omitempty"`
}

// BatchTransitionRequest moves several payouts to the same stage. Failures
// are per-payout; one illegal transition never blocks the rest.
type BatchTransitionRequest struct {
	PayoutIDs []uuid.UUID          `json:"payout_ids" binding:"required,min=1"`
	Stage     payout.WorkflowStage `json:"stage" binding:"required"`
	Reason    string               `json:"reason,omitempty"`
}
