package royalty

import (
	"github.com/google/uuid"
)

// ProrateFeeRequest asks for a fee to be split across the selected works
type ProrateFeeRequest struct {
	FeeAmount string               `json:"fee_amount" binding:"required"`
	Currency  string               `json:"currency"`
	WorkIDs   []uuid.UUID          `json:"work_ids" binding:"required,min=1"`
	Overrides map[uuid.UUID]string `json:"overrides,omitempty"`
}

// CalculateStatementRequest asks for a payee's gross-to-net breakdown.
// Period is a quarter label like "Q1 2025".
type CalculateStatementRequest struct {
	PayeeID     uuid.UUID  `json:"payee_id" binding:"required"`
	Period      string     `json:"period" binding:"required"`
	AgreementID *uuid.UUID `json:"agreement_id,omitempty"`
}
