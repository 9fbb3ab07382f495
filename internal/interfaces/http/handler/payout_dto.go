package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/royaltyops/backend/internal/domain/payout"
)

// PayoutResponse is the wire form of a payout
type PayoutResponse struct {
	ID                  uuid.UUID                   `json:"id"`
	TenantID            uuid.UUID                   `json:"tenant_id"`
	PayeeID             uuid.UUID                   `json:"payee_id"`
	AgreementID         *uuid.UUID                  `json:"agreement_id,omitempty"`
	Period              string                      `json:"period"`
	GrossRoyalties      string                      `json:"gross_royalties"`
	CommissionRate      string                      `json:"commission_rate"`
	CommissionDeduction string                      `json:"commission_deduction"`
	TotalExpenses       string                      `json:"total_expenses"`
	NetRoyalties        string                      `json:"net_royalties"`
	NetPayable          string                      `json:"net_payable"`
	AdvanceRecoupment   string                      `json:"advance_recoupment"`
	AmountDue           string                      `json:"amount_due"`
	Currency            string                      `json:"currency"`
	CalculationMethod   string                      `json:"calculation_method"`
	Stage               payout.WorkflowStage        `json:"stage"`
	Status              payout.Status               `json:"status"`
	PaidAt              *time.Time                  `json:"paid_at,omitempty"`
	AuditTrail          []payout.WorkflowAuditEntry `json:"audit_trail,omitempty"`
	CreatedAt           time.Time                   `json:"created_at"`
	UpdatedAt           time.Time                   `json:"updated_at"`
	Version             int                         `json:"version"`
}

// toPayoutResponse maps a payout aggregate to its wire form. Amounts are
// rendered to two decimal places.
func toPayoutResponse(p *payout.Payout) PayoutResponse {
	return PayoutResponse{
		ID:                  p.ID,
		TenantID:            p.TenantID,
		PayeeID:             p.PayeeID,
		AgreementID:         p.AgreementID,
		Period:              p.Period,
		GrossRoyalties:      p.GrossRoyalties.StringFixed(2),
		CommissionRate:      p.CommissionRate.StringFixed(2),
		CommissionDeduction: p.CommissionDeduction.StringFixed(2),
		TotalExpenses:       p.TotalExpenses.StringFixed(2),
		NetRoyalties:        p.NetRoyalties.StringFixed(2),
		NetPayable:          p.NetPayable.StringFixed(2),
		AdvanceRecoupment:   p.AdvanceRecoupment.StringFixed(2),
		AmountDue:           p.AmountDue.StringFixed(2),
		Currency:            p.Currency,
		CalculationMethod:   p.CalculationMethod,
		Stage:               p.Stage,
		Status:              p.Status,
		PaidAt:              p.PaidAt,
		AuditTrail:          p.AuditTrail,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
		Version:             p.Version,
	}
}

func toPayoutResponses(payouts []payout.Payout) []PayoutResponse {
	out := make([]PayoutResponse, len(payouts))
	for i := range payouts {
		out[i] = toPayoutResponse(&payouts[i])
	}
	return out
}

// BatchOperationResponse is the wire form of a batch transition outcome
type BatchOperationResponse struct {
	ID          uuid.UUID            `json:"id"`
	TargetStage payout.WorkflowStage `json:"target_stage"`
	Reason      string               `json:"reason,omitempty"`
	Status      payout.BatchStatus   `json:"status"`
	Results     []payout.BatchResult `json:"results"`
	Succeeded   int                  `json:"succeeded"`
	Failed      int                  `json:"failed"`
	CreatedAt   time.Time            `json:"created_at"`
}

func toBatchResponse(b *payout.BatchOperation) BatchOperationResponse {
	return BatchOperationResponse{
		ID:          b.ID,
		TargetStage: b.TargetStage,
		Reason:      b.Reason,
		Status:      b.Status,
		Results:     b.Results,
		Succeeded:   b.SucceededCount(),
		Failed:      b.FailedCount(),
		CreatedAt:   b.CreatedAt,
	}
}

// QuarterlyReportResponse is the wire form of a quarterly balance report
type QuarterlyReportResponse struct {
	ID             uuid.UUID `json:"id"`
	PayeeID        uuid.UUID `json:"payee_id"`
	Period         string    `json:"period"`
	Year           int       `json:"year"`
	Quarter        int       `json:"quarter"`
	OpeningBalance string    `json:"opening_balance"`
	Royalties      string    `json:"royalties"`
	Expenses       string    `json:"expenses"`
	Payments       string    `json:"payments"`
	ClosingBalance string    `json:"closing_balance"`
	CreatedAt      time.Time `json:"created_at"`
}

func toReportResponse(r *payout.QuarterlyBalanceReport) QuarterlyReportResponse {
	return QuarterlyReportResponse{
		ID:             r.ID,
		PayeeID:        r.PayeeID,
		Period:         r.PeriodLabel(),
		Year:           r.Year,
		Quarter:        r.Quarter,
		OpeningBalance: r.OpeningBalance.StringFixed(2),
		Royalties:      r.Royalties.StringFixed(2),
		Expenses:       r.Expenses.StringFixed(2),
		Payments:       r.Payments.StringFixed(2),
		ClosingBalance: r.ClosingBalance.StringFixed(2),
		CreatedAt:      r.CreatedAt,
	}
}
