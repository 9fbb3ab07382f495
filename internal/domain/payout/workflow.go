package payout

// WorkflowStage is the lifecycle stage of a payout
type WorkflowStage string

const (
	StageDraft         WorkflowStage = "draft"
	StagePendingReview WorkflowStage = "pending_review"
	StageApproved      WorkflowStage = "approved"
	StagePaid          WorkflowStage = "paid"
	StagePaymentFailed WorkflowStage = "payment_failed"
	StageCancelled     WorkflowStage = "cancelled"
)

// IsValid returns true for known workflow stages
func (s WorkflowStage) IsValid() bool {
	switch s {
	case StageDraft, StagePendingReview, StageApproved, StagePaid, StagePaymentFailed, StageCancelled:
		return true
	}
	return false
}

// IsTerminal returns true for stages with no outgoing edges
func (s WorkflowStage) IsTerminal() bool {
	return s == StagePaid || s == StageCancelled
}

// legalEdges is the workflow graph. Paid is only reachable from approved or a
// recovered payment failure; skipping review is not possible.
var legalEdges = map[WorkflowStage][]WorkflowStage{
	StageDraft:         {StagePendingReview, StageCancelled},
	StagePendingReview: {StageApproved, StageDraft, StageCancelled},
	StageApproved:      {StagePaid, StagePaymentFailed, StageCancelled},
	StagePaymentFailed: {StageApproved, StagePaid, StageCancelled},
	StagePaid:          {},
	StageCancelled:     {},
}

// CanTransitionTo reports whether the edge from s to next is legal
func (s WorkflowStage) CanTransitionTo(next WorkflowStage) bool {
	for _, allowed := range legalEdges[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Status is the simplified external payout state the host application
// displays: paid iff the stage is paid, pending otherwise.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// StatusForStage derives the simplified status from a workflow stage
func StatusForStage(stage WorkflowStage) Status {
	if stage == StagePaid {
		return StatusPaid
	}
	return StatusPending
}
