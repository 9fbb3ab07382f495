package payout

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/royaltyops/backend/internal/domain/payout"
	"github.com/royaltyops/backend/internal/domain/royalty"
	"github.com/royaltyops/backend/internal/domain/shared"
)

type fakePayoutRepo struct {
	mu      sync.Mutex
	payouts map[uuid.UUID]*payout.Payout
	saveErr error // consumed by the next Save
}

func newFakePayoutRepo() *fakePayoutRepo {
	return &fakePayoutRepo{payouts: make(map[uuid.UUID]*payout.Payout)}
}

func (f *fakePayoutRepo) FindByID(_ context.Context, id uuid.UUID) (*payout.Payout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.payouts[id]; ok {
		// Hand out a copy so callers cannot mutate the stored row, the way a
		// real repository scans a fresh struct per query
		cp := *p
		return &cp, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakePayoutRepo) FindByIDForTenant(ctx context.Context, _ uuid.UUID, id uuid.UUID) (*payout.Payout, error) {
	return f.FindByID(ctx, id)
}

func (f *fakePayoutRepo) FindByPayeeAndPeriod(_ context.Context, _ uuid.UUID, payeeID uuid.UUID, period string) (*payout.Payout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payouts {
		if p.PayeeID == payeeID && p.Period == period {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakePayoutRepo) FindAllForTenant(_ context.Context, _ uuid.UUID, _ payout.PayoutFilter) ([]payout.Payout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]payout.Payout, 0, len(f.payouts))
	for _, p := range f.payouts {
		result = append(result, *p)
	}
	return result, nil
}

func (f *fakePayoutRepo) Save(_ context.Context, p *payout.Payout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		err := f.saveErr
		f.saveErr = nil
		return err
	}
	cp := *p
	f.payouts[p.ID] = &cp
	return nil
}

func (f *fakePayoutRepo) CountForTenant(_ context.Context, _ uuid.UUID, _ payout.PayoutFilter) (int64, error) {
	return int64(len(f.payouts)), nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []payout.WorkflowAuditEntry
}

func (f *fakeAuditRepo) Append(_ context.Context, entries []payout.WorkflowAuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeAuditRepo) ListForPayout(_ context.Context, _ uuid.UUID, payoutID uuid.UUID) ([]payout.WorkflowAuditEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := make([]payout.WorkflowAuditEntry, 0)
	for _, e := range f.entries {
		if e.PayoutID == payoutID {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

type fakeBatchRepo struct {
	saved []*payout.BatchOperation
}

func (f *fakeBatchRepo) FindByID(_ context.Context, _ uuid.UUID) (*payout.BatchOperation, error) {
	return nil, shared.ErrNotFound
}

func (f *fakeBatchRepo) Save(_ context.Context, b *payout.BatchOperation) error {
	f.saved = append(f.saved, b)
	return nil
}

type fakeAllocRepo struct {
	gross decimal.Decimal
}

func (f *fakeAllocRepo) FindByID(context.Context, uuid.UUID) (*royalty.RoyaltyAllocation, error) {
	return nil, shared.ErrNotFound
}

func (f *fakeAllocRepo) FindAllForTenant(context.Context, uuid.UUID, royalty.AllocationFilter) ([]royalty.RoyaltyAllocation, error) {
	return nil, nil
}

func (f *fakeAllocRepo) SumGrossForPayees(context.Context, uuid.UUID, []uuid.UUID, royalty.DateRange) (decimal.Decimal, error) {
	return f.gross, nil
}

func (f *fakeAllocRepo) Save(context.Context, *royalty.RoyaltyAllocation) error { return nil }

func (f *fakeAllocRepo) SaveBatch(context.Context, []royalty.RoyaltyAllocation) error { return nil }

func (f *fakeAllocRepo) CountForTenant(context.Context, uuid.UUID, royalty.AllocationFilter) (int64, error) {
	return 0, nil
}

type fakeExpenseRepo struct{}

func (f *fakeExpenseRepo) FindByID(context.Context, uuid.UUID) (*royalty.Expense, error) {
	return nil, shared.ErrNotFound
}

func (f *fakeExpenseRepo) FindAllForTenant(context.Context, uuid.UUID, royalty.ExpenseFilter) ([]royalty.Expense, error) {
	return nil, nil
}

func (f *fakeExpenseRepo) Save(context.Context, *royalty.Expense) error { return nil }

func (f *fakeExpenseRepo) Delete(context.Context, uuid.UUID, uuid.UUID) error { return nil }

type fakePayeeRepo struct {
	payees map[uuid.UUID]*royalty.Payee
}

func (f *fakePayeeRepo) FindByID(_ context.Context, id uuid.UUID) (*royalty.Payee, error) {
	if p, ok := f.payees[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakePayeeRepo) FindByIDForTenant(ctx context.Context, _ uuid.UUID, id uuid.UUID) (*royalty.Payee, error) {
	return f.FindByID(ctx, id)
}

func (f *fakePayeeRepo) FindByContactName(context.Context, uuid.UUID, string) ([]royalty.Payee, error) {
	return nil, nil
}

func (f *fakePayeeRepo) Save(context.Context, *royalty.Payee) error { return nil }

type fakeAgreementRepo struct{}

func (f *fakeAgreementRepo) FindByID(context.Context, uuid.UUID) (*royalty.Agreement, error) {
	return nil, shared.ErrNotFound
}

func (f *fakeAgreementRepo) FindByIDForTenant(context.Context, uuid.UUID, uuid.UUID) (*royalty.Agreement, error) {
	return nil, shared.ErrNotFound
}

func (f *fakeAgreementRepo) Save(context.Context, *royalty.Agreement) error { return nil }

type capturingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (c *capturingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, events...)
	return nil
}

func (c *capturingPublisher) byType(eventType string) []shared.DomainEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	matched := make([]shared.DomainEvent, 0)
	for _, e := range c.events {
		if e.EventType() == eventType {
			matched = append(matched, e)
		}
	}
	return matched
}

type serviceFixture struct {
	service    *PayoutService
	payoutRepo *fakePayoutRepo
	auditRepo  *fakeAuditRepo
	batchRepo  *fakeBatchRepo
	publisher  *capturingPublisher
	tenantID   uuid.UUID
	payee      *royalty.Payee
}

func newServiceFixture(t *testing.T) *serviceFixture {
	tenantID := uuid.New()
	payee, err := royalty.NewPayee(tenantID, "Alex Mercer", uuid.New())
	require.NoError(t, err)

	payeeRepo := &fakePayeeRepo{payees: map[uuid.UUID]*royalty.Payee{payee.ID: payee}}
	ledger := royalty.NewOwnershipLedger(payeeRepo, &fakeAgreementRepo{})
	calculator := royalty.NewStatementCalculator(
		&fakeAllocRepo{gross: decimal.NewFromInt(10000)},
		&fakeExpenseRepo{},
		ledger,
		zap.NewNop(),
	)

	payoutRepo := newFakePayoutRepo()
	auditRepo := &fakeAuditRepo{}
	batchRepo := &fakeBatchRepo{}
	publisher := &capturingPublisher{}

	return &serviceFixture{
		service: NewPayoutService(payoutRepo, auditRepo, batchRepo,
			ledger, calculator, publisher, zap.NewNop()),
		payoutRepo: payoutRepo,
		auditRepo:  auditRepo,
		batchRepo:  batchRepo,
		publisher:  publisher,
		tenantID:   tenantID,
		payee:      payee,
	}
}

func TestPayoutServiceCreatePayout(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a draft from the calculated statement", func(t *testing.T) {
		fx := newServiceFixture(t)

		p, err := fx.service.CreatePayout(ctx, fx.tenantID, CreatePayoutRequest{
			PayeeID: fx.payee.ID,
			Period:  "Q1 2025",
		})
		require.NoError(t, err)

		assert.Equal(t, payout.StageDraft, p.Stage)
		assert.Equal(t, "10000.00", p.AmountDue.StringFixed(2))
		assert.Equal(t, string(royalty.MethodManual), p.CalculationMethod)
		assert.Len(t, fx.publisher.byType(payout.EventTypePayoutCreated), 1)
	})

	t.Run("rejects a second payout for the same payee and period", func(t *testing.T) {
		fx := newServiceFixture(t)
		req := CreatePayoutRequest{PayeeID: fx.payee.ID, Period: "Q1 2025"}

		_, err := fx.service.CreatePayout(ctx, fx.tenantID, req)
		require.NoError(t, err)

		_, err = fx.service.CreatePayout(ctx, fx.tenantID, req)
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeAlreadyExists))
	})

	t.Run("a failed save does not poison a retried create", func(t *testing.T) {
		fx := newServiceFixture(t)
		req := CreatePayoutRequest{PayeeID: fx.payee.ID, Period: "Q1 2025"}

		fx.payoutRepo.saveErr = shared.ErrExternalService
		_, err := fx.service.CreatePayout(ctx, fx.tenantID, req)
		require.Error(t, err)

		p, err := fx.service.CreatePayout(ctx, fx.tenantID, req)
		require.NoError(t, err)
		assert.Equal(t, payout.StageDraft, p.Stage)
	})

	t.Run("rejects malformed periods up front", func(t *testing.T) {
		fx := newServiceFixture(t)
		_, err := fx.service.CreatePayout(ctx, fx.tenantID, CreatePayoutRequest{
			PayeeID: fx.payee.ID,
			Period:  "first quarter 2025",
		})
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeInvalidInput))
	})

	t.Run("unknown payee is a resolution failure", func(t *testing.T) {
		fx := newServiceFixture(t)
		_, err := fx.service.CreatePayout(ctx, fx.tenantID, CreatePayoutRequest{
			PayeeID: uuid.New(),
			Period:  "Q1 2025",
		})
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeResolutionFailure))
	})
}

func TestPayoutServiceTransition(t *testing.T) {
	ctx := context.Background()

	t.Run("persists the transition and audit entry", func(t *testing.T) {
		fx := newServiceFixture(t)
		p, err := fx.service.CreatePayout(ctx, fx.tenantID, CreatePayoutRequest{PayeeID: fx.payee.ID, Period: "Q1 2025"})
		require.NoError(t, err)

		updated, err := fx.service.Transition(ctx, fx.tenantID, p.ID, TransitionRequest{
			Stage:  payout.StagePendingReview,
			Reason: "submitted for review",
		})
		require.NoError(t, err)
		assert.Equal(t, payout.StagePendingReview, updated.Stage)

		trail, err := fx.auditRepo.ListForPayout(ctx, fx.tenantID, p.ID)
		require.NoError(t, err)
		require.Len(t, trail, 1)
		assert.Equal(t, payout.StageDraft, trail[0].FromStage)
		assert.Equal(t, "submitted for review", trail[0].Reason)
	})

	t.Run("illegal transition surfaces the domain error", func(t *testing.T) {
		fx := newServiceFixture(t)
		p, err := fx.service.CreatePayout(ctx, fx.tenantID, CreatePayoutRequest{PayeeID: fx.payee.ID, Period: "Q1 2025"})
		require.NoError(t, err)

		_, err = fx.service.Transition(ctx, fx.tenantID, p.ID, TransitionRequest{Stage: payout.StagePaid})
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeInvalidTransition))
	})

	t.Run("unknown payout is not found", func(t *testing.T) {
		fx := newServiceFixture(t)
		_, err := fx.service.Transition(ctx, fx.tenantID, uuid.New(), TransitionRequest{Stage: payout.StagePendingReview})
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeNotFound))
	})

	t.Run("a failed save rolls back and leaves the payout retryable", func(t *testing.T) {
		fx := newServiceFixture(t)
		p, err := fx.service.CreatePayout(ctx, fx.tenantID, CreatePayoutRequest{PayeeID: fx.payee.ID, Period: "Q1 2025"})
		require.NoError(t, err)

		fx.payoutRepo.saveErr = shared.ErrExternalService
		_, err = fx.service.Transition(ctx, fx.tenantID, p.ID, TransitionRequest{Stage: payout.StagePendingReview})
		require.Error(t, err)

		// The stored payout is untouched and nothing reached the audit trail
		stored, err := fx.service.GetPayout(ctx, fx.tenantID, p.ID)
		require.NoError(t, err)
		assert.Equal(t, payout.StageDraft, stored.Stage)
		assert.Empty(t, stored.AuditTrail)

		// The failed attempt must not leave the payout locked
		updated, err := fx.service.Transition(ctx, fx.tenantID, p.ID, TransitionRequest{Stage: payout.StagePendingReview})
		require.NoError(t, err)
		assert.Equal(t, payout.StagePendingReview, updated.Stage)
	})
}

func TestPayoutServiceBatchTransition(t *testing.T) {
	ctx := context.Background()

	t.Run("failures are isolated per payout", func(t *testing.T) {
		fx := newServiceFixture(t)

		first, err := fx.service.CreatePayout(ctx, fx.tenantID, CreatePayoutRequest{PayeeID: fx.payee.ID, Period: "Q1 2025"})
		require.NoError(t, err)
		second, err := fx.service.CreatePayout(ctx, fx.tenantID, CreatePayoutRequest{PayeeID: fx.payee.ID, Period: "Q2 2025"})
		require.NoError(t, err)

		// Move the second payout forward so the batch target is illegal for it
		_, err = fx.service.Transition(ctx, fx.tenantID, second.ID, TransitionRequest{Stage: payout.StagePendingReview})
		require.NoError(t, err)
		_, err = fx.service.Transition(ctx, fx.tenantID, second.ID, TransitionRequest{Stage: payout.StageApproved})
		require.NoError(t, err)

		batch, err := fx.service.BatchTransition(ctx, fx.tenantID, BatchTransitionRequest{
			PayoutIDs: []uuid.UUID{first.ID, second.ID},
			Stage:     payout.StagePendingReview,
		})
		require.NoError(t, err)

		assert.Equal(t, payout.BatchStatusPartial, batch.Status)
		assert.Equal(t, 1, batch.SucceededCount())
		assert.Equal(t, 1, batch.FailedCount())
		require.Len(t, fx.batchRepo.saved, 1)

		reloaded, err := fx.service.GetPayout(ctx, fx.tenantID, first.ID)
		require.NoError(t, err)
		assert.Equal(t, payout.StagePendingReview, reloaded.Stage)
	})
}
