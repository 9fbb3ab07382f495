package resilience

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/royaltyops/backend/internal/domain/shared"
)

type draftRow struct {
	ID     uuid.UUID
	Amount string
}

func TestCoordinator(t *testing.T) {
	ctx := context.Background()

	t.Run("update IDs are monotonically increasing", func(t *testing.T) {
		c := NewCoordinator[draftRow](zap.NewNop())

		var last uint64
		for i := 0; i < 5; i++ {
			row := draftRow{ID: uuid.New(), Amount: "100"}
			id, err := c.Apply(ctx, OpCreate, row.ID, row)
			require.NoError(t, err)
			assert.Greater(t, id, last)
			last = id
		}
	})

	t.Run("apply mutates the working set", func(t *testing.T) {
		c := NewCoordinator[draftRow](zap.NewNop())
		row := draftRow{ID: uuid.New(), Amount: "100"}

		id, err := c.Apply(ctx, OpCreate, row.ID, row)
		require.NoError(t, err)
		got, ok := c.Get(row.ID)
		require.True(t, ok)
		assert.Equal(t, row, got)
		require.NoError(t, c.Confirm(id))

		id, err = c.Apply(ctx, OpUpdate, row.ID, draftRow{ID: row.ID, Amount: "150"})
		require.NoError(t, err)
		got, _ = c.Get(row.ID)
		assert.Equal(t, "150", got.Amount)
		require.NoError(t, c.Confirm(id))

		_, err = c.Apply(ctx, OpDelete, row.ID, draftRow{})
		require.NoError(t, err)
		_, ok = c.Get(row.ID)
		assert.False(t, ok)
	})

	t.Run("second mutation on a busy resource conflicts", func(t *testing.T) {
		c := NewCoordinator[draftRow](zap.NewNop())
		row := draftRow{ID: uuid.New(), Amount: "100"}
		require.NoError(t, c.Put(row.ID, row))

		first, err := c.Apply(ctx, OpUpdate, row.ID, draftRow{ID: row.ID, Amount: "150"})
		require.NoError(t, err)

		_, err = c.Apply(ctx, OpUpdate, row.ID, draftRow{ID: row.ID, Amount: "175"})
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeConflictingOperation))

		require.NoError(t, c.Confirm(first))
		_, err = c.Apply(ctx, OpUpdate, row.ID, draftRow{ID: row.ID, Amount: "175"})
		require.NoError(t, err, "resource is free again after confirmation")
	})

	t.Run("revert restores the working set to its pre-apply state", func(t *testing.T) {
		c := NewCoordinator[draftRow](zap.NewNop())
		original := draftRow{ID: uuid.New(), Amount: "100"}
		bystander := draftRow{ID: uuid.New(), Amount: "42"}
		require.NoError(t, c.Put(original.ID, original))
		require.NoError(t, c.Put(bystander.ID, bystander))
		before := c.Snapshot()

		id, err := c.Apply(ctx, OpUpdate, original.ID, draftRow{ID: original.ID, Amount: "999"})
		require.NoError(t, err)
		changed, _ := c.Get(original.ID)
		assert.Equal(t, "999", changed.Amount)

		reverted, err := c.Revert(id)
		require.NoError(t, err)
		assert.Equal(t, OpUpdate, reverted.Operation)
		assert.Equal(t, before, c.Snapshot(), "the working set must match its pre-apply state exactly")
		assert.False(t, c.InFlight(original.ID))
	})

	t.Run("create reverts by removal", func(t *testing.T) {
		c := NewCoordinator[draftRow](zap.NewNop())
		row := draftRow{ID: uuid.New(), Amount: "50"}

		id, err := c.Apply(ctx, OpCreate, row.ID, row)
		require.NoError(t, err)

		reverted, err := c.Revert(id)
		require.NoError(t, err)
		assert.Nil(t, reverted.Original, "creates roll back by removal")
		_, ok := c.Get(row.ID)
		assert.False(t, ok)
	})

	t.Run("delete reverts by reinstating the snapshot", func(t *testing.T) {
		c := NewCoordinator[draftRow](zap.NewNop())
		row := draftRow{ID: uuid.New(), Amount: "75"}
		require.NoError(t, c.Put(row.ID, row))
		before := c.Snapshot()

		id, err := c.Apply(ctx, OpDelete, row.ID, draftRow{})
		require.NoError(t, err)
		_, ok := c.Get(row.ID)
		require.False(t, ok)

		_, err = c.Revert(id)
		require.NoError(t, err)
		assert.Equal(t, before, c.Snapshot())
	})

	t.Run("update of an untracked resource is rejected", func(t *testing.T) {
		c := NewCoordinator[draftRow](zap.NewNop())
		_, err := c.Apply(ctx, OpUpdate, uuid.New(), draftRow{})
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeNotFound))
	})

	t.Run("put is rejected while a mutation is in flight", func(t *testing.T) {
		c := NewCoordinator[draftRow](zap.NewNop())
		row := draftRow{ID: uuid.New(), Amount: "10"}
		require.NoError(t, c.Put(row.ID, row))

		_, err := c.Apply(ctx, OpUpdate, row.ID, draftRow{ID: row.ID, Amount: "20"})
		require.NoError(t, err)

		err = c.Put(row.ID, draftRow{ID: row.ID, Amount: "30"})
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeConflictingOperation))
	})

	t.Run("settling an unknown update is not found", func(t *testing.T) {
		c := NewCoordinator[draftRow](zap.NewNop())
		err := c.Confirm(42)
		assert.True(t, shared.IsCode(err, shared.CodeNotFound))
		_, err = c.Revert(42)
		assert.True(t, shared.IsCode(err, shared.CodeNotFound))
	})

	t.Run("distinct resources do not serialize against each other", func(t *testing.T) {
		c := NewCoordinator[draftRow](zap.NewNop())
		a := draftRow{ID: uuid.New(), Amount: "1"}
		b := draftRow{ID: uuid.New(), Amount: "2"}
		require.NoError(t, c.Put(a.ID, a))
		require.NoError(t, c.Put(b.ID, b))

		_, err := c.Apply(ctx, OpUpdate, a.ID, a)
		require.NoError(t, err)
		_, err = c.Apply(ctx, OpUpdate, b.ID, b)
		require.NoError(t, err)
		assert.Equal(t, 2, c.PendingCount())
	})
}
