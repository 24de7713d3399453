package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
)

func TestStockTakeStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, entity.StockTakeInProgress.CanTransitionTo(entity.StockTakeCompleted))
	assert.True(t, entity.StockTakeInProgress.CanTransitionTo(entity.StockTakeCancelled))

	// COMPLETED y CANCELLED son terminales.
	assert.False(t, entity.StockTakeCompleted.CanTransitionTo(entity.StockTakeCancelled))
	assert.False(t, entity.StockTakeCompleted.CanTransitionTo(entity.StockTakeInProgress))
	assert.False(t, entity.StockTakeCancelled.CanTransitionTo(entity.StockTakeCompleted))
}

func TestStockTakeItem_RecordCount(t *testing.T) {
	item := entity.StockTakeItem{SystemQty: decimal.NewFromInt(15)}
	require.False(t, item.Counted())

	now := time.Now()
	item.RecordCount(decimal.NewFromInt(12), now)

	require.True(t, item.Counted())
	assert.True(t, item.CountedQty.Equal(decimal.NewFromInt(12)))
	assert.True(t, item.Difference.Equal(decimal.NewFromInt(-3)))
	require.NotNil(t, item.CountedAt)
	assert.Equal(t, now, *item.CountedAt)
}

// PendingAdjustments: solo ítems contados con diferencia distinta de cero.
// Los no contados se omiten, no se asumen en cero.
func TestStockTake_PendingAdjustments(t *testing.T) {
	now := time.Now()
	take := entity.StockTake{
		Status: entity.StockTakeInProgress,
		Items: []entity.StockTakeItem{
			{ID: "a", SystemQty: decimal.NewFromInt(15)},
			{ID: "b", SystemQty: decimal.NewFromInt(10)},
			{ID: "c", SystemQty: decimal.NewFromInt(7)},
		},
	}
	take.Items[0].RecordCount(decimal.NewFromInt(12), now) // diferencia -3
	take.Items[1].RecordCount(decimal.NewFromInt(10), now) // diferencia 0
	// items[2] queda sin contar

	pending := take.PendingAdjustments()
	require.Len(t, pending, 1)
	assert.Equal(t, "a", pending[0].ID)
	assert.True(t, pending[0].Difference.Equal(decimal.NewFromInt(-3)))
}

func TestStockTake_FindItem(t *testing.T) {
	take := entity.StockTake{
		Items: []entity.StockTakeItem{{ID: "x"}, {ID: "y"}},
	}
	require.NotNil(t, take.FindItem("y"))
	assert.Nil(t, take.FindItem("z"))
}
