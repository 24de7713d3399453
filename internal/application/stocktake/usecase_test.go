package stocktake_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/kardex-pro/internal/application/stocktake"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/testutil"
)

const (
	testCompany = "co-1"
	testBranch  = "br-1"
	testUser    = "us-1"
)

func newStockTakeUC(t *testing.T) (*stocktake.StockTakeUseCase, *testutil.Store) {
	t.Helper()
	s := testutil.NewStore()
	require.NoError(t, s.Branches.Create(&entity.Branch{ID: testBranch, CompanyID: testCompany}))
	return stocktake.NewStockTakeUseCase(s.Runner(), s.Takes, s.Stock, s.Branches), s
}

func TestStockTake_SnapshotSoloPositivos(t *testing.T) {
	uc, s := newStockTakeUC(t)
	s.Stock.Seed("pr-1", testBranch, decimal.NewFromInt(15))
	s.Stock.Seed("pr-2", testBranch, decimal.NewFromInt(8))
	s.Stock.Seed("pr-3", testBranch, decimal.Zero)
	s.Stock.Seed("pr-4", "otra-sucursal", decimal.NewFromInt(99))

	take, err := uc.Create(context.Background(), testCompany, testUser, testBranch)
	require.NoError(t, err)
	assert.Equal(t, entity.StockTakeInProgress, take.Status)
	// Solo las unidades con existencia positiva de esta sucursal.
	require.Len(t, take.Items, 2)
	for _, item := range take.Items {
		assert.Nil(t, item.CountedQty, "un ítem nace sin contar, no en cero")
	}
}

// Escenario completo: sistema 15, contado 12 → ADJ −3 y stock en 12.
func TestStockTake_AplicarDiferencia(t *testing.T) {
	uc, s := newStockTakeUC(t)
	s.Stock.Seed("pr-1", testBranch, decimal.NewFromInt(15))
	ctx := context.Background()

	take, err := uc.Create(ctx, testCompany, testUser, testBranch)
	require.NoError(t, err)

	_, err = uc.UpdateCounts(ctx, testCompany, take.ID, []stocktake.CountInput{
		{ItemID: take.Items[0].ID, CountedQty: decimal.NewFromInt(12)},
	})
	require.NoError(t, err)

	applied, err := uc.Apply(ctx, testCompany, testUser, take.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StockTakeCompleted, applied.Status)
	require.NotNil(t, applied.ClosedAt)

	unit, err := s.Stock.Get("pr-1", testBranch)
	require.NoError(t, err)
	assert.True(t, unit.Quantity.Equal(decimal.NewFromInt(12)))

	movs, err := s.Movements.ListByReference(take.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementADJ, movs[0].Type)
	assert.True(t, movs[0].Quantity.Equal(decimal.NewFromInt(-3)), "la cantidad guarda el delta con signo")
}

// Los ítems sin contar y los contados exactos no generan ajuste.
func TestStockTake_OmiteSinContarYExactos(t *testing.T) {
	uc, s := newStockTakeUC(t)
	s.Stock.Seed("pr-1", testBranch, decimal.NewFromInt(15))
	s.Stock.Seed("pr-2", testBranch, decimal.NewFromInt(8))
	s.Stock.Seed("pr-3", testBranch, decimal.NewFromInt(4))
	ctx := context.Background()

	take, err := uc.Create(ctx, testCompany, testUser, testBranch)
	require.NoError(t, err)

	var counts []stocktake.CountInput
	for _, item := range take.Items {
		switch item.ProductID {
		case "pr-1":
			counts = append(counts, stocktake.CountInput{ItemID: item.ID, CountedQty: decimal.NewFromInt(17)})
		case "pr-2":
			// Conteo exacto: sin diferencia.
			counts = append(counts, stocktake.CountInput{ItemID: item.ID, CountedQty: decimal.NewFromInt(8)})
			// pr-3 queda sin contar.
		}
	}
	_, err = uc.UpdateCounts(ctx, testCompany, take.ID, counts)
	require.NoError(t, err)

	_, err = uc.Apply(ctx, testCompany, testUser, take.ID)
	require.NoError(t, err)

	movs, err := s.Movements.ListByReference(take.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1, "solo pr-1 tiene diferencia")
	assert.Equal(t, "pr-1", movs[0].ProductID)

	// El stock del ítem sin contar no se toca.
	unit, err := s.Stock.Get("pr-3", testBranch)
	require.NoError(t, err)
	assert.True(t, unit.Quantity.Equal(decimal.NewFromInt(4)))
}

func TestStockTake_AplicarDosVeces(t *testing.T) {
	uc, s := newStockTakeUC(t)
	s.Stock.Seed("pr-1", testBranch, decimal.NewFromInt(15))
	ctx := context.Background()

	take, err := uc.Create(ctx, testCompany, testUser, testBranch)
	require.NoError(t, err)
	_, err = uc.UpdateCounts(ctx, testCompany, take.ID, []stocktake.CountInput{
		{ItemID: take.Items[0].ID, CountedQty: decimal.NewFromInt(12)},
	})
	require.NoError(t, err)

	_, err = uc.Apply(ctx, testCompany, testUser, take.ID)
	require.NoError(t, err)

	_, err = uc.Apply(ctx, testCompany, testUser, take.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	movs, err := s.Movements.ListByReference(take.ID)
	require.NoError(t, err)
	assert.Len(t, movs, 1, "aplicar dos veces no duplica ajustes")
}

func TestStockTake_ContarSoloEnProgreso(t *testing.T) {
	uc, s := newStockTakeUC(t)
	s.Stock.Seed("pr-1", testBranch, decimal.NewFromInt(15))
	ctx := context.Background()

	take, err := uc.Create(ctx, testCompany, testUser, testBranch)
	require.NoError(t, err)
	itemID := take.Items[0].ID

	_, err = uc.Cancel(ctx, testCompany, take.ID)
	require.NoError(t, err)

	_, err = uc.UpdateCounts(ctx, testCompany, take.ID, []stocktake.CountInput{
		{ItemID: itemID, CountedQty: decimal.NewFromInt(12)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestStockTake_CancelarSinMovimientos(t *testing.T) {
	uc, s := newStockTakeUC(t)
	s.Stock.Seed("pr-1", testBranch, decimal.NewFromInt(15))
	ctx := context.Background()

	take, err := uc.Create(ctx, testCompany, testUser, testBranch)
	require.NoError(t, err)

	cancelled, err := uc.Cancel(ctx, testCompany, take.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StockTakeCancelled, cancelled.Status)
	assert.Empty(t, s.Movements.All())

	// Una toma cancelada es terminal.
	_, err = uc.Apply(ctx, testCompany, testUser, take.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestStockTake_ConteoNegativo(t *testing.T) {
	uc, s := newStockTakeUC(t)
	s.Stock.Seed("pr-1", testBranch, decimal.NewFromInt(15))
	ctx := context.Background()

	take, err := uc.Create(ctx, testCompany, testUser, testBranch)
	require.NoError(t, err)

	_, err = uc.UpdateCounts(ctx, testCompany, take.ID, []stocktake.CountInput{
		{ItemID: take.Items[0].ID, CountedQty: decimal.NewFromInt(-1)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
