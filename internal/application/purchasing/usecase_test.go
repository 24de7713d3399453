package purchasing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/kardex-pro/internal/application/purchasing"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/testutil"
)

const (
	testCompany = "co-1"
	testBranch  = "br-1"
	testProduct = "pr-1"
	testUser    = "us-1"
)

func newPurchaseUC(t *testing.T) (*purchasing.PurchaseUseCase, *testutil.Store) {
	t.Helper()
	s := testutil.NewStore()
	require.NoError(t, s.Branches.Create(&entity.Branch{ID: testBranch, CompanyID: testCompany}))
	require.NoError(t, s.Products.Create(&entity.Product{
		ID: testProduct, CompanyID: testCompany, TracksInventory: true,
	}))
	return purchasing.NewPurchaseUseCase(s.Runner(), s.Purchases, s.Products, s.Branches), s
}

func createPurchase(t *testing.T, uc *purchasing.PurchaseUseCase, qty int64) *entity.PurchaseOrder {
	t.Helper()
	purchase, err := uc.CreatePurchase(context.Background(), purchasing.CreatePurchaseInput{
		CompanyID: testCompany,
		UserID:    testUser,
		BranchID:  testBranch,
		Lines: []purchasing.PurchaseLineInput{
			{ProductID: testProduct, Quantity: decimal.NewFromInt(qty), UnitCost: decimal.NewFromInt(30)},
		},
	})
	require.NoError(t, err)
	return purchase
}

func TestReceivePurchase_IngresaStock(t *testing.T) {
	uc, s := newPurchaseUC(t)
	s.Stock.Seed(testProduct, testBranch, decimal.NewFromInt(5))
	ctx := context.Background()

	purchase := createPurchase(t, uc, 12)
	assert.Equal(t, entity.PurchaseStatusPending, purchase.Status)
	assert.Empty(t, s.Movements.All(), "crear la orden no toca el ledger")

	require.NoError(t, uc.ReceivePurchase(ctx, testCompany, testUser, purchase.ID))

	unit, err := s.Stock.Get(testProduct, testBranch)
	require.NoError(t, err)
	assert.True(t, unit.Quantity.Equal(decimal.NewFromInt(17)))

	movs, err := s.Movements.ListByReference(purchase.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementIN, movs[0].Type)
	assert.True(t, movs[0].Quantity.Equal(decimal.NewFromInt(12)))

	received, err := uc.GetPurchase(testCompany, purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusReceived, received.Status)
}

// Recibir dos veces: la segunda falla y no duplica el ingreso.
func TestReceivePurchase_DosVeces(t *testing.T) {
	uc, s := newPurchaseUC(t)
	ctx := context.Background()

	purchase := createPurchase(t, uc, 8)
	require.NoError(t, uc.ReceivePurchase(ctx, testCompany, testUser, purchase.ID))

	err := uc.ReceivePurchase(ctx, testCompany, testUser, purchase.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	movs, err := s.Movements.ListByReference(purchase.ID)
	require.NoError(t, err)
	assert.Len(t, movs, 1, "una sola entrada aunque se intente dos veces")

	unit, err := s.Stock.Get(testProduct, testBranch)
	require.NoError(t, err)
	assert.True(t, unit.Quantity.Equal(decimal.NewFromInt(8)))
}

func TestCreatePurchase_Validaciones(t *testing.T) {
	uc, _ := newPurchaseUC(t)
	ctx := context.Background()

	// Sin líneas.
	_, err := uc.CreatePurchase(ctx, purchasing.CreatePurchaseInput{
		CompanyID: testCompany, UserID: testUser, BranchID: testBranch,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Cantidad no positiva.
	_, err = uc.CreatePurchase(ctx, purchasing.CreatePurchaseInput{
		CompanyID: testCompany, UserID: testUser, BranchID: testBranch,
		Lines: []purchasing.PurchaseLineInput{
			{ProductID: testProduct, Quantity: decimal.Zero, UnitCost: decimal.NewFromInt(30)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Sucursal de otra empresa.
	_, err = uc.CreatePurchase(ctx, purchasing.CreatePurchaseInput{
		CompanyID: "empresa-ajena", UserID: testUser, BranchID: testBranch,
		Lines: []purchasing.PurchaseLineInput{
			{ProductID: testProduct, Quantity: decimal.NewFromInt(1), UnitCost: decimal.NewFromInt(30)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReceivePurchase_OtraEmpresa(t *testing.T) {
	uc, _ := newPurchaseUC(t)

	purchase := createPurchase(t, uc, 1)
	err := uc.ReceivePurchase(context.Background(), "empresa-ajena", testUser, purchase.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
