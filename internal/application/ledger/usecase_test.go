package ledger_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/kardex-pro/internal/application/ledger"
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

func newRegisterUC(t *testing.T) (*ledger.RegisterMovementUseCase, *testutil.Store) {
	t.Helper()
	s := testutil.NewStore()
	require.NoError(t, s.Branches.Create(&entity.Branch{ID: testBranch, CompanyID: testCompany}))
	require.NoError(t, s.Products.Create(&entity.Product{
		ID: testProduct, CompanyID: testCompany, SKU: "SKU-1", TracksInventory: true,
	}))
	return ledger.NewRegisterMovementUseCase(s.Runner(), s.Products, s.Branches), s
}

func TestRegisterMovement_Manual(t *testing.T) {
	uc, s := newRegisterUC(t)

	mov, err := uc.RegisterMovement(context.Background(), ledger.ManualMovementInput{
		CompanyID: testCompany,
		UserID:    testUser,
		ProductID: testProduct,
		BranchID:  testBranch,
		Type:      entity.MovementIN,
		Quantity:  decimal.NewFromInt(10),
		Reason:    "recepción directa",
	})
	require.NoError(t, err)
	assert.Equal(t, testUser, mov.CreatedBy)
	assert.True(t, mov.NewStock.Equal(decimal.NewFromInt(10)))

	unit, err := s.Stock.Get(testProduct, testBranch)
	require.NoError(t, err)
	assert.True(t, unit.Quantity.Equal(decimal.NewFromInt(10)))
}

// TRF no se expone como movimiento manual: el traslado entre sucursales no
// tiene modelo completo todavía.
func TestRegisterMovement_RechazaTRF(t *testing.T) {
	uc, _ := newRegisterUC(t)

	_, err := uc.RegisterMovement(context.Background(), ledger.ManualMovementInput{
		CompanyID: testCompany, UserID: testUser,
		ProductID: testProduct, BranchID: testBranch,
		Type: entity.MovementTRF, Quantity: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterMovement_ProductoDeOtraEmpresa(t *testing.T) {
	uc, s := newRegisterUC(t)
	require.NoError(t, s.Products.Create(&entity.Product{
		ID: "ajeno", CompanyID: "otra-empresa", TracksInventory: true,
	}))

	_, err := uc.RegisterMovement(context.Background(), ledger.ManualMovementInput{
		CompanyID: testCompany, UserID: testUser,
		ProductID: "ajeno", BranchID: testBranch,
		Type: entity.MovementIN, Quantity: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRegisterMovement_ProductoSinInventario(t *testing.T) {
	uc, s := newRegisterUC(t)
	require.NoError(t, s.Products.Create(&entity.Product{
		ID: "servicio", CompanyID: testCompany, TracksInventory: false,
	}))

	_, err := uc.RegisterMovement(context.Background(), ledger.ManualMovementInput{
		CompanyID: testCompany, UserID: testUser,
		ProductID: "servicio", BranchID: testBranch,
		Type: entity.MovementIN, Quantity: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStockQuery_CantidadCero(t *testing.T) {
	s := testutil.NewStore()
	uc := ledger.NewStockQueryUseCase(s.Stock, s.Movements)

	qty, err := uc.GetCurrentStock("nunca-tocado", testBranch)
	require.NoError(t, err)
	assert.True(t, qty.IsZero())
}

func TestStockQuery_KardexDescendente(t *testing.T) {
	s := testutil.NewStore()
	uc := ledger.NewStockQueryUseCase(s.Stock, s.Movements)

	apply(t, s, entity.MovementIN, 10)
	apply(t, s, entity.MovementOUT, 2)
	apply(t, s, entity.MovementIN, 5)

	movs, err := uc.ListMovements("p1", "b1", 0)
	require.NoError(t, err)
	require.Len(t, movs, 3)
	// El más reciente primero.
	assert.Equal(t, entity.MovementIN, movs[0].Type)
	assert.True(t, movs[0].NewStock.Equal(decimal.NewFromInt(13)))
	assert.Equal(t, entity.MovementOUT, movs[1].Type)

	limited, err := uc.ListMovements("p1", "b1", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
