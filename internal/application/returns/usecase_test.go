package returns_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/kardex-pro/internal/application/returns"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/testutil"
)

const (
	testCompany = "co-1"
	testBranch  = "br-1"
	testProduct = "pr-1"
	testUser    = "us-1"
	testSale    = "sa-1"
)

// seedSale deja una venta COMPLETED de 5 unidades del producto de prueba.
func seedSale(t *testing.T, s *testutil.Store) {
	t.Helper()
	now := time.Now()
	require.NoError(t, s.Sales.Create(&entity.Sale{
		ID:        testSale,
		CompanyID: testCompany,
		BranchID:  testBranch,
		Status:    entity.SaleStatusCompleted,
		Total:     decimal.NewFromInt(250),
		Lines: []entity.SaleLine{
			{ID: "sl-1", SaleID: testSale, ProductID: testProduct, Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(50)},
		},
		CreatedBy: testUser,
		CreatedAt: now,
		UpdatedAt: now,
	}))
}

func newReturnUC(t *testing.T) (*returns.ReturnUseCase, *testutil.Store) {
	t.Helper()
	s := testutil.NewStore()
	require.NoError(t, s.Branches.Create(&entity.Branch{ID: testBranch, CompanyID: testCompany}))
	require.NoError(t, s.Products.Create(&entity.Product{
		ID: testProduct, CompanyID: testCompany, TracksInventory: true,
	}))
	seedSale(t, s)
	return returns.NewReturnUseCase(s.Runner(), s.Returns, s.Sales, s.Products), s
}

func createReturn(t *testing.T, uc *returns.ReturnUseCase, qty int64) *entity.SalesReturn {
	t.Helper()
	ret, err := uc.CreateReturn(context.Background(), returns.CreateReturnInput{
		CompanyID: testCompany,
		UserID:    testUser,
		SaleID:    testSale,
		Reason:    "producto defectuoso",
		Lines: []returns.ReturnLineInput{
			{ProductID: testProduct, Quantity: decimal.NewFromInt(qty)},
		},
	})
	require.NoError(t, err)
	return ret
}

func TestCreateReturn_NoExcedeLoVendido(t *testing.T) {
	uc, _ := newReturnUC(t)

	// Se vendieron 5: devolver 6 es inválido.
	_, err := uc.CreateReturn(context.Background(), returns.CreateReturnInput{
		CompanyID: testCompany,
		UserID:    testUser,
		SaleID:    testSale,
		Lines: []returns.ReturnLineInput{
			{ProductID: testProduct, Quantity: decimal.NewFromInt(6)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApproveReturn_IngresaStock(t *testing.T) {
	uc, s := newReturnUC(t)
	s.Stock.Seed(testProduct, testBranch, decimal.NewFromInt(10))
	ctx := context.Background()

	ret := createReturn(t, uc, 2)
	assert.Equal(t, entity.ReturnStatusPending, ret.Status)
	assert.Empty(t, s.Movements.All(), "crear la devolución no toca el ledger")

	require.NoError(t, uc.ApproveReturn(ctx, testCompany, testUser, ret.ID))

	unit, err := s.Stock.Get(testProduct, testBranch)
	require.NoError(t, err)
	assert.True(t, unit.Quantity.Equal(decimal.NewFromInt(12)))

	// El movimiento referencia la devolución, no la venta.
	movs, err := s.Movements.ListByReference(ret.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementIN, movs[0].Type)

	approved, err := uc.GetReturn(testCompany, ret.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReturnStatusApproved, approved.Status)
}

// Aprobar dos veces: la guarda de estado corta sin duplicar el ingreso.
func TestApproveReturn_DosVeces(t *testing.T) {
	uc, s := newReturnUC(t)
	ctx := context.Background()

	ret := createReturn(t, uc, 2)
	require.NoError(t, uc.ApproveReturn(ctx, testCompany, testUser, ret.ID))

	err := uc.ApproveReturn(ctx, testCompany, testUser, ret.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	movs, err := s.Movements.ListByReference(ret.ID)
	require.NoError(t, err)
	assert.Len(t, movs, 1)
}

func TestRejectReturn_SinMovimientos(t *testing.T) {
	uc, s := newReturnUC(t)
	ctx := context.Background()

	ret := createReturn(t, uc, 2)
	require.NoError(t, uc.RejectReturn(ctx, testCompany, testUser, ret.ID))

	rejected, err := uc.GetReturn(testCompany, ret.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReturnStatusRejected, rejected.Status)
	assert.Empty(t, s.Movements.All(), "rechazar no toca el ledger")

	// Una devolución rechazada ya no se puede aprobar.
	err = uc.ApproveReturn(ctx, testCompany, testUser, ret.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestReturn_OtraEmpresa(t *testing.T) {
	uc, _ := newReturnUC(t)

	ret := createReturn(t, uc, 1)
	err := uc.ApproveReturn(context.Background(), "empresa-ajena", testUser, ret.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
