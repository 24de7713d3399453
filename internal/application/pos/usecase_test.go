package pos_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/kardex-pro/internal/application/pos"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/testutil"
)

const (
	testCompany = "co-1"
	testBranch  = "br-1"
	testProduct = "pr-1"
	testUser    = "us-1"
	testSession = "cs-1"
)

func newCheckoutUC(t *testing.T) (*pos.CheckoutUseCase, *testutil.Store) {
	t.Helper()
	s := testutil.NewStore()
	require.NoError(t, s.Branches.Create(&entity.Branch{ID: testBranch, CompanyID: testCompany}))
	require.NoError(t, s.Products.Create(&entity.Product{
		ID: testProduct, CompanyID: testCompany, TracksInventory: true,
	}))
	return pos.NewCheckoutUseCase(s.Runner(), s.Products, s.Branches, s.Sessions, s.Sales), s
}

func openSession(t *testing.T, s *testutil.Store) {
	t.Helper()
	require.NoError(t, s.Sessions.Create(&entity.CashSession{
		ID:            testSession,
		CompanyID:     testCompany,
		BranchID:      testBranch,
		UserID:        testUser,
		Status:        entity.SessionStatusOpen,
		OpeningAmount: decimal.NewFromInt(100),
		OpenedAt:      time.Now(),
	}))
}

func checkoutInput(qty int64, payments ...pos.PaymentInput) pos.CheckoutInput {
	return pos.CheckoutInput{
		CompanyID: testCompany,
		UserID:    testUser,
		BranchID:  testBranch,
		Lines: []pos.CheckoutLineInput{
			{ProductID: testProduct, Quantity: decimal.NewFromInt(qty), UnitPrice: decimal.NewFromInt(50)},
		},
		Payments: payments,
	}
}

func TestCheckout_Efectivo(t *testing.T) {
	uc, s := newCheckoutUC(t)
	s.Stock.Seed(testProduct, testBranch, decimal.NewFromInt(10))
	openSession(t, s)

	sale, err := uc.Checkout(context.Background(), checkoutInput(3,
		pos.PaymentInput{Method: entity.PaymentMethodCash, Amount: decimal.NewFromInt(150)},
	))
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCompleted, sale.Status)
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(150)))

	unit, err := s.Stock.Get(testProduct, testBranch)
	require.NoError(t, err)
	assert.True(t, unit.Quantity.Equal(decimal.NewFromInt(7)))

	// El pago en efectivo queda ligado a la sesión abierta del cajero.
	require.Len(t, sale.Payments, 1)
	assert.Equal(t, testSession, sale.Payments[0].SessionID)

	movs, err := s.Movements.ListByReference(sale.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementOUT, movs[0].Type)
}

// Efectivo sin sesión de caja abierta no tiene dónde arquearse.
func TestCheckout_EfectivoSinSesion(t *testing.T) {
	uc, s := newCheckoutUC(t)
	s.Stock.Seed(testProduct, testBranch, decimal.NewFromInt(10))

	_, err := uc.Checkout(context.Background(), checkoutInput(1,
		pos.PaymentInput{Method: entity.PaymentMethodCash, Amount: decimal.NewFromInt(50)},
	))
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Empty(t, s.Movements.All())
}

// Los pagos con tarjeta no exigen sesión y no llevan session_id.
func TestCheckout_TarjetaSinSesion(t *testing.T) {
	uc, s := newCheckoutUC(t)
	s.Stock.Seed(testProduct, testBranch, decimal.NewFromInt(10))

	sale, err := uc.Checkout(context.Background(), checkoutInput(1,
		pos.PaymentInput{Method: entity.PaymentMethodCard, Amount: decimal.NewFromInt(50)},
	))
	require.NoError(t, err)
	require.Len(t, sale.Payments, 1)
	assert.Empty(t, sale.Payments[0].SessionID)
}

func TestCheckout_StockInsuficiente(t *testing.T) {
	uc, s := newCheckoutUC(t)
	s.Stock.Seed(testProduct, testBranch, decimal.NewFromInt(2))

	_, err := uc.Checkout(context.Background(), checkoutInput(3,
		pos.PaymentInput{Method: entity.PaymentMethodCard, Amount: decimal.NewFromInt(150)},
	))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, s.Movements.All())
}

func TestVoidSale_DevuelveStock(t *testing.T) {
	uc, s := newCheckoutUC(t)
	s.Stock.Seed(testProduct, testBranch, decimal.NewFromInt(10))
	ctx := context.Background()

	sale, err := uc.Checkout(ctx, checkoutInput(4,
		pos.PaymentInput{Method: entity.PaymentMethodCard, Amount: decimal.NewFromInt(200)},
	))
	require.NoError(t, err)

	require.NoError(t, uc.VoidSale(ctx, testCompany, testUser, sale.ID))

	unit, err := s.Stock.Get(testProduct, testBranch)
	require.NoError(t, err)
	assert.True(t, unit.Quantity.Equal(decimal.NewFromInt(10)), "anular regresa todo")

	voided, err := uc.GetSale(testCompany, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCancelled, voided.Status)

	// Anular de nuevo: la guarda de estado corta sin mover stock.
	err = uc.VoidSale(ctx, testCompany, testUser, sale.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	movs, err := s.Movements.ListByReference(sale.ID)
	require.NoError(t, err)
	assert.Len(t, movs, 2, "un OUT del checkout y un IN de la anulación")
}

// Las ventas a crédito no se anulan por kardex: su reversión va por cartera.
func TestVoidSale_CreditoRechazado(t *testing.T) {
	uc, s := newCheckoutUC(t)
	s.Stock.Seed(testProduct, testBranch, decimal.NewFromInt(10))
	ctx := context.Background()

	sale, err := uc.Checkout(ctx, checkoutInput(1,
		pos.PaymentInput{Method: entity.PaymentMethodCredit, Amount: decimal.NewFromInt(50)},
	))
	require.NoError(t, err)

	err = uc.VoidSale(ctx, testCompany, testUser, sale.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestVoidSale_OtraEmpresa(t *testing.T) {
	uc, s := newCheckoutUC(t)
	s.Stock.Seed(testProduct, testBranch, decimal.NewFromInt(10))
	ctx := context.Background()

	sale, err := uc.Checkout(ctx, checkoutInput(1,
		pos.PaymentInput{Method: entity.PaymentMethodCard, Amount: decimal.NewFromInt(50)},
	))
	require.NoError(t, err)

	err = uc.VoidSale(ctx, "empresa-ajena", testUser, sale.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
