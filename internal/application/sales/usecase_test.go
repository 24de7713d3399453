package sales_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/kardex-pro/internal/application/sales"
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

func newOrderUC(t *testing.T) (*sales.OrderUseCase, *testutil.Store) {
	t.Helper()
	s := testutil.NewStore()
	require.NoError(t, s.Branches.Create(&entity.Branch{ID: testBranch, CompanyID: testCompany}))
	require.NoError(t, s.Products.Create(&entity.Product{
		ID: testProduct, CompanyID: testCompany, TracksInventory: true,
	}))
	return sales.NewOrderUseCase(s.Runner(), s.Orders, s.Products, s.Branches), s
}

func createOrder(t *testing.T, uc *sales.OrderUseCase, qty int64) *entity.SalesOrder {
	t.Helper()
	order, err := uc.CreateOrder(context.Background(), sales.CreateOrderInput{
		CompanyID: testCompany,
		UserID:    testUser,
		BranchID:  testBranch,
		Lines: []sales.OrderLineInput{
			{ProductID: testProduct, Quantity: decimal.NewFromInt(qty), UnitPrice: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)
	return order
}

func stockOf(t *testing.T, s *testutil.Store) decimal.Decimal {
	t.Helper()
	unit, err := s.Stock.Get(testProduct, testBranch)
	require.NoError(t, err)
	return unit.Quantity
}

// Escenario completo: stock 20, confirmar pedido de 5 → 15, cancelar → 20.
func TestOrder_ConfirmarYCancelar(t *testing.T) {
	uc, s := newOrderUC(t)
	s.Stock.Seed(testProduct, testBranch, decimal.NewFromInt(20))
	ctx := context.Background()

	order := createOrder(t, uc, 5)
	assert.Equal(t, entity.OrderStatusDraft, order.Status)
	assert.True(t, stockOf(t, s).Equal(decimal.NewFromInt(20)), "el borrador no toca stock")

	require.NoError(t, uc.ConfirmOrder(ctx, testCompany, testUser, order.ID))
	assert.True(t, stockOf(t, s).Equal(decimal.NewFromInt(15)))

	confirmed, err := uc.GetOrder(testCompany, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusConfirmed, confirmed.Status)

	require.NoError(t, uc.CancelOrder(ctx, testCompany, testUser, order.ID))
	assert.True(t, stockOf(t, s).Equal(decimal.NewFromInt(20)), "cancelar devuelve lo descontado")

	// Cada movimiento referencia el pedido.
	movs, err := s.Movements.ListByReference(order.ID)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementOUT, movs[0].Type)
	assert.Equal(t, entity.MovementIN, movs[1].Type)
}

func TestOrder_ConfirmarSinStock(t *testing.T) {
	uc, s := newOrderUC(t)
	s.Stock.Seed(testProduct, testBranch, decimal.NewFromInt(3))

	order := createOrder(t, uc, 5)
	err := uc.ConfirmOrder(context.Background(), testCompany, testUser, order.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, s.Movements.All(), "una confirmación fallida no deja asientos")
}

// Confirmar dos veces: la segunda encuentra el pedido fuera de DRAFT/QUOTE.
func TestOrder_ConfirmarDosVeces(t *testing.T) {
	uc, s := newOrderUC(t)
	s.Stock.Seed(testProduct, testBranch, decimal.NewFromInt(20))
	ctx := context.Background()

	order := createOrder(t, uc, 5)
	require.NoError(t, uc.ConfirmOrder(ctx, testCompany, testUser, order.ID))

	err := uc.ConfirmOrder(ctx, testCompany, testUser, order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.True(t, stockOf(t, s).Equal(decimal.NewFromInt(15)), "no hay doble descuento")
}

func TestOrder_CancelarBorrador(t *testing.T) {
	uc, _ := newOrderUC(t)

	order := createOrder(t, uc, 5)
	// Un DRAFT nunca descontó stock: no hay nada que devolver.
	err := uc.CancelOrder(context.Background(), testCompany, testUser, order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// Las líneas de productos sin inventario (servicios) no generan movimientos.
func TestOrder_LineaSinInventario(t *testing.T) {
	uc, s := newOrderUC(t)
	s.Stock.Seed(testProduct, testBranch, decimal.NewFromInt(10))
	require.NoError(t, s.Products.Create(&entity.Product{
		ID: "servicio", CompanyID: testCompany, TracksInventory: false,
	}))
	ctx := context.Background()

	order, err := uc.CreateOrder(ctx, sales.CreateOrderInput{
		CompanyID: testCompany, UserID: testUser, BranchID: testBranch,
		Lines: []sales.OrderLineInput{
			{ProductID: testProduct, Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(100)},
			{ProductID: "servicio", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)

	require.NoError(t, uc.ConfirmOrder(ctx, testCompany, testUser, order.ID))
	movs, err := s.Movements.ListByReference(order.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1, "solo la línea inventariable mueve kardex")
	assert.Equal(t, testProduct, movs[0].ProductID)
}

func TestOrder_OtraEmpresa(t *testing.T) {
	uc, _ := newOrderUC(t)

	order := createOrder(t, uc, 1)
	err := uc.ConfirmOrder(context.Background(), "empresa-ajena", testUser, order.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
