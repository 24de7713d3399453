package cashsession_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/kardex-pro/internal/application/cashsession"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/testutil"
)

const (
	testCompany = "co-1"
	testBranch  = "br-1"
	testUser    = "us-1"
)

func newSessionUC(t *testing.T, policy cashsession.Policy) (*cashsession.SessionUseCase, *testutil.Store) {
	t.Helper()
	s := testutil.NewStore()
	require.NoError(t, s.Branches.Create(&entity.Branch{ID: testBranch, CompanyID: testCompany}))
	return cashsession.NewSessionUseCase(s.Runner(), s.Sessions, s.Sales, s.Branches, policy), s
}

// seedCashSale registra una venta COMPLETED con un pago CASH ligado a la sesión.
func seedCashSale(t *testing.T, s *testutil.Store, sessionID string, amount int64) {
	t.Helper()
	saleID := uuid.New().String()
	now := time.Now()
	require.NoError(t, s.Sales.Create(&entity.Sale{
		ID:        saleID,
		CompanyID: testCompany,
		BranchID:  testBranch,
		Status:    entity.SaleStatusCompleted,
		Total:     decimal.NewFromInt(amount),
		Payments: []entity.Payment{
			{ID: uuid.New().String(), SaleID: saleID, SessionID: sessionID, Method: entity.PaymentMethodCash, Amount: decimal.NewFromInt(amount), CreatedAt: now},
		},
		CreatedBy: testUser,
		CreatedAt: now,
		UpdatedAt: now,
	}))
}

func TestOpen_IdempotentePorCajero(t *testing.T) {
	uc, _ := newSessionUC(t, cashsession.Policy{})
	ctx := context.Background()

	first, err := uc.Open(ctx, testCompany, testUser, testBranch, decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Equal(t, entity.SessionStatusOpen, first.Status)
	assert.True(t, first.ExpectedAmount.Equal(decimal.NewFromInt(100)))

	// Abrir de nuevo con otro fondo devuelve la misma sesión sin cambios.
	second, err := uc.Open(ctx, testCompany, testUser, testBranch, decimal.NewFromInt(500))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.OpeningAmount.Equal(decimal.NewFromInt(100)))
}

func TestOpen_PoliticaUnaPorSucursal(t *testing.T) {
	uc, _ := newSessionUC(t, cashsession.Policy{SingleOpenPerBranch: true})
	ctx := context.Background()

	_, err := uc.Open(ctx, testCompany, testUser, testBranch, decimal.NewFromInt(100))
	require.NoError(t, err)

	// Otro cajero en la misma sucursal: la política lo rechaza.
	_, err = uc.Open(ctx, testCompany, "otro-cajero", testBranch, decimal.NewFromInt(50))
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestOpen_FondoNegativo(t *testing.T) {
	uc, _ := newSessionUC(t, cashsession.Policy{})

	_, err := uc.Open(context.Background(), testCompany, testUser, testBranch, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Esperado = fondo inicial + Σ pagos CASH de la sesión.
func TestExpected_DerivadoDePagos(t *testing.T) {
	uc, s := newSessionUC(t, cashsession.Policy{})
	ctx := context.Background()

	session, err := uc.Open(ctx, testCompany, testUser, testBranch, decimal.NewFromInt(100))
	require.NoError(t, err)

	seedCashSale(t, s, session.ID, 150)
	seedCashSale(t, s, session.ID, 100)

	expected, err := uc.Expected(ctx, testCompany, session.ID)
	require.NoError(t, err)
	assert.True(t, expected.Equal(decimal.NewFromInt(350)))
}

func TestClose_CalculaOverShort(t *testing.T) {
	uc, s := newSessionUC(t, cashsession.Policy{})
	ctx := context.Background()

	session, err := uc.Open(ctx, testCompany, testUser, testBranch, decimal.NewFromInt(100))
	require.NoError(t, err)
	seedCashSale(t, s, session.ID, 250)

	// Esperado 350, contado 340: faltante de 10.
	closed, err := uc.Close(ctx, testCompany, testUser, session.ID, decimal.NewFromInt(340), "cierre de turno")
	require.NoError(t, err)
	assert.Equal(t, entity.SessionStatusClosed, closed.Status)
	assert.True(t, closed.ExpectedAmount.Equal(decimal.NewFromInt(350)))
	assert.True(t, closed.OverShort.Equal(decimal.NewFromInt(-10)))
	require.NotNil(t, closed.ClosedAt)

	// El esperado queda congelado al cierre.
	expected, err := uc.Expected(ctx, testCompany, session.ID)
	require.NoError(t, err)
	assert.True(t, expected.Equal(decimal.NewFromInt(350)))

	_, audits, err := uc.Get(testCompany, session.ID)
	require.NoError(t, err)
	require.Len(t, audits, 1)
	assert.Equal(t, entity.SessionAuditClose, audits[0].Type)
	assert.True(t, audits[0].CashTotal.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, 1, audits[0].TxCount)
}

func TestClose_SesionYaCerrada(t *testing.T) {
	uc, _ := newSessionUC(t, cashsession.Policy{})
	ctx := context.Background()

	session, err := uc.Open(ctx, testCompany, testUser, testBranch, decimal.NewFromInt(100))
	require.NoError(t, err)
	_, err = uc.Close(ctx, testCompany, testUser, session.ID, decimal.NewFromInt(100), "")
	require.NoError(t, err)

	_, err = uc.Close(ctx, testCompany, testUser, session.ID, decimal.NewFromInt(100), "")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestReopen_ExigeRazonYRol(t *testing.T) {
	uc, _ := newSessionUC(t, cashsession.Policy{})
	ctx := context.Background()

	session, err := uc.Open(ctx, testCompany, testUser, testBranch, decimal.NewFromInt(100))
	require.NoError(t, err)
	_, err = uc.Close(ctx, testCompany, testUser, session.ID, decimal.NewFromInt(100), "")
	require.NoError(t, err)

	_, err = uc.Reopen(ctx, testCompany, testUser, entity.RoleAdmin, session.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Reopen(ctx, testCompany, testUser, entity.RoleVendedor, session.ID, "ajuste de arqueo")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// Cerrar, reabrir y volver a cerrar deja tres registros en orden; el
// historial nunca se recorta.
func TestReopen_HistorialCompleto(t *testing.T) {
	uc, s := newSessionUC(t, cashsession.Policy{})
	ctx := context.Background()

	session, err := uc.Open(ctx, testCompany, testUser, testBranch, decimal.NewFromInt(100))
	require.NoError(t, err)
	seedCashSale(t, s, session.ID, 250)

	_, err = uc.Close(ctx, testCompany, testUser, session.ID, decimal.NewFromInt(340), "")
	require.NoError(t, err)

	reopened, err := uc.Reopen(ctx, testCompany, "admin-1", entity.RoleAdmin, session.ID, "billete contado dos veces")
	require.NoError(t, err)
	assert.Equal(t, entity.SessionStatusOpen, reopened.Status)
	assert.Nil(t, reopened.ClosedAt)
	assert.True(t, reopened.CountedAmount.IsZero(), "el contado se resetea al reabrir")
	assert.True(t, reopened.OverShort.IsZero())
	assert.True(t, reopened.ExpectedAmount.Equal(decimal.NewFromInt(350)), "el esperado se recalcula con los pagos")

	_, err = uc.Close(ctx, testCompany, testUser, session.ID, decimal.NewFromInt(350), "segundo cierre")
	require.NoError(t, err)

	_, audits, err := uc.Get(testCompany, session.ID)
	require.NoError(t, err)
	require.Len(t, audits, 3)
	assert.Equal(t, entity.SessionAuditClose, audits[0].Type)
	assert.Equal(t, entity.SessionAuditReopen, audits[1].Type)
	assert.Equal(t, entity.SessionAuditClose, audits[2].Type)
	for i, rec := range audits {
		assert.Equal(t, i+1, rec.Seq)
	}

	// El REOPEN guarda la foto del cierre anterior.
	assert.True(t, audits[1].OverShort.Equal(decimal.NewFromInt(-10)))
	assert.Equal(t, "billete contado dos veces", audits[1].Reason)

	// El segundo cierre cuadra.
	assert.True(t, audits[2].OverShort.IsZero())
}

func TestReopen_SesionAbierta(t *testing.T) {
	uc, _ := newSessionUC(t, cashsession.Policy{})
	ctx := context.Background()

	session, err := uc.Open(ctx, testCompany, testUser, testBranch, decimal.NewFromInt(100))
	require.NoError(t, err)

	_, err = uc.Reopen(ctx, testCompany, testUser, entity.RoleAdmin, session.ID, "razón")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}
