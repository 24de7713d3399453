package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/kardex-pro/internal/application/ledger"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/testutil"
)

// ──────────────────────────────────────────────────────────────────────────────
// ApplyInTx: la única vía de escritura del ledger
// ──────────────────────────────────────────────────────────────────────────────

func apply(t *testing.T, s *testutil.Store, typ entity.MovementType, qty int64) *entity.Movement {
	t.Helper()
	mov, err := ledger.ApplyInTx(s.Movements, s.Stock, ledger.ApplyInput{
		ProductID: "p1",
		BranchID:  "b1",
		Type:      typ,
		Quantity:  decimal.NewFromInt(qty),
	})
	require.NoError(t, err)
	return mov
}

// Cada asiento captura previous/new y el cache queda igual a la suma de la
// cadena: new_stock de un movimiento == previous_stock del siguiente.
func TestApplyInTx_CadenaDeMovimientos(t *testing.T) {
	s := testutil.NewStore()

	m1 := apply(t, s, entity.MovementIN, 10)
	m2 := apply(t, s, entity.MovementOUT, 3)
	m3, err := ledger.ApplyInTx(s.Movements, s.Stock, ledger.ApplyInput{
		ProductID: "p1", BranchID: "b1",
		Type: entity.MovementADJ, Quantity: decimal.NewFromInt(-2),
	})
	require.NoError(t, err)

	assert.True(t, m1.PreviousStock.IsZero())
	assert.True(t, m1.NewStock.Equal(decimal.NewFromInt(10)))
	assert.True(t, m2.PreviousStock.Equal(m1.NewStock))
	assert.True(t, m2.NewStock.Equal(decimal.NewFromInt(7)))
	assert.True(t, m3.PreviousStock.Equal(m2.NewStock))
	assert.True(t, m3.NewStock.Equal(decimal.NewFromInt(5)))

	unit, err := s.Stock.Get("p1", "b1")
	require.NoError(t, err)
	assert.True(t, unit.Quantity.Equal(decimal.NewFromInt(5)), "el cache debe igualar la suma de la cadena")
}

// Round-trip: IN x seguido de OUT x deja la cantidad exactamente como estaba.
func TestApplyInTx_RoundTrip(t *testing.T) {
	s := testutil.NewStore()
	s.Stock.Seed("p1", "b1", decimal.NewFromInt(20))

	apply(t, s, entity.MovementIN, 7)
	apply(t, s, entity.MovementOUT, 7)

	unit, err := s.Stock.Get("p1", "b1")
	require.NoError(t, err)
	assert.True(t, unit.Quantity.Equal(decimal.NewFromInt(20)))
}

// La cantidad lleva el signo del tipo en el asiento persistido.
func TestApplyInTx_CantidadConSigno(t *testing.T) {
	s := testutil.NewStore()

	in := apply(t, s, entity.MovementIN, 4)
	out := apply(t, s, entity.MovementOUT, 3)

	assert.True(t, in.Quantity.Equal(decimal.NewFromInt(4)))
	assert.True(t, out.Quantity.Equal(decimal.NewFromInt(-3)))
}

func TestApplyInTx_Validaciones(t *testing.T) {
	s := testutil.NewStore()

	cases := []struct {
		name string
		in   ledger.ApplyInput
	}{
		{"tipo desconocido", ledger.ApplyInput{ProductID: "p1", BranchID: "b1", Type: "XX", Quantity: decimal.NewFromInt(1)}},
		{"IN cantidad cero", ledger.ApplyInput{ProductID: "p1", BranchID: "b1", Type: entity.MovementIN, Quantity: decimal.Zero}},
		{"OUT cantidad negativa", ledger.ApplyInput{ProductID: "p1", BranchID: "b1", Type: entity.MovementOUT, Quantity: decimal.NewFromInt(-2)}},
		{"ADJ cero", ledger.ApplyInput{ProductID: "p1", BranchID: "b1", Type: entity.MovementADJ, Quantity: decimal.Zero}},
		{"sin producto", ledger.ApplyInput{BranchID: "b1", Type: entity.MovementIN, Quantity: decimal.NewFromInt(1)}},
		{"sin sucursal", ledger.ApplyInput{ProductID: "p1", Type: entity.MovementIN, Quantity: decimal.NewFromInt(1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ledger.ApplyInTx(s.Movements, s.Stock, tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, s.Movements.All(), "una entrada inválida no debe dejar asientos")
}

// ADJ puede dejar la cantidad negativa: el ledger registra la realidad que
// le reportan, la política de stock mínimo vive en los adaptadores.
func TestApplyInTx_AjusteNegativoPermitido(t *testing.T) {
	s := testutil.NewStore()
	s.Stock.Seed("p1", "b1", decimal.NewFromInt(2))

	mov, err := ledger.ApplyInTx(s.Movements, s.Stock, ledger.ApplyInput{
		ProductID: "p1", BranchID: "b1",
		Type: entity.MovementADJ, Quantity: decimal.NewFromInt(-5),
	})
	require.NoError(t, err)
	assert.True(t, mov.NewStock.Equal(decimal.NewFromInt(-3)))
}

// ──────────────────────────────────────────────────────────────────────────────
// WithRetry: reintento acotado ante conflictos de concurrencia
// ──────────────────────────────────────────────────────────────────────────────

func TestWithRetry_ReintentaSoloConcurrencia(t *testing.T) {
	attempts := 0
	err := ledger.WithRetry(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return domain.ErrConcurrency
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetry_SeAgota(t *testing.T) {
	attempts := 0
	err := ledger.WithRetry(context.Background(), func() error {
		attempts++
		return domain.ErrConcurrency
	})
	assert.ErrorIs(t, err, domain.ErrConcurrency)
	assert.Equal(t, 3, attempts)
}

func TestWithRetry_OtroErrorCortaInmediato(t *testing.T) {
	boom := fmt.Errorf("boom: %w", errors.New("db down"))
	attempts := 0
	err := ledger.WithRetry(context.Background(), func() error {
		attempts++
		return boom
	})
	assert.Equal(t, boom, err)
	assert.Equal(t, 1, attempts)
}
