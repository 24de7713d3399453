package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockTakeStatus son los estados de una toma física de inventario.
type StockTakeStatus string

const (
	StockTakeInProgress StockTakeStatus = "IN_PROGRESS"
	StockTakeCompleted  StockTakeStatus = "COMPLETED"
	StockTakeCancelled  StockTakeStatus = "CANCELLED"
)

// CanTransitionTo reporta si el estado permite pasar al estado destino.
// COMPLETED y CANCELLED son terminales.
func (s StockTakeStatus) CanTransitionTo(target StockTakeStatus) bool {
	if s != StockTakeInProgress {
		return false
	}
	return target == StockTakeCompleted || target == StockTakeCancelled
}

// StockTakeItem es una línea de la toma: la foto del sistema al crear la
// toma y el conteo físico. CountedQty es nil hasta que alguien cuenta;
// un ítem sin contar se omite al aplicar (no se asume cero).
type StockTakeItem struct {
	ID          string
	StockTakeID string
	ProductID   string
	SystemQty   decimal.Decimal
	CountedQty  *decimal.Decimal
	Difference  decimal.Decimal // CountedQty - SystemQty, solo válida si CountedQty != nil
	CountedAt   *time.Time
}

// Counted reporta si el ítem ya fue contado.
func (i *StockTakeItem) Counted() bool {
	return i.CountedQty != nil
}

// RecordCount registra el conteo físico y recalcula la diferencia.
func (i *StockTakeItem) RecordCount(countedQty decimal.Decimal, now time.Time) {
	qty := countedQty
	i.CountedQty = &qty
	i.Difference = qty.Sub(i.SystemQty)
	i.CountedAt = &now
}

// StockTake representa una toma física de inventario por sucursal: snapshot
// de las unidades con cantidad > 0 al crearla, conteos incrementales, y al
// aplicar un ADJ por cada ítem contado con diferencia distinta de cero.
// Una vez COMPLETED o CANCELLED es inmutable.
type StockTake struct {
	ID        string
	CompanyID string
	BranchID  string
	Status    StockTakeStatus
	Items     []StockTakeItem
	CreatedBy string
	CreatedAt time.Time
	ClosedAt  *time.Time // fecha de aplicación o cancelación
}

// FindItem devuelve el ítem con ese id, o nil si no existe.
func (st *StockTake) FindItem(itemID string) *StockTakeItem {
	for i := range st.Items {
		if st.Items[i].ID == itemID {
			return &st.Items[i]
		}
	}
	return nil
}

// PendingAdjustments devuelve los ítems contados con diferencia distinta de
// cero: exactamente los que generan un ADJ al aplicar la toma.
func (st *StockTake) PendingAdjustments() []StockTakeItem {
	var out []StockTakeItem
	for _, it := range st.Items {
		if it.Counted() && !it.Difference.IsZero() {
			out = append(out, it)
		}
	}
	return out
}
