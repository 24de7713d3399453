package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un pedido de venta.
const (
	OrderStatusDraft      = "DRAFT"
	OrderStatusQuote      = "QUOTE"
	OrderStatusConfirmed  = "CONFIRMED"
	OrderStatusDispatched = "DISPATCHED"
	OrderStatusCancelled  = "CANCELLED"
)

// SalesOrderLine es una línea de pedido. La cantidad es una magnitud > 0;
// el signo del movimiento lo decide la transición (confirmar = OUT, cancelar = IN).
type SalesOrderLine struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// SalesOrder representa un pedido de venta. El stock se descuenta al
// confirmar, no al crear el borrador; cancelar un pedido confirmado o
// despachado devuelve lo descontado.
type SalesOrder struct {
	ID         string
	CompanyID  string
	BranchID   string
	CustomerID string
	Status     string
	Lines      []SalesOrderLine
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CanConfirm reporta si el pedido está en un estado desde el que se puede confirmar.
func (o *SalesOrder) CanConfirm() bool {
	return o.Status == OrderStatusDraft || o.Status == OrderStatusQuote
}

// CanCancel reporta si el pedido está en un estado que ya descontó stock y
// por tanto su cancelación debe devolverlo.
func (o *SalesOrder) CanCancel() bool {
	return o.Status == OrderStatusConfirmed || o.Status == OrderStatusDispatched
}
