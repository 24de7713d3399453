package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra.
const (
	PurchaseStatusPending   = "PENDING"
	PurchaseStatusReceived  = "RECEIVED"
	PurchaseStatusCancelled = "CANCELLED"
)

// PurchaseOrderLine es una línea de orden de compra.
type PurchaseOrderLine struct {
	ID         string
	PurchaseID string
	ProductID  string
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
}

// PurchaseOrder representa una orden de compra a proveedor. El ingreso al
// kardex ocurre una sola vez, en la transición PENDING → RECEIVED; volver a
// guardar una orden ya recibida no puede duplicar entradas.
type PurchaseOrder struct {
	ID         string
	CompanyID  string
	BranchID   string
	SupplierID string
	Status     string
	Lines      []PurchaseOrderLine
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
