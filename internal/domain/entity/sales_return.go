package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una devolución de venta.
const (
	ReturnStatusPending  = "PENDING"
	ReturnStatusApproved = "APPROVED"
	ReturnStatusRejected = "REJECTED"
)

// SalesReturnLine es una línea de devolución. Quantity nunca puede exceder
// lo vendido del mismo producto en la venta original.
type SalesReturnLine struct {
	ID        string
	ReturnID  string
	ProductID string
	Quantity  decimal.Decimal
}

// SalesReturn representa una devolución de cliente sobre una venta. El
// ingreso al kardex ocurre al aprobar; cada movimiento referencia la
// devolución, no la venta original.
type SalesReturn struct {
	ID        string
	CompanyID string
	BranchID  string
	SaleID    string
	Status    string
	Reason    string
	Lines     []SalesReturnLine
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}
