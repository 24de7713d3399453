package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta POS. Nace COMPLETED (el checkout descuenta stock en
// la misma operación que crea la venta) y solo puede pasar a CANCELLED.
const (
	SaleStatusCompleted = "COMPLETED"
	SaleStatusCancelled = "CANCELLED"
)

// Métodos de pago de una venta POS.
const (
	PaymentMethodCash   = "CASH"
	PaymentMethodCard   = "CARD"
	PaymentMethodCredit = "CREDIT"
)

// ValidPaymentMethod reporta si el método es uno de los conocidos.
func ValidPaymentMethod(method string) bool {
	switch method {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodCredit:
		return true
	}
	return false
}

// SaleLine es una línea de venta POS.
type SaleLine struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// Payment es un pago registrado contra una venta. Los pagos CASH quedan
// ligados a la sesión de caja abierta del cajero: son los eventos que el
// arqueo suma para derivar el monto esperado.
type Payment struct {
	ID        string
	SaleID    string
	SessionID string // vacío para métodos distintos de CASH
	Method    string
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// Sale representa una venta de punto de venta con sus líneas y pagos.
type Sale struct {
	ID        string
	CompanyID string
	BranchID  string
	Status    string
	Lines     []SaleLine
	Payments  []Payment
	Total     decimal.Decimal
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasCreditPayment reporta si la venta fue liquidada (total o parcialmente)
// a crédito. Esas ventas no se anulan por inventario: la reversión
// financiera va por cartera.
func (s *Sale) HasCreditPayment() bool {
	for _, p := range s.Payments {
		if p.Method == PaymentMethodCredit {
			return true
		}
	}
	return false
}

// QuantitySold devuelve la cantidad vendida de un producto en la venta
// (suma de líneas). Cero si el producto no aparece.
func (s *Sale) QuantitySold(productID string) decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.Lines {
		if l.ProductID == productID {
			total = total.Add(l.Quantity)
		}
	}
	return total
}
