package repository

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
)

// SessionPaymentTotals es el desglose de pagos de una sesión de caja,
// consultado por el arqueo al cerrar o reabrir.
type SessionPaymentTotals struct {
	Cash    decimal.Decimal
	Card    decimal.Decimal
	Credit  decimal.Decimal
	TxCount int
}

// SaleRepository persiste ventas POS con líneas y pagos.
type SaleRepository interface {
	Create(s *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
	// UpdateStatus cambia el estado solo si el actual es `from`; ver
	// SalesOrderRepository.UpdateStatus.
	UpdateStatus(id, from, to string) error
	// SumCashBySession suma los pagos CASH ligados a una sesión de caja.
	SumCashBySession(sessionID string) (decimal.Decimal, error)
	// PaymentTotalsBySession devuelve el desglose cash/card/credit y el
	// número de ventas con pagos ligados a la sesión.
	PaymentTotalsBySession(sessionID string) (*SessionPaymentTotals, error)
}
