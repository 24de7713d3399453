package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una sesión de caja.
const (
	SessionStatusOpen   = "OPEN"
	SessionStatusClosed = "CLOSED"
)

// Tipos de registro de auditoría de una sesión.
const (
	SessionAuditClose  = "CLOSE"
	SessionAuditReopen = "REOPEN"
)

// SessionAuditRecord es un registro inmutable del historial de cierre y
// reapertura de una sesión. Se agregan en orden (Seq) y nunca se recortan:
// cerrar, reabrir y volver a cerrar deja tres registros.
type SessionAuditRecord struct {
	ID             string
	SessionID      string
	Seq            int
	Type           string // CLOSE | REOPEN
	ActorID        string
	Reason         string          // obligatoria en REOPEN; nota opcional en CLOSE
	CashTotal      decimal.Decimal // desglose de pagos al momento del registro
	CardTotal      decimal.Decimal
	CreditTotal    decimal.Decimal
	TxCount        int
	ExpectedAmount decimal.Decimal
	CountedAmount  decimal.Decimal
	OverShort      decimal.Decimal
	CreatedAt      time.Time
}

// CashSession representa una apertura de caja de un cajero en una sucursal.
// Mientras está OPEN el monto esperado se deriva:
// ExpectedAmount = OpeningAmount + Σ pagos CASH ligados a la sesión.
// OverShort = CountedAmount − ExpectedAmount y solo tiene sentido en CLOSED.
type CashSession struct {
	ID             string
	CompanyID      string
	BranchID       string
	UserID         string
	Status         string
	OpeningAmount  decimal.Decimal
	ExpectedAmount decimal.Decimal
	CountedAmount  decimal.Decimal
	OverShort      decimal.Decimal
	OpenedAt       time.Time
	ClosedAt       *time.Time
}

// IsOpen reporta si la sesión sigue abierta.
func (s *CashSession) IsOpen() bool {
	return s.Status == SessionStatusOpen
}
