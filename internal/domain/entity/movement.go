package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType es la variante cerrada de tipos de movimiento de kardex.
// La convención de signos se fuerza aquí y no en cada caller.
type MovementType string

const (
	MovementIN  MovementType = "IN"  // entrada: delta positivo
	MovementOUT MovementType = "OUT" // salida: delta negativo
	MovementADJ MovementType = "ADJ" // ajuste: delta con el signo que trae el caller
	MovementTRF MovementType = "TRF" // traslado: hoy solo decrementa la sucursal origen
)

// IsValid reporta si el tipo es uno de los cuatro conocidos.
func (t MovementType) IsValid() bool {
	switch t {
	case MovementIN, MovementOUT, MovementADJ, MovementTRF:
		return true
	}
	return false
}

// ApplySign convierte la cantidad del caller en el delta con signo que se
// aplica al stock. Para IN/OUT/TRF la cantidad es una magnitud (> 0) y el
// signo lo pone el tipo; para ADJ la cantidad ya viene con signo.
func (t MovementType) ApplySign(quantity decimal.Decimal) decimal.Decimal {
	switch t {
	case MovementIN:
		return quantity
	case MovementOUT, MovementTRF:
		return quantity.Neg()
	default: // ADJ
		return quantity
	}
}

// Movement es un asiento inmutable del kardex. Se crea una vez y nunca se
// actualiza ni se borra: la historia completa del par (producto, sucursal)
// debe poder reproducir la cantidad cacheada en StockUnit.
// Invariante: NewStock = PreviousStock + Quantity, sin excepción.
type Movement struct {
	ID            string
	ProductID     string
	BranchID      string
	Type          MovementType
	Quantity      decimal.Decimal // delta con signo realmente aplicado
	PreviousStock decimal.Decimal // foto del stock antes de aplicar
	NewStock      decimal.Decimal // foto del stock después de aplicar
	ReferenceID   string          // id opaco del objeto de negocio que disparó el movimiento
	Reason        string
	CreatedBy     string
	CreatedAt     time.Time
}
