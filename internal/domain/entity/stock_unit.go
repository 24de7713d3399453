package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockUnit representa el stock actual de un producto en una sucursal.
// Es una vista materializada sobre los movimientos: la cantidad cacheada
// debe coincidir siempre con la suma de los movimientos del par
// (producto, sucursal). Solo el ledger la escribe.
type StockUnit struct {
	ProductID string
	BranchID  string
	Quantity  decimal.Decimal // con signo; puede ser negativa por ajustes
	UpdatedAt time.Time
}
