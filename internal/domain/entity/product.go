package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo (multi-sucursal).
// TracksInventory indica si el producto mueve kardex: los adaptadores lo
// consultan antes de registrar movimientos; servicios y cargos no lo hacen.
type Product struct {
	ID              string
	CompanyID       string
	SKU             string // código único por empresa
	Name            string
	Description     string
	Price           decimal.Decimal // precio de venta
	Cost            decimal.Decimal
	TracksInventory bool
	UnitMeasure     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
