package entity

import "time"

// Branch representa una sucursal (tienda o bodega) donde vive el inventario
// y operan las cajas. El par (producto, sucursal) identifica una unidad de stock.
type Branch struct {
	ID        string
	CompanyID string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
