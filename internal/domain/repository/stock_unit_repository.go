package repository

import "github.com/tu-usuario/kardex-pro/internal/domain/entity"

// StockUnitRepository persiste la cantidad cacheada por (producto, sucursal).
// Solo el ledger escribe aquí.
type StockUnitRepository interface {
	// Get devuelve la unidad; si nunca fue tocada devuelve una con cantidad 0.
	Get(productID, branchID string) (*entity.StockUnit, error)
	// GetForUpdate crea la unidad con cantidad 0 si no existe y bloquea la
	// fila (SELECT ... FOR UPDATE) hasta el fin de la transacción. Serializa
	// el read-modify-write de escritores concurrentes sobre la misma unidad.
	GetForUpdate(productID, branchID string) (*entity.StockUnit, error)
	Upsert(unit *entity.StockUnit) error
	// ListPositiveByBranch devuelve las unidades con cantidad > 0 de una
	// sucursal (snapshot para la toma de inventario).
	ListPositiveByBranch(branchID string) ([]*entity.StockUnit, error)
}
