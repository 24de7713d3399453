package repository

import "github.com/tu-usuario/kardex-pro/internal/domain/entity"

// StockTakeRepository persiste tomas de inventario con sus ítems.
type StockTakeRepository interface {
	Create(st *entity.StockTake) error
	GetByID(id string) (*entity.StockTake, error)
	// UpdateItem persiste el conteo de un ítem (CountedQty, Difference, CountedAt).
	UpdateItem(item *entity.StockTakeItem) error
	// UpdateStatus cambia el estado solo si el actual es `from`; la segunda
	// aplicación de una toma falla aquí sin generar movimientos.
	UpdateStatus(id string, from, to entity.StockTakeStatus) error
}
