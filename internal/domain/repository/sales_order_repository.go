package repository

import "github.com/tu-usuario/kardex-pro/internal/domain/entity"

// SalesOrderRepository persiste pedidos de venta con sus líneas.
type SalesOrderRepository interface {
	Create(o *entity.SalesOrder) error
	GetByID(id string) (*entity.SalesOrder, error)
	// UpdateStatus cambia el estado solo si el actual es `from` (guardia de
	// transición a nivel de fila). Devuelve domain.ErrInvalidState si la fila
	// ya no estaba en `from` y domain.ErrNotFound si no existe.
	UpdateStatus(id, from, to string) error
}
