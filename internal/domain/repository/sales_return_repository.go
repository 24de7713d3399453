package repository

import "github.com/tu-usuario/kardex-pro/internal/domain/entity"

// SalesReturnRepository persiste devoluciones de venta con sus líneas.
type SalesReturnRepository interface {
	Create(r *entity.SalesReturn) error
	GetByID(id string) (*entity.SalesReturn, error)
	// UpdateStatus cambia el estado solo si el actual es `from`.
	UpdateStatus(id, from, to string) error
}
