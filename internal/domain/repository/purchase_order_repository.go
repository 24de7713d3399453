package repository

import "github.com/tu-usuario/kardex-pro/internal/domain/entity"

// PurchaseOrderRepository persiste órdenes de compra con sus líneas.
type PurchaseOrderRepository interface {
	Create(p *entity.PurchaseOrder) error
	GetByID(id string) (*entity.PurchaseOrder, error)
	// UpdateStatus cambia el estado solo si el actual es `from`. Es la
	// guardia de idempotencia de la recepción: la segunda recepción no
	// encuentra la fila en PENDING y falla sin tocar el kardex.
	UpdateStatus(id, from, to string) error
}
