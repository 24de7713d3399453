package repository

import "github.com/tu-usuario/kardex-pro/internal/domain/entity"

// MovementRepository persiste asientos de kardex. Los movimientos son
// inmutables: solo hay Create y lecturas.
type MovementRepository interface {
	Create(m *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	// List lista movimientos del más reciente al más antiguo. productID y
	// branchID vacíos significan "sin filtro"; limit <= 0 usa el default.
	List(productID, branchID string, limit int) ([]*entity.Movement, error)
	// ListByReference lista los movimientos que referencian un objeto de
	// negocio (pedido, venta, compra, devolución, toma).
	ListByReference(referenceID string) ([]*entity.Movement, error)
}
