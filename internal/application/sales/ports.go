package sales

import (
	"context"

	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

// TxRunner transacción para operaciones de pedidos: movimientos, stock y el
// pedido mismo se confirman juntos o ninguno (un pedido de varias líneas es
// todo-o-nada).
type TxRunner interface {
	RunSales(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockUnitRepository,
		orderRepo repository.SalesOrderRepository,
	) error) error
}
