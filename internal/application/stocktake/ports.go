package stocktake

import (
	"context"

	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

// TxRunner transacción para aplicar una toma: todos los ADJ y el cambio a
// COMPLETED se confirman juntos o ninguno.
type TxRunner interface {
	RunStockTake(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockUnitRepository,
		takeRepo repository.StockTakeRepository,
	) error) error
}
