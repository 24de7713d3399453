package returns

import (
	"context"

	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

// TxRunner transacción para la aprobación de devoluciones: el cambio de
// estado y los ingresos al kardex se confirman juntos o ninguno.
type TxRunner interface {
	RunReturns(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockUnitRepository,
		returnRepo repository.SalesReturnRepository,
	) error) error
}
