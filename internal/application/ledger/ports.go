package ledger

import (
	"context"

	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad del read-modify-write
// del ledger: nadie observa la unidad de stock actualizada sin su asiento.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockUnitRepository,
	) error) error
}
