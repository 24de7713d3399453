package pos

import (
	"context"

	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

// TxRunner transacción para operaciones POS: la venta, sus pagos y los
// movimientos de kardex se confirman juntos o ninguno.
type TxRunner interface {
	RunPOS(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockUnitRepository,
		saleRepo repository.SaleRepository,
	) error) error
}
