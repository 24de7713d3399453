package purchasing

import (
	"context"

	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

// TxRunner transacción para la recepción de compras: el cambio de estado y
// los ingresos al kardex se confirman juntos o ninguno.
type TxRunner interface {
	RunPurchasing(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockUnitRepository,
		purchaseRepo repository.PurchaseOrderRepository,
	) error) error
}
