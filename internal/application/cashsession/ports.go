package cashsession

import (
	"context"

	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

// TxRunner transacción para cierre y reapertura de sesiones: el estado de la
// sesión y su registro de auditoría se confirman juntos o ninguno.
type TxRunner interface {
	RunSession(ctx context.Context, fn func(
		sessionRepo repository.CashSessionRepository,
		saleRepo repository.SaleRepository,
	) error) error
}
