package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

// ApplyInput describe un movimiento a aplicar sobre el ledger.
// Para IN/OUT/TRF Quantity es una magnitud > 0 (el signo lo fuerza el tipo);
// para ADJ Quantity es el delta con signo y no puede ser cero.
type ApplyInput struct {
	ProductID   string
	BranchID    string
	Type        entity.MovementType
	Quantity    decimal.Decimal
	Reason      string
	ReferenceID string
	ActorID     string
	Now         time.Time
}

// ApplyInTx es la única vía de escritura sobre stock_units y movements.
// Ejecuta el read-modify-write con la fila de stock bloqueada (el repo crea
// la unidad con cantidad 0 si no existe y la bloquea con FOR UPDATE):
//
//	previous = unidad.Quantity
//	delta    = tipo.ApplySign(quantity)
//	new      = previous + delta
//
// actualiza la unidad y agrega el asiento con la foto previous/new tomada en
// ese instante. Debe invocarse dentro de la transacción del caller; el
// TxRunner garantiza que unidad y asiento se confirman juntos o ninguno.
func ApplyInTx(
	movRepo repository.MovementRepository,
	stockRepo repository.StockUnitRepository,
	in ApplyInput,
) (*entity.Movement, error) {
	if !in.Type.IsValid() {
		return nil, domain.ErrInvalidInput
	}
	switch in.Type {
	case entity.MovementADJ:
		// Un ajuste cero es un no-op: los callers deben filtrarlo, no el
		// ledger absorberlo en silencio.
		if in.Quantity.IsZero() {
			return nil, domain.ErrInvalidInput
		}
	default:
		if !in.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}
	if in.ProductID == "" || in.BranchID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	unit, err := stockRepo.GetForUpdate(in.ProductID, in.BranchID)
	if err != nil {
		return nil, err
	}
	delta := in.Type.ApplySign(in.Quantity)
	previous := unit.Quantity
	unit.Quantity = previous.Add(delta)
	unit.UpdatedAt = now
	if err := stockRepo.Upsert(unit); err != nil {
		return nil, err
	}

	mov := &entity.Movement{
		ID:            uuid.New().String(),
		ProductID:     in.ProductID,
		BranchID:      in.BranchID,
		Type:          in.Type,
		Quantity:      delta,
		PreviousStock: previous,
		NewStock:      unit.Quantity,
		ReferenceID:   in.ReferenceID,
		Reason:        in.Reason,
		CreatedBy:     in.ActorID,
		CreatedAt:     now,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// maxConcurrencyRetries acota los reintentos ante ErrConcurrency en la capa
// de adaptadores antes de devolver el error al caller final.
const maxConcurrencyRetries = 3

// WithRetry reintenta fn mientras falle con domain.ErrConcurrency, hasta
// maxConcurrencyRetries intentos. Cualquier otro error corta de inmediato.
func WithRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < maxConcurrencyRetries; attempt++ {
		if err = fn(); !errors.Is(err, domain.ErrConcurrency) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
	return err
}
