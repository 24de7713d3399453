package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

// RegisterMovementUseCase registra movimientos manuales de kardex
// (recepción directa, daño, obsequio, ajuste de operador) de forma
// transaccional, con la fila de stock bloqueada.
type RegisterMovementUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	branchRepo  repository.BranchRepository
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		branchRepo:  branchRepo,
	}
}

// ManualMovementInput entrada para registrar un movimiento manual.
// Type solo admite IN, OUT o ADJ: TRF no se expone hasta que el traslado
// entre sucursales tenga un modelo completo (hoy solo decrementa el origen).
type ManualMovementInput struct {
	CompanyID string
	UserID    string
	ProductID string
	BranchID  string
	Type      entity.MovementType
	Quantity  decimal.Decimal
	Reason    string
}

// RegisterMovement valida producto y sucursal, y aplica el movimiento en su
// propia transacción con reintento acotado ante conflicto de concurrencia.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, in ManualMovementInput) (*entity.Movement, error) {
	switch in.Type {
	case entity.MovementIN, entity.MovementOUT:
		if !in.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	case entity.MovementADJ:
		if in.Quantity.IsZero() {
			return nil, domain.ErrInvalidInput
		}
	default:
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != in.CompanyID {
		return nil, domain.ErrForbidden
	}
	if !product.TracksInventory {
		return nil, domain.ErrInvalidInput
	}
	branch, err := uc.branchRepo.GetByID(in.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil || branch.CompanyID != in.CompanyID {
		return nil, domain.ErrNotFound
	}

	var mov *entity.Movement
	err = WithRetry(ctx, func() error {
		return uc.txRunner.Run(ctx, func(
			movRepo repository.MovementRepository,
			stockRepo repository.StockUnitRepository,
		) error {
			var applyErr error
			mov, applyErr = ApplyInTx(movRepo, stockRepo, ApplyInput{
				ProductID: in.ProductID,
				BranchID:  in.BranchID,
				Type:      in.Type,
				Quantity:  in.Quantity,
				Reason:    in.Reason,
				ActorID:   in.UserID,
				Now:       time.Now(),
			})
			return applyErr
		})
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}
