package stocktake

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/kardex-pro/internal/application/ledger"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

// StockTakeUseCase toma física de inventario: snapshot al crear, conteos
// incrementales mientras está IN_PROGRESS, y al aplicar un ADJ por cada ítem
// contado con diferencia distinta de cero.
type StockTakeUseCase struct {
	txRunner   TxRunner
	takeRepo   repository.StockTakeRepository
	stockRepo  repository.StockUnitRepository
	branchRepo repository.BranchRepository
}

// NewStockTakeUseCase construye el caso de uso.
func NewStockTakeUseCase(
	txRunner TxRunner,
	takeRepo repository.StockTakeRepository,
	stockRepo repository.StockUnitRepository,
	branchRepo repository.BranchRepository,
) *StockTakeUseCase {
	return &StockTakeUseCase{
		txRunner:   txRunner,
		takeRepo:   takeRepo,
		stockRepo:  stockRepo,
		branchRepo: branchRepo,
	}
}

// Create crea la toma en IN_PROGRESS con la foto de todas las unidades con
// cantidad > 0 de la sucursal. CountedQty nace nil: un ítem sin contar se
// omite al aplicar, no se asume cero.
func (uc *StockTakeUseCase) Create(ctx context.Context, companyID, userID, branchID string) (*entity.StockTake, error) {
	branch, err := uc.branchRepo.GetByID(branchID)
	if err != nil {
		return nil, err
	}
	if branch == nil || branch.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	units, err := uc.stockRepo.ListPositiveByBranch(branchID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	take := &entity.StockTake{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		BranchID:  branchID,
		Status:    entity.StockTakeInProgress,
		CreatedBy: userID,
		CreatedAt: now,
	}
	for _, unit := range units {
		take.Items = append(take.Items, entity.StockTakeItem{
			ID:          uuid.New().String(),
			StockTakeID: take.ID,
			ProductID:   unit.ProductID,
			SystemQty:   unit.Quantity,
		})
	}
	if err := uc.takeRepo.Create(take); err != nil {
		return nil, err
	}
	return take, nil
}

// CountInput conteo de un ítem de la toma.
type CountInput struct {
	ItemID     string
	CountedQty decimal.Decimal
}

// UpdateCounts registra conteos físicos sobre una toma IN_PROGRESS.
func (uc *StockTakeUseCase) UpdateCounts(ctx context.Context, companyID, takeID string, counts []CountInput) (*entity.StockTake, error) {
	take, err := uc.load(companyID, takeID)
	if err != nil {
		return nil, err
	}
	if take.Status != entity.StockTakeInProgress {
		return nil, domain.ErrInvalidState
	}
	now := time.Now()
	for _, c := range counts {
		if c.CountedQty.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item := take.FindItem(c.ItemID)
		if item == nil {
			return nil, domain.ErrNotFound
		}
		item.RecordCount(c.CountedQty, now)
		if err := uc.takeRepo.UpdateItem(item); err != nil {
			return nil, err
		}
	}
	return take, nil
}

// Apply aplica la toma: un ADJ con cantidad = diferencia por cada ítem
// contado con diferencia distinta de cero, y el paso a COMPLETED, todo en
// una transacción. Aplicar dos veces falla con ErrInvalidState en la
// guardia de estado y no genera ningún movimiento adicional.
func (uc *StockTakeUseCase) Apply(ctx context.Context, companyID, userID, takeID string) (*entity.StockTake, error) {
	take, err := uc.load(companyID, takeID)
	if err != nil {
		return nil, err
	}
	if !take.Status.CanTransitionTo(entity.StockTakeCompleted) {
		return nil, domain.ErrInvalidState
	}

	adjustments := take.PendingAdjustments()
	err = ledger.WithRetry(ctx, func() error {
		return uc.txRunner.RunStockTake(ctx, func(
			movRepo repository.MovementRepository,
			stockRepo repository.StockUnitRepository,
			takeRepo repository.StockTakeRepository,
		) error {
			if err := takeRepo.UpdateStatus(take.ID, entity.StockTakeInProgress, entity.StockTakeCompleted); err != nil {
				return err
			}
			now := time.Now()
			for _, item := range adjustments {
				if _, err := ledger.ApplyInTx(movRepo, stockRepo, ledger.ApplyInput{
					ProductID:   item.ProductID,
					BranchID:    take.BranchID,
					Type:        entity.MovementADJ,
					Quantity:    item.Difference,
					Reason:      "toma de inventario " + take.ID,
					ReferenceID: take.ID,
					ActorID:     userID,
					Now:         now,
				}); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	take.Status = entity.StockTakeCompleted
	now := time.Now()
	take.ClosedAt = &now
	return take, nil
}

// Cancel cancela la toma (IN_PROGRESS → CANCELLED) sin tocar el ledger.
func (uc *StockTakeUseCase) Cancel(ctx context.Context, companyID, takeID string) (*entity.StockTake, error) {
	take, err := uc.load(companyID, takeID)
	if err != nil {
		return nil, err
	}
	if !take.Status.CanTransitionTo(entity.StockTakeCancelled) {
		return nil, domain.ErrInvalidState
	}
	if err := uc.takeRepo.UpdateStatus(take.ID, entity.StockTakeInProgress, entity.StockTakeCancelled); err != nil {
		return nil, err
	}
	take.Status = entity.StockTakeCancelled
	now := time.Now()
	take.ClosedAt = &now
	return take, nil
}

// Get devuelve una toma de la empresa.
func (uc *StockTakeUseCase) Get(companyID, takeID string) (*entity.StockTake, error) {
	return uc.load(companyID, takeID)
}

func (uc *StockTakeUseCase) load(companyID, takeID string) (*entity.StockTake, error) {
	take, err := uc.takeRepo.GetByID(takeID)
	if err != nil {
		return nil, err
	}
	if take == nil {
		return nil, domain.ErrNotFound
	}
	if take.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return take, nil
}
