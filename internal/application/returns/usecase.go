package returns

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

// ReturnUseCase devoluciones de cliente sobre ventas POS. El ingreso al
// kardex ocurre al aprobar (PENDING → APPROVED); cada movimiento referencia
// la devolución, no la venta original.
type ReturnUseCase struct {
	txRunner    TxRunner
	returnRepo  repository.SalesReturnRepository
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
}

// NewReturnUseCase construye el caso de uso.
func NewReturnUseCase(
	txRunner TxRunner,
	returnRepo repository.SalesReturnRepository,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
) *ReturnUseCase {
	return &ReturnUseCase{
		txRunner:    txRunner,
		returnRepo:  returnRepo,
		saleRepo:    saleRepo,
		productRepo: productRepo,
	}
}

// ReturnLineInput línea de devolución.
type ReturnLineInput struct {
	ProductID string
	Quantity  decimal.Decimal
}

// CreateReturnInput entrada para crear una devolución en PENDING.
type CreateReturnInput struct {
	CompanyID string
	UserID    string
	SaleID    string
	Reason    string
	Lines     []ReturnLineInput
}

// CreateReturn crea la devolución en PENDING validando contra la venta
// original: cada cantidad devuelta no puede exceder la vendida.
func (uc *ReturnUseCase) CreateReturn(ctx context.Context, in CreateReturnInput) (*entity.SalesReturn, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	sale, err := uc.saleRepo.GetByID(in.SaleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.CompanyID != in.CompanyID {
		return nil, domain.ErrForbidden
	}
	if sale.Status != entity.SaleStatusCompleted {
		return nil, domain.ErrInvalidState
	}

	now := time.Now()
	ret := &entity.SalesReturn{
		ID:        uuid.New().String(),
		CompanyID: in.CompanyID,
		BranchID:  sale.BranchID,
		SaleID:    sale.ID,
		Status:    entity.ReturnStatusPending,
		Reason:    in.Reason,
		CreatedBy: in.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, line := range in.Lines {
		if !line.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if line.Quantity.GreaterThan(sale.QuantitySold(line.ProductID)) {
			return nil, domain.ErrInvalidInput
		}
		ret.Lines = append(ret.Lines, entity.SalesReturnLine{
			ID:        uuid.New().String(),
			ReturnID:  ret.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}
	if err := uc.returnRepo.Create(ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// ApproveReturn aprueba la devolución (PENDING → APPROVED) e ingresa un IN
// por línea inventariable, en una transacción. Revalida las cantidades
// contra la venta por si la devolución quedó creada antes de una anulación.
func (uc *ReturnUseCase) ApproveReturn(ctx context.Context, companyID, userID, returnID string) error {
	ret, err := uc.returnRepo.GetByID(returnID)
	if err != nil {
		return err
	}
	if ret == nil {
		return domain.ErrNotFound
	}
	if ret.CompanyID != companyID {
		return domain.ErrForbidden
	}
	if ret.Status != entity.ReturnStatusPending {
		return domain.ErrInvalidState
	}
	sale, err := uc.saleRepo.GetByID(ret.SaleID)
	if err != nil {
		return err
	}
	if sale == nil {
		return domain.ErrNotFound
	}
	if sale.Status != entity.SaleStatusCompleted {
		return domain.ErrInvalidState
	}

	tracked := make(map[string]bool, len(ret.Lines))
	for _, line := range ret.Lines {
		if line.Quantity.GreaterThan(sale.QuantitySold(line.ProductID)) {
			return domain.ErrInvalidInput
		}
		if _, ok := tracked[line.ProductID]; ok {
			continue
		}
		product, err := uc.productRepo.GetByID(line.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		tracked[line.ProductID] = product.TracksInventory
	}

	return ledger.WithRetry(ctx, func() error {
		return uc.txRunner.RunReturns(ctx, func(
			movRepo repository.MovementRepository,
			stockRepo repository.StockUnitRepository,
			returnRepo repository.SalesReturnRepository,
		) error {
			if err := returnRepo.UpdateStatus(ret.ID, entity.ReturnStatusPending, entity.ReturnStatusApproved); err != nil {
				return err
			}
			now := time.Now()
			for _, line := range ret.Lines {
				if !tracked[line.ProductID] {
					continue
				}
				if _, err := ledger.ApplyInTx(movRepo, stockRepo, ledger.ApplyInput{
					ProductID:   line.ProductID,
					BranchID:    ret.BranchID,
					Type:        entity.MovementIN,
					Quantity:    line.Quantity,
					Reason:      "devolución aprobada " + ret.ID,
					ReferenceID: ret.ID,
					ActorID:     userID,
					Now:         now,
				}); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// GetReturn obtiene la devolución con sus líneas.
func (uc *ReturnUseCase) GetReturn(companyID, returnID string) (*entity.SalesReturn, error) {
	ret, err := uc.returnRepo.GetByID(returnID)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, domain.ErrNotFound
	}
	if ret.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return ret, nil
}

// RejectReturn rechaza la devolución (PENDING → REJECTED) sin tocar el ledger.
func (uc *ReturnUseCase) RejectReturn(ctx context.Context, companyID, userID, returnID string) error {
	ret, err := uc.returnRepo.GetByID(returnID)
	if err != nil {
		return err
	}
	if ret == nil {
		return domain.ErrNotFound
	}
	if ret.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return uc.returnRepo.UpdateStatus(ret.ID, entity.ReturnStatusPending, entity.ReturnStatusRejected)
}
