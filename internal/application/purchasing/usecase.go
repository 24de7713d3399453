package purchasing

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

// PurchaseUseCase órdenes de compra. El ingreso al kardex ocurre una sola
// vez, en la transición PENDING → RECEIVED; re-guardar una orden recibida
// no genera entradas.
type PurchaseUseCase struct {
	txRunner     TxRunner
	purchaseRepo repository.PurchaseOrderRepository
	productRepo  repository.ProductRepository
	branchRepo   repository.BranchRepository
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(
	txRunner TxRunner,
	purchaseRepo repository.PurchaseOrderRepository,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		txRunner:     txRunner,
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
		branchRepo:   branchRepo,
	}
}

// PurchaseLineInput línea de orden de compra.
type PurchaseLineInput struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
}

// CreatePurchaseInput entrada para crear una orden de compra.
type CreatePurchaseInput struct {
	CompanyID  string
	UserID     string
	BranchID   string
	SupplierID string
	Lines      []PurchaseLineInput
}

// CreatePurchase crea una orden en PENDING sin tocar el ledger.
func (uc *PurchaseUseCase) CreatePurchase(ctx context.Context, in CreatePurchaseInput) (*entity.PurchaseOrder, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	branch, err := uc.branchRepo.GetByID(in.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil || branch.CompanyID != in.CompanyID {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	purchase := &entity.PurchaseOrder{
		ID:         uuid.New().String(),
		CompanyID:  in.CompanyID,
		BranchID:   in.BranchID,
		SupplierID: in.SupplierID,
		Status:     entity.PurchaseStatusPending,
		CreatedBy:  in.UserID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, line := range in.Lines {
		if !line.Quantity.GreaterThan(decimal.Zero) || line.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if product.CompanyID != in.CompanyID {
			return nil, domain.ErrForbidden
		}
		purchase.Lines = append(purchase.Lines, entity.PurchaseOrderLine{
			ID:         uuid.New().String(),
			PurchaseID: purchase.ID,
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			UnitCost:   line.UnitCost,
		})
	}
	if err := uc.purchaseRepo.Create(purchase); err != nil {
		return nil, err
	}
	return purchase, nil
}

// ReceivePurchase recibe la orden (PENDING → RECEIVED) e ingresa un IN por
// línea inventariable, todo en una transacción. La guardia condicional de
// estado garantiza que solo la transición real genera movimientos: una
// segunda recepción falla con ErrInvalidState y cero asientos.
func (uc *PurchaseUseCase) ReceivePurchase(ctx context.Context, companyID, userID, purchaseID string) error {
	purchase, err := uc.purchaseRepo.GetByID(purchaseID)
	if err != nil {
		return err
	}
	if purchase == nil {
		return domain.ErrNotFound
	}
	if purchase.CompanyID != companyID {
		return domain.ErrForbidden
	}
	if purchase.Status != entity.PurchaseStatusPending {
		return domain.ErrInvalidState
	}

	tracked := make(map[string]bool, len(purchase.Lines))
	for _, line := range purchase.Lines {
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
		return uc.txRunner.RunPurchasing(ctx, func(
			movRepo repository.MovementRepository,
			stockRepo repository.StockUnitRepository,
			purchaseRepo repository.PurchaseOrderRepository,
		) error {
			if err := purchaseRepo.UpdateStatus(purchase.ID, entity.PurchaseStatusPending, entity.PurchaseStatusReceived); err != nil {
				return err
			}
			now := time.Now()
			for _, line := range purchase.Lines {
				if !tracked[line.ProductID] {
					continue
				}
				if _, err := ledger.ApplyInTx(movRepo, stockRepo, ledger.ApplyInput{
					ProductID:   line.ProductID,
					BranchID:    purchase.BranchID,
					Type:        entity.MovementIN,
					Quantity:    line.Quantity,
					Reason:      "recepción compra " + purchase.ID,
					ReferenceID: purchase.ID,
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

// GetPurchase devuelve una orden de compra de la empresa.
func (uc *PurchaseUseCase) GetPurchase(companyID, purchaseID string) (*entity.PurchaseOrder, error) {
	purchase, err := uc.purchaseRepo.GetByID(purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, domain.ErrNotFound
	}
	if purchase.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return purchase, nil
}
