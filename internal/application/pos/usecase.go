package pos

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

// CheckoutUseCase ventas de punto de venta: el checkout crea la venta ya
// COMPLETED, descuenta el stock y registra los pagos en la misma
// transacción; la anulación devuelve el stock.
type CheckoutUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	branchRepo  repository.BranchRepository
	sessionRepo repository.CashSessionRepository
	saleRepo    repository.SaleRepository
}

// NewCheckoutUseCase construye el caso de uso.
func NewCheckoutUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
	sessionRepo repository.CashSessionRepository,
	saleRepo repository.SaleRepository,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		branchRepo:  branchRepo,
		sessionRepo: sessionRepo,
		saleRepo:    saleRepo,
	}
}

// CheckoutLineInput línea de venta POS.
type CheckoutLineInput struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// PaymentInput pago de una venta POS.
type PaymentInput struct {
	Method string
	Amount decimal.Decimal
}

// CheckoutInput entrada del checkout.
type CheckoutInput struct {
	CompanyID string
	UserID    string
	BranchID  string
	Lines     []CheckoutLineInput
	Payments  []PaymentInput
}

// Checkout crea la venta COMPLETED, descuenta un OUT por línea inventariable
// y registra los pagos. Los pagos CASH exigen una sesión de caja abierta del
// cajero en la sucursal y quedan ligados a ella: son los eventos que el
// arqueo suma después.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, in CheckoutInput) (*entity.Sale, error) {
	if len(in.Lines) == 0 || len(in.Payments) == 0 {
		return nil, domain.ErrInvalidInput
	}
	branch, err := uc.branchRepo.GetByID(in.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil || branch.CompanyID != in.CompanyID {
		return nil, domain.ErrNotFound
	}

	total := decimal.Zero
	tracked := make(map[string]bool, len(in.Lines))
	for _, line := range in.Lines {
		if !line.Quantity.GreaterThan(decimal.Zero) {
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
		tracked[line.ProductID] = product.TracksInventory
		total = total.Add(line.Quantity.Mul(line.UnitPrice))
	}

	var cashSessionID string
	for _, p := range in.Payments {
		if !entity.ValidPaymentMethod(p.Method) || !p.Amount.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if p.Method == entity.PaymentMethodCash && cashSessionID == "" {
			session, err := uc.sessionRepo.FindOpenByBranchUser(in.BranchID, in.UserID)
			if err != nil {
				return nil, err
			}
			if session == nil {
				// Efectivo sin caja abierta no tiene dónde arquearse.
				return nil, domain.ErrInvalidState
			}
			cashSessionID = session.ID
		}
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:        uuid.New().String(),
		CompanyID: in.CompanyID,
		BranchID:  in.BranchID,
		Status:    entity.SaleStatusCompleted,
		Total:     total,
		CreatedBy: in.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, line := range in.Lines {
		sale.Lines = append(sale.Lines, entity.SaleLine{
			ID:        uuid.New().String(),
			SaleID:    sale.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	for _, p := range in.Payments {
		sessionID := ""
		if p.Method == entity.PaymentMethodCash {
			sessionID = cashSessionID
		}
		sale.Payments = append(sale.Payments, entity.Payment{
			ID:        uuid.New().String(),
			SaleID:    sale.ID,
			SessionID: sessionID,
			Method:    p.Method,
			Amount:    p.Amount,
			CreatedAt: now,
		})
	}

	err = ledger.WithRetry(ctx, func() error {
		return uc.txRunner.RunPOS(ctx, func(
			movRepo repository.MovementRepository,
			stockRepo repository.StockUnitRepository,
			saleRepo repository.SaleRepository,
		) error {
			if err := saleRepo.Create(sale); err != nil {
				return err
			}
			for _, line := range sale.Lines {
				if !tracked[line.ProductID] {
					continue
				}
				unit, err := stockRepo.GetForUpdate(line.ProductID, sale.BranchID)
				if err != nil {
					return err
				}
				if unit.Quantity.LessThan(line.Quantity) {
					return domain.ErrInsufficientStock
				}
				if _, err := ledger.ApplyInTx(movRepo, stockRepo, ledger.ApplyInput{
					ProductID:   line.ProductID,
					BranchID:    sale.BranchID,
					Type:        entity.MovementOUT,
					Quantity:    line.Quantity,
					Reason:      "venta POS " + sale.ID,
					ReferenceID: sale.ID,
					ActorID:     sale.CreatedBy,
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
	return sale, nil
}

// GetSale obtiene la venta con líneas y pagos.
func (uc *CheckoutUseCase) GetSale(companyID, saleID string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return sale, nil
}

// VoidSale anula una venta (COMPLETED → CANCELLED) devolviendo el stock: un
// IN por línea inventariable. Las ventas liquidadas a crédito se rechazan;
// su reversión financiera va por cartera, no por kardex.
func (uc *CheckoutUseCase) VoidSale(ctx context.Context, companyID, userID, saleID string) error {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return err
	}
	if sale == nil {
		return domain.ErrNotFound
	}
	if sale.CompanyID != companyID {
		return domain.ErrForbidden
	}
	if sale.Status != entity.SaleStatusCompleted {
		return domain.ErrInvalidState
	}
	if sale.HasCreditPayment() {
		return domain.ErrInvalidState
	}

	tracked := make(map[string]bool, len(sale.Lines))
	for _, line := range sale.Lines {
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
		return uc.txRunner.RunPOS(ctx, func(
			movRepo repository.MovementRepository,
			stockRepo repository.StockUnitRepository,
			saleRepo repository.SaleRepository,
		) error {
			if err := saleRepo.UpdateStatus(sale.ID, entity.SaleStatusCompleted, entity.SaleStatusCancelled); err != nil {
				return err
			}
			now := time.Now()
			for _, line := range sale.Lines {
				if !tracked[line.ProductID] {
					continue
				}
				if _, err := ledger.ApplyInTx(movRepo, stockRepo, ledger.ApplyInput{
					ProductID:   line.ProductID,
					BranchID:    sale.BranchID,
					Type:        entity.MovementIN,
					Quantity:    line.Quantity,
					Reason:      "anulación venta " + sale.ID,
					ReferenceID: sale.ID,
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
