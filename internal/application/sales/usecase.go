package sales

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

// OrderUseCase ciclo de vida de pedidos de venta. El stock se reserva en la
// confirmación (DRAFT/QUOTE → CONFIRMED), no al crear el borrador; cancelar
// desde CONFIRMED/DISPATCHED devuelve lo descontado.
type OrderUseCase struct {
	txRunner    TxRunner
	orderRepo   repository.SalesOrderRepository
	productRepo repository.ProductRepository
	branchRepo  repository.BranchRepository
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	txRunner TxRunner,
	orderRepo repository.SalesOrderRepository,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
) *OrderUseCase {
	return &OrderUseCase{
		txRunner:    txRunner,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		branchRepo:  branchRepo,
	}
}

// OrderLineInput línea de pedido en la creación.
type OrderLineInput struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// CreateOrderInput entrada para crear un pedido en borrador.
type CreateOrderInput struct {
	CompanyID  string
	UserID     string
	BranchID   string
	CustomerID string
	Lines      []OrderLineInput
}

// CreateOrder crea un pedido en DRAFT. No toca el ledger.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, in CreateOrderInput) (*entity.SalesOrder, error) {
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
	order := &entity.SalesOrder{
		ID:         uuid.New().String(),
		CompanyID:  in.CompanyID,
		BranchID:   in.BranchID,
		CustomerID: in.CustomerID,
		Status:     entity.OrderStatusDraft,
		CreatedBy:  in.UserID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
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
		order.Lines = append(order.Lines, entity.SalesOrderLine{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	if err := uc.orderRepo.Create(order); err != nil {
		return nil, err
	}
	return order, nil
}

// ConfirmOrder confirma un pedido (DRAFT/QUOTE → CONFIRMED) y descuenta el
// stock: un OUT por cada línea cuyo producto mueve kardex, todo en una
// transacción. Si una línea no tiene stock suficiente, ninguna se aplica.
func (uc *OrderUseCase) ConfirmOrder(ctx context.Context, companyID, userID, orderID string) error {
	order, tracked, err := uc.loadOrder(companyID, orderID)
	if err != nil {
		return err
	}
	if !order.CanConfirm() {
		return domain.ErrInvalidState
	}

	return ledger.WithRetry(ctx, func() error {
		return uc.txRunner.RunSales(ctx, func(
			movRepo repository.MovementRepository,
			stockRepo repository.StockUnitRepository,
			orderRepo repository.SalesOrderRepository,
		) error {
			// La guardia condicional cierra la carrera entre dos confirmaciones.
			if err := orderRepo.UpdateStatus(order.ID, order.Status, entity.OrderStatusConfirmed); err != nil {
				return err
			}
			now := time.Now()
			for _, line := range order.Lines {
				if !tracked[line.ProductID] {
					continue
				}
				unit, err := stockRepo.GetForUpdate(line.ProductID, order.BranchID)
				if err != nil {
					return err
				}
				if unit.Quantity.LessThan(line.Quantity) {
					return domain.ErrInsufficientStock
				}
				if _, err := ledger.ApplyInTx(movRepo, stockRepo, ledger.ApplyInput{
					ProductID:   line.ProductID,
					BranchID:    order.BranchID,
					Type:        entity.MovementOUT,
					Quantity:    line.Quantity,
					Reason:      "venta pedido " + order.ID,
					ReferenceID: order.ID,
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

// CancelOrder cancela un pedido que ya descontó stock (CONFIRMED/DISPATCHED
// → CANCELLED) devolviendo las cantidades: un IN por línea inventariable.
func (uc *OrderUseCase) CancelOrder(ctx context.Context, companyID, userID, orderID string) error {
	order, tracked, err := uc.loadOrder(companyID, orderID)
	if err != nil {
		return err
	}
	if !order.CanCancel() {
		return domain.ErrInvalidState
	}

	return ledger.WithRetry(ctx, func() error {
		return uc.txRunner.RunSales(ctx, func(
			movRepo repository.MovementRepository,
			stockRepo repository.StockUnitRepository,
			orderRepo repository.SalesOrderRepository,
		) error {
			if err := orderRepo.UpdateStatus(order.ID, order.Status, entity.OrderStatusCancelled); err != nil {
				return err
			}
			now := time.Now()
			for _, line := range order.Lines {
				if !tracked[line.ProductID] {
					continue
				}
				if _, err := ledger.ApplyInTx(movRepo, stockRepo, ledger.ApplyInput{
					ProductID:   line.ProductID,
					BranchID:    order.BranchID,
					Type:        entity.MovementIN,
					Quantity:    line.Quantity,
					Reason:      "cancelación pedido " + order.ID,
					ReferenceID: order.ID,
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

// GetOrder devuelve un pedido de la empresa.
func (uc *OrderUseCase) GetOrder(companyID, orderID string) (*entity.SalesOrder, error) {
	order, _, err := uc.loadOrder(companyID, orderID)
	return order, err
}

// loadOrder carga el pedido, valida pertenencia y consulta al catálogo qué
// líneas mueven kardex.
func (uc *OrderUseCase) loadOrder(companyID, orderID string) (*entity.SalesOrder, map[string]bool, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, domain.ErrNotFound
	}
	if order.CompanyID != companyID {
		return nil, nil, domain.ErrForbidden
	}
	tracked := make(map[string]bool, len(order.Lines))
	for _, line := range order.Lines {
		if _, ok := tracked[line.ProductID]; ok {
			continue
		}
		product, err := uc.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, nil, err
		}
		if product == nil {
			return nil, nil, domain.ErrNotFound
		}
		tracked[line.ProductID] = product.TracksInventory
	}
	return order, tracked, nil
}
