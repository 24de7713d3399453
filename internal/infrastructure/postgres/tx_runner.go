package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/kardex-pro/internal/application/cashsession"
	"github.com/tu-usuario/kardex-pro/internal/application/ledger"
	"github.com/tu-usuario/kardex-pro/internal/application/pos"
	"github.com/tu-usuario/kardex-pro/internal/application/purchasing"
	"github.com/tu-usuario/kardex-pro/internal/application/returns"
	"github.com/tu-usuario/kardex-pro/internal/application/sales"
	"github.com/tu-usuario/kardex-pro/internal/application/stocktake"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

// Un único TxRunner implementa la interfaz de transacción de cada flujo.
var (
	_ ledger.TxRunner      = (*TxRunner)(nil)
	_ sales.TxRunner       = (*TxRunner)(nil)
	_ pos.TxRunner         = (*TxRunner)(nil)
	_ purchasing.TxRunner  = (*TxRunner)(nil)
	_ returns.TxRunner     = (*TxRunner)(nil)
	_ stocktake.TxRunner   = (*TxRunner)(nil)
	_ cashsession.TxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL, pasando
// repositorios atados a esa tx. Commit si el callback retorna nil, Rollback
// en cualquier otro caso: un error deja stock, kardex y documentos
// exactamente como estaban.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// run abre la transacción, ejecuta fn y hace Commit o Rollback. Los aborts
// de concurrencia salen como domain.ErrConcurrency.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return mapConcurrency(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapConcurrency(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// Run transacción del ledger: movimientos + stock.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockUnitRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewMovementRepository(tx), NewStockUnitRepository(tx))
	})
}

// RunSales transacción de pedidos: ledger + pedido.
func (r *TxRunner) RunSales(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockUnitRepository,
	orderRepo repository.SalesOrderRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewMovementRepository(tx), NewStockUnitRepository(tx), NewSalesOrderRepository(tx))
	})
}

// RunPOS transacción de punto de venta: ledger + venta con pagos.
func (r *TxRunner) RunPOS(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockUnitRepository,
	saleRepo repository.SaleRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewMovementRepository(tx), NewStockUnitRepository(tx), NewSaleRepository(tx))
	})
}

// RunPurchasing transacción de recepción de compras.
func (r *TxRunner) RunPurchasing(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockUnitRepository,
	purchaseRepo repository.PurchaseOrderRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewMovementRepository(tx), NewStockUnitRepository(tx), NewPurchaseOrderRepository(tx))
	})
}

// RunReturns transacción de aprobación de devoluciones.
func (r *TxRunner) RunReturns(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockUnitRepository,
	returnRepo repository.SalesReturnRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewMovementRepository(tx), NewStockUnitRepository(tx), NewSalesReturnRepository(tx))
	})
}

// RunStockTake transacción de aplicación de toma de inventario.
func (r *TxRunner) RunStockTake(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockUnitRepository,
	takeRepo repository.StockTakeRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewMovementRepository(tx), NewStockUnitRepository(tx), NewStockTakeRepository(tx))
	})
}

// RunSession transacción de cierre/reapertura de sesiones de caja.
func (r *TxRunner) RunSession(ctx context.Context, fn func(
	sessionRepo repository.CashSessionRepository,
	saleRepo repository.SaleRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewCashSessionRepository(tx), NewSaleRepository(tx))
	})
}
