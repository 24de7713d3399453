package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

var _ repository.StockUnitRepository = (*StockUnitRepo)(nil)

// StockUnitRepo implementación de StockUnitRepository sobre PostgreSQL
// (usable con pool o tx).
type StockUnitRepo struct {
	q Querier
}

// NewStockUnitRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockUnitRepository(q Querier) *StockUnitRepo {
	return &StockUnitRepo{q: q}
}

// Get obtiene la unidad de stock; si nunca fue tocada devuelve cantidad 0.
func (r *StockUnitRepo) Get(productID, branchID string) (*entity.StockUnit, error) {
	query := `
		SELECT product_id, branch_id, quantity, updated_at
		FROM stock_units WHERE product_id = $1 AND branch_id = $2`
	var u entity.StockUnit
	err := r.q.QueryRow(context.Background(), query, productID, branchID).Scan(
		&u.ProductID, &u.BranchID, &u.Quantity, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockUnit{ProductID: productID, BranchID: branchID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock unit: %w", err)
	}
	return &u, nil
}

// GetForUpdate crea la unidad con cantidad 0 si no existe y bloquea la fila
// (SELECT ... FOR UPDATE) hasta el fin de la transacción. El INSERT previo
// garantiza que también las unidades nuevas quedan serializadas: dos
// escritores concurrentes sobre el mismo par (producto, sucursal) nunca leen
// el mismo previous_stock.
func (r *StockUnitRepo) GetForUpdate(productID, branchID string) (*entity.StockUnit, error) {
	ctx := context.Background()
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_units (product_id, branch_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (product_id, branch_id) DO NOTHING`,
		productID, branchID,
	)
	if err != nil {
		return nil, fmt.Errorf("ensure stock unit: %w", err)
	}
	query := `
		SELECT product_id, branch_id, quantity, updated_at
		FROM stock_units WHERE product_id = $1 AND branch_id = $2
		FOR UPDATE`
	var u entity.StockUnit
	err = r.q.QueryRow(ctx, query, productID, branchID).Scan(
		&u.ProductID, &u.BranchID, &u.Quantity, &u.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get stock unit for update: %w", err)
	}
	return &u, nil
}

// Upsert inserta o actualiza la cantidad cacheada (por producto y sucursal).
func (r *StockUnitRepo) Upsert(unit *entity.StockUnit) error {
	query := `
		INSERT INTO stock_units (product_id, branch_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, branch_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, unit.ProductID, unit.BranchID, unit.Quantity)
	if err != nil {
		return fmt.Errorf("upsert stock unit: %w", err)
	}
	return nil
}

// ListPositiveByBranch devuelve las unidades con cantidad > 0 de la sucursal
// (snapshot para la toma de inventario).
func (r *StockUnitRepo) ListPositiveByBranch(branchID string) ([]*entity.StockUnit, error) {
	query := `
		SELECT product_id, branch_id, quantity, updated_at
		FROM stock_units WHERE branch_id = $1 AND quantity > 0
		ORDER BY product_id`
	rows, err := r.q.Query(context.Background(), query, branchID)
	if err != nil {
		return nil, fmt.Errorf("list stock units: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockUnit
	for rows.Next() {
		var u entity.StockUnit
		if err := rows.Scan(&u.ProductID, &u.BranchID, &u.Quantity, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock unit: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}
