package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

var _ repository.StockTakeRepository = (*StockTakeRepo)(nil)

// StockTakeRepo implementación de StockTakeRepository sobre PostgreSQL.
type StockTakeRepo struct {
	q Querier
}

// NewStockTakeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTakeRepository(q Querier) *StockTakeRepo {
	return &StockTakeRepo{q: q}
}

// Create persiste la toma y su snapshot de ítems.
func (r *StockTakeRepo) Create(st *entity.StockTake) error {
	ctx := context.Background()
	if st.ID == "" {
		st.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_takes (id, company_id, branch_id, status, created_by, created_at, closed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		st.ID, st.CompanyID, st.BranchID, st.Status, st.CreatedBy, st.CreatedAt, st.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock take: %w", err)
	}
	for i := range st.Items {
		item := &st.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.StockTakeID = st.ID
		_, err := r.q.Exec(ctx, `
			INSERT INTO stock_take_items (id, stock_take_id, product_id, system_qty, counted_qty, difference, counted_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			item.ID, item.StockTakeID, item.ProductID, item.SystemQty, item.CountedQty, item.Difference, item.CountedAt,
		)
		if err != nil {
			return fmt.Errorf("create stock take item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la toma con sus ítems, nil si no existe.
func (r *StockTakeRepo) GetByID(id string) (*entity.StockTake, error) {
	ctx := context.Background()
	var st entity.StockTake
	err := r.q.QueryRow(ctx, `
		SELECT id, company_id, branch_id, status, created_by, created_at, closed_at
		FROM stock_takes WHERE id = $1`, id).Scan(
		&st.ID, &st.CompanyID, &st.BranchID, &st.Status, &st.CreatedBy, &st.CreatedAt, &st.ClosedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock take: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, stock_take_id, product_id, system_qty, counted_qty, difference, counted_at
		FROM stock_take_items WHERE stock_take_id = $1 ORDER BY product_id`, id)
	if err != nil {
		return nil, fmt.Errorf("get stock take items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.StockTakeItem
		if err := rows.Scan(&item.ID, &item.StockTakeID, &item.ProductID, &item.SystemQty, &item.CountedQty, &item.Difference, &item.CountedAt); err != nil {
			return nil, fmt.Errorf("scan stock take item: %w", err)
		}
		st.Items = append(st.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &st, nil
}

// UpdateItem persiste el conteo de un ítem.
func (r *StockTakeRepo) UpdateItem(item *entity.StockTakeItem) error {
	tag, err := r.q.Exec(context.Background(), `
		UPDATE stock_take_items SET counted_qty = $1, difference = $2, counted_at = $3
		WHERE id = $4 AND stock_take_id = $5`,
		item.CountedQty, item.Difference, item.CountedAt, item.ID, item.StockTakeID,
	)
	if err != nil {
		return fmt.Errorf("update stock take item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus cambia el estado solo si el actual es `from` y sella closed_at
// al pasar a un estado terminal. La guardia en el WHERE es la que impide
// aplicar dos veces la misma toma.
func (r *StockTakeRepo) UpdateStatus(id string, from, to entity.StockTakeStatus) error {
	ctx := context.Background()
	tag, err := r.q.Exec(ctx, `
		UPDATE stock_takes SET status = $1, closed_at = CASE WHEN $1 IN ('COMPLETED', 'CANCELLED') THEN now() ELSE closed_at END
		WHERE id = $2 AND status = $3`,
		string(to), id, string(from),
	)
	if err != nil {
		return fmt.Errorf("update stock take status: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM stock_takes WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check stock take exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrInvalidState
}
