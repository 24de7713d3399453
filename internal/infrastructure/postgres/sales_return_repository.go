package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

var _ repository.SalesReturnRepository = (*SalesReturnRepo)(nil)

// SalesReturnRepo implementación de SalesReturnRepository sobre PostgreSQL.
type SalesReturnRepo struct {
	q Querier
}

// NewSalesReturnRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesReturnRepository(q Querier) *SalesReturnRepo {
	return &SalesReturnRepo{q: q}
}

// Create persiste la devolución y sus líneas.
func (r *SalesReturnRepo) Create(ret *entity.SalesReturn) error {
	ctx := context.Background()
	if ret.ID == "" {
		ret.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales_returns (id, company_id, branch_id, sale_id, status, reason, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		ret.ID, ret.CompanyID, ret.BranchID, ret.SaleID, ret.Status, ret.Reason, ret.CreatedBy, ret.CreatedAt, ret.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create sales return: %w", err)
	}
	for i := range ret.Lines {
		line := &ret.Lines[i]
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		line.ReturnID = ret.ID
		_, err := r.q.Exec(ctx, `
			INSERT INTO sales_return_lines (id, return_id, product_id, quantity)
			VALUES ($1, $2, $3, $4)`,
			line.ID, line.ReturnID, line.ProductID, line.Quantity,
		)
		if err != nil {
			return fmt.Errorf("create sales return line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la devolución con sus líneas, nil si no existe.
func (r *SalesReturnRepo) GetByID(id string) (*entity.SalesReturn, error) {
	ctx := context.Background()
	var ret entity.SalesReturn
	err := r.q.QueryRow(ctx, `
		SELECT id, company_id, branch_id, sale_id, status, reason, created_by, created_at, updated_at
		FROM sales_returns WHERE id = $1`, id).Scan(
		&ret.ID, &ret.CompanyID, &ret.BranchID, &ret.SaleID, &ret.Status, &ret.Reason, &ret.CreatedBy, &ret.CreatedAt, &ret.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales return: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, return_id, product_id, quantity
		FROM sales_return_lines WHERE return_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("get sales return lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var line entity.SalesReturnLine
		if err := rows.Scan(&line.ID, &line.ReturnID, &line.ProductID, &line.Quantity); err != nil {
			return nil, fmt.Errorf("scan sales return line: %w", err)
		}
		ret.Lines = append(ret.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &ret, nil
}

// UpdateStatus cambia el estado solo si el actual es `from`.
func (r *SalesReturnRepo) UpdateStatus(id, from, to string) error {
	return updateStatusGuarded(r.q, "sales_returns", id, from, to)
}
