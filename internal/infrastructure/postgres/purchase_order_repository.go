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

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación de PurchaseOrderRepository sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create persiste la orden de compra y sus líneas.
func (r *PurchaseOrderRepo) Create(p *entity.PurchaseOrder) error {
	ctx := context.Background()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_orders (id, company_id, branch_id, supplier_id, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.CompanyID, p.BranchID, nullable(p.SupplierID), p.Status, p.CreatedBy, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create purchase order: %w", err)
	}
	for i := range p.Lines {
		line := &p.Lines[i]
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		line.PurchaseID = p.ID
		_, err := r.q.Exec(ctx, `
			INSERT INTO purchase_order_lines (id, purchase_id, product_id, quantity, unit_cost)
			VALUES ($1, $2, $3, $4, $5)`,
			line.ID, line.PurchaseID, line.ProductID, line.Quantity, line.UnitCost,
		)
		if err != nil {
			return fmt.Errorf("create purchase order line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la orden con sus líneas, nil si no existe.
func (r *PurchaseOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	ctx := context.Background()
	var p entity.PurchaseOrder
	var supplierID *string
	err := r.q.QueryRow(ctx, `
		SELECT id, company_id, branch_id, supplier_id, status, created_by, created_at, updated_at
		FROM purchase_orders WHERE id = $1`, id).Scan(
		&p.ID, &p.CompanyID, &p.BranchID, &supplierID, &p.Status, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	if supplierID != nil {
		p.SupplierID = *supplierID
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, purchase_id, product_id, quantity, unit_cost
		FROM purchase_order_lines WHERE purchase_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("get purchase order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var line entity.PurchaseOrderLine
		if err := rows.Scan(&line.ID, &line.PurchaseID, &line.ProductID, &line.Quantity, &line.UnitCost); err != nil {
			return nil, fmt.Errorf("scan purchase order line: %w", err)
		}
		p.Lines = append(p.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateStatus cambia el estado solo si el actual es `from`. Es la guarda que
// evita recibir dos veces la misma orden.
func (r *PurchaseOrderRepo) UpdateStatus(id, from, to string) error {
	return updateStatusGuarded(r.q, "purchase_orders", id, from, to)
}
