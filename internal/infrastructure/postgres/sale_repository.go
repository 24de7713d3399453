package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la venta con sus líneas y pagos.
func (r *SaleRepo) Create(s *entity.Sale) error {
	ctx := context.Background()
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (id, company_id, branch_id, status, total, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.CompanyID, s.BranchID, s.Status, s.Total, s.CreatedBy, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create sale: %w", err)
	}
	for i := range s.Lines {
		line := &s.Lines[i]
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		line.SaleID = s.ID
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_lines (id, sale_id, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5)`,
			line.ID, line.SaleID, line.ProductID, line.Quantity, line.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("create sale line: %w", err)
		}
	}
	for i := range s.Payments {
		p := &s.Payments[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		p.SaleID = s.ID
		_, err := r.q.Exec(ctx, `
			INSERT INTO payments (id, sale_id, session_id, method, amount, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			p.ID, p.SaleID, nullable(p.SessionID), p.Method, p.Amount, p.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la venta con líneas y pagos, nil si no existe.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	ctx := context.Background()
	var s entity.Sale
	err := r.q.QueryRow(ctx, `
		SELECT id, company_id, branch_id, status, total, created_by, created_at, updated_at
		FROM sales WHERE id = $1`, id).Scan(
		&s.ID, &s.CompanyID, &s.BranchID, &s.Status, &s.Total, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, quantity, unit_price
		FROM sale_lines WHERE sale_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("get sale lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var line entity.SaleLine
		if err := rows.Scan(&line.ID, &line.SaleID, &line.ProductID, &line.Quantity, &line.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		s.Lines = append(s.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	payRows, err := r.q.Query(ctx, `
		SELECT id, sale_id, session_id, method, amount, created_at
		FROM payments WHERE sale_id = $1 ORDER BY created_at, id`, id)
	if err != nil {
		return nil, fmt.Errorf("get payments: %w", err)
	}
	defer payRows.Close()
	for payRows.Next() {
		var p entity.Payment
		var sessionID *string
		if err := payRows.Scan(&p.ID, &p.SaleID, &sessionID, &p.Method, &p.Amount, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		if sessionID != nil {
			p.SessionID = *sessionID
		}
		s.Payments = append(s.Payments, p)
	}
	if err := payRows.Err(); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateStatus cambia el estado solo si el actual es `from`.
func (r *SaleRepo) UpdateStatus(id, from, to string) error {
	return updateStatusGuarded(r.q, "sales", id, from, to)
}

// SumCashBySession suma los pagos CASH ligados a una sesión de caja.
func (r *SaleRepo) SumCashBySession(sessionID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(context.Background(), `
		SELECT COALESCE(SUM(p.amount), 0)
		FROM payments p
		JOIN sales s ON s.id = p.sale_id
		WHERE p.session_id = $1 AND p.method = $2 AND s.status = $3`,
		sessionID, entity.PaymentMethodCash, entity.SaleStatusCompleted,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum cash by session: %w", err)
	}
	return sum, nil
}

// PaymentTotalsBySession devuelve el desglose de pagos y el número de ventas
// ligadas a la sesión. Solo los pagos CASH llevan session_id, así que el
// alcance son las ventas con al menos un pago en la sesión; de ahí se
// desglosan todos sus pagos. Excluye ventas anuladas.
func (r *SaleRepo) PaymentTotalsBySession(sessionID string) (*repository.SessionPaymentTotals, error) {
	var t repository.SessionPaymentTotals
	err := r.q.QueryRow(context.Background(), `
		SELECT
			COALESCE(SUM(p.amount) FILTER (WHERE p.method = 'CASH'), 0),
			COALESCE(SUM(p.amount) FILTER (WHERE p.method = 'CARD'), 0),
			COALESCE(SUM(p.amount) FILTER (WHERE p.method = 'CREDIT'), 0),
			COUNT(DISTINCT p.sale_id)
		FROM payments p
		JOIN sales s ON s.id = p.sale_id
		WHERE s.status = $2
		  AND p.sale_id IN (SELECT sale_id FROM payments WHERE session_id = $1)`,
		sessionID, entity.SaleStatusCompleted,
	).Scan(&t.Cash, &t.Card, &t.Credit, &t.TxCount)
	if err != nil {
		return nil, fmt.Errorf("payment totals by session: %w", err)
	}
	return &t, nil
}
