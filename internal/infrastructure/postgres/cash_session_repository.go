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

var _ repository.CashSessionRepository = (*CashSessionRepo)(nil)

// CashSessionRepo implementación de CashSessionRepository sobre PostgreSQL.
type CashSessionRepo struct {
	q Querier
}

// NewCashSessionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashSessionRepository(q Querier) *CashSessionRepo {
	return &CashSessionRepo{q: q}
}

const cashSessionColumns = `id, company_id, branch_id, user_id, status, opening_amount, expected_amount, counted_amount, over_short, opened_at, closed_at`

// Create persiste una sesión recién abierta.
func (r *CashSessionRepo) Create(s *entity.CashSession) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO cash_sessions (`+cashSessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		s.ID, s.CompanyID, s.BranchID, s.UserID, s.Status,
		s.OpeningAmount, s.ExpectedAmount, s.CountedAmount, s.OverShort, s.OpenedAt, s.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("create cash session: %w", err)
	}
	return nil
}

func (r *CashSessionRepo) scanSession(row pgx.Row) (*entity.CashSession, error) {
	var s entity.CashSession
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.BranchID, &s.UserID, &s.Status,
		&s.OpeningAmount, &s.ExpectedAmount, &s.CountedAmount, &s.OverShort, &s.OpenedAt, &s.ClosedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan cash session: %w", err)
	}
	return &s, nil
}

// GetByID obtiene la sesión, nil si no existe.
func (r *CashSessionRepo) GetByID(id string) (*entity.CashSession, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+cashSessionColumns+` FROM cash_sessions WHERE id = $1`, id)
	return r.scanSession(row)
}

// GetForUpdate bloquea la fila de la sesión dentro de la transacción actual.
func (r *CashSessionRepo) GetForUpdate(id string) (*entity.CashSession, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+cashSessionColumns+` FROM cash_sessions WHERE id = $1 FOR UPDATE`, id)
	return r.scanSession(row)
}

// FindOpenByBranchUser devuelve la sesión OPEN del par (sucursal, usuario).
func (r *CashSessionRepo) FindOpenByBranchUser(branchID, userID string) (*entity.CashSession, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+cashSessionColumns+` FROM cash_sessions
		 WHERE branch_id = $1 AND user_id = $2 AND status = $3
		 ORDER BY opened_at DESC LIMIT 1`,
		branchID, userID, entity.SessionStatusOpen)
	return r.scanSession(row)
}

// FindOpenByBranch devuelve cualquier sesión OPEN de la sucursal.
func (r *CashSessionRepo) FindOpenByBranch(branchID string) (*entity.CashSession, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+cashSessionColumns+` FROM cash_sessions
		 WHERE branch_id = $1 AND status = $2
		 ORDER BY opened_at DESC LIMIT 1`,
		branchID, entity.SessionStatusOpen)
	return r.scanSession(row)
}

// Update persiste los campos mutables de la sesión.
func (r *CashSessionRepo) Update(s *entity.CashSession) error {
	tag, err := r.q.Exec(context.Background(), `
		UPDATE cash_sessions
		SET status = $1, expected_amount = $2, counted_amount = $3, over_short = $4, closed_at = $5
		WHERE id = $6`,
		s.Status, s.ExpectedAmount, s.CountedAmount, s.OverShort, s.ClosedAt, s.ID,
	)
	if err != nil {
		return fmt.Errorf("update cash session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update cash session: no rows")
	}
	return nil
}

// AppendAudit agrega un registro al historial con el siguiente Seq. Se asume
// la fila de la sesión bloqueada (GetForUpdate) por el caller, así que el
// MAX(seq)+1 no corre carreras.
func (r *CashSessionRepo) AppendAudit(rec *entity.SessionAuditRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	err := r.q.QueryRow(context.Background(), `
		INSERT INTO cash_session_audits
			(id, session_id, seq, type, actor_id, reason,
			 cash_total, card_total, credit_total, tx_count,
			 expected_amount, counted_amount, over_short, created_at)
		VALUES ($1, $2,
			(SELECT COALESCE(MAX(seq), 0) + 1 FROM cash_session_audits WHERE session_id = $2),
			$3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING seq`,
		rec.ID, rec.SessionID, rec.Type, rec.ActorID, rec.Reason,
		rec.CashTotal, rec.CardTotal, rec.CreditTotal, rec.TxCount,
		rec.ExpectedAmount, rec.CountedAmount, rec.OverShort, rec.CreatedAt,
	).Scan(&rec.Seq)
	if err != nil {
		return fmt.Errorf("append session audit: %w", err)
	}
	return nil
}

// ListAudits devuelve el historial completo en orden de Seq ascendente.
func (r *CashSessionRepo) ListAudits(sessionID string) ([]*entity.SessionAuditRecord, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, session_id, seq, type, actor_id, reason,
			cash_total, card_total, credit_total, tx_count,
			expected_amount, counted_amount, over_short, created_at
		FROM cash_session_audits WHERE session_id = $1 ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list session audits: %w", err)
	}
	defer rows.Close()
	var out []*entity.SessionAuditRecord
	for rows.Next() {
		var rec entity.SessionAuditRecord
		if err := rows.Scan(
			&rec.ID, &rec.SessionID, &rec.Seq, &rec.Type, &rec.ActorID, &rec.Reason,
			&rec.CashTotal, &rec.CardTotal, &rec.CreditTotal, &rec.TxCount,
			&rec.ExpectedAmount, &rec.CountedAmount, &rec.OverShort, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan session audit: %w", err)
		}
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
