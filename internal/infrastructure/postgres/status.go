package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/kardex-pro/internal/domain"
)

// updateStatusGuarded cambia el estado de un documento solo si el actual es
// `from`: la condición en el WHERE es la guardia de transición a nivel de
// fila, de modo que dos transiciones concurrentes no pueden pasar ambas.
// Devuelve ErrNotFound si el id no existe y ErrInvalidState si la fila ya
// no estaba en `from`. table viene de constantes internas, nunca del caller.
func updateStatusGuarded(q Querier, table, id, from, to string) error {
	ctx := context.Background()
	tag, err := q.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET status = $1, updated_at = now() WHERE id = $2 AND status = $3`, table),
		to, id, from,
	)
	if err != nil {
		return fmt.Errorf("update status %s: %w", table, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	var exists bool
	if err := q.QueryRow(ctx,
		fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)`, table), id,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check %s exists: %w", table, err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrInvalidState
}
