package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tu-usuario/kardex-pro/internal/domain"
)

// Códigos SQLSTATE que significan "otro escritor ganó la carrera": abort de
// serialización, deadlock y lock no disponible.
const (
	sqlstateSerializationFailure = "40001"
	sqlstateDeadlockDetected     = "40P01"
	sqlstateLockNotAvailable     = "55P03"
)

// mapConcurrency traduce los aborts de concurrencia de PostgreSQL a
// domain.ErrConcurrency para que la capa de adaptadores reintente la
// operación completa. Cualquier otro error pasa sin tocar.
func mapConcurrency(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlstateSerializationFailure, sqlstateDeadlockDetected, sqlstateLockNotAvailable:
			return domain.ErrConcurrency
		}
	}
	return err
}
