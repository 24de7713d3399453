package repository

import "github.com/tu-usuario/kardex-pro/internal/domain/entity"

// CashSessionRepository persiste sesiones de caja y su historial de
// auditoría. Los registros de auditoría son append-only.
type CashSessionRepository interface {
	Create(s *entity.CashSession) error
	GetByID(id string) (*entity.CashSession, error)
	// GetForUpdate bloquea la fila de la sesión (SELECT ... FOR UPDATE) para
	// que cierre y reapertura concurrentes se serialicen.
	GetForUpdate(id string) (*entity.CashSession, error)
	// FindOpenByBranchUser devuelve la sesión OPEN del par (sucursal,
	// usuario), o nil si no hay.
	FindOpenByBranchUser(branchID, userID string) (*entity.CashSession, error)
	// FindOpenByBranch devuelve cualquier sesión OPEN de la sucursal, o nil.
	FindOpenByBranch(branchID string) (*entity.CashSession, error)
	Update(s *entity.CashSession) error
	// AppendAudit agrega un registro al final del historial (Seq lo asigna
	// la implementación de forma consecutiva).
	AppendAudit(rec *entity.SessionAuditRecord) error
	// ListAudits devuelve el historial completo en orden de Seq ascendente.
	ListAudits(sessionID string) ([]*entity.SessionAuditRecord, error)
}
