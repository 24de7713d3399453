package cashsession

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

// Policy políticas de apertura de caja.
type Policy struct {
	// SingleOpenPerBranch rechaza abrir una segunda sesión en la sucursal
	// aunque sea de otro cajero. Se aplica al abrir, nunca retroactivamente.
	SingleOpenPerBranch bool
}

// SessionUseCase arqueo de caja: abrir idempotente, esperado derivado de los
// pagos CASH de la sesión, cierre con over/short y auditoría estructurada, y
// reapertura con razón y permiso elevado.
type SessionUseCase struct {
	txRunner    TxRunner
	sessionRepo repository.CashSessionRepository
	saleRepo    repository.SaleRepository
	branchRepo  repository.BranchRepository
	policy      Policy
}

// NewSessionUseCase construye el caso de uso.
func NewSessionUseCase(
	txRunner TxRunner,
	sessionRepo repository.CashSessionRepository,
	saleRepo repository.SaleRepository,
	branchRepo repository.BranchRepository,
	policy Policy,
) *SessionUseCase {
	return &SessionUseCase{
		txRunner:    txRunner,
		sessionRepo: sessionRepo,
		saleRepo:    saleRepo,
		branchRepo:  branchRepo,
		policy:      policy,
	}
}

// Open abre una sesión para (sucursal, cajero) con el fondo inicial. La
// apertura es idempotente por cajero: si ya tiene una sesión OPEN en la
// sucursal se devuelve esa misma sin cambios.
func (uc *SessionUseCase) Open(ctx context.Context, companyID, userID, branchID string, openingAmount decimal.Decimal) (*entity.CashSession, error) {
	if openingAmount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	branch, err := uc.branchRepo.GetByID(branchID)
	if err != nil {
		return nil, err
	}
	if branch == nil || branch.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}

	existing, err := uc.sessionRepo.FindOpenByBranchUser(branchID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	if uc.policy.SingleOpenPerBranch {
		other, err := uc.sessionRepo.FindOpenByBranch(branchID)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, domain.ErrInvalidState
		}
	}

	now := time.Now()
	session := &entity.CashSession{
		ID:             uuid.New().String(),
		CompanyID:      companyID,
		BranchID:       branchID,
		UserID:         userID,
		Status:         entity.SessionStatusOpen,
		OpeningAmount:  openingAmount,
		ExpectedAmount: openingAmount,
		CountedAmount:  decimal.Zero,
		OverShort:      decimal.Zero,
		OpenedAt:       now,
	}
	if err := uc.sessionRepo.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

// Expected devuelve el monto esperado de la sesión. Mientras está OPEN se
// deriva: fondo inicial + Σ pagos CASH ligados a la sesión; en CLOSED
// devuelve el esperado congelado al cierre.
func (uc *SessionUseCase) Expected(ctx context.Context, companyID, sessionID string) (decimal.Decimal, error) {
	session, err := uc.load(companyID, sessionID)
	if err != nil {
		return decimal.Zero, err
	}
	if !session.IsOpen() {
		return session.ExpectedAmount, nil
	}
	cash, err := uc.saleRepo.SumCashBySession(session.ID)
	if err != nil {
		return decimal.Zero, err
	}
	return session.OpeningAmount.Add(cash), nil
}

// Close cierra la sesión: congela esperado y contado, calcula
// over/short = contado − esperado, agrega el registro CLOSE con el desglose
// de pagos y pasa a CLOSED. Cerrar una sesión CLOSED es ErrInvalidState.
func (uc *SessionUseCase) Close(ctx context.Context, companyID, actorID, sessionID string, countedAmount decimal.Decimal, note string) (*entity.CashSession, error) {
	if countedAmount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.load(companyID, sessionID); err != nil {
		return nil, err
	}

	var closed *entity.CashSession
	err := uc.txRunner.RunSession(ctx, func(
		sessionRepo repository.CashSessionRepository,
		saleRepo repository.SaleRepository,
	) error {
		session, err := sessionRepo.GetForUpdate(sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return domain.ErrNotFound
		}
		if !session.IsOpen() {
			return domain.ErrInvalidState
		}
		totals, err := saleRepo.PaymentTotalsBySession(session.ID)
		if err != nil {
			return err
		}
		now := time.Now()
		session.ExpectedAmount = session.OpeningAmount.Add(totals.Cash)
		session.CountedAmount = countedAmount
		session.OverShort = countedAmount.Sub(session.ExpectedAmount)
		session.Status = entity.SessionStatusClosed
		session.ClosedAt = &now
		if err := sessionRepo.Update(session); err != nil {
			return err
		}
		if err := sessionRepo.AppendAudit(&entity.SessionAuditRecord{
			ID:             uuid.New().String(),
			SessionID:      session.ID,
			Type:           entity.SessionAuditClose,
			ActorID:        actorID,
			Reason:         note,
			CashTotal:      totals.Cash,
			CardTotal:      totals.Card,
			CreditTotal:    totals.Credit,
			TxCount:        totals.TxCount,
			ExpectedAmount: session.ExpectedAmount,
			CountedAmount:  session.CountedAmount,
			OverShort:      session.OverShort,
			CreatedAt:      now,
		}); err != nil {
			return err
		}
		closed = session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return closed, nil
}

// Reopen reabre una sesión CLOSED. Exige razón no vacía y actor con rol
// admin (el permiso ya viene decidido por el caller vía rol del token).
// Agrega el registro REOPEN con la foto del cierre anterior — el historial
// nunca se recorta —, resetea contado y over/short, recalcula el esperado
// con los pagos actuales y vuelve a OPEN.
func (uc *SessionUseCase) Reopen(ctx context.Context, companyID, actorID, actorRole, sessionID, reason string) (*entity.CashSession, error) {
	if reason == "" {
		return nil, domain.ErrInvalidInput
	}
	if actorRole != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if _, err := uc.load(companyID, sessionID); err != nil {
		return nil, err
	}

	var reopened *entity.CashSession
	err := uc.txRunner.RunSession(ctx, func(
		sessionRepo repository.CashSessionRepository,
		saleRepo repository.SaleRepository,
	) error {
		session, err := sessionRepo.GetForUpdate(sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return domain.ErrNotFound
		}
		if session.Status != entity.SessionStatusClosed {
			return domain.ErrInvalidState
		}
		totals, err := saleRepo.PaymentTotalsBySession(session.ID)
		if err != nil {
			return err
		}
		now := time.Now()
		// Foto del cierre anterior antes de resetear.
		if err := sessionRepo.AppendAudit(&entity.SessionAuditRecord{
			ID:             uuid.New().String(),
			SessionID:      session.ID,
			Type:           entity.SessionAuditReopen,
			ActorID:        actorID,
			Reason:         reason,
			CashTotal:      totals.Cash,
			CardTotal:      totals.Card,
			CreditTotal:    totals.Credit,
			TxCount:        totals.TxCount,
			ExpectedAmount: session.ExpectedAmount,
			CountedAmount:  session.CountedAmount,
			OverShort:      session.OverShort,
			CreatedAt:      now,
		}); err != nil {
			return err
		}
		session.Status = entity.SessionStatusOpen
		session.ClosedAt = nil
		session.CountedAmount = decimal.Zero
		session.OverShort = decimal.Zero
		session.ExpectedAmount = session.OpeningAmount.Add(totals.Cash)
		if err := sessionRepo.Update(session); err != nil {
			return err
		}
		reopened = session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reopened, nil
}

// Get devuelve la sesión con su historial de auditoría.
func (uc *SessionUseCase) Get(companyID, sessionID string) (*entity.CashSession, []*entity.SessionAuditRecord, error) {
	session, err := uc.load(companyID, sessionID)
	if err != nil {
		return nil, nil, err
	}
	audits, err := uc.sessionRepo.ListAudits(sessionID)
	if err != nil {
		return nil, nil, err
	}
	return session, audits, nil
}

func (uc *SessionUseCase) load(companyID, sessionID string) (*entity.CashSession, error) {
	session, err := uc.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}
	if session.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return session, nil
}
