package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/kardex-pro/internal/application/cashsession"
	"github.com/tu-usuario/kardex-pro/internal/application/dto"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
)

// SessionHandler maneja sesiones de caja y su arqueo (protegido).
type SessionHandler struct {
	uc *cashsession.SessionUseCase
}

// NewSessionHandler construye el handler.
func NewSessionHandler(uc *cashsession.SessionUseCase) *SessionHandler {
	return &SessionHandler{uc: uc}
}

func toSessionResponse(s *entity.CashSession) dto.SessionResponse {
	return dto.SessionResponse{
		ID:             s.ID,
		BranchID:       s.BranchID,
		UserID:         s.UserID,
		Status:         s.Status,
		OpeningAmount:  s.OpeningAmount,
		ExpectedAmount: s.ExpectedAmount,
		CountedAmount:  s.CountedAmount,
		OverShort:      s.OverShort,
		OpenedAt:       s.OpenedAt,
		ClosedAt:       s.ClosedAt,
	}
}

func toAuditResponses(audits []*entity.SessionAuditRecord) []dto.SessionAuditResponse {
	out := make([]dto.SessionAuditResponse, 0, len(audits))
	for _, a := range audits {
		out = append(out, dto.SessionAuditResponse{
			Seq:            a.Seq,
			Type:           a.Type,
			ActorID:        a.ActorID,
			Reason:         a.Reason,
			CashTotal:      a.CashTotal,
			CardTotal:      a.CardTotal,
			CreditTotal:    a.CreditTotal,
			TxCount:        a.TxCount,
			ExpectedAmount: a.ExpectedAmount,
			CountedAmount:  a.CountedAmount,
			OverShort:      a.OverShort,
			CreatedAt:      a.CreatedAt,
		})
	}
	return out
}

// Open godoc
// @Summary      Abrir sesión de caja (idempotente por cajero y sucursal)
// @Tags         cash-sessions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenSessionRequest  true  "branch_id, opening_amount"
// @Success      201   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cash-sessions [post]
func (h *SessionHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	session, err := h.uc.Open(c.Context(), GetCompanyID(c), GetUserID(c), in.BranchID, in.OpeningAmount)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSessionResponse(session))
}

// Close godoc
// @Summary      Cerrar sesión: congela esperado y calcula over/short
// @Tags         cash-sessions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "Sesión (UUID)"
// @Param        body  body  dto.CloseSessionRequest  true  "counted_amount, note"
// @Success      200   {object}  dto.SessionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cash-sessions/{id}/close [post]
func (h *SessionHandler) Close(c *fiber.Ctx) error {
	var in dto.CloseSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	session, err := h.uc.Close(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"), in.CountedAmount, in.Note)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toSessionResponse(session))
}

// Reopen godoc
// @Summary      Reabrir sesión cerrada (solo admin, con razón)
// @Tags         cash-sessions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "Sesión (UUID)"
// @Param        body  body  dto.ReopenSessionRequest  true  "reason"
// @Success      200   {object}  dto.SessionResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cash-sessions/{id}/reopen [post]
func (h *SessionHandler) Reopen(c *fiber.Ctx) error {
	var in dto.ReopenSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	session, err := h.uc.Reopen(c.Context(), GetCompanyID(c), GetUserID(c), GetRole(c), c.Params("id"), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toSessionResponse(session))
}

// GetByID godoc
// @Summary      Obtener sesión con su historial de auditoría
// @Tags         cash-sessions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Sesión (UUID)"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cash-sessions/{id} [get]
func (h *SessionHandler) GetByID(c *fiber.Ctx) error {
	session, audits, err := h.uc.Get(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"session": toSessionResponse(session),
		"audits":  toAuditResponses(audits),
	})
}

// Expected godoc
// @Summary      Monto esperado actual de la sesión
// @Tags         cash-sessions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Sesión (UUID)"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cash-sessions/{id}/expected [get]
func (h *SessionHandler) Expected(c *fiber.Ctx) error {
	expected, err := h.uc.Expected(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"expected_amount": expected})
}
