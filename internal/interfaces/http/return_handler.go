package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/kardex-pro/internal/application/dto"
	"github.com/tu-usuario/kardex-pro/internal/application/returns"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
)

// ReturnHandler maneja devoluciones de venta (protegido).
type ReturnHandler struct {
	uc *returns.ReturnUseCase
}

// NewReturnHandler construye el handler.
func NewReturnHandler(uc *returns.ReturnUseCase) *ReturnHandler {
	return &ReturnHandler{uc: uc}
}

func toReturnResponse(r *entity.SalesReturn) dto.ReturnResponse {
	out := dto.ReturnResponse{
		ID:        r.ID,
		SaleID:    r.SaleID,
		BranchID:  r.BranchID,
		Status:    r.Status,
		Reason:    r.Reason,
		CreatedAt: r.CreatedAt,
	}
	for _, l := range r.Lines {
		out.Lines = append(out.Lines, dto.ReturnLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
		})
	}
	return out
}

// Create godoc
// @Summary      Crear devolución sobre una venta
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReturnRequest  true  "sale_id, reason, lines (cantidad ≤ vendida)"
// @Success      201   {object}  dto.ReturnResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/returns [post]
func (h *ReturnHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := returns.CreateReturnInput{
		CompanyID: GetCompanyID(c),
		UserID:    GetUserID(c),
		SaleID:    in.SaleID,
		Reason:    in.Reason,
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, returns.ReturnLineInput{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
		})
	}
	ret, err := h.uc.CreateReturn(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toReturnResponse(ret))
}

// Approve godoc
// @Summary      Aprobar devolución (reingresa stock)
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Devolución (UUID)"
// @Success      200  {object}  dto.ReturnResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/returns/{id}/approve [post]
func (h *ReturnHandler) Approve(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	returnID := c.Params("id")
	if err := h.uc.ApproveReturn(c.Context(), companyID, GetUserID(c), returnID); err != nil {
		return respondError(c, err)
	}
	ret, err := h.uc.GetReturn(companyID, returnID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toReturnResponse(ret))
}

// Reject godoc
// @Summary      Rechazar devolución (no toca stock)
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Devolución (UUID)"
// @Success      200  {object}  dto.ReturnResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/returns/{id}/reject [post]
func (h *ReturnHandler) Reject(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	returnID := c.Params("id")
	if err := h.uc.RejectReturn(c.Context(), companyID, GetUserID(c), returnID); err != nil {
		return respondError(c, err)
	}
	ret, err := h.uc.GetReturn(companyID, returnID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toReturnResponse(ret))
}

// GetByID godoc
// @Summary      Obtener devolución
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Devolución (UUID)"
// @Success      200  {object}  dto.ReturnResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/returns/{id} [get]
func (h *ReturnHandler) GetByID(c *fiber.Ctx) error {
	ret, err := h.uc.GetReturn(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toReturnResponse(ret))
}
