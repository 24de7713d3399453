package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/kardex-pro/internal/application/dto"
	"github.com/tu-usuario/kardex-pro/internal/application/purchasing"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
)

// PurchaseHandler maneja órdenes de compra y su recepción (protegido).
type PurchaseHandler struct {
	uc *purchasing.PurchaseUseCase
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *purchasing.PurchaseUseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

func toPurchaseResponse(p *entity.PurchaseOrder) dto.PurchaseResponse {
	out := dto.PurchaseResponse{
		ID:         p.ID,
		BranchID:   p.BranchID,
		SupplierID: p.SupplierID,
		Status:     p.Status,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	for _, l := range p.Lines {
		out.Lines = append(out.Lines, dto.PurchaseLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitCost:  l.UnitCost,
		})
	}
	return out
}

// Create godoc
// @Summary      Crear orden de compra
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequest  true  "branch_id, supplier_id, lines"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := purchasing.CreatePurchaseInput{
		CompanyID:  GetCompanyID(c),
		UserID:     GetUserID(c),
		BranchID:   in.BranchID,
		SupplierID: in.SupplierID,
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, purchasing.PurchaseLineInput{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitCost:  l.UnitCost,
		})
	}
	purchase, err := h.uc.CreatePurchase(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPurchaseResponse(purchase))
}

// Receive godoc
// @Summary      Recibir orden de compra (ingresa stock una sola vez)
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Orden de compra (UUID)"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/receive [post]
func (h *PurchaseHandler) Receive(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	purchaseID := c.Params("id")
	if err := h.uc.ReceivePurchase(c.Context(), companyID, GetUserID(c), purchaseID); err != nil {
		return respondError(c, err)
	}
	purchase, err := h.uc.GetPurchase(companyID, purchaseID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toPurchaseResponse(purchase))
}

// GetByID godoc
// @Summary      Obtener orden de compra
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Orden de compra (UUID)"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	purchase, err := h.uc.GetPurchase(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toPurchaseResponse(purchase))
}
