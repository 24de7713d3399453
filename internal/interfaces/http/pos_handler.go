package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/kardex-pro/internal/application/dto"
	"github.com/tu-usuario/kardex-pro/internal/application/pos"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
)

// POSHandler maneja el checkout y la anulación de ventas (protegido).
type POSHandler struct {
	uc *pos.CheckoutUseCase
}

// NewPOSHandler construye el handler.
func NewPOSHandler(uc *pos.CheckoutUseCase) *POSHandler {
	return &POSHandler{uc: uc}
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	out := dto.SaleResponse{
		ID:        s.ID,
		BranchID:  s.BranchID,
		Status:    s.Status,
		Total:     s.Total,
		CreatedAt: s.CreatedAt,
	}
	for _, l := range s.Lines {
		out.Lines = append(out.Lines, dto.OrderLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	for _, p := range s.Payments {
		out.Payments = append(out.Payments, dto.PaymentResponse{
			ID:        p.ID,
			SessionID: p.SessionID,
			Method:    p.Method,
			Amount:    p.Amount,
		})
	}
	return out
}

// Checkout godoc
// @Summary      Venta POS inmediata (descuenta stock y registra pagos)
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "branch_id, lines, payments; CASH exige sesión de caja abierta"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pos/checkout [post]
func (h *POSHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := pos.CheckoutInput{
		CompanyID: GetCompanyID(c),
		UserID:    GetUserID(c),
		BranchID:  in.BranchID,
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, pos.CheckoutLineInput{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	for _, p := range in.Payments {
		input.Payments = append(input.Payments, pos.PaymentInput{
			Method: p.Method,
			Amount: p.Amount,
		})
	}
	sale, err := h.uc.Checkout(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSaleResponse(sale))
}

// Void godoc
// @Summary      Anular venta (devuelve stock; rechaza ventas a crédito)
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Venta (UUID)"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/pos/sales/{id}/void [post]
func (h *POSHandler) Void(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	saleID := c.Params("id")
	if err := h.uc.VoidSale(c.Context(), companyID, GetUserID(c), saleID); err != nil {
		return respondError(c, err)
	}
	sale, err := h.uc.GetSale(companyID, saleID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toSaleResponse(sale))
}

// GetByID godoc
// @Summary      Obtener venta
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Venta (UUID)"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pos/sales/{id} [get]
func (h *POSHandler) GetByID(c *fiber.Ctx) error {
	sale, err := h.uc.GetSale(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toSaleResponse(sale))
}
