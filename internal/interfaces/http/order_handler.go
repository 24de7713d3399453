package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/kardex-pro/internal/application/dto"
	"github.com/tu-usuario/kardex-pro/internal/application/sales"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
)

// OrderHandler maneja el ciclo de vida de pedidos de venta (protegido).
type OrderHandler struct {
	uc *sales.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *sales.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func toOrderResponse(o *entity.SalesOrder) dto.OrderResponse {
	out := dto.OrderResponse{
		ID:         o.ID,
		BranchID:   o.BranchID,
		CustomerID: o.CustomerID,
		Status:     o.Status,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
	for _, l := range o.Lines {
		out.Lines = append(out.Lines, dto.OrderLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	return out
}

// Create godoc
// @Summary      Crear pedido en borrador
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "branch_id, lines"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := sales.CreateOrderInput{
		CompanyID:  GetCompanyID(c),
		UserID:     GetUserID(c),
		BranchID:   in.BranchID,
		CustomerID: in.CustomerID,
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, sales.OrderLineInput{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	order, err := h.uc.CreateOrder(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toOrderResponse(order))
}

// Confirm godoc
// @Summary      Confirmar pedido (descuenta stock)
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Pedido (UUID)"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/confirm [post]
func (h *OrderHandler) Confirm(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	orderID := c.Params("id")
	if err := h.uc.ConfirmOrder(c.Context(), companyID, GetUserID(c), orderID); err != nil {
		return respondError(c, err)
	}
	order, err := h.uc.GetOrder(companyID, orderID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// Cancel godoc
// @Summary      Cancelar pedido confirmado (devuelve stock)
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Pedido (UUID)"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	orderID := c.Params("id")
	if err := h.uc.CancelOrder(c.Context(), companyID, GetUserID(c), orderID); err != nil {
		return respondError(c, err)
	}
	order, err := h.uc.GetOrder(companyID, orderID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// GetByID godoc
// @Summary      Obtener pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Pedido (UUID)"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.GetOrder(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}
