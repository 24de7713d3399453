package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/kardex-pro/internal/application/dto"
	"github.com/tu-usuario/kardex-pro/internal/application/stocktake"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
)

// StockTakeHandler maneja tomas físicas de inventario (protegido).
type StockTakeHandler struct {
	uc *stocktake.StockTakeUseCase
}

// NewStockTakeHandler construye el handler.
func NewStockTakeHandler(uc *stocktake.StockTakeUseCase) *StockTakeHandler {
	return &StockTakeHandler{uc: uc}
}

func toStockTakeResponse(st *entity.StockTake) dto.StockTakeResponse {
	out := dto.StockTakeResponse{
		ID:        st.ID,
		BranchID:  st.BranchID,
		Status:    string(st.Status),
		CreatedAt: st.CreatedAt,
		ClosedAt:  st.ClosedAt,
	}
	for _, it := range st.Items {
		out.Items = append(out.Items, dto.StockTakeItemResponse{
			ID:         it.ID,
			ProductID:  it.ProductID,
			SystemQty:  it.SystemQty,
			CountedQty: it.CountedQty,
			Difference: it.Difference,
			CountedAt:  it.CountedAt,
		})
	}
	return out
}

// Create godoc
// @Summary      Abrir toma de inventario (snapshot del stock de la sucursal)
// @Tags         stock-takes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockTakeRequest  true  "branch_id"
// @Success      201   {object}  dto.StockTakeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock-takes [post]
func (h *StockTakeHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockTakeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	take, err := h.uc.Create(c.Context(), GetCompanyID(c), GetUserID(c), in.BranchID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toStockTakeResponse(take))
}

// UpdateCounts godoc
// @Summary      Registrar conteos físicos sobre una toma en curso
// @Tags         stock-takes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                            true  "Toma (UUID)"
// @Param        body  body  dto.UpdateStockTakeCountsRequest  true  "conteos por ítem"
// @Success      200   {object}  dto.StockTakeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-takes/{id}/counts [put]
func (h *StockTakeHandler) UpdateCounts(c *fiber.Ctx) error {
	var in dto.UpdateStockTakeCountsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	counts := make([]stocktake.CountInput, 0, len(in.Counts))
	for _, ct := range in.Counts {
		counts = append(counts, stocktake.CountInput{ItemID: ct.ItemID, CountedQty: ct.CountedQty})
	}
	take, err := h.uc.UpdateCounts(c.Context(), GetCompanyID(c), c.Params("id"), counts)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toStockTakeResponse(take))
}

// Apply godoc
// @Summary      Aplicar toma: un ADJ por ítem contado con diferencia
// @Tags         stock-takes
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Toma (UUID)"
// @Success      200  {object}  dto.StockTakeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-takes/{id}/apply [post]
func (h *StockTakeHandler) Apply(c *fiber.Ctx) error {
	take, err := h.uc.Apply(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toStockTakeResponse(take))
}

// Cancel godoc
// @Summary      Cancelar toma sin generar ajustes
// @Tags         stock-takes
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Toma (UUID)"
// @Success      200  {object}  dto.StockTakeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-takes/{id}/cancel [post]
func (h *StockTakeHandler) Cancel(c *fiber.Ctx) error {
	take, err := h.uc.Cancel(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toStockTakeResponse(take))
}

// GetByID godoc
// @Summary      Obtener toma de inventario
// @Tags         stock-takes
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Toma (UUID)"
// @Success      200  {object}  dto.StockTakeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-takes/{id} [get]
func (h *StockTakeHandler) GetByID(c *fiber.Ctx) error {
	take, err := h.uc.Get(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toStockTakeResponse(take))
}
