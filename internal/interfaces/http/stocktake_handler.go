package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-stock-api/internal/application/dto"
	"github.com/jhoicas/pos-stock-api/internal/application/stocktake"
	"github.com/jhoicas/pos-stock-api/internal/domain/entity"
)

// StockTakeHandler maneja las peticiones HTTP de conteos físicos (protegido).
type StockTakeHandler struct {
	uc *stocktake.StockTakeUseCase
}

// NewStockTakeHandler construye el handler.
func NewStockTakeHandler(uc *stocktake.StockTakeUseCase) *StockTakeHandler {
	return &StockTakeHandler{uc: uc}
}

func stockTakeResponse(st *entity.StockTake) dto.StockTakeResponse {
	return dto.StockTakeResponse{
		ID:            st.ID,
		LocationID:    st.LocationID,
		Date:          st.Date,
		Status:        st.Status,
		AutoAdjusted:  st.AutoAdjusted,
		CompletedDate: st.CompletedDate,
		Notes:         st.Notes,
	}
}

func stockTakeDetailResponses(details []*entity.StockTakeDetail) []dto.StockTakeDetailResponse {
	out := make([]dto.StockTakeDetailResponse, 0, len(details))
	for _, d := range details {
		out = append(out, dto.StockTakeDetailResponse{
			ProductID: d.ProductID,
			Expected:  d.Expected,
			Counted:   d.Counted,
			Variance:  d.Variance,
			Notes:     d.Notes,
		})
	}
	return out
}

// Create godoc
// @Summary      Abrir una sesión de conteo físico
// @Description  Congela la foto de saldos esperados de la ubicación: un
//               detalle por producto con expected = saldo actual y counted = 0.
// @Tags         stock-takes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockTakeRequest  true  "location_id, notes"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock-takes [post]
func (h *StockTakeHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockTakeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.LocationID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "location_id es requerido"})
	}
	result, err := h.uc.Create(c.Context(), in.LocationID, in.Notes, GetUserID(c))
	if err != nil {
		return stockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"stock_take": stockTakeResponse(result.StockTake),
		"details":    stockTakeDetailResponses(result.Details),
	})
}

// List godoc
// @Summary      Listar sesiones de conteo
// @Tags         stock-takes
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  int     false  "Filtrar por ubicación"
// @Param        from         query  string  false  "Desde (RFC 3339)"
// @Param        to           query  string  false  "Hasta (RFC 3339)"
// @Success      200  {array}   dto.StockTakeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock-takes [get]
func (h *StockTakeHandler) List(c *fiber.Ctx) error {
	var locationID *int64
	if raw := c.QueryInt("location_id"); raw > 0 {
		id := int64(raw)
		locationID = &id
	}
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC 3339"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC 3339"})
	}
	list, err := h.uc.List(c.Context(), locationID, from, to)
	if err != nil {
		return stockError(c, err)
	}
	out := make([]dto.StockTakeResponse, 0, len(list))
	for _, st := range list {
		out = append(out, stockTakeResponse(st))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Detalle de una sesión de conteo
// @Tags         stock-takes
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID de la sesión"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-takes/{id} [get]
func (h *StockTakeHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	result, err := h.uc.GetByID(c.Context(), int64(id))
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(fiber.Map{
		"stock_take": stockTakeResponse(result.StockTake),
		"details":    stockTakeDetailResponses(result.Details),
	})
}

// UpdateDetail godoc
// @Summary      Registrar la cantidad contada de un producto
// @Description  Sobrescribe counted y recalcula variance = counted - expected.
//               Solo permitido mientras la sesión está InProgress.
// @Tags         stock-takes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                               true  "ID de la sesión"
// @Param        body  body  dto.UpdateStockTakeDetailRequest  true  "product_id, counted_quantity, notes"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-takes/{id}/details [put]
func (h *StockTakeHandler) UpdateDetail(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	var in dto.UpdateStockTakeDetailRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id es requerido"})
	}
	if err := h.uc.UpdateDetail(c.Context(), int64(id), in.ProductID, in.Counted, in.Notes); err != nil {
		return stockError(c, err)
	}
	return c.JSON(fiber.Map{"message": "conteo registrado"})
}

// Complete godoc
// @Summary      Cerrar una sesión de conteo
// @Description  Con auto_adjust aplica un ajuste tipo StockTake por cada
//               detalle con variación, reconciliando el saldo vivo con lo
//               contado, todo en una transacción. La transición es terminal.
// @Tags         stock-takes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                          true  "ID de la sesión"
// @Param        body  body  dto.CompleteStockTakeRequest true  "auto_adjust"
// @Success      200   {object}  dto.StockTakeResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-takes/{id}/complete [post]
func (h *StockTakeHandler) Complete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	var in dto.CompleteStockTakeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	completed, err := h.uc.Complete(c.Context(), int64(id), in.AutoAdjust, GetUserID(c))
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(stockTakeResponse(completed))
}

// Cancel godoc
// @Summary      Cancelar una sesión de conteo
// @Description  Termina la sesión sin aplicar ajustes. Terminal igual que
//               Complete.
// @Tags         stock-takes
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID de la sesión"
// @Success      200  {object}  dto.StockTakeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-takes/{id}/cancel [post]
func (h *StockTakeHandler) Cancel(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	cancelled, err := h.uc.Cancel(c.Context(), int64(id))
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(stockTakeResponse(cancelled))
}
