package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-stock-api/internal/application/dto"
	"github.com/jhoicas/pos-stock-api/internal/application/stock"
	"github.com/jhoicas/pos-stock-api/internal/domain"
	"github.com/jhoicas/pos-stock-api/internal/domain/entity"
)

// StockHandler maneja las peticiones HTTP del motor de stock (protegido).
type StockHandler struct {
	uc *stock.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// stockError mapea errores de dominio a respuestas HTTP. Compartido por los
// handlers de stock y conteos.
func stockError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientStockError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto o ubicación no encontrado"})
	case errors.As(err, &insufficient):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: insufficient.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrInvalidState):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: "operación inválida para el estado actual"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func balanceResponse(b *entity.StockBalance) dto.StockBalanceResponse {
	return dto.StockBalanceResponse{
		ProductID:  b.ProductID,
		LocationID: b.LocationID,
		Quantity:   b.Quantity,
		LotNumber:  b.LotNumber,
		ExpiryDate: b.ExpiryDate,
		UpdatedAt:  b.UpdatedAt,
	}
}

// Adjust godoc
// @Summary      Ajustar stock
// @Description  Aplica un delta firmado al saldo de un producto en una
//               ubicación y registra el movimiento. Saldos negativos se
//               rechazan sin persistir nada.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, location_id, quantity (delta firmado), type, reason"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjustments [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.uc.AdjustStock(c.Context(), stock.AdjustStockInput{
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		Quantity:   in.Quantity,
		Type:       in.Type,
		Reason:     in.Reason,
		Reference:  in.Reference,
		UserID:     GetUserID(c),
	})
	if err != nil {
		return stockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "ajuste aplicado"})
}

// Transfer godoc
// @Summary      Trasladar stock entre ubicaciones
// @Description  Registra un par Transfer_Out/Transfer_In atómico con una
//               referencia compartida. Si el origen no tiene saldo suficiente
//               no se aplica ninguna de las dos piernas.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferStockRequest  true  "product_id, from_location_id, to_location_id, quantity (positiva)"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/transfers [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.uc.TransferStock(c.Context(), stock.TransferStockInput{
		ProductID:      in.ProductID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Quantity:       in.Quantity,
		Reference:      in.Reference,
		UserID:         GetUserID(c),
	})
	if err != nil {
		return stockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "traslado aplicado"})
}

// GetLevels godoc
// @Summary      Saldos de un producto por ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  path  int  true  "ID del producto"
// @Success      200  {array}   dto.StockBalanceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/products/{product_id}/levels [get]
func (h *StockHandler) GetLevels(c *fiber.Ctx) error {
	productID, err := c.ParamsInt("product_id")
	if err != nil || productID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id inválido"})
	}
	balances, err := h.uc.GetStockLevels(c.Context(), int64(productID))
	if err != nil {
		return stockError(c, err)
	}
	out := make([]dto.StockBalanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, balanceResponse(b))
	}
	return c.JSON(out)
}

// GetSummary godoc
// @Summary      Saldo actual de un producto
// @Description  Saldo en una ubicación (query location_id) o total sumando
//               todas las ubicaciones si se omite.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id   path   int  true   "ID del producto"
// @Param        location_id  query  int  false  "Filtrar por ubicación"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/products/{product_id}/summary [get]
func (h *StockHandler) GetSummary(c *fiber.Ctx) error {
	productID, err := c.ParamsInt("product_id")
	if err != nil || productID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id inválido"})
	}
	var locationID *int64
	if raw := c.QueryInt("location_id"); raw > 0 {
		id := int64(raw)
		locationID = &id
	}
	quantity, err := h.uc.GetCurrentStock(c.Context(), int64(productID), locationID)
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(fiber.Map{"product_id": productID, "quantity": quantity})
}

// GetByLocation godoc
// @Summary      Saldos de todos los productos en una ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        location_id  path  int  true  "ID de la ubicación"
// @Success      200  {array}   dto.StockBalanceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/locations/{location_id} [get]
func (h *StockHandler) GetByLocation(c *fiber.Ctx) error {
	locationID, err := c.ParamsInt("location_id")
	if err != nil || locationID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "location_id inválido"})
	}
	balances, err := h.uc.GetStockByLocation(c.Context(), int64(locationID))
	if err != nil {
		return stockError(c, err)
	}
	out := make([]dto.StockBalanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, balanceResponse(b))
	}
	return c.JSON(out)
}

// GetHistory godoc
// @Summary      Historial de movimientos de un producto
// @Description  Movimientos más recientes primero, filtrables por rango de
//               fechas (RFC 3339) y paginables con limit/offset.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  path   int     true   "ID del producto"
// @Param        from        query  string  false  "Desde (RFC 3339)"
// @Param        to          query  string  false  "Hasta (RFC 3339)"
// @Param        limit       query  int     false  "Máximo de filas (defecto 20)"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.StockMovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/products/{product_id}/history [get]
func (h *StockHandler) GetHistory(c *fiber.Ctx) error {
	productID, err := c.ParamsInt("product_id")
	if err != nil || productID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id inválido"})
	}
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC 3339"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC 3339"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	movements, err := h.uc.GetStockHistory(c.Context(), int64(productID), from, to, page.Limit, page.Offset)
	if err != nil {
		return stockError(c, err)
	}
	out := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.StockMovementResponse{
			ID:              m.ID,
			ProductID:       m.ProductID,
			LocationID:      m.LocationID,
			Type:            m.Type,
			Quantity:        m.Quantity,
			BalanceQuantity: m.BalanceQuantity,
			Reference:       m.Reference,
			Reason:          m.Reason,
			CreatedBy:       m.CreatedBy,
			CreatedAt:       m.CreatedAt,
		})
	}
	return c.JSON(out)
}

// GetLowStock godoc
// @Summary      Productos bajo su umbral de alerta en una ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        location_id  path  int  true  "ID de la ubicación"
// @Success      200  {array}   dto.LowStockItemResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/locations/{location_id}/low [get]
func (h *StockHandler) GetLowStock(c *fiber.Ctx) error {
	locationID, err := c.ParamsInt("location_id")
	if err != nil || locationID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "location_id inválido"})
	}
	items, err := h.uc.GetLowStockProducts(c.Context(), int64(locationID))
	if err != nil {
		return stockError(c, err)
	}
	out := make([]dto.LowStockItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, dto.LowStockItemResponse{
			ProductID:     item.ProductID,
			SKU:           item.SKU,
			Name:          item.Name,
			LocationID:    item.LocationID,
			Quantity:      item.Quantity,
			AlertQuantity: item.AlertQuantity,
		})
	}
	return c.JSON(out)
}

// parseTimeQuery lee un query param RFC 3339 opcional; nil si está ausente.
func parseTimeQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
