package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-pae/internal/application/dto"
	appinv "github.com/tu-usuario/almacen-pae/internal/application/inventory"
	"github.com/tu-usuario/almacen-pae/internal/domain"
	"github.com/tu-usuario/almacen-pae/internal/domain/repository"
	"github.com/tu-usuario/almacen-pae/pkg/validator"
)

// InventoryHandler maneja las peticiones HTTP del ledger de movimientos (protegido).
type InventoryHandler struct {
	record   *appinv.RecordMovementUseCase
	batch    *appinv.SubmitBatchUseCase
	approve  *appinv.ApproveMovementUseCase
	queries  *appinv.MovementQueryUseCase
	lowStock *appinv.LowStockUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	record *appinv.RecordMovementUseCase,
	batch *appinv.SubmitBatchUseCase,
	approve *appinv.ApproveMovementUseCase,
	queries *appinv.MovementQueryUseCase,
	lowStock *appinv.LowStockUseCase,
) *InventoryHandler {
	return &InventoryHandler{record: record, batch: batch, approve: approve, queries: queries, lowStock: lowStock}
}

// RecordMovement godoc
// @Summary      Registrar movimiento de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "inventory_id, type (IN/OUT/ADJUSTMENT/EXPIRED/DAMAGED/TRANSFER), quantity, referencia opcional"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validator.ValidateStruct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	mov, warnings, err := h.record.RecordFromRequest(c.Context(), userID, in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"movement": dto.NewMovementResponse(mov),
		"warnings": dto.NewWarningDTOs(warnings),
	})
}

// SubmitBatch godoc
// @Summary      Registrar lote de movimientos (todo o nada)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitBatchRequest  true  "movimientos + referencia del documento"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/batch [post]
func (h *InventoryHandler) SubmitBatch(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.SubmitBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validator.ValidateStruct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	movements, err := h.batch.SubmitFromRequest(c.Context(), userID, in)
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.NewMovementResponse(m))
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"movements": out, "total": len(out)})
}

// ApproveMovement godoc
// @Summary      Aprobar un movimiento registrado (solo supervisores)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del movimiento"
// @Param        body  body  dto.ApproveMovementRequest  false  "notas del visto bueno"
// @Success      200   {object}  dto.MovementResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id}/approve [post]
func (h *InventoryHandler) ApproveMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ApproveMovementRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	mov, err := h.approve.Approve(c.Context(), c.Params("id"), userID, in.Notes)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.NewMovementResponse(mov))
}

// ListMovements godoc
// @Summary      Listar movimientos (más reciente primero)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        inventory_id    query  string  false  "filtrar por ítem"
// @Param        type            query  string  false  "IN/OUT/ADJUSTMENT/EXPIRED/DAMAGED/TRANSFER"
// @Param        reference_type  query  string  false  "PROCUREMENT, DISTRIBUTION, ..."
// @Param        approval_state  query  string  false  "PENDING | APPROVED"
// @Param        from            query  string  false  "RFC3339"
// @Param        to              query  string  false  "RFC3339"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()

	filter := repository.MovementFilter{
		InventoryID:   c.Query("inventory_id"),
		MovementType:  c.Query("type"),
		ReferenceType: c.Query("reference_type"),
		MovedBy:       c.Query("moved_by"),
		ApprovalState: c.Query("approval_state"),
		Limit:         page.Limit,
		Offset:        page.Offset,
	}
	if from, err := parseTimeQuery(c.Query("from")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from: fecha inválida (RFC3339)"})
	} else {
		filter.From = from
	}
	if to, err := parseTimeQuery(c.Query("to")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to: fecha inválida (RFC3339)"})
	} else {
		filter.To = to
	}

	movements, err := h.queries.List(c.Context(), filter)
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.NewMovementResponse(m))
	}
	return c.JSON(fiber.Map{
		"movements": out,
		"page":      dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// GetMovement godoc
// @Summary      Obtener un movimiento por ID
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [get]
func (h *InventoryHandler) GetMovement(c *fiber.Ctx) error {
	mov, err := h.queries.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.NewMovementResponse(mov))
}

// GetLowStock godoc
// @Summary      Lista de reposición con urgencia
// @Description  Ítems con saldo en o bajo su mínimo, ordenados CRITICAL, HIGH,
//               MEDIUM, con cantidad sugerida y costo estimado de pedido.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) GetLowStock(c *fiber.Ctx) error {
	report, err := h.lowStock.Report(c.Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"items": report, "total": len(report)})
}

func parseTimeQuery(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// writeDomainError mapea errores de dominio a HTTP. Los rechazos de negocio
// (cantidad inválida, stock insuficiente, ya aprobado, lote rechazado) van
// tipados para que el caller pueda ramificar; una falla de persistencia nunca
// se disfraza de rechazo de negocio.
func writeDomainError(c *fiber.Ctx, err error) error {
	var insufficientErr *domain.InsufficientStockError
	var batchErr *domain.BatchError

	switch {
	case errors.As(err, &batchErr):
		resp := dto.ErrorResponse{Code: "BATCH_VALIDATION_FAILED", Message: err.Error()}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"code":          resp.Code,
			"message":       resp.Message,
			"failing_index": batchErr.Index,
		})
	case errors.As(err, &insufficientErr):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: "stock insuficiente",
			Detail:  err.Error(),
		})
	case errors.Is(err, domain.ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrItemInactive):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ITEM_INACTIVE", Message: "el ítem está desactivado"})
	case errors.Is(err, domain.ErrAlreadyApproved):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_APPROVED", Message: "el movimiento ya tiene visto bueno"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "recurso duplicado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "servicio no disponible"})
}
