package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-costeo/internal/application/dto"
	"github.com/jhoicas/inventario-costeo/internal/application/inventory"
)

// CountHandler maneja el ciclo de vida de los conteos físicos.
type CountHandler struct {
	uc *inventory.CountReconciler
}

// NewCountHandler construye el handler.
func NewCountHandler(uc *inventory.CountReconciler) *CountHandler {
	return &CountHandler{uc: uc}
}

// Create godoc
// @Summary      Crear conteo físico
// @Tags         counts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCountRequest  true  "location_id y líneas contadas"
// @Success      201   {object}  dto.CountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/counts [post]
func (h *CountHandler) Create(c *fiber.Ctx) error {
	companyID, userID, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreateCountRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), companyID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar conteos de una ubicación
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  true   "Ubicación"
// @Param        limit        query  int     false  "Tamaño de página"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.CountResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/counts [get]
func (h *CountHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	locationID := c.Query("location_id")
	if locationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "location_id es requerido"})
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 0), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.List(c.UserContext(), companyID, locationID, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener conteo
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del conteo"
// @Success      200  {object}  dto.CountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/counts/{id} [get]
func (h *CountHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Get(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateLines godoc
// @Summary      Reemplazar líneas de un conteo (solo en estado NEW)
// @Tags         counts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del conteo"
// @Param        body  body  dto.UpdateCountLinesRequest  true  "Líneas"
// @Success      200   {object}  dto.CountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/counts/{id}/lines [put]
func (h *CountHandler) UpdateLines(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.UpdateCountLinesRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateLines(c.UserContext(), companyID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Prepare godoc
// @Summary      Recalcular diferencias del conteo contra el stock actual
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del conteo"
// @Success      200  {object}  dto.CountResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/counts/{id}/prepare [post]
func (h *CountHandler) Prepare(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Prepare)
}

// Lock godoc
// @Summary      Bloquear conteo
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del conteo"
// @Success      200  {object}  dto.CountResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/counts/{id}/lock [post]
func (h *CountHandler) Lock(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Lock)
}

// Reject godoc
// @Summary      Rechazar conteo
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del conteo"
// @Success      200  {object}  dto.CountResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/counts/{id}/reject [post]
func (h *CountHandler) Reject(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Reject)
}

// Apply godoc
// @Summary      Aplicar conteo al inventario
// @Description  Ajusta cada material contado con MANUAL_COUNT en una sola transacción.
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del conteo"
// @Success      200  {object}  dto.CountResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/counts/{id}/apply [post]
func (h *CountHandler) Apply(c *fiber.Ctx) error {
	companyID, userID, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.Apply(c.UserContext(), companyID, userID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *CountHandler) transition(c *fiber.Ctx, fn func(ctx context.Context, companyID, countID string) (*dto.CountResponse, error)) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := fn(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
