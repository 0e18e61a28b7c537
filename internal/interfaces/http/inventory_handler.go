package http

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-stream/internal/application/dto"
	"github.com/jhoicas/Inventario-stream/internal/application/inventory"
	"github.com/jhoicas/Inventario-stream/internal/domain"
)

// InventoryHandler maneja la API de lectura del inventario.
type InventoryHandler struct {
	uc *inventory.QueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.QueryUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// List godoc
// @Summary      Listar inventario
// @Description  Sin limit devuelve el inventario completo. Con limit pagina por (Store, Item) usando cursor.
// @Tags         items
// @Produce      json
// @Param        limit   query  int     false  "Tamaño de página (1-1000)"
// @Param        cursor  query  string  false  "next_cursor de la página anterior"
// @Success      200  {object}  dto.ItemsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /items [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	if c.Query("limit") == "" && c.Query("cursor") == "" {
		out, err := h.uc.Query(c.Context(), "")
		if err != nil {
			return queryError(c, err)
		}
		return c.JSON(out)
	}

	var q dto.PageQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Error: "limit debe ser numérico"})
	}
	out, err := h.uc.QueryPage(c.Context(), q)
	if err != nil {
		return queryError(c, err)
	}
	return c.JSON(out)
}

// ListByStore godoc
// @Summary      Inventario de una tienda
// @Tags         items
// @Produce      json
// @Param        store  path  string  true  "Identificador de tienda"
// @Success      200  {object}  dto.ItemsResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /items/{store} [get]
func (h *InventoryHandler) ListByStore(c *fiber.Ctx) error {
	store := c.Params("store")
	if s, err := url.PathUnescape(store); err == nil {
		store = s
	}
	out, err := h.uc.Query(c.Context(), store)
	if err != nil {
		return queryError(c, err)
	}
	return c.JSON(out)
}

func queryError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Error: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
}
