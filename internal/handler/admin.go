package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Ricknho777/CarllyRommanel/internal/dto"
	"github.com/Ricknho777/CarllyRommanel/internal/service"
)

// AdminHandler exposes the token-guarded catalog management API.
type AdminHandler struct {
	catalogService service.CatalogService
}

func NewAdminHandler(catalogService service.CatalogService) *AdminHandler {
	return &AdminHandler{catalogService: catalogService}
}

func (h *AdminHandler) ListProducts(c echo.Context) error {
	products := h.catalogService.List()
	return c.JSON(http.StatusOK, map[string]any{
		"success":       true,
		"products":      products,
		"count":         len(products),
		"authenticated": true,
	})
}

func (h *AdminHandler) CreateProduct(c echo.Context) error {
	var payload dto.ProductPayload
	if err := c.Bind(&payload); err != nil {
		return adminError(c, http.StatusBadRequest, "corpo da requisição inválido")
	}
	if payload.Name == "" || payload.Code == "" || payload.Category == "" || payload.Price == nil {
		return adminError(c, http.StatusBadRequest, "Campos obrigatórios: name, price, code, category")
	}

	product, err := h.catalogService.Create(&payload)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPrice) {
			return adminError(c, http.StatusBadRequest, "Preço inválido")
		}
		var inUse *service.CodeInUseError
		if errors.As(err, &inUse) {
			return adminError(c, http.StatusBadRequest, inUse.Error())
		}
		return adminError(c, http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"success":       true,
		"message":       "Produto adicionado com sucesso",
		"product":       product,
		"id":            product.ID,
		"authenticated": true,
	})
}

func (h *AdminHandler) UpdateProduct(c echo.Context) error {
	var payload dto.ProductPayload
	if err := c.Bind(&payload); err != nil {
		return adminError(c, http.StatusBadRequest, "corpo da requisição inválido")
	}
	if payload.ID == nil {
		return adminError(c, http.StatusBadRequest, "ID do produto é obrigatório para atualização")
	}

	product, err := h.catalogService.Update(&payload)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return adminError(c, http.StatusNotFound, "Produto não encontrado")
		}
		return adminError(c, http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":       true,
		"message":       "Produto atualizado com sucesso",
		"product":       product,
		"authenticated": true,
	})
}

func (h *AdminHandler) DeleteProduct(c echo.Context) error {
	var payload dto.ProductPayload
	if err := c.Bind(&payload); err != nil {
		return adminError(c, http.StatusBadRequest, "corpo da requisição inválido")
	}
	if payload.ID == nil {
		return adminError(c, http.StatusBadRequest, "ID do produto é obrigatório para exclusão")
	}

	if err := h.catalogService.Delete(*payload.ID); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return adminError(c, http.StatusNotFound, "Produto não encontrado")
		}
		return adminError(c, http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":       true,
		"message":       "Produto removido com sucesso",
		"authenticated": true,
	})
}

func (h *AdminHandler) Stats(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.catalogService.Stats(ctx)
	if err != nil {
		return adminError(c, http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":       true,
		"stats":         stats,
		"authenticated": true,
	})
}

func adminError(c echo.Context, code int, message string) error {
	return c.JSON(code, map[string]any{
		"success": false,
		"error":   message,
	})
}
