package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Ricknho777/CarllyRommanel/internal/config"
	"github.com/Ricknho777/CarllyRommanel/internal/service"
)

// CatalogHandler serves the public storefront catalog.
type CatalogHandler struct {
	catalogService service.CatalogService
	shipping       *config.Shipping
}

func NewCatalogHandler(catalogService service.CatalogService, shipping *config.Shipping) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, shipping: shipping}
}

func (h *CatalogHandler) ListProducts(c echo.Context) error {
	products := h.catalogService.List()

	var freeShippingMin *float64
	if h.shipping.FreeThreshold > 0 {
		threshold := h.shipping.FreeThreshold
		freeShippingMin = &threshold
	}

	return c.JSON(http.StatusOK, map[string]any{
		"products":            products,
		"count":               len(products),
		"frete_padrao":        h.shipping.DefaultFee,
		"frete_gratis_minimo": freeShippingMin,
	})
}
