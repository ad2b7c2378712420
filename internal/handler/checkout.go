package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Ricknho777/CarllyRommanel/internal/dto"
	"github.com/Ricknho777/CarllyRommanel/internal/service"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

func (h *CheckoutHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.CheckoutResponse{
			Success: false,
			Error:   "corpo da requisição inválido",
		})
	}

	result, err := h.checkoutService.ProcessCheckout(ctx, &req, requestBaseURL(c))
	if err != nil {
		var checkoutErr *service.CheckoutError
		if errors.As(err, &checkoutErr) {
			return c.JSON(http.StatusInternalServerError, dto.CheckoutResponse{
				Success:  false,
				Error:    "Erro ao processar pagamento: " + checkoutErr.Message,
				ErrorTag: string(checkoutErr.Tag),
			})
		}
		// anything else is a validation failure
		return c.JSON(http.StatusBadRequest, dto.CheckoutResponse{
			Success: false,
			Error:   err.Error(),
		})
	}

	return c.JSON(http.StatusOK, dto.CheckoutResponse{
		Success:           true,
		Message:           "Pagamento criado com sucesso!",
		RedirectURL:       result.RedirectURL,
		PreferenceID:      result.PreferenceID,
		ExternalReference: result.ExternalReference,
		ShippingFee:       result.ShippingFee.InexactFloat64(),
		Subtotal:          result.Subtotal.InexactFloat64(),
		Total:             result.Total.InexactFloat64(),
		FreeShipping:      result.FreeShipping,
	})
}

func requestBaseURL(c echo.Context) string {
	if c.Request().Host == "" {
		return ""
	}
	return c.Scheme() + "://" + c.Request().Host
}
