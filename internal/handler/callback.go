package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/Ricknho777/CarllyRommanel/internal/model"
	"github.com/Ricknho777/CarllyRommanel/internal/service"
)

// CallbackHandler receives the provider's redirect callbacks and webhook.
// Both are deliberately lenient: the provider retries webhooks
// all-or-nothing, so a degraded notification beats a dropped one.
type CallbackHandler struct {
	checkoutService service.CheckoutService
}

func NewCallbackHandler(checkoutService service.CheckoutService) *CallbackHandler {
	return &CallbackHandler{checkoutService: checkoutService}
}

// callbackParams patches missing redirect parameters with synthetic
// fallbacks: collection_id stands in for payment_id, then the external
// reference, then a timestamp-derived placeholder.
func callbackParams(c echo.Context, defaultStatus string) (paymentID, status, externalRef string) {
	paymentID = c.QueryParam("payment_id")
	status = c.QueryParam("status")
	externalRef = c.QueryParam("external_reference")

	if paymentID == "" {
		paymentID = c.QueryParam("collection_id")
	}
	if paymentID == "" {
		paymentID = externalRef
	}
	if paymentID == "" {
		paymentID = fmt.Sprintf("REF_%d", time.Now().Unix())
	}
	if status == "" {
		status = defaultStatus
	}
	return paymentID, status, externalRef
}

func (h *CallbackHandler) Success(c echo.Context) error {
	paymentID, status, externalRef := callbackParams(c, "approved")
	log.Info().Str("payment_id", paymentID).Str("status", status).Str("external_reference", externalRef).Msg("success callback")

	return c.HTML(http.StatusOK, callbackPage(
		"Pagamento aprovado",
		"Pagamento aprovado com sucesso! Você receberá a confirmação por e-mail.",
		"/",
	))
}

func (h *CallbackHandler) Failure(c echo.Context) error {
	paymentID, status, externalRef := callbackParams(c, "rejected")
	log.Info().Str("payment_id", paymentID).Str("status", status).Str("external_reference", externalRef).Msg("failure callback")

	return c.HTML(http.StatusOK, callbackPage(
		"Pagamento recusado",
		"Pagamento recusado. Tente novamente ou use outro método de pagamento.",
		"/checkout.html",
	))
}

func (h *CallbackHandler) Pending(c echo.Context) error {
	paymentID, status, externalRef := callbackParams(c, "pending")
	log.Info().Str("payment_id", paymentID).Str("status", status).Str("external_reference", externalRef).Msg("pending callback")

	return c.HTML(http.StatusOK, callbackPage(
		"Pagamento pendente",
		"Pagamento pendente de confirmação. Você receberá uma notificação quando for processado.",
		"/",
	))
}

func (h *CallbackHandler) Webhook(c echo.Context) error {
	ctx := c.Request().Context()

	var notification model.WebhookNotification
	if err := c.Bind(&notification); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid format"})
	}

	if err := h.checkoutService.HandlePaymentNotification(ctx, &notification); err != nil {
		// Acknowledge anyway; the provider's retry policy is all-or-nothing.
		log.Warn().Err(err).Msg("webhook processing failed")
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "received"})
}

func callbackPage(title, message, redirect string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<title>%s</title>
	<style>
		body { font-family: Arial, sans-serif; text-align: center; margin-top: 80px; }
	</style>
</head>
<body>
	<h2>%s</h2>
	<p>%s</p>
	<p><a href="%s">Voltar para a loja</a></p>
</body>
</html>
`, title, title, message, redirect)
}
