package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Ricknho777/CarllyRommanel/internal/client"
	"github.com/Ricknho777/CarllyRommanel/internal/config"
	"github.com/Ricknho777/CarllyRommanel/internal/dto"
	"github.com/Ricknho777/CarllyRommanel/internal/model"
	"github.com/Ricknho777/CarllyRommanel/internal/repository"
)

// FailureTag classifies why a checkout could not produce a redirect URL.
type FailureTag string

const (
	TagNotConfigured FailureTag = "not_configured"
	TagProviderError FailureTag = "provider_error"
	TagNoURL         FailureTag = "no_url"
	TagException     FailureTag = "exception"
)

type CheckoutError struct {
	Tag     FailureTag
	Message string
}

func (e *CheckoutError) Error() string {
	return fmt.Sprintf("%s: %s", e.Tag, e.Message)
}

// Validation failures, surfaced to the caller before the assembler runs.
var (
	ErrEmptyCart    = errors.New("carrinho vazio")
	ErrMissingName  = errors.New("nome é obrigatório")
	ErrInvalidEmail = errors.New("email válido é obrigatório")
)

const (
	currencyID     = "BRL"
	maxTitleLen    = 256
	minUnitPrice   = 1.0
	shippingItemID = "frete"
	shippingTitle  = "Frete"
	refPrefix      = "pedido"
)

// PreferenceSummary is the success value of a checkout: the chosen
// redirect link plus the computed totals.
type PreferenceSummary struct {
	RedirectURL       string
	PreferenceID      string
	ExternalReference string
	Subtotal          decimal.Decimal
	ShippingFee       decimal.Decimal
	Total             decimal.Decimal
	FreeShipping      bool
}

type CheckoutService interface {
	// ProcessCheckout validates the submission, assembles the provider
	// payload, creates the preference and records the order.
	// requestBaseURL is the scheme://host of the inbound request, used to
	// absolutize callback URLs when no BASE_URL is configured.
	ProcessCheckout(ctx context.Context, req *dto.CheckoutRequest, requestBaseURL string) (*PreferenceSummary, error)

	// HandlePaymentNotification translates a provider webhook into a
	// ledger update. Only "payment" notifications are acted on; every
	// other type is acknowledged and dropped.
	HandlePaymentNotification(ctx context.Context, n *model.WebhookNotification) error
}

type checkoutServiceImpl struct {
	mpClient  client.MercadoPagoClient
	cfg       *config.Config
	orderRepo repository.OrderRepository
}

func NewCheckoutService(mpClient client.MercadoPagoClient, cfg *config.Config, orderRepo repository.OrderRepository) CheckoutService {
	return &checkoutServiceImpl{
		mpClient:  mpClient,
		cfg:       cfg,
		orderRepo: orderRepo,
	}
}

// ValidateCheckout applies the presence/shape checks a submission must
// pass before the assembler runs. Deliberately shallow: no RFC email
// parsing, no per-line schema validation.
func ValidateCheckout(req *dto.CheckoutRequest) error {
	if len(req.Cart) == 0 {
		return ErrEmptyCart
	}
	if strings.TrimSpace(req.Name) == "" {
		return ErrMissingName
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	return nil
}

func (s *checkoutServiceImpl) ProcessCheckout(ctx context.Context, req *dto.CheckoutRequest, requestBaseURL string) (*PreferenceSummary, error) {
	if err := ValidateCheckout(req); err != nil {
		return nil, err
	}

	// Missing credential short-circuits before any network I/O.
	if !s.mpClient.Configured() {
		return nil, &CheckoutError{
			Tag:     TagNotConfigured,
			Message: "credencial do Mercado Pago não configurada",
		}
	}

	base := resolveBaseURL(s.cfg.BaseURL, requestBaseURL)
	env := s.mpClient.Environment()

	items, subtotal := assembleItems(req.Cart, base)

	feeBase := decimal.NewFromFloat(s.cfg.Shipping.DefaultFee)
	if req.ShippingOverride != nil {
		feeBase = decimal.NewFromFloat(*req.ShippingOverride)
	}
	fee := CalculateShipping(subtotal, feeBase, decimal.NewFromFloat(s.cfg.Shipping.FreeThreshold))
	total := subtotal.Add(fee)

	if fee.IsPositive() {
		items = append(items, shippingItem(fee, base))
	}

	now := time.Now()
	externalRef := buildExternalReference(req.Name, now)

	pref := &model.PreferenceRequest{
		Items: items,
		Payer: model.Payer{
			Name:  req.Name,
			Email: req.Email,
			Identification: model.Identification{
				Type:   "CPF",
				Number: "12345678909",
			},
		},
		BackURLs:   buildBackURLs(base),
		AutoReturn: s.cfg.MercadoPago.AutoReturn,
		PaymentMethods: model.PaymentMethods{
			ExcludedPaymentTypes: []model.ExcludedPaymentType{{ID: "atm"}},
			Installments:         12,
			DefaultInstallments:  1,
		},
		StatementDescriptor: s.cfg.MercadoPago.StatementDescriptor,
		ExternalReference:   externalRef,
		Expires:             false,
		BinaryMode:          s.cfg.MercadoPago.BinaryMode,
		NotificationURL:     buildNotificationURL(base, s.cfg.MercadoPago.WebhookPath),
		Metadata: model.PreferenceMetadata{
			Customer:        req.Name,
			Email:           req.Email,
			Timestamp:       now.Unix(),
			ShippingFee:     fee.InexactFloat64(),
			Subtotal:        subtotal.InexactFloat64(),
			Total:           total.InexactFloat64(),
			FreeShippingMin: s.cfg.Shipping.FreeThreshold,
			Environment:     env.String(),
		},
	}

	resp, err := s.mpClient.CreatePreference(ctx, pref)
	if err != nil {
		var provErr *client.ProviderError
		if errors.As(err, &provErr) {
			return nil, &CheckoutError{Tag: TagProviderError, Message: provErr.Error()}
		}
		log.Error().Err(err).Str("external_reference", externalRef).Msg("unexpected failure creating preference")
		return nil, &CheckoutError{Tag: TagException, Message: err.Error()}
	}

	redirectURL, err := ChoosePaymentURL(env, resp)
	if err != nil {
		return nil, err
	}

	s.recordOrder(ctx, req, resp.ID, externalRef, total)

	log.Info().
		Str("preference_id", resp.ID).
		Str("external_reference", externalRef).
		Str("environment", env.String()).
		Str("total", total.StringFixed(2)).
		Msg("payment preference created")

	return &PreferenceSummary{
		RedirectURL:       redirectURL,
		PreferenceID:      resp.ID,
		ExternalReference: externalRef,
		Subtotal:          subtotal,
		ShippingFee:       fee,
		Total:             total,
		FreeShipping:      fee.IsZero() && s.cfg.Shipping.FreeThreshold > 0,
	}, nil
}

// recordOrder writes the ledger row. A storage failure does not undo an
// already-created preference; it is logged and the checkout still succeeds.
func (s *checkoutServiceImpl) recordOrder(ctx context.Context, req *dto.CheckoutRequest, preferenceID, externalRef string, total decimal.Decimal) {
	snapshot, err := json.Marshal(req.Cart)
	if err != nil {
		log.Warn().Err(err).Msg("could not serialize cart snapshot")
		snapshot = []byte("[]")
	}

	order := &model.Order{
		UserID:            req.UserID,
		Items:             string(snapshot),
		Total:             total.InexactFloat64(),
		Status:            "pendente",
		PaymentID:         preferenceID,
		ExternalReference: externalRef,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		log.Warn().Err(err).Str("external_reference", externalRef).Msg("could not record order")
		return
	}
	log.Info().Uint("order_id", order.ID).Msg("order recorded")
}

func (s *checkoutServiceImpl) HandlePaymentNotification(ctx context.Context, n *model.WebhookNotification) error {
	if n.Type != "payment" {
		log.Debug().Str("type", n.Type).Msg("ignoring non-payment notification")
		return nil
	}
	if n.Data.ID == "" {
		log.Warn().Msg("payment notification without data.id")
		return nil
	}

	// Matches on payment_id OR external_reference, as the storefront
	// always has; see the order repository for the caveat.
	updated, err := s.orderRepo.MarkPaid(ctx, n.Data.ID)
	if err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}

	log.Info().Str("payment_id", n.Data.ID).Int64("orders_updated", updated).Msg("payment notification processed")
	return nil
}

// assembleItems normalizes the cart into provider item lines and returns
// the subtotal over the normalized prices. An empty cart yields a single
// placeholder line; the provider rejects zero-item preferences.
func assembleItems(cart []dto.CartItem, base string) ([]model.PreferenceItem, decimal.Decimal) {
	if len(cart) == 0 {
		cart = []dto.CartItem{{
			ID:       1,
			Name:     "Anel Aro Duplo Quadrado Banhado Ouro 18k",
			Price:    87.76,
			Quantity: 1,
			Image:    "/static/images/default-product.jpg",
		}}
	}

	items := make([]model.PreferenceItem, 0, len(cart))
	subtotal := decimal.Zero

	for i, line := range cart {
		qty := line.Quantity
		if qty <= 0 {
			qty = 1
		}

		// Zero and negative prices get clamped up; the provider refuses
		// free lines outright.
		price := line.Price
		if price <= 0 {
			price = minUnitPrice
		}

		title := line.Name
		if title == "" {
			title = "Produto"
		}
		if len(title) > maxTitleLen {
			title = title[:maxTitleLen]
		}

		id := strconv.Itoa(line.ID)
		if line.ID == 0 {
			id = fmt.Sprintf("item_%d", i+1)
		}

		item := model.PreferenceItem{
			ID:         id,
			Title:      title,
			Quantity:   qty,
			UnitPrice:  price,
			CurrencyID: currencyID,
			PictureURL: absolutizeImage(line.Image, base),
		}

		subtotal = subtotal.Add(decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(qty))))
		items = append(items, item)
	}

	return items, subtotal
}

func shippingItem(fee decimal.Decimal, base string) model.PreferenceItem {
	item := model.PreferenceItem{
		ID:         shippingItemID,
		Title:      shippingTitle,
		Quantity:   1,
		UnitPrice:  fee.InexactFloat64(),
		CurrencyID: currencyID,
	}
	if base != "" {
		item.PictureURL = base + "/static/icons/shipping.png"
	}
	return item
}

// absolutizeImage promotes a site-relative image path to an absolute URL
// when the deployment base is known; absolute URLs pass through untouched.
func absolutizeImage(image, base string) string {
	if image == "" {
		return ""
	}
	if strings.HasPrefix(image, "/") && base != "" {
		return base + image
	}
	return image
}

// buildExternalReference correlates the preference and the ledger row:
// fixed prefix, name slug, unix timestamp. Uniqueness rides on the
// name+timestamp pair, which is acceptable at this volume.
func buildExternalReference(name string, now time.Time) string {
	slug := strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	if slug == "" {
		slug = "cliente"
	}
	return fmt.Sprintf("%s_%s_%d", refPrefix, slug, now.Unix())
}

// resolveBaseURL prefers the configured BASE_URL; without one it derives
// scheme://host from the inbound request so callback URLs can still be
// absolute. Both absent means relative callbacks.
func resolveBaseURL(configured, requestBaseURL string) string {
	if configured != "" {
		return strings.TrimRight(configured, "/")
	}
	if requestBaseURL == "" {
		return ""
	}
	u, err := url.Parse(requestBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

func buildBackURLs(base string) model.BackURLs {
	return model.BackURLs{
		Success: base + "/callback/success",
		Failure: base + "/callback/failure",
		Pending: base + "/callback/pending",
	}
}

func buildNotificationURL(base, webhookPath string) string {
	if !strings.HasPrefix(webhookPath, "/") {
		webhookPath = "/" + webhookPath
	}
	return base + webhookPath
}

// ChoosePaymentURL picks between the provider's production and sandbox
// links based on the credential environment. A production credential
// prefers the production link and falls back to sandbox; everything else
// prefers sandbox and falls back to production. Neither link present is a
// hard failure.
func ChoosePaymentURL(env client.Environment, resp *model.PreferenceResponse) (string, error) {
	primary, fallback := resp.SandboxInitPoint, resp.InitPoint
	if env == client.EnvProduction {
		primary, fallback = resp.InitPoint, resp.SandboxInitPoint
	}

	if primary != "" {
		return primary, nil
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", &CheckoutError{
		Tag:     TagNoURL,
		Message: "URL de pagamento não encontrada na resposta do provedor",
	}
}
