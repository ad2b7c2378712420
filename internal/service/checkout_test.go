package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ricknho777/CarllyRommanel/internal/client"
	"github.com/Ricknho777/CarllyRommanel/internal/config"
	"github.com/Ricknho777/CarllyRommanel/internal/dto"
	"github.com/Ricknho777/CarllyRommanel/internal/model"
)

type fakeGateway struct {
	configured bool
	env        client.Environment
	resp       *model.PreferenceResponse
	err        error

	calls    int
	lastPref *model.PreferenceRequest
}

func (f *fakeGateway) CreatePreference(_ context.Context, pref *model.PreferenceRequest) (*model.PreferenceResponse, error) {
	f.calls++
	f.lastPref = pref
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeGateway) Environment() client.Environment { return f.env }
func (f *fakeGateway) Configured() bool                { return f.configured }

type fakeOrderRepo struct {
	created []*model.Order
	marked  []string
}

func (f *fakeOrderRepo) Create(_ context.Context, order *model.Order) error {
	order.ID = uint(len(f.created) + 1)
	f.created = append(f.created, order)
	return nil
}

func (f *fakeOrderRepo) FindByID(context.Context, uint) (*model.Order, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeOrderRepo) MarkPaid(_ context.Context, providerRef string) (int64, error) {
	f.marked = append(f.marked, providerRef)
	return 1, nil
}

func (f *fakeOrderRepo) Count(context.Context) (int64, error) {
	return int64(len(f.created)), nil
}

func testConfig() *config.Config {
	return &config.Config{
		BaseURL: "https://loja.example.com",
		Shipping: config.Shipping{
			DefaultFee:    5.0,
			FreeThreshold: 150.0,
		},
		MercadoPago: config.MercadoPago{
			StatementDescriptor: "CARLLY ROMMANEL",
			BinaryMode:          true,
			AutoReturn:          "approved",
			WebhookPath:         "/webhook/mercadopago",
		},
	}
}

func sandboxGateway() *fakeGateway {
	return &fakeGateway{
		configured: true,
		env:        client.EnvSandbox,
		resp: &model.PreferenceResponse{
			ID:               "pref-123",
			InitPoint:        "https://mp.example.com/init",
			SandboxInitPoint: "https://sandbox.mp.example.com/init",
		},
	}
}

func validRequest() *dto.CheckoutRequest {
	return &dto.CheckoutRequest{
		Name:  "Maria Silva",
		Email: "maria@example.com",
		Cart: []dto.CartItem{
			{ID: 1, Name: "Anel Solitário", Price: 49.9, Quantity: 2, Image: "/static/images/anel.jpg"},
		},
	}
}

func TestValidateCheckout(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*dto.CheckoutRequest)
		wantErr error
	}{
		{name: "valid", mutate: func(*dto.CheckoutRequest) {}, wantErr: nil},
		{name: "empty cart", mutate: func(r *dto.CheckoutRequest) { r.Cart = nil }, wantErr: ErrEmptyCart},
		{name: "blank name", mutate: func(r *dto.CheckoutRequest) { r.Name = "   " }, wantErr: ErrMissingName},
		{name: "missing email", mutate: func(r *dto.CheckoutRequest) { r.Email = "" }, wantErr: ErrInvalidEmail},
		{name: "email without at sign", mutate: func(r *dto.CheckoutRequest) { r.Email = "maria.example.com" }, wantErr: ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			err := ValidateCheckout(req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestProcessCheckoutNotConfiguredSkipsGateway(t *testing.T) {
	gw := &fakeGateway{configured: false}
	repo := &fakeOrderRepo{}
	svc := NewCheckoutService(gw, testConfig(), repo)

	_, err := svc.ProcessCheckout(context.Background(), validRequest(), "")

	var checkoutErr *CheckoutError
	require.ErrorAs(t, err, &checkoutErr)
	assert.Equal(t, TagNotConfigured, checkoutErr.Tag)
	assert.Zero(t, gw.calls, "unconfigured credential must not reach the provider")
	assert.Empty(t, repo.created)
}

func TestProcessCheckoutAssemblesPreference(t *testing.T) {
	gw := sandboxGateway()
	repo := &fakeOrderRepo{}
	svc := NewCheckoutService(gw, testConfig(), repo)

	summary, err := svc.ProcessCheckout(context.Background(), validRequest(), "")
	require.NoError(t, err)

	require.NotNil(t, gw.lastPref)
	pref := gw.lastPref

	// one cart line plus the shipping line
	require.Len(t, pref.Items, 2)
	assert.Equal(t, "1", pref.Items[0].ID)
	assert.Equal(t, "BRL", pref.Items[0].CurrencyID)
	assert.Equal(t, "https://loja.example.com/static/images/anel.jpg", pref.Items[0].PictureURL)

	frete := pref.Items[1]
	assert.Equal(t, "frete", frete.ID)
	assert.Equal(t, "Frete", frete.Title)
	assert.Equal(t, 1, frete.Quantity)
	assert.InDelta(t, 5.0, frete.UnitPrice, 1e-9)

	assert.Equal(t, "https://loja.example.com/callback/success", pref.BackURLs.Success)
	assert.Equal(t, "https://loja.example.com/callback/failure", pref.BackURLs.Failure)
	assert.Equal(t, "https://loja.example.com/callback/pending", pref.BackURLs.Pending)
	assert.Equal(t, "https://loja.example.com/webhook/mercadopago", pref.NotificationURL)

	assert.Equal(t, "12345678909", pref.Payer.Identification.Number)
	assert.Equal(t, []model.ExcludedPaymentType{{ID: "atm"}}, pref.PaymentMethods.ExcludedPaymentTypes)
	assert.Equal(t, 12, pref.PaymentMethods.Installments)
	assert.Equal(t, 1, pref.PaymentMethods.DefaultInstallments)
	assert.True(t, pref.BinaryMode)
	assert.False(t, pref.Expires)

	assert.True(t, strings.HasPrefix(pref.ExternalReference, "pedido_Maria_Silva_"))
	assert.Equal(t, pref.ExternalReference, summary.ExternalReference)

	// sandbox credential picks the sandbox link
	assert.Equal(t, "https://sandbox.mp.example.com/init", summary.RedirectURL)

	assert.InDelta(t, 99.8, summary.Subtotal.InexactFloat64(), 1e-9)
	assert.InDelta(t, 5.0, summary.ShippingFee.InexactFloat64(), 1e-9)
	assert.InDelta(t, 104.8, summary.Total.InexactFloat64(), 1e-9)
	assert.False(t, summary.FreeShipping)
}

func TestProcessCheckoutFreeShippingOmitsFreteLine(t *testing.T) {
	gw := sandboxGateway()
	svc := NewCheckoutService(gw, testConfig(), &fakeOrderRepo{})

	req := validRequest()
	req.Cart = []dto.CartItem{{ID: 2, Name: "Colar Choker", Price: 200, Quantity: 1}}

	summary, err := svc.ProcessCheckout(context.Background(), req, "")
	require.NoError(t, err)

	require.Len(t, gw.lastPref.Items, 1)
	assert.True(t, summary.ShippingFee.IsZero())
	assert.True(t, summary.FreeShipping)
	assert.InDelta(t, 200.0, summary.Total.InexactFloat64(), 1e-9)
}

func TestProcessCheckoutShippingOverride(t *testing.T) {
	gw := sandboxGateway()
	svc := NewCheckoutService(gw, testConfig(), &fakeOrderRepo{})

	override := 15.0
	req := validRequest()
	req.ShippingOverride = &override

	summary, err := svc.ProcessCheckout(context.Background(), req, "")
	require.NoError(t, err)
	assert.InDelta(t, 15.0, summary.ShippingFee.InexactFloat64(), 1e-9)

	// override still yields zero past the threshold
	req2 := validRequest()
	req2.ShippingOverride = &override
	req2.Cart = []dto.CartItem{{ID: 3, Name: "Kit Completo", Price: 300, Quantity: 1}}
	summary2, err := svc.ProcessCheckout(context.Background(), req2, "")
	require.NoError(t, err)
	assert.True(t, summary2.ShippingFee.IsZero())
}

func TestProcessCheckoutRecordsPendingOrder(t *testing.T) {
	gw := sandboxGateway()
	repo := &fakeOrderRepo{}
	svc := NewCheckoutService(gw, testConfig(), repo)

	summary, err := svc.ProcessCheckout(context.Background(), validRequest(), "")
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	order := repo.created[0]
	assert.Equal(t, "pendente", order.Status)
	assert.Equal(t, "pref-123", order.PaymentID)
	assert.Equal(t, summary.ExternalReference, order.ExternalReference)
	assert.InDelta(t, summary.Total.InexactFloat64(), order.Total, 1e-9)
	assert.Contains(t, order.Items, "Anel Solitário")
}

func TestProcessCheckoutProviderError(t *testing.T) {
	gw := sandboxGateway()
	gw.err = &client.ProviderError{StatusCode: 400, Body: `{"message":"invalid items"}`}
	repo := &fakeOrderRepo{}
	svc := NewCheckoutService(gw, testConfig(), repo)

	_, err := svc.ProcessCheckout(context.Background(), validRequest(), "")

	var checkoutErr *CheckoutError
	require.ErrorAs(t, err, &checkoutErr)
	assert.Equal(t, TagProviderError, checkoutErr.Tag)
	assert.Empty(t, repo.created, "failed preference must not reach the ledger")
}

func TestProcessCheckoutTransportError(t *testing.T) {
	gw := sandboxGateway()
	gw.err = errors.New("dial tcp: connection refused")
	svc := NewCheckoutService(gw, testConfig(), &fakeOrderRepo{})

	_, err := svc.ProcessCheckout(context.Background(), validRequest(), "")

	var checkoutErr *CheckoutError
	require.ErrorAs(t, err, &checkoutErr)
	assert.Equal(t, TagException, checkoutErr.Tag)
}

func TestAssembleItemsClampsAndTruncates(t *testing.T) {
	cart := []dto.CartItem{
		{ID: 1, Name: "Brinco Grátis", Price: 0, Quantity: 1},
		{ID: 2, Name: "Pulseira", Price: -10, Quantity: -3},
		{ID: 3, Name: strings.Repeat("x", 300), Price: 10, Quantity: 2},
	}

	items, subtotal := assembleItems(cart, "")
	require.Len(t, items, 3)

	assert.InDelta(t, 1.0, items[0].UnitPrice, 1e-9)
	assert.InDelta(t, 1.0, items[1].UnitPrice, 1e-9)
	assert.Equal(t, 1, items[1].Quantity)
	assert.Len(t, items[2].Title, 256)

	// subtotal accumulates the clamped values: 1 + 1 + 20
	assert.InDelta(t, 22.0, subtotal.InexactFloat64(), 1e-9)
}

func TestAssembleItemsClampIsIdempotent(t *testing.T) {
	cart := []dto.CartItem{{ID: 1, Name: "Anel", Price: 0, Quantity: 0}}

	first, _ := assembleItems(cart, "")
	cart[0].Price = first[0].UnitPrice
	cart[0].Quantity = first[0].Quantity
	second, _ := assembleItems(cart, "")

	assert.Equal(t, first, second)
}

func TestAssembleItemsEmptyCartPlaceholder(t *testing.T) {
	items, subtotal := assembleItems(nil, "https://loja.example.com")

	require.Len(t, items, 1)
	assert.Equal(t, "Anel Aro Duplo Quadrado Banhado Ouro 18k", items[0].Title)
	assert.InDelta(t, 87.76, items[0].UnitPrice, 1e-9)
	assert.Equal(t, 1, items[0].Quantity)
	assert.InDelta(t, 87.76, subtotal.InexactFloat64(), 1e-9)
}

func TestAbsolutizeImage(t *testing.T) {
	assert.Equal(t, "https://loja.example.com/static/a.jpg", absolutizeImage("/static/a.jpg", "https://loja.example.com"))
	assert.Equal(t, "https://cdn.example.com/a.jpg", absolutizeImage("https://cdn.example.com/a.jpg", "https://loja.example.com"))
	assert.Equal(t, "/static/a.jpg", absolutizeImage("/static/a.jpg", ""))
	assert.Equal(t, "", absolutizeImage("", "https://loja.example.com"))
}

func TestBuildExternalReference(t *testing.T) {
	now := time.Unix(1700000000, 0)

	assert.Equal(t, "pedido_Maria_Silva_1700000000", buildExternalReference("Maria Silva", now))
	assert.Equal(t, "pedido_cliente_1700000000", buildExternalReference("   ", now))
}

func TestResolveBaseURL(t *testing.T) {
	assert.Equal(t, "https://loja.example.com", resolveBaseURL("https://loja.example.com/", "http://localhost:8080"))
	assert.Equal(t, "http://localhost:8080", resolveBaseURL("", "http://localhost:8080"))
	assert.Equal(t, "", resolveBaseURL("", ""))
	assert.Equal(t, "", resolveBaseURL("", "not a url"))
}

func TestChoosePaymentURL(t *testing.T) {
	both := &model.PreferenceResponse{
		InitPoint:        "https://prod/init",
		SandboxInitPoint: "https://sandbox/init",
	}

	tests := []struct {
		name    string
		env     client.Environment
		resp    *model.PreferenceResponse
		want    string
		wantTag FailureTag
	}{
		{name: "production prefers init_point", env: client.EnvProduction, resp: both, want: "https://prod/init"},
		{name: "sandbox prefers sandbox link", env: client.EnvSandbox, resp: both, want: "https://sandbox/init"},
		{name: "unknown treated as non-production", env: client.EnvUnknown, resp: both, want: "https://sandbox/init"},
		{
			name: "production falls back to sandbox",
			env:  client.EnvProduction,
			resp: &model.PreferenceResponse{SandboxInitPoint: "https://sandbox/init"},
			want: "https://sandbox/init",
		},
		{
			name: "sandbox falls back to production",
			env:  client.EnvSandbox,
			resp: &model.PreferenceResponse{InitPoint: "https://prod/init"},
			want: "https://prod/init",
		},
		{name: "neither link", env: client.EnvSandbox, resp: &model.PreferenceResponse{}, wantTag: TagNoURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ChoosePaymentURL(tt.env, tt.resp)
			if tt.wantTag != "" {
				var checkoutErr *CheckoutError
				require.ErrorAs(t, err, &checkoutErr)
				assert.Equal(t, tt.wantTag, checkoutErr.Tag)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandlePaymentNotification(t *testing.T) {
	repo := &fakeOrderRepo{}
	svc := NewCheckoutService(sandboxGateway(), testConfig(), repo)

	// non-payment types are acknowledged and dropped
	err := svc.HandlePaymentNotification(context.Background(), &model.WebhookNotification{Type: "merchant_order"})
	require.NoError(t, err)
	assert.Empty(t, repo.marked)

	// missing id is tolerated
	err = svc.HandlePaymentNotification(context.Background(), &model.WebhookNotification{Type: "payment"})
	require.NoError(t, err)
	assert.Empty(t, repo.marked)

	n := &model.WebhookNotification{Type: "payment"}
	n.Data.ID = "12345"
	err = svc.HandlePaymentNotification(context.Background(), n)
	require.NoError(t, err)
	assert.Equal(t, []string{"12345"}, repo.marked)
}
