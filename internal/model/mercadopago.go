package model

// Wire types for the Mercado Pago checkout-preference API.

type PreferenceItem struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id"`
	PictureURL string  `json:"picture_url,omitempty"`
}

type Identification struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}

type Payer struct {
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Identification Identification `json:"identification"`
}

type BackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

type ExcludedPaymentType struct {
	ID string `json:"id"`
}

type PaymentMethods struct {
	ExcludedPaymentTypes []ExcludedPaymentType `json:"excluded_payment_types"`
	Installments         int                   `json:"installments"`
	DefaultInstallments  int                   `json:"default_installments"`
}

// PreferenceMetadata echoes the computed totals back through the provider
// so redirect/webhook payloads can be reconciled without a ledger lookup.
type PreferenceMetadata struct {
	Customer        string  `json:"cliente"`
	Email           string  `json:"email"`
	Timestamp       int64   `json:"timestamp"`
	ShippingFee     float64 `json:"frete"`
	Subtotal        float64 `json:"total_produtos"`
	Total           float64 `json:"total_com_frete"`
	FreeShippingMin float64 `json:"frete_gratis_minimo"`
	Environment     string  `json:"ambiente"`
}

type PreferenceRequest struct {
	Items               []PreferenceItem   `json:"items"`
	Payer               Payer              `json:"payer"`
	BackURLs            BackURLs           `json:"back_urls"`
	AutoReturn          string             `json:"auto_return"`
	PaymentMethods      PaymentMethods     `json:"payment_methods"`
	StatementDescriptor string             `json:"statement_descriptor"`
	ExternalReference   string             `json:"external_reference"`
	Expires             bool               `json:"expires"`
	BinaryMode          bool               `json:"binary_mode"`
	NotificationURL     string             `json:"notification_url"`
	Metadata            PreferenceMetadata `json:"metadata"`
}

// PreferenceResponse carries the two redirect links the provider returns.
// Which one is handed to the shopper depends on the credential environment.
type PreferenceResponse struct {
	ID                string `json:"id"`
	InitPoint         string `json:"init_point"`
	SandboxInitPoint  string `json:"sandbox_init_point"`
	ExternalReference string `json:"external_reference"`
}

// WebhookNotification is the provider-shaped webhook body. Only the
// "payment" type is acted on.
type WebhookNotification struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}
