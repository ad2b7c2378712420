package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Ricknho777/CarllyRommanel/internal/config"
	"github.com/Ricknho777/CarllyRommanel/internal/model"
)

// Environment is derived from the credential's naming convention. Anything
// that is not recognizably a production token is treated as non-production.
type Environment int

const (
	EnvUnknown Environment = iota
	EnvSandbox
	EnvProduction
)

const (
	productionTokenPrefix = "APP_USR-"
	sandboxTokenPrefix    = "TEST-"
)

func (e Environment) String() string {
	switch e {
	case EnvProduction:
		return "production"
	case EnvSandbox:
		return "sandbox"
	default:
		return "unknown"
	}
}

// ClassifyCredential decides production vs sandbox purely from the
// credential prefix. This is the single place the prefixes are checked.
func ClassifyCredential(accessToken string) Environment {
	switch {
	case strings.HasPrefix(accessToken, productionTokenPrefix):
		return EnvProduction
	case strings.HasPrefix(accessToken, sandboxTokenPrefix):
		return EnvSandbox
	default:
		return EnvUnknown
	}
}

// ProviderError is a non-2xx answer from Mercado Pago, surfaced with the
// raw status and body so the caller can relay it without guessing.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("mercadopago error %d: %s", e.StatusCode, e.Body)
}

type MercadoPagoClient interface {
	CreatePreference(ctx context.Context, pref *model.PreferenceRequest) (*model.PreferenceResponse, error)
	Environment() Environment
	Configured() bool
}

type mercadoPagoClientImpl struct {
	httpClient  *http.Client
	baseApiURL  string
	accessToken string
}

func NewMercadoPagoClient(cfg *config.MercadoPago) MercadoPagoClient {
	return &mercadoPagoClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL:  strings.TrimRight(cfg.BaseApiURL, "/"),
		accessToken: cfg.AccessToken,
	}
}

func (c *mercadoPagoClientImpl) Configured() bool {
	return c.accessToken != ""
}

func (c *mercadoPagoClientImpl) Environment() Environment {
	return ClassifyCredential(c.accessToken)
}

func (c *mercadoPagoClientImpl) CreatePreference(ctx context.Context, pref *model.PreferenceRequest) (*model.PreferenceResponse, error) {
	body, err := json.Marshal(pref)
	if err != nil {
		return nil, fmt.Errorf("marshal preference payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseApiURL+"/checkout/preferences",
		bytes.NewBuffer(body),
	)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, &ProviderError{StatusCode: resp.StatusCode, Body: string(b)}
	}

	var result model.PreferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode mercadopago response: %w", err)
	}

	return &result, nil
}
