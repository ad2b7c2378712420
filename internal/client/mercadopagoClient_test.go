package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ricknho777/CarllyRommanel/internal/config"
	"github.com/Ricknho777/CarllyRommanel/internal/model"
)

func TestClassifyCredential(t *testing.T) {
	tests := []struct {
		token string
		want  Environment
	}{
		{"APP_USR-1234567890", EnvProduction},
		{"TEST-1234567890", EnvSandbox},
		{"", EnvUnknown},
		{"sk_live_whatever", EnvUnknown},
		{"app_usr-lowercase", EnvUnknown},
		{"TEST", EnvUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyCredential(tt.token), "token %q", tt.token)
	}
}

func TestEnvironmentString(t *testing.T) {
	assert.Equal(t, "production", EnvProduction.String())
	assert.Equal(t, "sandbox", EnvSandbox.String())
	assert.Equal(t, "unknown", EnvUnknown.String())
}

func TestConfigured(t *testing.T) {
	withToken := NewMercadoPagoClient(&config.MercadoPago{AccessToken: "TEST-abc"})
	assert.True(t, withToken.Configured())
	assert.Equal(t, EnvSandbox, withToken.Environment())

	withoutToken := NewMercadoPagoClient(&config.MercadoPago{})
	assert.False(t, withoutToken.Configured())
}

func TestCreatePreference(t *testing.T) {
	var gotAuth string
	var gotPref model.PreferenceRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/checkout/preferences", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPref))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(model.PreferenceResponse{
			ID:               "pref-1",
			InitPoint:        "https://prod/init",
			SandboxInitPoint: "https://sandbox/init",
		})
	}))
	defer srv.Close()

	mp := NewMercadoPagoClient(&config.MercadoPago{
		AccessToken: "TEST-abc",
		BaseApiURL:  srv.URL,
	})

	pref := &model.PreferenceRequest{
		Items:             []model.PreferenceItem{{ID: "1", Title: "Anel", Quantity: 1, UnitPrice: 10, CurrencyID: "BRL"}},
		ExternalReference: "pedido_Maria_1700000000",
	}

	resp, err := mp.CreatePreference(context.Background(), pref)
	require.NoError(t, err)

	assert.Equal(t, "Bearer TEST-abc", gotAuth)
	assert.Equal(t, "pedido_Maria_1700000000", gotPref.ExternalReference)
	assert.Equal(t, "pref-1", resp.ID)
	assert.Equal(t, "https://prod/init", resp.InitPoint)
}

func TestCreatePreferenceProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"invalid access token"}`))
	}))
	defer srv.Close()

	mp := NewMercadoPagoClient(&config.MercadoPago{
		AccessToken: "TEST-abc",
		BaseApiURL:  srv.URL,
	})

	_, err := mp.CreatePreference(context.Background(), &model.PreferenceRequest{})

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusBadRequest, provErr.StatusCode)
	assert.Contains(t, provErr.Body, "invalid access token")
}
