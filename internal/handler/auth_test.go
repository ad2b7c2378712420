package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ricknho777/CarllyRommanel/internal/dto"
	"github.com/Ricknho777/CarllyRommanel/internal/model"
	"github.com/Ricknho777/CarllyRommanel/internal/repository"
	"github.com/Ricknho777/CarllyRommanel/internal/service"
)

type fakeAuthService struct {
	adminEmail    string
	adminPassword string
	issuedToken   string
	users         map[string]*model.User

	loggedOut []string
	sweeps    int
}

func newFakeAuthService() *fakeAuthService {
	return &fakeAuthService{
		adminEmail:    "admin@carllyrommanel.com",
		adminPassword: "segredo123",
		issuedToken:   "tok-issued",
		users:         map[string]*model.User{},
	}
}

func (f *fakeAuthService) AdminLogin(_ context.Context, password string, rememberMe bool) (string, time.Duration, error) {
	if password != f.adminPassword {
		return "", 0, service.ErrInvalidCredentials
	}
	ttl := 24 * time.Hour
	if rememberMe {
		ttl = 7 * 24 * time.Hour
	}
	return f.issuedToken, ttl, nil
}

func (f *fakeAuthService) VerifyAdminToken(_ context.Context, token string) (string, bool) {
	if token == f.issuedToken {
		return f.adminEmail, true
	}
	return "", false
}

func (f *fakeAuthService) VerifyAdminBearer(ctx context.Context, bearer string) bool {
	_, ok := f.VerifyAdminToken(ctx, bearer)
	return ok || bearer == f.adminPassword
}

func (f *fakeAuthService) AdminLogout(_ context.Context, token string) error {
	f.loggedOut = append(f.loggedOut, token)
	return nil
}

func (f *fakeAuthService) SweepExpiredTokens(context.Context) {
	f.sweeps++
}

func (f *fakeAuthService) Register(_ context.Context, req *dto.RegisterRequest) (*model.User, error) {
	if _, ok := f.users[req.Email]; ok {
		return nil, repository.ErrEmailTaken
	}
	user := &model.User{ID: uint(len(f.users) + 1), Name: req.Name, Email: req.Email, Password: req.Password}
	f.users[req.Email] = user
	return user, nil
}

func (f *fakeAuthService) Login(_ context.Context, email, password string) (*model.User, error) {
	user, ok := f.users[email]
	if !ok || user.Password != password {
		return nil, service.ErrInvalidCredentials
	}
	return user, nil
}

func (f *fakeAuthService) IsAdminEmail(email string) bool { return email == f.adminEmail }
func (f *fakeAuthService) AdminEmail() string             { return f.adminEmail }

func TestLoginRoutesAdminEmailToTokenFlow(t *testing.T) {
	h := NewAuthHandler(newFakeAuthService())

	c, rec := postJSON(t, "/api/login", `{"email":"admin@carllyrommanel.com","senha":"segredo123"}`)
	require.NoError(t, h.Login(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "tok-issued", body["token"])
	assert.Equal(t, "/admin/redirect?token=tok-issued", body["redirect_url"])

	user := body["user"].(map[string]any)
	assert.Equal(t, "admin", user["role"])
}

func TestLoginShopperFlow(t *testing.T) {
	svc := newFakeAuthService()
	svc.users["maria@example.com"] = &model.User{ID: 3, Name: "Maria Silva", Email: "maria@example.com", Password: "minhasenha"}
	h := NewAuthHandler(svc)

	c, rec := postJSON(t, "/api/login", `{"email":"maria@example.com","senha":"minhasenha"}`)
	require.NoError(t, h.Login(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Empty(t, body["token"])

	user := body["user"].(map[string]any)
	assert.Equal(t, "user", user["role"])
	assert.Equal(t, "/", body["redirect_url"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	h := NewAuthHandler(newFakeAuthService())

	c, rec := postJSON(t, "/api/login", `{"email":"maria@example.com","senha":"errada"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c, rec = postJSON(t, "/api/login", `{"email":"","senha":""}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminLoginRejectsNonAdminEmail(t *testing.T) {
	h := NewAuthHandler(newFakeAuthService())

	c, rec := postJSON(t, "/api/admin/login", `{"email":"maria@example.com","senha":"segredo123"}`)
	require.NoError(t, h.AdminLogin(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newFakeAuthService()
	svc.users["maria@example.com"] = &model.User{ID: 1, Email: "maria@example.com"}
	h := NewAuthHandler(svc)

	c, rec := postJSON(t, "/api/register", `{"nome":"Maria","email":"maria@example.com","senha":"x","confirmar_senha":"x"}`)
	require.NoError(t, h.Register(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Este e-mail já está cadastrado!", decodeBody(t, rec)["error"])
}

func getWithBearer(t *testing.T, path, token string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAdminVerify(t *testing.T) {
	h := NewAuthHandler(newFakeAuthService())

	c, rec := getWithBearer(t, "/api/admin/verify", "tok-issued")
	require.NoError(t, h.AdminVerify(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin@carllyrommanel.com", decodeBody(t, rec)["email"])

	c, rec = getWithBearer(t, "/api/admin/verify", "tok-errado")
	require.NoError(t, h.AdminVerify(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c, rec = getWithBearer(t, "/api/admin/verify", "")
	require.NoError(t, h.AdminVerify(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminLogout(t *testing.T) {
	svc := newFakeAuthService()
	h := NewAuthHandler(svc)

	c, rec := getWithBearer(t, "/api/admin/logout", "tok-issued")
	require.NoError(t, h.AdminLogout(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"tok-issued"}, svc.loggedOut)
}
