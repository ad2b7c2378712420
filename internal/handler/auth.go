package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Ricknho777/CarllyRommanel/internal/dto"
	"github.com/Ricknho777/CarllyRommanel/internal/repository"
	"github.com/Ricknho777/CarllyRommanel/internal/service"
)

type AuthHandler struct {
	authService service.AuthService
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		return "", false
	}
	return header[len(prefix):], true
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Nenhum dado recebido",
		})
	}

	user, err := h.authService.Register(ctx, &req)
	if err != nil {
		msg := err.Error()
		if errors.Is(err, repository.ErrEmailTaken) {
			msg = "Este e-mail já está cadastrado!"
		}
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   msg,
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Cadastro realizado com sucesso!",
		"user_id": user.ID,
	})
}

// Login is the unified entry point: the admin email routes to the token
// flow, any other email authenticates as a shopper.
func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.LoginResponse{Success: false, Error: "Nenhum dado recebido"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, dto.LoginResponse{Success: false, Error: "E-mail e senha são obrigatórios"})
	}

	if h.authService.IsAdminEmail(req.Email) {
		return h.adminLogin(c, &req)
	}

	user, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, dto.LoginResponse{Success: false, Error: "E-mail ou senha incorretos!"})
	}

	return c.JSON(http.StatusOK, dto.LoginResponse{
		Success: true,
		Message: "Login realizado com sucesso!",
		User: &dto.LoginUser{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  "user",
		},
		RedirectURL: "/",
	})
}

// AdminLogin is the dedicated admin route kept for panel compatibility.
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.LoginResponse{Success: false, Error: "Nenhum dado recebido"})
	}
	if !h.authService.IsAdminEmail(req.Email) {
		return c.JSON(http.StatusUnauthorized, dto.LoginResponse{Success: false, Error: "Acesso não autorizado"})
	}
	return h.adminLogin(c, &req)
}

func (h *AuthHandler) adminLogin(c echo.Context, req *dto.LoginRequest) error {
	ctx := c.Request().Context()

	token, ttl, err := h.authService.AdminLogin(ctx, req.Password, req.RememberMe)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, dto.LoginResponse{Success: false, Error: "Senha incorreta"})
	}

	return c.JSON(http.StatusOK, dto.LoginResponse{
		Success: true,
		Message: "Login administrativo realizado com sucesso",
		Token:   token,
		User: &dto.LoginUser{
			Name:  "Administrador",
			Email: h.authService.AdminEmail(),
			Role:  "admin",
		},
		RedirectURL: fmt.Sprintf("/admin/redirect?token=%s", token),
		ExpiresIn:   int64(ttl.Seconds()),
	})
}

func (h *AuthHandler) AdminVerify(c echo.Context) error {
	ctx := c.Request().Context()

	token, ok := bearerToken(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{
			"success": false,
			"error":   "Token não fornecido",
		})
	}

	email, valid := h.authService.VerifyAdminToken(ctx, token)
	if !valid {
		return c.JSON(http.StatusUnauthorized, map[string]any{
			"success": false,
			"valid":   false,
			"error":   "Token inválido ou expirado",
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"valid":   true,
		"email":   email,
		"message": "Token válido",
	})
}

func (h *AuthHandler) AdminLogout(c echo.Context) error {
	ctx := c.Request().Context()

	token, ok := bearerToken(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{
			"success": false,
			"error":   "Token não fornecido",
		})
	}

	if err := h.authService.AdminLogout(ctx, token); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Logout realizado com sucesso",
	})
}
