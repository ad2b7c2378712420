package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Ricknho777/CarllyRommanel/internal/catalog"
	"github.com/Ricknho777/CarllyRommanel/internal/client"
	"github.com/Ricknho777/CarllyRommanel/internal/config"
)

// HealthHandler reports per-component readiness.
type HealthHandler struct {
	db       *gorm.DB
	mpClient client.MercadoPagoClient
	store    catalog.Repository
	admin    *config.Admin
}

func NewHealthHandler(db *gorm.DB, mpClient client.MercadoPagoClient, store catalog.Repository, admin *config.Admin) *HealthHandler {
	return &HealthHandler{db: db, mpClient: mpClient, store: store, admin: admin}
}

func (h *HealthHandler) Health(c echo.Context) error {
	dbOK := false
	if sqlDB, err := h.db.DB(); err == nil {
		dbOK = sqlDB.PingContext(c.Request().Context()) == nil
	}

	components := map[string]any{
		"database":         dbOK,
		"payment_provider": h.mpClient.Configured(),
		"environment":      h.mpClient.Environment().String(),
		"catalog":          h.store.Len() > 0,
		"admin_auth":       h.admin.PasswordHash != "",
	}

	status := http.StatusOK
	overall := "ok"
	if !dbOK {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	return c.JSON(status, map[string]any{
		"status":     overall,
		"components": components,
	})
}
