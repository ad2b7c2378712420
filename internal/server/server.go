package server

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Ricknho777/CarllyRommanel/internal/catalog"
	"github.com/Ricknho777/CarllyRommanel/internal/client"
	"github.com/Ricknho777/CarllyRommanel/internal/config"
	"github.com/Ricknho777/CarllyRommanel/internal/handler"
	"github.com/Ricknho777/CarllyRommanel/internal/middleware"
	"github.com/Ricknho777/CarllyRommanel/internal/service"
)

type Server struct {
	echo            *echo.Echo
	cfg             *config.Config
	catalogHandler  *handler.CatalogHandler
	checkoutHandler *handler.CheckoutHandler
	callbackHandler *handler.CallbackHandler
	authHandler     *handler.AuthHandler
	adminHandler    *handler.AdminHandler
	healthHandler   *handler.HealthHandler
	authService     service.AuthService
}

func NewServer(
	cfg *config.Config,
	db *gorm.DB,
	mpClient client.MercadoPagoClient,
	store catalog.Repository,
	checkoutService service.CheckoutService,
	authService service.AuthService,
	catalogService service.CatalogService,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(requestLogger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	s := &Server{
		echo:            e,
		cfg:             cfg,
		catalogHandler:  handler.NewCatalogHandler(catalogService, &cfg.Shipping),
		checkoutHandler: handler.NewCheckoutHandler(checkoutService),
		callbackHandler: handler.NewCallbackHandler(checkoutService),
		authHandler:     handler.NewAuthHandler(authService),
		adminHandler:    handler.NewAdminHandler(catalogService),
		healthHandler:   handler.NewHealthHandler(db, mpClient, store, &cfg.Admin),
		authService:     authService,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthHandler.Health)

	s.echo.POST("/checkout", s.checkoutHandler.Checkout)

	// -------- provider callbacks / webhooks --------
	s.echo.GET("/callback/success", s.callbackHandler.Success)
	s.echo.GET("/callback/failure", s.callbackHandler.Failure)
	s.echo.GET("/callback/pending", s.callbackHandler.Pending)
	s.echo.POST(s.cfg.MercadoPago.WebhookPath, s.callbackHandler.Webhook)

	api := s.echo.Group("/api")
	api.GET("/products", s.catalogHandler.ListProducts)
	api.POST("/register", s.authHandler.Register)
	api.POST("/login", s.authHandler.Login)

	// -------- admin --------
	admin := api.Group("/admin")
	admin.POST("/login", s.authHandler.AdminLogin)
	admin.GET("/verify", s.authHandler.AdminVerify)
	admin.POST("/logout", s.authHandler.AdminLogout)

	guarded := admin.Group("", middleware.RequireAdmin(s.authService))
	guarded.GET("/products", s.adminHandler.ListProducts)
	guarded.POST("/products", s.adminHandler.CreateProduct)
	guarded.PUT("/products", s.adminHandler.UpdateProduct)
	guarded.DELETE("/products", s.adminHandler.DeleteProduct)
	guarded.GET("/stats", s.adminHandler.Stats)
}

func requestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
