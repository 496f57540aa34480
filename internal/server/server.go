package server

import (
	"shop-backend/internal/handler"
	"shop-backend/internal/metrics"
	appmiddleware "shop-backend/internal/middleware"
	"shop-backend/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo           *echo.Echo
	orderHandler   *handler.OrderHandler
	catalogHandler *handler.CatalogHandler
	adminHandler   *handler.AdminHandler
	adminToken     string
}

func NewServer(orderService service.OrderService, catalogService service.CatalogService, adminToken string) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:           e,
		orderHandler:   handler.NewOrderHandler(orderService),
		catalogHandler: handler.NewCatalogHandler(catalogService),
		adminHandler:   handler.NewAdminHandler(orderService, catalogService),
		adminToken:     adminToken,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- catalog --------
	api.GET("/products", s.catalogHandler.ListProducts)
	api.GET("/products/:productID", s.catalogHandler.GetProduct)

	// -------- orders --------
	api.POST("/orders", s.orderHandler.CreateOrder)
	api.GET("/orders/:orderID", s.orderHandler.GetOrder)

	// -------- acquiring webhooks --------
	api.POST("/acquiring/webhook", s.orderHandler.AcquiringWebhook)

	// -------- admin --------
	admin := api.Group("/admin", appmiddleware.AdminAuth(s.adminToken))
	admin.GET("/orders", s.adminHandler.ListOrders)
	admin.PATCH("/orders/:orderID", s.adminHandler.UpdateOrder)
	admin.DELETE("/orders/:orderID", s.adminHandler.DeleteOrder)
	admin.POST("/products", s.adminHandler.CreateProduct)
	admin.PUT("/products/:productID", s.adminHandler.UpdateProduct)
	admin.DELETE("/products/:productID", s.adminHandler.DeleteProduct)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
