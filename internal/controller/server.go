package controller

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_center/internal/controller/httpapi"
)

// HTTPController HTTP-сервер API поверх fiber
type HTTPController struct {
	app      *fiber.App
	handlers *httpapi.Handlers
	logger   *zap.Logger
}

func NewHTTPController(services httpapi.Services, logger *zap.Logger) *HTTPController {
	app := fiber.New(fiber.Config{
		AppName:               "tutor_center",
		DisableStartupMessage: true,
		ErrorHandler:          httpapi.ErrorHandler(logger),
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           90 * time.Second,
	})

	app.Use(httpapi.RequestLogger(logger))
	app.Use(recover.New())

	handlers := httpapi.NewHandlers(services, logger)
	handlers.RegisterRoutes(app)

	return &HTTPController{
		app:      app,
		handlers: handlers,
		logger:   logger,
	}
}

// App возвращает fiber-приложение (для тестов)
func (c *HTTPController) App() *fiber.App {
	return c.app
}

// Start запускает сервер и блокируется до его остановки
func (c *HTTPController) Start(addr string) error {
	c.logger.Info("Starting HTTP server...", zap.String("addr", addr))

	err := c.app.Listen(addr)
	if err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

// Shutdown останавливает сервер, дожидаясь активных запросов
func (c *HTTPController) Shutdown(ctx context.Context) error {
	c.logger.Info("Shutting down HTTP server...")
	return c.app.ShutdownWithContext(ctx)
}
