package server

import (
	"log"
	"time"

	"ai-assistant-be/internal/bootstrap"
	"ai-assistant-be/internal/config"
	"ai-assistant-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Uploads are read fully into memory before extraction.
const maxBodySize = 20 * 1024 * 1024

type Server struct {
	app  *fiber.App
	port string
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := newApp(cfg)

	api := app.Group("/api")
	container.AssistantController.RegisterRoutes(api)
	container.StreamHandler.RegisterRoutes(api.Group("/assistant"))

	return &Server{app: app, port: cfg.App.Port}
}

// newApp builds the fiber app with middleware and the health route but
// no domain routes.
func newApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "ai-assistant-be",
		BodyLimit:             maxBodySize,
		ReadTimeout:           30 * time.Second,
		IdleTimeout:           2 * time.Minute,
		DisableStartupMessage: cfg.App.Environment == "production",
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, DELETE, OPTIONS",
	}))
	if cfg.App.OtelEnabled {
		app.Use(otelfiber.Middleware())
	}
	app.Use(serverutils.ErrorHandlerMiddleware())

	app.Get("/api/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(serverutils.SuccessResponse("ok", fiber.Map{"environment": cfg.App.Environment}))
	})

	return app
}

func (s *Server) Run() error {
	log.Printf("Server listening on :%s", s.port)
	return s.app.Listen(":" + s.port)
}

func (s *Server) Shutdown() error {
	return s.app.ShutdownWithTimeout(10 * time.Second)
}
