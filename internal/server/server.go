// Package server provides the HTTP surface of the Ember relay.
package server

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bytedance/sonic"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/emberlabs/go-ember/internal/metrics"
	"github.com/emberlabs/go-ember/pkg/tutor"
)

// Students attach worksheet photos as data URLs, so request bodies can
// get large.
const bodyLimit = 25 * 1024 * 1024

// Config wires the server's collaborators.
type Config struct {
	Orchestrator *tutor.Orchestrator
	Sessions     *tutor.Store
	Metrics      *metrics.Metrics

	// AudioDir is served statically under /audio.
	AudioDir string

	// Registry backs the /metrics endpoint. Defaults to the global
	// prometheus gatherer.
	Registry prometheus.Gatherer

	Logger *slog.Logger

	// Debug enables per-request logging.
	Debug bool
}

// Server is the Ember relay HTTP server.
type Server struct {
	app          *fiber.App
	orchestrator *tutor.Orchestrator
	sessions     *tutor.Store
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

// New creates a configured server.
func New(cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	s := &Server{
		orchestrator: cfg.Orchestrator,
		sessions:     cfg.Sessions,
		metrics:      cfg.Metrics,
		logger:       log.With("component", "server"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "ember-api",
		DisableStartupMessage: true,
		BodyLimit:             bodyLimit,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		// Escaped errors (including panics surfaced by the recover
		// middleware) must render the same JSON error shape as the
		// handlers themselves.
		ErrorHandler: jsonErrorHandler,
	})

	app.Use(recover.New())
	// The cors middleware only answers requests that carry an Origin
	// header; the relay's clients expect the permissive header on every
	// response, so set it unconditionally first.
	app.Use(func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
		return c.Next()
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	if cfg.Debug {
		app.Use(logger.New())
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.DefaultGatherer
	}

	app.Static("/audio", cfg.AudioDir)
	app.Get("/health", s.handleHealth)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := app.Group("/api")
	api.Post("/chat", s.handleChat)
	api.Get("/greet", s.handleGreet)

	// Bare OPTIONS requests (no preflight headers) fall through the cors
	// middleware; answer them explicitly.
	app.Options("/*", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	s.app = app
	return s
}

// Listen starts the server on addr (e.g. ":3001").
func (s *Server) Listen(addr string) error {
	s.logger.Info("ember relay listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// ShutdownWithContext gracefully stops the server, abandoning in-flight
// requests when ctx expires.
func (s *Server) ShutdownWithContext(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// App exposes the underlying Fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func jsonErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Failed to process request"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
	return c.Status(code).JSON(errorResponse{Error: message})
}
