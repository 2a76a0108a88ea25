// Package rest exposes the task service over HTTP with fiber.
package rest

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	address string
	app     *fiber.App
	logger  logging.Logger
	users   *services.UserService
	tasks   *services.TaskService
	gate    *auth.Gate
	db      Pinger
}

func NewServer(address string, l logging.Logger, us *services.UserService, ts *services.TaskService, gate *auth.Gate, db Pinger) *Server {
	s := &Server{
		address: address,
		logger:  l.With("module", "rest_server"),
		users:   us,
		tasks:   ts,
		gate:    gate,
		db:      db,
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})

	s.app.Use(recover.New())
	s.app.Use(requestid.New())
	s.app.Use(s.requestLogger)
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "OPTIONS,GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	s.routes()

	return s
}

func (s *Server) routes() {
	s.app.Get("/health", s.health)

	a := s.app.Group("/auth")
	a.Put("/signup", s.signup)
	a.Post("/login", s.login)

	todo := s.app.Group("/todo", s.authenticate)
	todo.Get("/tasks", s.listTasks)
	todo.Post("/task", s.createTask)
	todo.Get("/task/:taskId", s.getTask)
	todo.Put("/task/:taskId", s.updateTask)
	todo.Delete("/task/:taskId", s.deleteTask)
}

// Run listens on the configured address until Shutdown is called.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
	return s.app.Listen(s.address)
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "Stopping HTTP server...")
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) health(c *fiber.Ctx) error {
	if err := s.db.PingContext(c.UserContext()); err != nil {
		s.logger.Error(c.UserContext(), "health check failed", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(messageResponse{Message: "database unavailable"})
	}
	return c.JSON(messageResponse{Message: "ok"})
}
