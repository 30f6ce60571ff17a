// Package server provides HTTP server lifecycle management.
package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"github.com/solatis/bookkeeper/internal/core/api"
	"github.com/solatis/bookkeeper/internal/core/config"
	"github.com/solatis/bookkeeper/internal/core/db"
)

// HTTPServer manages the fiber app lifecycle.
type HTTPServer struct {
	app    *fiber.App
	config *config.APIConfig
}

// NewHTTPServer creates the fiber app and mounts every route.
func NewHTTPServer(cfg *config.APIConfig, database *sqlx.DB, queries *db.Queries) (*HTTPServer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}
	if database == nil {
		return nil, fmt.Errorf("database cannot be nil")
	}
	if queries == nil {
		return nil, fmt.Errorf("queries cannot be nil")
	}

	app := fiber.New(fiber.Config{
		AppName:      "bookkeeper",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	handler := api.NewHandler(database,
		db.NewRuleRepository(database, queries),
		db.NewSectionRepository(database, queries))
	api.RegisterRoutes(app, handler)

	return &HTTPServer{app: app, config: cfg}, nil
}

// Start binds the listener and serves requests. Blocks until Shutdown
// is called.
func (s *HTTPServer) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests with a 30-second timeout.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	stopped := make(chan error, 1)
	go func() {
		stopped <- s.app.ShutdownWithTimeout(30 * time.Second)
	}()

	select {
	case err := <-stopped:
		if err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown cancelled by context: %w", ctx.Err())
	}
}
