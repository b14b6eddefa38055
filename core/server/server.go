package server

import (
	"context"
	"sync"

	"jobsync/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RunFunc executes one reconciliation pass and returns its report.
type RunFunc func(ctx context.Context) (any, error)

// New builds the Fiber app for serve mode: a health endpoint and an HTTP
// trigger for reconciliation runs. Runs are single-flight; a trigger that
// arrives while a run is in progress gets 409 (overlapping runs are out of
// scope by design, the trigger must not create them).
func New(cfg Config, log *zap.Logger, run RunFunc) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(rayID())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	var inFlight sync.Mutex
	app.Post("/runs", apiKey(cfg.ApiKey), func(c *fiber.Ctx) error {
		l := logger.WithRayID(log, c)

		if !inFlight.TryLock() {
			l.Warn("run trigger rejected, another run is in progress")
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "a run is already in progress",
			})
		}
		defer inFlight.Unlock()

		l.Info("run triggered via HTTP")
		report, err := run(c.UserContext())
		if err != nil {
			l.Error("run failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":  err.Error(),
				"report": report,
			})
		}
		return c.JSON(report)
	})

	return app
}

// rayID tags every request with a unique ID, exposed in the response
// header and the request context for log correlation.
func rayID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := uuid.NewString()
		c.Locals("ray_id", rid)
		c.Set("X-Ray-Id", rid)
		return c.Next()
	}
}

// apiKey validates the X-Api-Key header when a key is configured.
func apiKey(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if key == "" {
			return c.Next()
		}
		if c.Get("X-Api-Key") != key {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid API key",
			})
		}
		return c.Next()
	}
}
