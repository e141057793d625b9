package api

import (
	"route-creator/internal/platform/logger"
	"route-creator/internal/platform/obs"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const HeaderRequestID = "X-Request-ID"

// requestIDMiddleware reuses the caller's request id or generates one, and
// stores it in the user context for obs.Time and handler logs.
func requestIDMiddleware(c *fiber.Ctx) error {
	// Header values alias the request buffer.
	id := strings.Clone(c.Get(HeaderRequestID))
	if id == "" {
		id = uuid.NewString()
	}

	c.Set(HeaderRequestID, id)
	c.SetUserContext(obs.WithRequestID(c.UserContext(), id))
	return c.Next()
}

// loggingMiddleware logs end-to-end request duration and response size.
func loggingMiddleware(c *fiber.Ctx) error {
	start := time.Now()

	err := c.Next()

	// Errors returned by handlers are written by the app's error handler
	// after this middleware, so take the status from the error.
	status := c.Response().StatusCode()
	if fe, ok := err.(*fiber.Error); ok {
		status = fe.Code
	} else if err != nil {
		status = fiber.StatusInternalServerError
	}

	logger.L().Info("http request",
		zap.String("req_id", obs.RequestID(c.UserContext())),
		zap.String("method", c.Method()),
		zap.String("path", c.OriginalURL()),
		zap.Int("status", status),
		zap.Int("bytes", len(c.Response().Body())),
		zap.Int64("dur_ms", time.Since(start).Milliseconds()),
	)

	return err
}
