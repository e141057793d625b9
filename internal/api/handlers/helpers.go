package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"route-creator/internal/platform/logger"
	"route-creator/internal/platform/obs"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func writeJSON(c *fiber.Ctx, status int, v any) error {
	if err := c.Status(status).JSON(v); err != nil {
		logger.L().Error("encode failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("req_id", obs.RequestID(c.UserContext())),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return writeJSON(c, status, fiber.Map{"error": msg})
}

// decodeJSON reads exactly one JSON object and rejects unknown fields.
func decodeJSON(body []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return errors.New("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}
