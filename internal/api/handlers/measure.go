package handlers

import (
	"route-creator/internal/api/dto"
	"route-creator/internal/domain"
	"route-creator/internal/measure"

	"github.com/gofiber/fiber/v2"
)

// MeasureHandler exposes the distance measurement tool.
type MeasureHandler struct {
	Tool *measure.Tool
}

func (h *MeasureHandler) Get(c *fiber.Ctx) error {
	return writeJSON(c, fiber.StatusOK, dto.NewMeasureResponse(h.Tool.Snapshot()))
}

// Toggle starts a measurement or finishes the current one.
func (h *MeasureHandler) Toggle(c *fiber.Ctx) error {
	return writeJSON(c, fiber.StatusOK, dto.NewMeasureResponse(h.Tool.Toggle()))
}

func (h *MeasureHandler) Click(c *fiber.Ctx) error {
	var req dto.MeasureClickRequest
	if err := decodeJSON(c.Body(), &req); err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}
	if req.Lon == nil || req.Lat == nil {
		return writeError(c, fiber.StatusBadRequest, "lon and lat are required")
	}

	point := domain.Coordinates{Lon: *req.Lon, Lat: *req.Lat}
	if !point.Valid() {
		return writeError(c, fiber.StatusBadRequest, "coordinate out of range")
	}

	return writeJSON(c, fiber.StatusOK, dto.NewMeasureResponse(h.Tool.Click(point)))
}

func (h *MeasureHandler) DoubleClick(c *fiber.Ctx) error {
	return writeJSON(c, fiber.StatusOK, dto.NewMeasureResponse(h.Tool.DoubleClick()))
}
