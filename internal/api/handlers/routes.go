package handlers

import (
	"errors"
	"route-creator/internal/api/dto"
	"route-creator/internal/domain"
	"route-creator/internal/export"
	"route-creator/internal/platform/logger"
	"route-creator/internal/platform/metrics"
	"route-creator/internal/platform/obs"
	"route-creator/internal/ports"
	"route-creator/internal/services"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

// HeaderArtifactLocation carries the stored object URL when an export is uploaded.
const HeaderArtifactLocation = "X-Artifact-Location"

type RouteHandler struct {
	Planner *services.RoutePlanner
	// Store is optional; exports with ?store=true are rejected without it.
	Store ports.ArtifactStore
}

// Update computes a new route and replaces the session contents.
func (h *RouteHandler) Update(c *fiber.Ctx) error {
	var req dto.RouteRequest
	if err := decodeJSON(c.Body(), &req); err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}

	res, err := h.Planner.UpdateRoute(c.UserContext(), services.PlanRequest{
		Start:     req.Start,
		End:       req.End,
		Waypoints: req.Waypoints,
		Nearest:   req.Nearest,
		Optimize:  req.Optimize,
		Describe:  req.Describe,
	})

	var inputErr *domain.InputError
	switch {
	case errors.As(err, &inputErr):
		return writeError(c, fiber.StatusBadRequest, inputErr.Error())
	case errors.Is(err, services.ErrEmptyRoute):
		return writeError(c, fiber.StatusUnprocessableEntity, services.ErrEmptyRoute.Error())
	case errors.Is(err, services.ErrSuperseded):
		return writeError(c, fiber.StatusConflict, services.ErrSuperseded.Error())
	case err != nil:
		logger.L().Error("update route failed",
			zap.String("req_id", obs.RequestID(c.UserContext())),
			zap.Error(err),
		)
		return writeError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return writeJSON(c, fiber.StatusOK, dto.NewRouteResponse(res.SessionID, res.Mode, res.Route, res.Points, res.Places))
}

// Current returns the session snapshot, including the loading flag.
func (h *RouteHandler) Current(c *fiber.Ctx) error {
	s := h.Planner.Session()
	st := s.Snapshot()

	var points []domain.LabeledPoint
	if !st.PublishedAt.IsZero() {
		points = st.Points()
	}

	res := dto.SessionResponse{
		RouteResponse: dto.NewRouteResponse(s.ID(), st.Mode, st.Route, points, st.Places),
		Loading:       st.Loading,
		Generation:    st.Generation,
	}
	if !st.PublishedAt.IsZero() {
		at := st.PublishedAt
		res.PublishedAt = &at
	}

	return writeJSON(c, fiber.StatusOK, res)
}

// Export renders the current route as a file download.
func (h *RouteHandler) Export(c *fiber.Ctx) error {
	// Params alias the request buffer; the value outlives the request as a metric label.
	format := strings.ToLower(utils.CopyString(c.Params("format")))
	s := h.Planner.Session()

	art, err := export.Render(format, s.Snapshot())
	switch {
	case errors.Is(err, export.ErrUnknownFormat):
		metrics.ExportsTotal.WithLabelValues("unknown", "rejected").Inc()
		return writeError(c, fiber.StatusBadRequest, "unknown export format: "+format)
	case errors.Is(err, export.ErrNoRoute):
		metrics.ExportsTotal.WithLabelValues(format, "no_route").Inc()
		return writeError(c, fiber.StatusNotFound, export.ErrNoRoute.Error())
	case err != nil:
		metrics.ExportsTotal.WithLabelValues(format, "error").Inc()
		logger.L().Error("export failed", zap.String("format", format), zap.Error(err))
		return writeError(c, fiber.StatusInternalServerError, "internal server error")
	}

	if c.QueryBool("store") {
		if h.Store == nil {
			return writeError(c, fiber.StatusServiceUnavailable, "artifact storage is not configured")
		}

		key := "exports/" + s.ID() + "/" + art.Filename
		location, err := h.Store.Put(c.UserContext(), key, art.ContentType, art.Data)
		if err != nil {
			metrics.ExportsTotal.WithLabelValues(format, "store_error").Inc()
			logger.L().Error("store export failed",
				zap.String("req_id", obs.RequestID(c.UserContext())),
				zap.String("key", key),
				zap.Error(err),
			)
			return writeError(c, fiber.StatusBadGateway, "could not store export")
		}
		c.Set(HeaderArtifactLocation, location)
	}

	metrics.ExportsTotal.WithLabelValues(format, "ok").Inc()

	c.Attachment(art.Filename)
	c.Set(fiber.HeaderContentType, art.ContentType)
	return c.Status(fiber.StatusOK).Send(art.Data)
}
