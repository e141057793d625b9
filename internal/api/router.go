package api

import (
	"route-creator/internal/api/handlers"
	"route-creator/internal/measure"
	"route-creator/internal/platform/metrics"
	"route-creator/internal/playback"
	"route-creator/internal/ports"
	"route-creator/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
)

type Deps struct {
	Planner  *services.RoutePlanner
	Measure  *measure.Tool
	Playback playback.Options

	// Optional.
	Store ports.ArtifactStore
}

// NewRouter wires HTTP handlers with their dependencies.
// Handlers stay unaware of concrete adapters.
func NewRouter(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "route-creator",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestIDMiddleware)
	app.Use(loggingMiddleware)

	tool := d.Measure
	if tool == nil {
		tool = measure.New()
	}

	routeHandler := &handlers.RouteHandler{Planner: d.Planner, Store: d.Store}
	measureHandler := &handlers.MeasureHandler{Tool: tool}
	playbackHandler := &handlers.PlaybackHandler{Session: d.Planner.Session(), Options: d.Playback}

	app.Get("/health", handlers.Health)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	routes := app.Group("/routes")
	routes.Post("/", routeHandler.Update)
	routes.Get("/current", routeHandler.Current)
	routes.Get("/current/export/:format", routeHandler.Export)

	app.Get("/playback/ws", websocket.New(playbackHandler.Stream))

	m := app.Group("/measure")
	m.Get("/", measureHandler.Get)
	m.Post("/toggle", measureHandler.Toggle)
	m.Post("/click", measureHandler.Click)
	m.Post("/dblclick", measureHandler.DoubleClick)

	return app
}
