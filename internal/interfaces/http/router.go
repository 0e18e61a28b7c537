package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/jhoicas/Inventario-stream/internal/application/alerts"
	"github.com/jhoicas/Inventario-stream/internal/application/inventory"
	"github.com/jhoicas/Inventario-stream/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	QueryUC    *inventory.QueryUseCase
	IngestUC   *inventory.IngestUseCase
	ConsumerUC *alerts.ConsumerUseCase
	JWTSecret  string // vacío = rutas de ingesta sin autenticación
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Lectura (pública, CORS abierto)
	items := app.Group("/items", cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,OPTIONS",
	}))
	inventoryHandler := NewInventoryHandler(deps.QueryUC)
	items.Get("/", inventoryHandler.List)
	items.Get("/:store", inventoryHandler.ListByStore)

	// Ingesta (protegida si hay JWT_SECRET)
	api := app.Group("/api")
	if deps.JWTSecret != "" {
		api.Use(AuthMiddleware(deps.JWTSecret), RequireScope(jwt.ScopeIngest))
	}
	ingestHandler := NewIngestHandler(deps.IngestUC, deps.ConsumerUC)
	api.Post("/uploads", ingestHandler.Upload)
	api.Post("/uploads/events", ingestHandler.UploadEvent)
	api.Post("/stream/records", ingestHandler.StreamRecords)
}
