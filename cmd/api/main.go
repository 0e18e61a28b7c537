package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Inventario-stream/internal/bootstrap"
	httpRouter "github.com/jhoicas/Inventario-stream/internal/interfaces/http"
	"github.com/jhoicas/Inventario-stream/pkg/config"
	"github.com/jhoicas/Inventario-stream/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store_driver", cfg.Inventory.Driver).
		Str("table", cfg.Inventory.Table).
		Int64("low_stock_threshold", cfg.Alerts.Threshold).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	deps, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar dependencias")
	}
	defer deps.Close()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    64 * 1024 * 1024,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario Stream API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		QueryUC:    deps.QueryUC,
		IngestUC:   deps.IngestUC,
		ConsumerUC: deps.ConsumerUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	workerDone := make(chan struct{})
	if cfg.Stream.Enabled {
		go func() {
			defer close(workerDone)
			if err := deps.NewWorker().Run(ctx); err != nil {
				log.Error().Err(err).Msg("consumidor del change feed finalizado")
			}
		}()
	} else {
		close(workerDone)
		log.Info().Msg("STREAM_ENABLED=false: el change feed se entrega por POST /api/stream/records")
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	stop()
	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		log.Warn().Msg("el consumidor del change feed no terminó a tiempo")
	}

	log.Info().Msg("aplicación detenida")
}
