package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // zona horaria de INVENTORY_TIMEZONE en imágenes sin zoneinfo

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/inventario-movimientos/internal/application/analytics"
	"github.com/jhoicas/inventario-movimientos/internal/application/inventory"
	"github.com/jhoicas/inventario-movimientos/internal/application/usecase"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
	"github.com/jhoicas/inventario-movimientos/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-movimientos/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-movimientos/internal/infrastructure/telemetry"
	httpRouter "github.com/jhoicas/inventario-movimientos/internal/interfaces/http"
	"github.com/jhoicas/inventario-movimientos/pkg/config"
	"github.com/jhoicas/inventario-movimientos/pkg/logger"
)

// storage agrupa los adaptadores de persistencia del driver elegido.
type storage struct {
	txRunner    inventory.TxRunner
	products    repository.ProductRepository
	movements   repository.MovementRepository
	stock       repository.StockLedger
	reports     repository.ReportRepository
	healthCheck func(context.Context) error
	close       func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.DB.Driver).
		Strs("locations", cfg.Inventory.Locations).
		Msg("iniciando aplicación")

	ctx := context.Background()

	shutdownTracing, err := telemetry.SetupTracing(ctx, cfg.Telemetry)
	if err != nil {
		log.Warn().Err(err).Msg("trazas OpenTelemetry deshabilitadas")
	}

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	registry := telemetry.NewRegistry()
	metrics := telemetry.NewMetrics(registry)

	locations := entity.NewLocationSet(cfg.Inventory.Locations)
	tz := cfg.Inventory.TimeLocation()

	registerMovementUC := inventory.NewRegisterMovementUseCase(
		store.txRunner, store.movements, store.products, locations, metrics, log,
	)
	stockQueryUC := inventory.NewStockQueryUseCase(store.stock, store.movements, store.products, locations, tz)
	productUC := usecase.NewProductUseCase(store.products, store.movements, locations)
	statsUC := analytics.NewStatsUseCase(store.reports, locations, tz)
	replenishmentUC := inventory.NewReplenishmentUseCase(store.reports, locations, cfg.Inventory.RestockTarget)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.HTTP.RequestTimeout + 5*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs (solo si existe el archivo)
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Inventario Movimientos API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		hctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := store.healthCheck(hctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))

	httpRouter.Router(app, httpRouter.RouterDeps{
		RegisterMovement: registerMovementUC,
		StockQuery:       stockQueryUC,
		ProductUC:        productUC,
		StatsUC:          statsUC,
		ReplenishmentUC:  replenishmentUC,
		HTTP:             cfg.HTTP,
		Log:              log,
	})

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
	if shutdownTracing != nil {
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("cierre de trazas")
		}
	}

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.DB.Driver == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		mem := memory.NewStore()
		return &storage{
			txRunner:    mem,
			products:    mem.Products(),
			movements:   mem.Movements(),
			stock:       mem.Stock(),
			reports:     mem.Reports(),
			healthCheck: func(context.Context) error { return nil },
			close:       func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("esquema verificado")
	}
	return &storage{
		txRunner:    postgres.NewTxRunner(pool),
		products:    postgres.NewProductRepository(pool),
		movements:   postgres.NewMovementRepository(pool),
		stock:       postgres.NewStockRepository(pool),
		reports:     postgres.NewReportRepository(pool),
		healthCheck: pool.Ping,
		close:       pool.Close,
	}, nil
}
