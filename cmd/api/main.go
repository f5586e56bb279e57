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

	"github.com/jcastano/Bodega-api/internal/application/history"
	"github.com/jcastano/Bodega-api/internal/application/inbound"
	"github.com/jcastano/Bodega-api/internal/application/outbound"
	"github.com/jcastano/Bodega-api/internal/application/stock"
	infrapdf "github.com/jcastano/Bodega-api/internal/infrastructure/pdf"
	"github.com/jcastano/Bodega-api/internal/infrastructure/postgres"
	httpRouter "github.com/jcastano/Bodega-api/internal/interfaces/http"
	"github.com/jcastano/Bodega-api/pkg/config"
	"github.com/jcastano/Bodega-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	inboundRepo := postgres.NewInboundRepository(pool)
	outboundRepo := postgres.NewOutboundRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	transitionRepo := postgres.NewTransitionRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledger := stock.NewLedger(stockRepo)
	recorder := history.NewRecorder(transitionRepo, log.Zerolog())

	inboundUC := inbound.NewUseCase(
		txRunner, inboundRepo, productRepo, warehouseRepo,
		ledger, recorder, log.Zerolog(),
	)

	// PDF: vale de picking imprimible
	pdfGenerator := infrapdf.NewMarotoVoucherGenerator()
	outboundUC := outbound.NewUseCase(
		txRunner, outboundRepo, productRepo, warehouseRepo,
		ledger, recorder, pdfGenerator, log.Zerolog(),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Bodega API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		InboundUC:  inboundUC,
		OutboundUC: outboundUC,
		Ledger:     ledger,
		Recorder:   recorder,
		JWTSecret:  cfg.JWT.Secret,
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

	log.Info().Msg("aplicación detenida")
}
