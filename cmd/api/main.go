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

	"github.com/jhoicas/pos-stock-api/internal/application/directory"
	"github.com/jhoicas/pos-stock-api/internal/application/session"
	"github.com/jhoicas/pos-stock-api/internal/application/stock"
	"github.com/jhoicas/pos-stock-api/internal/application/stocktake"
	"github.com/jhoicas/pos-stock-api/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-stock-api/internal/infrastructure/securestore"
	httpRouter "github.com/jhoicas/pos-stock-api/internal/interfaces/http"
	"github.com/jhoicas/pos-stock-api/pkg/config"
	"github.com/jhoicas/pos-stock-api/pkg/logger"
	"github.com/jhoicas/pos-stock-api/pkg/token"
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

	balanceRepo := postgres.NewStockBalanceRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	stockTakeRepo := postgres.NewStockTakeRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)
	revocationRepo := postgres.NewRevocationRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	stockUC := stock.NewStockUseCase(txRunner, balanceRepo, movementRepo, productRepo, locationRepo)
	stockTakeUC := stocktake.NewStockTakeUseCase(txRunner, stockUC, stockTakeRepo, locationRepo)
	directoryUC := directory.NewDirectoryUseCase(productRepo, locationRepo)

	// Secreto de firma: se genera una vez y se persiste en ajustes para que los
	// tokens sobrevivan reinicios.
	secret, err := session.LoadOrCreateSecret(settingsRepo)
	if err != nil {
		log.Fatal().Err(err).Msg("secreto de firma de tokens")
	}
	codec := token.NewCodec(secret)
	authority := session.NewAuthority(codec, revocationRepo, cfg.Session.TokenLifetime())

	store, err := securestore.NewFileStore(cfg.Session.StorePath, secret)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento seguro de sesión")
	}
	manager := session.NewManager(authority, userRepo, store)

	// Monitor de sesión: renueva tokens próximos a expirar y cierra sesiones
	// vencidas. Se detiene con el contexto en el apagado.
	monitorCtx, stopMonitor := context.WithCancel(ctx)
	defer stopMonitor()
	monitor := session.NewMonitor(manager, cfg.Session.MonitorInterval(), cfg.Session.RefreshThreshold(), log)
	go monitor.Run(monitorCtx)

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
		Title:    "POS Stock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		StockUC:     stockUC,
		StockTakeUC: stockTakeUC,
		DirectoryUC: directoryUC,
		Manager:     manager,
		Authority:   authority,
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
	stopMonitor()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
