package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	_ "github.com/jhoicas/notas-credito-api/docs"
	"github.com/jhoicas/notas-credito-api/internal/application/audit"
	"github.com/jhoicas/notas-credito-api/internal/application/billing"
	"github.com/jhoicas/notas-credito-api/internal/application/creditnote"
	"github.com/jhoicas/notas-credito-api/internal/application/inventory"
	"github.com/jhoicas/notas-credito-api/internal/domain/repository"
	"github.com/jhoicas/notas-credito-api/internal/infrastructure/memory"
	"github.com/jhoicas/notas-credito-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/notas-credito-api/internal/interfaces/http"
	"github.com/jhoicas/notas-credito-api/pkg/config"
	"github.com/jhoicas/notas-credito-api/pkg/logger"
)

// txRunner lo implementan postgres.TxRunner y memory.Store.
type txRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error
}

// @title        Notas Crédito API
// @version      1.0
// @description  Ciclo de vida de notas crédito con movimientos compensatorios de inventario y conciliación de saldo.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("aplicación finalizada con error")
	}
}

// run arma las dependencias y sirve hasta recibir SIGINT/SIGTERM. Los errores se devuelven
// para que los defer (cierre del pool) se ejecuten antes de salir.
func run(cfg *config.Config, log *logger.Logger) error {
	log.Info().
		Str("env", cfg.App.Env).
		Str("driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	var (
		runner    txRunner
		auditRepo repository.AuditRepository
	)
	switch cfg.DB.Driver {
	case config.DriverMemory:
		log.Warn().Msg("persistencia en memoria (sólo desarrollo): transacciones serializadas y datos perdidos al reiniciar")
		runner = memory.NewStore()
		auditRepo = memory.NewAuditRepository()
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("migraciones: %w", err)
		}
		runner = postgres.NewTxRunner(pool, cfg.DB.StatementTimeout)
		pgAudit, err := postgres.NewAuditRepository(pool, cfg.Audit.CompressThresholdBytes)
		if err != nil {
			return fmt.Errorf("repositorio de auditoría: %w", err)
		}
		auditRepo = pgAudit
	}

	zl := log.Zerolog()
	ledger := inventory.NewLedger(runner, zl)
	reconciler := billing.NewReconciler(runner, zl)
	trail := audit.NewTrail(auditRepo, zl, cfg.Audit.ListLimit)
	creditNotes := creditnote.NewService(runner, ledger, reconciler, trail, zl)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Notas Crédito API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "driver": cfg.DB.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CreditNotes: creditNotes,
		Ledger:      ledger,
		Reconciler:  reconciler,
		Trail:       trail,
		JWTSecret:   cfg.JWT.Secret,
	})

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(cfg.HTTP.Addr())
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		return fmt.Errorf("servidor HTTP: %w", err)
	case <-quit:
	}

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
	return nil
}
