// seed aplica las migraciones y carga datos de demostración: un producto con stock de apertura,
// una factura con un pago y una nota crédito emitida contra ella.
//
// Uso: DATABASE_URL=postgres://... go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/notas-credito-api/internal/application/audit"
	"github.com/jhoicas/notas-credito-api/internal/application/billing"
	"github.com/jhoicas/notas-credito-api/internal/application/creditnote"
	"github.com/jhoicas/notas-credito-api/internal/application/inventory"
	"github.com/jhoicas/notas-credito-api/internal/domain/entity"
	"github.com/jhoicas/notas-credito-api/internal/infrastructure/postgres"
	"github.com/jhoicas/notas-credito-api/pkg/config"
	"github.com/jhoicas/notas-credito-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: "seed"})
	if cfg.DB.Driver != config.DriverPostgres {
		log.Error().Str("driver", cfg.DB.Driver).Msg("el seed sólo aplica a PostgreSQL")
		os.Exit(1)
	}

	if err := run(context.Background(), cfg, log); err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("migraciones: %w", err)
	}

	zl := log.Zerolog()
	runner := postgres.NewTxRunner(pool, cfg.DB.StatementTimeout)
	auditRepo, err := postgres.NewAuditRepository(pool, cfg.Audit.CompressThresholdBytes)
	if err != nil {
		return fmt.Errorf("repositorio de auditoría: %w", err)
	}
	ledger := inventory.NewLedger(runner, zl)
	svc := creditnote.NewService(runner, ledger, billing.NewReconciler(runner, zl), audit.NewTrail(auditRepo, zl, 0), zl)

	reorder := int64(40)
	product := &entity.Product{
		SKU: "CAJ-250", Name: "Cajeta 250g", StockUnit: entity.StockUnitPCS,
		UnitsPerBox: 20, ReorderLevel: &reorder,
	}
	if err := ledger.RegisterProduct(ctx, product, 80); err != nil {
		return fmt.Errorf("registrar producto: %w", err)
	}

	invoices := postgres.NewInvoiceRepository(pool)
	inv := &entity.Invoice{Number: "FV-0001", CustomerID: 1, TotalAmount: decimal.RequireFromString("1000.00")}
	if err := invoices.Create(ctx, inv); err != nil {
		return fmt.Errorf("crear factura: %w", err)
	}
	if err := invoices.AddPayment(ctx, &entity.Payment{InvoiceID: inv.ID, Amount: decimal.RequireFromString("200.00")}); err != nil {
		return fmt.Errorf("registrar pago: %w", err)
	}

	res, err := svc.Issue(ctx, creditnote.IssueRequest{
		CustomerID: inv.CustomerID,
		InvoiceID:  &inv.ID,
		Reason:     "producto dañado",
		Lines: []creditnote.IssueLine{{
			ProductID:        product.ID,
			UOM:              entity.UOMBox,
			Quantity:         decimal.NewFromInt(1),
			UnitPriceExclVAT: decimal.RequireFromString("100.00"),
			UnitVAT:          decimal.RequireFromString("19.00"),
		}},
	})
	if err != nil {
		return fmt.Errorf("emitir nota crédito: %w", err)
	}
	for _, w := range res.Warnings {
		log.Warn().Err(w).Msg("advertencia en emisión")
	}

	log.Info().
		Int64("product_id", product.ID).
		Int64("invoice_id", inv.ID).
		Str("credit_note", res.CreditNote.Number).
		Bool("reconciled", res.Reconciled).
		Msg("datos de demostración cargados")
	return nil
}
