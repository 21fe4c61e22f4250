package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/notas-credito-api/internal/application/audit"
	"github.com/jhoicas/notas-credito-api/internal/application/billing"
	"github.com/jhoicas/notas-credito-api/internal/application/creditnote"
	"github.com/jhoicas/notas-credito-api/internal/application/inventory"
	"github.com/jhoicas/notas-credito-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CreditNotes *creditnote.Service
	Ledger      *inventory.Ledger
	Reconciler  *billing.Reconciler
	Trail       *audit.Trail
	JWTSecret   string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	anyRole := RequireRole(jwt.RoleAdmin, jwt.RoleContador, jwt.RoleBodeguero)
	finance := RequireRole(jwt.RoleAdmin, jwt.RoleContador)
	warehouse := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)

	// Notas crédito
	cn := NewCreditNoteHandler(deps.CreditNotes)
	notes := api.Group("/credit-notes")
	notes.Post("/", finance, cn.Issue)
	notes.Get("/:id", anyRole, cn.GetByID)
	notes.Post("/:id/void", finance, cn.Void)
	notes.Post("/:id/refund", finance, cn.Refund)
	notes.Post("/:id/restore", finance, cn.Restore)

	// Inventario
	inv := NewInventoryHandler(deps.Ledger)
	api.Post("/inventory/movements", warehouse, inv.RegisterMovement)
	products := api.Group("/products")
	products.Post("/", warehouse, inv.CreateProduct)
	products.Get("/:id/stock", anyRole, inv.GetStock)
	products.Get("/:id/movements", anyRole, inv.ListMovements)
	products.Get("/:id/consistency", anyRole, inv.Consistency)

	// Facturas
	ih := NewInvoiceHandler(deps.Reconciler, deps.CreditNotes)
	invoices := api.Group("/invoices")
	invoices.Post("/:id/reconcile", finance, ih.Reconcile)
	invoices.Get("/:id/credit-notes", anyRole, ih.ListCreditNotes)

	// Bitácora
	ah := NewAuditHandler(deps.Trail)
	api.Get("/audit/:entity/:id", finance, ah.List)
}
