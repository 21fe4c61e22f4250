package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/notas-credito-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de lectura de facturas y escritura del saldo proyectado.
type InvoiceRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Invoice, error)
	GetForUpdate(ctx context.Context, id int64) (*entity.Invoice, error)
	SumPayments(ctx context.Context, invoiceID int64) (decimal.Decimal, error)
	UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error
}
