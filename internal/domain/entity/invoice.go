package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice factura referenciada por las notas crédito. Este servicio sólo recalcula BalanceRemaining.
type Invoice struct {
	ID               int64
	Number           string
	CustomerID       int64
	TotalAmount      decimal.Decimal
	BalanceRemaining decimal.Decimal
	UpdatedAt        time.Time
}

// Payment pago aplicado a una factura.
type Payment struct {
	ID        int64
	InvoiceID int64
	Amount    decimal.Decimal
	PaidAt    time.Time
}
