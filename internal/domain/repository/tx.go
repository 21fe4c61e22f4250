package repository

import "context"

// Tx agrupa los repositorios atados a una misma transacción de BD.
// Todo lo escrito a través de ellos se confirma o se deshace en bloque.
type Tx interface {
	Products() ProductRepository
	Movements() StockMovementRepository
	CreditNotes() CreditNoteRepository
	Invoices() InvoiceRepository
	// Savepoint ejecuta fn dentro de un SAVEPOINT: si fn falla sólo se deshace lo escrito dentro
	// de fn y la transacción externa sigue viva.
	Savepoint(ctx context.Context, fn func(tx Tx) error) error
}
