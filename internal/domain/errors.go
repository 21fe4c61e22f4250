package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidTransition = errors.New("transición de estado inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// ValidationError entrada mal formada (ej. cantidad cero). Compatible con errors.Is(err, ErrInvalidInput).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validación: " + e.Message
	}
	return fmt.Sprintf("validación: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError construye un ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// InvalidTransitionError la guarda de la máquina de estados falló (incluye al perdedor de una carrera).
type InvalidTransitionError struct {
	CreditNoteID int64
	Event        string
	Status       string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("nota crédito %d: no se puede aplicar %q en estado %s", e.CreditNoteID, e.Event, e.Status)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// NotFoundError entidad inexistente (nota crédito, producto, factura).
type NotFoundError struct {
	Entity string
	ID     any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v no encontrado", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFoundError construye un NotFoundError.
func NewNotFoundError(entity string, id any) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// ReconciliationWarning advertencia no fatal: el saldo de la factura no se pudo recalcular.
// Nunca revierte la transición que la originó.
type ReconciliationWarning struct {
	InvoiceID int64
	Err       error
}

func (w *ReconciliationWarning) Error() string {
	return fmt.Sprintf("conciliación factura %d: %v", w.InvoiceID, w.Err)
}

func (w *ReconciliationWarning) Unwrap() error { return w.Err }

// AuditWriteWarning advertencia no fatal: no se pudo escribir la bitácora.
type AuditWriteWarning struct {
	Action string
	Err    error
}

func (w *AuditWriteWarning) Error() string {
	return fmt.Sprintf("auditoría %s: %v", w.Action, w.Err)
}

func (w *AuditWriteWarning) Unwrap() error { return w.Err }

// IsWarning indica si err es una advertencia informativa (no aborta la operación).
func IsWarning(err error) bool {
	var rw *ReconciliationWarning
	var aw *AuditWriteWarning
	return errors.As(err, &rw) || errors.As(err, &aw)
}
