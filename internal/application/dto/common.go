package dto

import (
	"errors"

	"github.com/jhoicas/notas-credito-api/internal/domain"
)

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"omitempty,min=1,max=500"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// WarningDTO advertencia informativa dentro de una respuesta exitosa.
type WarningDTO struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Códigos de advertencia.
const (
	WarningReconciliation = "RECONCILIATION_FAILED"
	WarningAuditWrite     = "AUDIT_WRITE_FAILED"
)

// Warnings traduce las advertencias del dominio. Devuelve nil si no hay ninguna.
func Warnings(errs []error) []WarningDTO {
	if len(errs) == 0 {
		return nil
	}
	out := make([]WarningDTO, 0, len(errs))
	for _, err := range errs {
		var rw *domain.ReconciliationWarning
		var aw *domain.AuditWriteWarning
		switch {
		case errors.As(err, &rw):
			out = append(out, WarningDTO{Code: WarningReconciliation, Message: err.Error()})
		case errors.As(err, &aw):
			out = append(out, WarningDTO{Code: WarningAuditWrite, Message: err.Error()})
		default:
			out = append(out, WarningDTO{Code: "WARNING", Message: err.Error()})
		}
	}
	return out
}
