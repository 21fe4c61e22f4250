package http

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/notas-credito-api/internal/application/dto"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// bindJSON parsea el cuerpo y valida las etiquetas `validate`. Si falla, ya escribió la respuesta y ok = false.
func bindJSON(c *fiber.Ctx, out any) (ok bool, err error) {
	if err := c.BodyParser(out); err != nil {
		return false, invalidBody(c)
	}
	return checkStruct(c, out)
}

// bindQuery como bindJSON pero desde el query string.
func bindQuery(c *fiber.Ctx, out any) (ok bool, err error) {
	if err := c.QueryParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	return checkStruct(c, out)
}

func checkStruct(c *fiber.Ctx, out any) (bool, error) {
	err := validate.Struct(out)
	if err == nil {
		return true, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false, invalidBody(c)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = ruleMessage(fe)
	}
	return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code:    "VALIDATION",
		Message: "datos inválidos",
		Fields:  fields,
	})
}

// fieldPath quita el nombre del struct raíz: "CreateCreditNoteRequest.Lines[0].UOM" -> "Lines[0].UOM".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "requerido"
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "gt":
		return "debe ser mayor que " + fe.Param()
	case "gte", "min":
		return "mínimo " + fe.Param()
	case "max":
		return "máximo " + fe.Param()
	case "datetime":
		return "formato esperado " + fe.Param()
	}
	return "inválido (" + fe.Tag() + ")"
}
