package http_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/notas-credito-api/internal/application/dto"
	apphttp "github.com/jhoicas/notas-credito-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/notas-credito-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "notas-credito-test"
	testExpMin    = 60
)

// tokenForRole genera un JWT con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// rawCall lanza la petición con el header Authorization tal cual (vacío = sin header).
func (f *apiFixture) rawCall(t *testing.T, method, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Matriz de roles del router
// ──────────────────────────────────────────────────────────────────────────────

type route struct {
	method string
	path   string
	roles  []string
}

var (
	finance   = []string{pkgjwt.RoleAdmin, pkgjwt.RoleContador}
	warehouse = []string{pkgjwt.RoleAdmin, pkgjwt.RoleBodeguero}
	anyRole   = []string{pkgjwt.RoleAdmin, pkgjwt.RoleContador, pkgjwt.RoleBodeguero}
)

var routes = []route{
	{http.MethodPost, "/api/credit-notes", finance},
	{http.MethodGet, "/api/credit-notes/41", anyRole},
	{http.MethodPost, "/api/credit-notes/41/void", finance},
	{http.MethodPost, "/api/credit-notes/41/refund", finance},
	{http.MethodPost, "/api/credit-notes/41/restore", finance},
	{http.MethodPost, "/api/inventory/movements", warehouse},
	{http.MethodPost, "/api/products", warehouse},
	{http.MethodGet, "/api/products/41/stock", anyRole},
	{http.MethodGet, "/api/products/41/movements", anyRole},
	{http.MethodGet, "/api/products/41/consistency", anyRole},
	{http.MethodPost, "/api/invoices/41/reconcile", finance},
	{http.MethodGet, "/api/invoices/41/credit-notes", anyRole},
	{http.MethodGet, "/api/audit/credit_note/41", finance},
}

func allows(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// Un rol permitido llega al handler (la respuesta puede ser 400/404, nunca 401/403);
// uno no permitido recibe 403 FORBIDDEN.
func TestRouter_MatrizDeRoles(t *testing.T) {
	f := newAPI(t)
	for _, rt := range routes {
		for _, role := range []string{pkgjwt.RoleAdmin, pkgjwt.RoleContador, pkgjwt.RoleBodeguero, "cajero"} {
			t.Run(rt.method+" "+rt.path+" "+role, func(t *testing.T) {
				resp := f.rawCall(t, rt.method, rt.path, tokenForRole(t, role))
				if allows(rt.roles, role) {
					defer resp.Body.Close()
					assert.NotEqual(t, http.StatusForbidden, resp.StatusCode)
					assert.NotEqual(t, http.StatusUnauthorized, resp.StatusCode)
					return
				}
				assert.Equal(t, http.StatusForbidden, resp.StatusCode)
				assert.Equal(t, "FORBIDDEN", decode[dto.ErrorResponse](t, resp).Code)
			})
		}
	}
}

func TestRouter_ContadorAnulaPeroNoMueveInventario(t *testing.T) {
	f := newAPI(t)
	p := f.createProduct(t, 80)

	resp := f.call(t, http.MethodPost, "/api/credit-notes", pkgjwt.RoleContador, issueBody(p.ProductID, nil))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	note := decode[dto.CreditNoteResponse](t, resp)

	resp = f.call(t, http.MethodPost, "/api/inventory/movements", pkgjwt.RoleContador, dto.RegisterMovementRequest{
		ProductID: p.ProductID, Type: "OUT", Quantity: 1, Reference: "despacho-1",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.call(t, http.MethodPost, fmt.Sprintf("/api/credit-notes/%d/void", note.ID), pkgjwt.RoleContador, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(80), f.stock(t, p.ProductID))
}

// ──────────────────────────────────────────────────────────────────────────────
// Token
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_ErroresDeToken(t *testing.T) {
	f := newAPI(t)
	noRole, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, "", testIssuer, testExpMin)
	require.NoError(t, err)
	expired, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, pkgjwt.RoleContador, testIssuer, -1)
	require.NoError(t, err)
	foreign, err := pkgjwt.Generate("otro-secret-completamente-distinto", testUserID, testCompanyID, pkgjwt.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"esquema distinto", "Basic abc", "INVALID_TOKEN"},
		{"malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"expirado", "Bearer " + expired, "INVALID_TOKEN"},
		{"otro secreto", "Bearer " + foreign, "INVALID_TOKEN"},
		{"sin rol", "Bearer " + noRole, "MISSING_ROLE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := f.rawCall(t, http.MethodGet, "/api/credit-notes/1", tc.header)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tc.code, decode[dto.ErrorResponse](t, resp).Code)
		})
	}
}

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"company_id": apphttp.GetCompanyID(c),
			"role":       apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, pkgjwt.RoleBodeguero))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testCompanyID, body["company_id"])
	assert.Equal(t, pkgjwt.RoleBodeguero, body["role"])
}

// ──────────────────────────────────────────────────────────────────────────────
// pkg/jwt
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_GenerateAndParse_ConRol(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, pkgjwt.RoleContador, testIssuer, testExpMin)
	require.NoError(t, err)

	userID, companyID, role, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, userID)
	assert.Equal(t, testCompanyID, companyID)
	assert.Equal(t, pkgjwt.RoleContador, role)
}

func TestJWT_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", testUserID, testCompanyID, pkgjwt.RoleAdmin, testIssuer, testExpMin)
	assert.ErrorIs(t, err, pkgjwt.ErrEmptySecret)

	_, _, _, err = pkgjwt.Parse("", "cualquier.token.valor")
	assert.ErrorIs(t, err, pkgjwt.ErrEmptySecret)
}
