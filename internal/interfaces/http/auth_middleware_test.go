package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/Inventario-stream/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Inventario-stream/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testSubject   = "uploader-service"
	testIssuer    = "inventario-stream-test"
	testExpMin    = 60
)

// buildScopedApp construye una aplicación Fiber mínima con AuthMiddleware + RequireScope
// y un handler dummy que devuelve 200 si pasa los middlewares.
func buildScopedApp(scope string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireScope(scope),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"subject": apphttp.GetSubject(c), "scope": apphttp.GetScope(c)})
		},
	)
	return app
}

// tokenForScope genera un JWT de servicio con el scope indicado.
func tokenForScope(t *testing.T, scope string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testSubject, scope, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doProtected(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireScope
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireScope_ConScopeAccede(t *testing.T) {
	app := buildScopedApp(pkgjwt.ScopeIngest)
	resp := doProtected(t, app, tokenForScope(t, "inventory:read "+pkgjwt.ScopeIngest))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testSubject, body["subject"])
}

func TestRequireScope_ScopeDistinto_Retorna403(t *testing.T) {
	app := buildScopedApp(pkgjwt.ScopeIngest)
	resp := doProtected(t, app, tokenForScope(t, "inventory:read"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireScope_TokenSinScope_Retorna401(t *testing.T) {
	app := buildScopedApp(pkgjwt.ScopeIngest)
	resp := doProtected(t, app, tokenForScope(t, ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_SCOPE")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	resp := doProtected(t, buildScopedApp(pkgjwt.ScopeIngest), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_FormatoInvalido_Retorna401(t *testing.T) {
	resp := doProtected(t, buildScopedApp(pkgjwt.ScopeIngest), "Token abc")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	resp := doProtected(t, buildScopedApp(pkgjwt.ScopeIngest), "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_FirmaDeOtroSecreto_Retorna401(t *testing.T) {
	tok, err := pkgjwt.Generate("otro-secreto", testSubject, pkgjwt.ScopeIngest, testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doProtected(t, buildScopedApp(pkgjwt.ScopeIngest), "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
