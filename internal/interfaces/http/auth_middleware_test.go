package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-costeo/internal/application/dto"
	apphttp "github.com/jhoicas/inventario-costeo/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/inventario-costeo/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "inventario-costeo-test"
	testExpMin    = 60
)

// callWithAuth lanza la petición con el header Authorization tal cual (vacío = sin header).
func callWithAuth(t *testing.T, app *fiber.App, method, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func signed(t *testing.T, secret, role string, expMin int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(secret, testUserID, apiCompanyID, role, testIssuer, expMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// Permisos por rol sobre las rutas reales de la API.
func TestRequireRole_PermisosPorRuta(t *testing.T) {
	app := buildAPI(t)
	resp := call(t, app, http.MethodPost, "/api/inventory/movements", pkgjwt.RoleAdmin, receipt("10", "5"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	cases := []struct {
		name   string
		method string
		path   string
		role   string
		body   any
		want   int
	}{
		{"bodeguero registra entradas", http.MethodPost, "/api/inventory/movements", pkgjwt.RoleWarehouse, receipt("1", "5"), http.StatusCreated},
		{"auditor no registra movimientos", http.MethodPost, "/api/inventory/movements", pkgjwt.RoleAuditor, receipt("1", "5"), http.StatusForbidden},
		{"auditor no traslada", http.MethodPost, "/api/inventory/transfers", pkgjwt.RoleAuditor, map[string]any{}, http.StatusForbidden},
		{"auditor no produce", http.MethodPost, "/api/inventory/productions", pkgjwt.RoleAuditor, map[string]any{}, http.StatusForbidden},
		{"auditor consulta valuación", http.MethodGet, "/api/inventory/valuation?location_id=loc-a&material_id=m-flour", pkgjwt.RoleAuditor, nil, http.StatusOK},
		{"auditor consulta stock", http.MethodGet, "/api/inventory/stock?location_id=loc-a", pkgjwt.RoleAuditor, nil, http.StatusOK},
		{"auditor no bloquea conteos", http.MethodPost, "/api/inventory/counts/cnt-1/lock", pkgjwt.RoleAuditor, nil, http.StatusForbidden},
		{"auditor no aplica conteos", http.MethodPost, "/api/inventory/counts/cnt-1/apply", pkgjwt.RoleAuditor, nil, http.StatusForbidden},
		{"bodeguero no aplica conteos", http.MethodPost, "/api/inventory/counts/cnt-1/apply", pkgjwt.RoleWarehouse, nil, http.StatusForbidden},
		{"admin llega al caso de uso", http.MethodPost, "/api/inventory/counts/cnt-1/apply", pkgjwt.RoleAdmin, nil, http.StatusNotFound},
		{"bodeguero no crea unidades", http.MethodPost, "/api/units", pkgjwt.RoleWarehouse, map[string]any{"name": "Caja"}, http.StatusForbidden},
		{"auditor lista unidades", http.MethodGet, "/api/units", pkgjwt.RoleAuditor, nil, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := call(t, app, tc.method, tc.path, tc.role, tc.body)
			assert.Equal(t, tc.want, resp.StatusCode)
			if tc.want == http.StatusForbidden {
				assert.Equal(t, "FORBIDDEN", decode[dto.ErrorResponse](t, resp).Code)
			}
		})
	}
}

func TestAuthMiddleware_RechazaCredenciales(t *testing.T) {
	app := buildAPI(t)
	const path = "/api/inventory/history"

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"esquema distinto", "Token abc", "INVALID_TOKEN"},
		{"firma de otro secreto", signed(t, "otro-secreto", pkgjwt.RoleAdmin, testExpMin), "INVALID_TOKEN"},
		{"token expirado", signed(t, testJWTSecret, pkgjwt.RoleAdmin, -5), "INVALID_TOKEN"},
		{"token sin rol", signed(t, testJWTSecret, "", testExpMin), "MISSING_ROLE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := callWithAuth(t, app, http.MethodGet, path, tc.header)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tc.code, decode[dto.ErrorResponse](t, resp).Code)
		})
	}
}

func TestRequireRole_RolDesconocido(t *testing.T) {
	app := buildAPI(t)
	resp := callWithAuth(t, app, http.MethodGet, "/api/inventory/history", signed(t, testJWTSecret, "vendedor", testExpMin))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// Los handlers leen empresa, usuario y rol desde los locals que deja el middleware.
func TestAuthMiddleware_CargaTenantEnLocals(t *testing.T) {
	app := fiber.New()
	app.Get("/whoami", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"company_id": apphttp.GetCompanyID(c),
			"role":       apphttp.GetRole(c),
		})
	})

	resp := callWithAuth(t, app, http.MethodGet, "/whoami", signed(t, testJWTSecret, pkgjwt.RoleWarehouse, testExpMin))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[map[string]string](t, resp)
	assert.Equal(t, testUserID, got["user_id"])
	assert.Equal(t, apiCompanyID, got["company_id"])
	assert.Equal(t, pkgjwt.RoleWarehouse, got["role"])
}
