package http_test

import (
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpiface "github.com/jcastano/Bodega-api/internal/interfaces/http"
	"github.com/jcastano/Bodega-api/pkg/jwt"
)

const testSecret = "secreto-de-pruebas"

func buildTestApp(roles ...string) *fiber.App {
	app := fiber.New()
	grp := app.Group("/", httpiface.AuthMiddleware(testSecret))
	grp.Get("/quien-soy", httpiface.RequireRole(roles...), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":   httpiface.GetUserID(c),
			"warehouse": httpiface.GetWarehouse(c),
			"role":      httpiface.GetRole(c),
		})
	})
	return app
}

func tokenFor(t *testing.T, userID, warehouse, role string) string {
	t.Helper()
	token, err := jwt.Generate(testSecret, userID, warehouse, role, "bodega-api", 15)
	require.NoError(t, err)
	return token
}

func doGet(t *testing.T, app *fiber.App, token string) *nethttp.Response {
	t.Helper()
	req := httptest.NewRequest(nethttp.MethodGet, "/quien-soy", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAuthMiddleware_SinHeader(t *testing.T) {
	app := buildTestApp()

	resp := doGet(t, app, "")

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "MISSING_TOKEN", body["code"])
}

func TestAuthMiddleware_TokenInvalido(t *testing.T) {
	app := buildTestApp()

	resp := doGet(t, app, "no-es-un-jwt")

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "INVALID_TOKEN", body["code"])
}

func TestAuthMiddleware_FirmaDeOtroSecreto(t *testing.T) {
	app := buildTestApp()
	token, err := jwt.Generate("otro-secreto", "u1", "BOD-01", "admin", "bodega-api", 15)
	require.NoError(t, err)

	resp := doGet(t, app, token)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_HeaderMalFormado(t *testing.T) {
	app := buildTestApp()
	req := httptest.NewRequest(nethttp.MethodGet, "/quien-soy", nil)
	req.Header.Set("Authorization", "Basic abc123")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

// Un token válido deja el actor, la bodega y el rol en el contexto.
func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := buildTestApp()

	resp := doGet(t, app, tokenFor(t, "u-42", "BOD-01", "bodeguero"))

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "u-42", body["user_id"])
	assert.Equal(t, "BOD-01", body["warehouse"])
	assert.Equal(t, "bodeguero", body["role"])
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name    string
		allowed []string
		role    string
		want    int
	}{
		{"rol permitido", []string{"admin"}, "admin", fiber.StatusOK},
		{"uno de varios", []string{"admin", "supervisor"}, "supervisor", fiber.StatusOK},
		{"rol insuficiente", []string{"admin", "supervisor"}, "bodeguero", fiber.StatusForbidden},
		{"rol vacío queda fuera", []string{"admin"}, "", fiber.StatusForbidden},
		{"sin lista pasa cualquiera", nil, "bodeguero", fiber.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := buildTestApp(tc.allowed...)

			resp := doGet(t, app, tokenFor(t, "u1", "BOD-01", tc.role))

			assert.Equal(t, tc.want, resp.StatusCode)
			if tc.want == fiber.StatusForbidden {
				var body map[string]string
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, "FORBIDDEN", body["code"])
			}
		})
	}
}
