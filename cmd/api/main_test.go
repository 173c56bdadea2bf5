package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocsMiddleware_SirveEspecificacionEmbebida(t *testing.T) {
	var h fiber.Handler
	require.NotPanics(t, func() { h = docsMiddleware() })

	app := fiber.New()
	app.Use(h)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/docs/swagger.json", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var doc struct {
		Paths map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	for _, p := range []string{
		"/api/inventory/movements",
		"/api/inventory/transfers",
		"/api/inventory/productions",
		"/api/inventory/stock",
		"/api/inventory/counts/{id}/apply",
		"/api/units",
	} {
		assert.Contains(t, doc.Paths, p)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/docs", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
