package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func probe(t *testing.T, h *HealthHandler) (int, map[string]any) {
	t.Helper()
	app := fiber.New()
	app.Get("/ready", h.Ready)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestReadySkipsUnconfiguredRedis(t *testing.T) {
	status, body := probe(t, NewHealthHandler("license-service", "test", fakePinger{}, nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"postgres": "ok"}, body["dependencies"])
}

func TestReadyReportsFailingDependency(t *testing.T) {
	status, body := probe(t, NewHealthHandler("license-service", "test", fakePinger{}, fakePinger{err: errors.New("redis down")}))
	assert.Equal(t, http.StatusServiceUnavailable, status)
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Equal(t, "redis down", details["redis"])
	assert.Equal(t, "ok", details["postgres"])
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	type payload struct {
		Const string `json:"const" validate:"required"`
		Note  string `json:"note,omitempty" validate:"max=2"`
	}
	err := validateStruct(payload{Note: "too long"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}
