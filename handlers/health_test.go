package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	g := gin.New()
	RegisterHealth(g, nil)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "healthy", w.Body.String())
}

func TestReady(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	for name, tc := range map[string]struct {
		checks map[string]Check
		want   int
		status string
	}{
		"all up":    {map[string]Check{"store": ok, "redis": ok}, http.StatusOK, "ready"},
		"one down":  {map[string]Check{"store": ok, "redis": down}, http.StatusServiceUnavailable, "not_ready"},
		"no checks": {nil, http.StatusOK, "ready"},
	} {
		g := gin.New()
		RegisterHealth(g, tc.checks)
		w := httptest.NewRecorder()
		g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
		require.Equal(t, tc.want, w.Code, name)

		var body struct {
			Status string          `json:"status"`
			Deps   map[string]bool `json:"deps"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), name)
		require.Equal(t, tc.status, body.Status, name)
		require.Len(t, body.Deps, len(tc.checks), name)
	}
}
