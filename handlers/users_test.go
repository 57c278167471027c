package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prompthub/prompthub/internal/export"
	"github.com/prompthub/prompthub/internal/models"
	"github.com/prompthub/prompthub/internal/users"
	"github.com/stretchr/testify/require"
)

type fakeExporter struct {
	userID string
	err    error
}

func (f *fakeExporter) Export(_ context.Context, userID string) (*export.Result, error) {
	f.userID = userID
	if f.err != nil {
		return nil, f.err
	}
	return &export.Result{Key: "exports/" + userID + "/x.json", URL: "https://minio.local/x", Count: 3}, nil
}

func newUserRouter(exp Exporter) (*gin.Engine, *users.Service) {
	svc := users.NewService(users.NewMemoryRepo())
	g := gin.New()
	NewUserHandler(svc, exp).Register(g)
	return g, svc
}

func send(g *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

func TestUserHandler_SyncAndGet(t *testing.T) {
	g, _ := newUserRouter(nil)

	w := send(g, http.MethodGet, "/api/users/user_A", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = send(g, http.MethodPost, "/api/users/sync", `{"externalId":"user_A","email":"a@example.com","fullName":"Ann"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = send(g, http.MethodGet, "/api/users/user_A", "")
	require.Equal(t, http.StatusOK, w.Code)
	var u models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	require.Equal(t, "Ann", u.FullName)

	w = send(g, http.MethodPost, "/api/users/sync", `{"email":"x@example.com"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandler_UpdateUsername(t *testing.T) {
	g, svc := newUserRouter(nil)
	ctx := context.Background()
	for _, id := range []string{"user_A", "user_B"} {
		_, err := svc.SyncProfile(ctx, users.ProfileInput{ExternalID: id})
		require.NoError(t, err)
	}

	w := send(g, http.MethodPut, "/api/users/user_A", `{"username":"alice"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var u models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	require.Equal(t, "alice", u.Username)

	cases := []struct {
		name, path, body string
		want             int
	}{
		{"taken", "/api/users/user_B", `{"username":"alice"}`, http.StatusConflict},
		{"missing", "/api/users/user_B", `{}`, http.StatusBadRequest},
		{"blank", "/api/users/user_B", `{"username":"   "}`, http.StatusBadRequest},
		{"absent user", "/api/users/user_C", `{"username":"carol"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		w := send(g, http.MethodPut, tc.path, tc.body)
		require.Equal(t, tc.want, w.Code, tc.name)
	}

	w = send(g, http.MethodGet, "/api/users/user_B", "")
	var ub models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ub))
	require.Empty(t, ub.Username)
}

func TestUserHandler_Export(t *testing.T) {
	g, _ := newUserRouter(nil)
	w := send(g, http.MethodPost, "/api/users/user_A/export", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	exp := &fakeExporter{}
	g, _ = newUserRouter(exp)
	w = send(g, http.MethodPost, "/api/users/user_A/export", "")
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "user_A", exp.userID)
	var res export.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Equal(t, 3, res.Count)

	g, _ = newUserRouter(&fakeExporter{err: errors.New("bucket gone")})
	w = send(g, http.MethodPost, "/api/users/user_A/export", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotContains(t, w.Body.String(), "bucket gone")
}
