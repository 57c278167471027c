package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prompthub/prompthub/internal/export"
	"github.com/prompthub/prompthub/internal/users"
	"github.com/prompthub/prompthub/pkg/httpx"
)

// Exporter is satisfied by *export.Service.
type Exporter interface {
	Export(ctx context.Context, userID string) (*export.Result, error)
}

type usernameRequest struct {
	Username string `json:"username" binding:"required,max=64"`
}

type syncRequest struct {
	ExternalID string `json:"externalId" binding:"required"`
	Email      string `json:"email"`
	FullName   string `json:"fullName"`
	ImageURL   string `json:"imageUrl"`
}

// UserHandler serves the user profile routes. exporter may be nil when no
// object storage is configured.
type UserHandler struct {
	users    *users.Service
	exporter Exporter
}

func NewUserHandler(u *users.Service, exp Exporter) *UserHandler {
	return &UserHandler{users: u, exporter: exp}
}

// Register routes under /api/users
func (h *UserHandler) Register(r gin.IRouter) {
	g := r.Group("/api/users")
	g.POST("/sync", h.Sync)
	g.GET("/:externalId", h.Get)
	g.PUT("/:externalId", h.UpdateUsername)
	g.POST("/:externalId/export", h.Export)
}

func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.users.Get(c.Request.Context(), c.Param("externalId"))
	if err != nil {
		h.fail(c, "failed to fetch user", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) UpdateUsername(c *gin.Context) {
	var req usernameRequest
	if !httpx.BindJSON(c, &req) {
		return
	}
	u, err := h.users.UpdateUsername(c.Request.Context(), c.Param("externalId"), req.Username)
	if err != nil {
		h.fail(c, "failed to update username", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) Sync(c *gin.Context) {
	var req syncRequest
	if !httpx.BindJSON(c, &req) {
		return
	}
	u, err := h.users.SyncProfile(c.Request.Context(), users.ProfileInput{
		ExternalID: req.ExternalID,
		Email:      req.Email,
		FullName:   req.FullName,
		ImageURL:   req.ImageURL,
	})
	if err != nil {
		h.fail(c, "failed to sync user", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		httpx.Error(c, http.StatusServiceUnavailable, "export storage not configured")
		return
	}
	res, err := h.exporter.Export(c.Request.Context(), c.Param("externalId"))
	if err != nil {
		if errors.Is(err, export.ErrValidation) {
			httpx.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		httpx.Internal(c, "failed to export prompts", err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *UserHandler) fail(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, users.ErrValidation):
		httpx.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, users.ErrNotFound):
		httpx.Error(c, http.StatusNotFound, "user not found")
	case errors.Is(err, users.ErrUsernameTaken):
		httpx.Error(c, http.StatusConflict, "username already taken")
	default:
		httpx.Internal(c, msg, err)
	}
}
