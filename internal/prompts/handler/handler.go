package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prompthub/prompthub/internal/prompts"
	"github.com/prompthub/prompthub/internal/prompts/service"
	"github.com/prompthub/prompthub/pkg/httpx"
	"github.com/prompthub/prompthub/pkg/logger"
)

type createPromptRequest struct {
	UserID   string   `json:"userId" binding:"required"`
	Author   string   `json:"author"`
	Username string   `json:"username"`
	Title    string   `json:"title" binding:"required"`
	Content  string   `json:"content" binding:"required"`
	Tags     []string `json:"tags"`
	Category string   `json:"category"`
	Models   []string `json:"models"`
	IsPublic *bool    `json:"isPublic"`
}

type upvoteRequest struct {
	Action string `json:"action" binding:"required,oneof=upvote remove"`
}

type promptHandler struct {
	svc service.Service
}

// RegisterPromptRoutes mounts the prompt API under /api/prompts.
func RegisterPromptRoutes(r gin.IRouter, svc service.Service) {
	h := &promptHandler{svc: svc}
	g := r.Group("/api/prompts")
	g.GET("", h.list)
	g.GET("/user/:userId", h.listByUser)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.PUT("/:id/upvote", h.upvote)
	g.DELETE("/:id", h.delete)
}

// list serves GET /api/prompts?userId=&filter=public|private.
func (h *promptHandler) list(c *gin.Context) {
	h.respondList(c, c.Query("userId"))
}

func (h *promptHandler) listByUser(c *gin.Context) {
	h.respondList(c, c.Param("userId"))
}

func (h *promptHandler) respondList(c *gin.Context, userID string) {
	// Values other than public/private (liked, saved, ...) list everything in scope.
	vis, err := prompts.ParseVisibility(c.Query("filter"))
	if err != nil {
		logger.Debugf("list prompts: %v; listing all", err)
	}
	list, err := h.svc.List(c.Request.Context(), prompts.Filter{UserID: userID, Visibility: vis})
	if err != nil {
		httpx.Internal(c, "failed to fetch prompts", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *promptHandler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "failed to fetch prompt", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *promptHandler) create(c *gin.Context) {
	var req createPromptRequest
	if !httpx.BindJSON(c, &req) {
		return
	}
	p, err := h.svc.Create(c.Request.Context(), service.CreateInput{
		UserID:   req.UserID,
		Author:   req.Author,
		Username: req.Username,
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
		Category: req.Category,
		Models:   req.Models,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		h.fail(c, "server error creating prompt", err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *promptHandler) upvote(c *gin.Context) {
	var req upvoteRequest
	if !httpx.BindJSON(c, &req) {
		return
	}
	n, err := h.svc.Upvote(c.Request.Context(), c.Param("id"), req.Action)
	if err != nil {
		h.fail(c, "failed to update upvotes", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"upvotes": n})
}

func (h *promptHandler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, "failed to delete prompt", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "prompt deleted"})
}

func (h *promptHandler) fail(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		httpx.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		httpx.Error(c, http.StatusNotFound, "prompt not found")
	default:
		httpx.Internal(c, msg, err)
	}
}
