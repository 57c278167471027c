package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prompthub/prompthub/internal/users"
	"github.com/prompthub/prompthub/pkg/httpx"
	"github.com/prompthub/prompthub/pkg/middleware"
)

// RegisterMe mounts GET /api/v1/me. With a verifier the caller's profile is
// upserted from the token claims; without one the route reports 503.
func RegisterMe(r gin.IRouter, verifier middleware.Verifier, userSvc *users.Service) {
	api := r.Group("/api/v1")
	if verifier == nil {
		api.GET("/me", func(c *gin.Context) {
			httpx.Error(c, http.StatusServiceUnavailable, "OIDC not configured")
		})
		return
	}
	api.GET("/me", middleware.AuthMiddleware(verifier), func(c *gin.Context) {
		claims, _ := middleware.ClaimsFrom(c)
		u, err := userSvc.UpsertFromClaims(c.Request.Context(), claims)
		if err != nil {
			if errors.Is(err, users.ErrValidation) {
				httpx.Error(c, http.StatusUnauthorized, "token has no subject")
				return
			}
			httpx.Internal(c, "user upsert failed", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": u})
	})
}
