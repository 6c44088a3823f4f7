package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"subtrack/internal/service"
)

// AuthHandler mantiene dependencias para el endpoint de login-or-signup.
type AuthHandler struct {
	logger   *zap.Logger
	identity *service.IdentityService
	limiter  service.AuthRateLimiter
}

// NewAuthHandler crea una instancia de AuthHandler con dependencias necesarias.
func NewAuthHandler(logger *zap.Logger, identity *service.IdentityService, limiter service.AuthRateLimiter) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		identity: identity,
		limiter:  limiter,
	}
}

// LoginOrSignup maneja GET /login-or-signup. Provisiona el usuario y sus
// registros dependientes la primera vez que aparece el subject.
func (h *AuthHandler) LoginOrSignup(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, kindTokenMalformed, "missing token")
		return
	}

	if h.limiter != nil && !h.limiter.Allow(principal.ID) {
		respondError(c, http.StatusTooManyRequests, kindRateLimited, "too many requests")
		return
	}

	user, newUser, err := h.identity.Bind(c.Request.Context(), principal)
	if err != nil {
		h.logger.Error("login or signup failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, kindInternal, "could not resolve user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": user.ID, "new_user": newUser})
}
