package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"subtrack/internal/service"
)

const principalKey = "auth_principal"

// AuthMiddleware verifica el token de identidad del header Authorization y
// guarda el principal resuelto en el contexto. Se acepta el token crudo o
// con prefijo "Bearer ": los clientes originales mandaban el header pelado.
func AuthMiddleware(verifier *service.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			respondError(c, http.StatusInternalServerError, kindInternal, "token verifier not configured")
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			respondError(c, http.StatusUnauthorized, kindTokenMalformed, "missing token")
			return
		}
		if strings.HasPrefix(strings.ToLower(header), "bearer ") {
			header = strings.TrimSpace(header[len("Bearer "):])
		}

		claims, err := verifier.Verify(header)
		if err != nil {
			kind := kindTokenMalformed
			switch {
			case errors.Is(err, service.ErrTokenUntrusted):
				kind = kindTokenUntrusted
			case errors.Is(err, service.ErrTokenExpired):
				kind = kindTokenExpired
			}
			respondError(c, http.StatusUnauthorized, kind, "invalid token")
			return
		}

		c.Set(principalKey, service.PrincipalFromClaims(claims))
		c.Next()
	}
}

// GetPrincipal obtiene el principal autenticado desde el contexto.
func GetPrincipal(c *gin.Context) (service.Principal, bool) {
	val, ok := c.Get(principalKey)
	if !ok {
		return service.Principal{}, false
	}
	principal, ok := val.(service.Principal)
	return principal, ok
}
