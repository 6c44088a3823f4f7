package http

import "github.com/gin-gonic/gin"

// Kinds estables de error expuestos a clientes. El texto interno de errores
// del store nunca se devuelve.
const (
	kindTokenMalformed      = "token_malformed"
	kindTokenUntrusted      = "token_untrusted"
	kindTokenExpired        = "token_expired"
	kindInvalidSubscription = "invalid_subscription"
	kindNotFound            = "not_found"
	kindForbidden           = "forbidden"
	kindRateLimited         = "rate_limited"
	kindInternal            = "internal"
)

func respondError(c *gin.Context, status int, kind, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": kind, "message": message})
}
