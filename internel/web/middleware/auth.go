package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const authHeader = "X-Auth-Key"

// AuthKeyMiddlewareBuilder gates routes behind the shared upload secret.
type AuthKeyMiddlewareBuilder struct {
	secret string
}

func NewAuthKeyMiddlewareBuilder(secret string) *AuthKeyMiddlewareBuilder {
	return &AuthKeyMiddlewareBuilder{secret: secret}
}

// CheckKey requires an exact X-Auth-Key match. Anything else is a 401 with
// the literal body "Unauthorized".
func (b *AuthKeyMiddlewareBuilder) CheckKey() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		key := ctx.GetHeader(authHeader)
		if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(b.secret)) != 1 {
			ctx.String(http.StatusUnauthorized, "Unauthorized")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
