package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nutriplan/backend/internal/apperror"
)

// Context keys set by Auth for downstream handlers.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// TokenClaims is the decoded identity carried by an access token.
type TokenClaims struct {
	UserID uint
	Role   string
}

// TokenValidator is an interface for validating JWT access tokens.
type TokenValidator interface {
	ValidateToken(token string) (*TokenClaims, error)
}

// Auth validates the Bearer token and stores the caller's identity in the
// request context.
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWith(c, apperror.New(apperror.Auth, "no se proporcionó token"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortWith(c, apperror.New(apperror.Auth, "formato de autorización inválido"))
			return
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			abortWith(c, apperror.Wrap(apperror.Auth, "token inválido o expirado", err))
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// RequireRole gates a route on the role claim. Must run after Auth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxRole) != role {
			abortWith(c, apperror.New(apperror.Forbidden, "permisos insuficientes"))
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated caller's id from the request context.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
