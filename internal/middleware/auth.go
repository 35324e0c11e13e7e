package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/petcare-scheduler/internal/auth"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/logging"
)

const ContextPrincipal = "principal"

// SessionChecker decides whether a validly signed token may still be used.
type SessionChecker interface {
	Check(ctx context.Context, p auth.Principal) error
}

// AuthMiddleware accepts a bearer token only while it is unrevoked and its
// account is live.
func AuthMiddleware(issuer *auth.Issuer, sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "Missing Authorization header.")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "invalid_authorization_header", "Authorization header must be a bearer token.")
			return
		}

		p, err := issuer.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			httperr.Unauthorized(c, "invalid_token", "Invalid or expired token.")
			return
		}

		if err := sessions.Check(c.Request.Context(), p); err != nil {
			switch {
			case errors.Is(err, auth.ErrTokenRevoked):
				httperr.Unauthorized(c, "token_revoked", "This token has been logged out.")
			case errors.Is(err, auth.ErrAccountDeleted):
				httperr.Unauthorized(c, "account_unavailable", "The account behind this token no longer exists.")
			default:
				logging.From(c).Error("session check failed", "err", err)
				httperr.Internal(c, "internal_error", "Something went wrong.")
			}
			return
		}

		c.Set(ContextPrincipal, p)
		c.Next()
	}
}

// RequireCapability rejects callers whose role lacks cap. It must run after
// AuthMiddleware.
func RequireCapability(cap auth.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Principal(c).Can(cap) {
			httperr.Forbidden(c, httperr.CodeForbidden, "You are not allowed to perform this action.")
			return
		}
		c.Next()
	}
}

func Principal(c *gin.Context) auth.Principal {
	v, ok := c.Get(ContextPrincipal)
	if !ok {
		return auth.Principal{}
	}
	p, _ := v.(auth.Principal)
	return p
}
