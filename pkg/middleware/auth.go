package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/organize/tasktracker/internal/models"
	"github.com/organize/tasktracker/internal/tokens"
	"github.com/organize/tasktracker/pkg/apperr"
	"github.com/organize/tasktracker/pkg/logger"
	"github.com/organize/tasktracker/pkg/metrics"
)

const bearerPrefix = "Bearer "

// Verifier is the minimal interface the gate depends on. *tokens.Codec satisfies it.
type Verifier interface {
	Verify(raw string) (tokens.Identity, error)
}

// ProfileFetcher resolves the caller's stored profile from the user service.
type ProfileFetcher interface {
	Profile(ctx context.Context, credential string) (*models.User, error)
}

// AuthGate verifies a Bearer credential when one is presented and binds the
// resulting principal to the request context. Requests without an Authorization
// header pass through anonymously; route policy decides whether that is allowed.
// A malformed or invalid credential rejects the whole request.
func AuthGate(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.Next()
			return
		}
		if !strings.HasPrefix(auth, bearerPrefix) || strings.TrimSpace(auth[len(bearerPrefix):]) == "" {
			metrics.AuthFailures.WithLabelValues("malformed_header").Inc()
			logger.Warnf("rejecting request to %s: Authorization header is not a Bearer token", c.Request.URL.Path)
			apperr.Respond(c, apperr.Authentication("invalid Authorization header"))
			return
		}
		raw := strings.TrimSpace(auth[len(bearerPrefix):])

		id, err := ver.Verify(raw)
		if err != nil {
			metrics.AuthFailures.WithLabelValues("invalid_token").Inc()
			logger.Warnf("rejecting request to %s: %v", c.Request.URL.Path, err)
			apperr.Respond(c, apperr.Authentication("invalid token"))
			return
		}

		p := &models.Principal{Email: id.Email, Roles: id.Roles, Credential: raw}
		c.Request = c.Request.WithContext(models.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

// RequirePrincipal is the route policy for protected groups.
func RequirePrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := models.PrincipalFrom(c.Request.Context()); !ok {
			metrics.AuthFailures.WithLabelValues("missing_credential").Inc()
			apperr.Respond(c, apperr.Authentication("missing Authorization header"))
			return
		}
		c.Next()
	}
}

// ResolveProfile fills the principal's id and stored role from the user service,
// forwarding the caller's credential unchanged. It must run after RequirePrincipal.
func ResolveProfile(fetcher ProfileFetcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := models.PrincipalFrom(c.Request.Context())
		if !ok {
			apperr.Respond(c, apperr.Authentication("missing Authorization header"))
			return
		}
		u, err := fetcher.Profile(c.Request.Context(), p.BearerCredential())
		if err != nil {
			metrics.AuthFailures.WithLabelValues("profile_lookup").Inc()
			logger.Warnf("profile lookup for %s failed: %v", p.Email, err)
			apperr.Respond(c, profileFailure(err))
			return
		}
		resolved := &models.Principal{
			ID:         u.ID,
			Email:      p.Email,
			Roles:      models.RoleSet(append(models.RoleStrings(p.Roles), string(u.Role))),
			Credential: p.Credential,
		}
		c.Request = c.Request.WithContext(models.WithPrincipal(c.Request.Context(), resolved))
		c.Next()
	}
}

// profileFailure reports a failed lookup as either a rejected credential or an
// unavailable user service, never as the remote's own classification.
func profileFailure(err error) error {
	switch apperr.KindOf(err) {
	case apperr.KindAuthentication, apperr.KindNotFound, apperr.KindNotAuthorized:
		return apperr.Authentication("credential does not match a registered user")
	default:
		return apperr.RemoteCall(err, "user service unavailable")
	}
}

// PrincipalFrom returns the principal bound by AuthGate.
func PrincipalFrom(c *gin.Context) (*models.Principal, bool) {
	return models.PrincipalFrom(c.Request.Context())
}
