package marketserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	userapp "github.com/Apurer/go-gin-marketplace/internal/domains/users/application"
	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

const (
	// legacyTokenHeader is still sent by older storefront clients.
	legacyTokenHeader = "x-auth-token"
	identityKey       = "marketplace.identity"
)

// Authenticator verifies a presented credential and returns the caller behind it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (identity.Identity, error)
}

// RequireAuth rejects requests without a valid credential and attaches the caller's identity
// to both the gin context and the request context.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := credentialFrom(c.Request)
		if token == "" {
			respondError(c, userapp.ErrUnauthenticated)
			return
		}
		caller, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Set(identityKey, caller)
		c.Request = c.Request.WithContext(identity.WithIdentity(c.Request.Context(), caller))
		c.Next()
	}
}

func credentialFrom(r *http.Request) string {
	if header := strings.TrimSpace(r.Header.Get("Authorization")); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return strings.TrimSpace(r.Header.Get(legacyTokenHeader))
}

// callerFrom returns the identity set by RequireAuth. Handlers behind the gate can rely on ok.
func callerFrom(c *gin.Context) (identity.Identity, bool) {
	if value, exists := c.Get(identityKey); exists {
		if caller, ok := value.(identity.Identity); ok {
			return caller, true
		}
	}
	return identity.FromContext(c.Request.Context())
}

func mustCaller(c *gin.Context) (identity.Identity, bool) {
	caller, ok := callerFrom(c)
	if !ok {
		respondError(c, userapp.ErrUnauthenticated)
	}
	return caller, ok
}
