package middlewares

import (
	"ClinicRecords/models"
	"ClinicRecords/permissions"
	"ClinicRecords/services"
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

const (
	msgMissingCredentials = "Authentication credentials were not provided."
	msgInvalidToken       = "Given token not valid for any token type"
	msgForbidden          = "You do not have permission to perform this action."
)

// IdentityResolver maps an access token onto the stored identity.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, accessToken string) (*models.User, error)
}

// TokenAuthMiddleware reads the bearer token from the Authorization header,
// resolves the identity and stores it in the gin context.
func TokenAuthMiddleware(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Header("WWW-Authenticate", `Bearer realm="api"`)
			HttpError(c, msgMissingCredentials, http.StatusUnauthorized, nil)
			return
		}

		identity, err := resolver.ResolveIdentity(c.Request.Context(), token)
		if err != nil {
			if services.IsAuthenticationError(err) {
				c.Header("WWW-Authenticate", `Bearer realm="api"`)
				HttpError(c, msgInvalidToken, http.StatusUnauthorized, err)
				return
			}
			HttpError(c, "internal server error", http.StatusInternalServerError, err)
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequirePermission lets the request through only when pred grants the
// resolved identity access. It must run after TokenAuthMiddleware.
func RequirePermission(pred permissions.Predicate) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFromContext(c)
		if !ok {
			HttpError(c, msgMissingCredentials, http.StatusUnauthorized, nil)
			return
		}
		if !pred(identity) {
			HttpError(c, msgForbidden, http.StatusForbidden, nil)
			return
		}
		c.Next()
	}
}

// IdentityFromContext returns the identity stored by TokenAuthMiddleware.
func IdentityFromContext(c *gin.Context) (*models.User, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := value.(*models.User)
	return identity, ok && identity != nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
