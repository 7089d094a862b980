// middleware/auth.go

package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	logger "github.com/toolgate/api/logging"
	pdp_model "github.com/toolgate/api/pdp/model"
)

// Identity headers set by the SSO proxy (oauth2-proxy conventions). The proxy
// strips any caller-supplied copies, so their presence means the request was
// authenticated upstream.
const (
	headerUser   = "X-Auth-Request-User"
	headerEmail  = "X-Auth-Request-Email"
	headerGroups = "X-Auth-Request-Groups"
	headerRoles  = "X-Auth-Request-Roles"
)

const userContextKey = "authUser"

// SSOAuth extracts the authenticated identity from proxy headers and stores
// it in the gin context. Requests without an identity are rejected.
func SSOAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sub := c.GetHeader(headerUser)
		if sub == "" {
			logger.Warn("Request without SSO identity headers",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		user := pdp_model.UserIdentity{
			Sub:    sub,
			Email:  c.GetHeader(headerEmail),
			Groups: splitHeaderList(c.GetHeader(headerGroups)),
			Roles:  splitHeaderList(c.GetHeader(headerRoles)),
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireGroup gates a route group to members of any of the given groups.
func RequireGroup(requiredGroups ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := GetUserFromContext(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		if !userInGroups(user, requiredGroups) {
			logger.Warn("User does not have the required groups",
				zap.String("user", user.Sub),
				zap.Strings("required", requiredGroups))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetUserFromContext returns the identity stored by SSOAuth.
func GetUserFromContext(c *gin.Context) (pdp_model.UserIdentity, error) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return pdp_model.UserIdentity{}, fmt.Errorf("no authenticated user in context")
	}
	user, ok := value.(pdp_model.UserIdentity)
	if !ok {
		return pdp_model.UserIdentity{}, fmt.Errorf("unexpected user context type: %T", value)
	}
	return user, nil
}

// UserInAnyGroup reports membership in any of the given groups.
func UserInAnyGroup(user pdp_model.UserIdentity, groups ...string) bool {
	return userInGroups(user, groups)
}

func userInGroups(user pdp_model.UserIdentity, requiredGroups []string) bool {
	for _, group := range requiredGroups {
		for _, userGroup := range user.Groups {
			if userGroup == group {
				return true
			}
		}
	}
	return false
}

func splitHeaderList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
