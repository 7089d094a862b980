// middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logger "github.com/toolgate/api/logging"
	pdp_model "github.com/toolgate/api/pdp/model"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	dir, err := os.MkdirTemp("", "toolgate-test-logs")
	if err != nil {
		panic(err)
	}
	logger.InitLogger(dir)
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func TestSSOAuth(t *testing.T) {
	router := gin.New()
	router.Use(SSOAuth())

	var captured pdp_model.UserIdentity
	router.GET("/whoami", func(c *gin.Context) {
		user, err := GetUserFromContext(c)
		require.NoError(t, err)
		captured = user
		c.Status(http.StatusOK)
	})

	t.Run("parses identity headers", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/whoami", nil)
		req.Header.Set("X-Auth-Request-User", "alice")
		req.Header.Set("X-Auth-Request-Email", "alice@example.com")
		req.Header.Set("X-Auth-Request-Groups", "platform, toolgate-admin , ")
		req.Header.Set("X-Auth-Request-Roles", "developer")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "alice", captured.Sub)
		assert.Equal(t, "alice@example.com", captured.Email)
		assert.Equal(t, []string{"platform", "toolgate-admin"}, captured.Groups)
		assert.Equal(t, []string{"developer"}, captured.Roles)
	})

	t.Run("rejects anonymous requests", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/whoami", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireGroup(t *testing.T) {
	router := gin.New()
	router.Use(SSOAuth())
	admin := router.Group("/admin")
	admin.Use(RequireGroup("toolgate-admin"))
	admin.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	request := func(groups string) int {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/admin/ping", nil)
		req.Header.Set("X-Auth-Request-User", "alice")
		if groups != "" {
			req.Header.Set("X-Auth-Request-Groups", groups)
		}
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, request("platform,toolgate-admin"))
	assert.Equal(t, http.StatusForbidden, request("platform"))
	assert.Equal(t, http.StatusForbidden, request(""))
}
