package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"eshop_back_end/internal/models"
	"eshop_back_end/internal/utils"
)

var testSecret = []byte("middleware-test-secret")

type fakeBlacklist struct {
	revoked map[string]bool
}

func (f *fakeBlacklist) Contains(ctx context.Context, token string) bool {
	return f.revoked[token]
}

func setupRouter(blacklist TokenChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthRequired(testSecret, blacklist), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString("user_id"),
			"isAdmin": c.GetBool("isAdmin"),
		})
	})
	r.GET("/admin", AuthRequired(testSecret, blacklist), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func tokenFor(t *testing.T, isAdmin bool) string {
	t.Helper()
	token, err := utils.GenerateJWT(models.User{
		ID:      primitive.NewObjectID(),
		Email:   "alice@example.com",
		IsAdmin: isAdmin,
	}, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func TestAuthRequiredAcceptsValidToken(t *testing.T) {
	r := setupRouter(&fakeBlacklist{revoked: map[string]bool{}})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, false))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRequiredRejectsMissingHeader(t *testing.T) {
	r := setupRouter(&fakeBlacklist{revoked: map[string]bool{}})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredRejectsInvalidToken(t *testing.T) {
	r := setupRouter(&fakeBlacklist{revoked: map[string]bool{}})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer pas-un-jwt")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredRejectsRevokedToken(t *testing.T) {
	token := tokenFor(t, false)
	r := setupRouter(&fakeBlacklist{revoked: map[string]bool{token: true}})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdminRejectsNonAdmin(t *testing.T) {
	r := setupRouter(&fakeBlacklist{revoked: map[string]bool{}})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, false))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdminAcceptsAdmin(t *testing.T) {
	r := setupRouter(&fakeBlacklist{revoked: map[string]bool{}})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, true))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
