package middleware

import (
	"WorkUs/internal/api/config"
	"WorkUs/internal/pkg/logger"
	"WorkUs/internal/pkg/security"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code int `json:"code"`
	Data struct {
		UserID string `json:"userId"`
		Email  string `json:"email"`
	} `json:"data"`
}

func newProtected(t *testing.T) *gin.Engine {
	t.Helper()
	require.NoError(t, security.InitJWT(config.JWTConfig{Secret: "test-secret", Issuer: "workus-test"}))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceMiddleware())
	r.GET("/admin", AuthMiddleware(), CheckRoles("admin"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"code": 200,
			"data": gin.H{
				"userId": c.GetString(UserIDKey),
				"email":  c.GetString(UserEmailKey),
			},
		})
	})
	return r
}

func call(t *testing.T, r *gin.Engine, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestAuthMissingToken(t *testing.T) {
	r := newProtected(t)
	_, env := call(t, r, "")
	assert.Equal(t, 401, env.Code)
}

func TestAuthInvalidToken(t *testing.T) {
	r := newProtected(t)
	_, env := call(t, r, "not-a-jwt")
	assert.Equal(t, 401, env.Code)
}

func TestCheckRolesRejectsNonAdmin(t *testing.T) {
	r := newProtected(t)
	token, err := security.GenerateToken("u-1", "mod@x.com", []string{"moderator"})
	require.NoError(t, err)

	_, env := call(t, r, token)
	assert.Equal(t, 403, env.Code)
}

func TestAdminPassesWithIdentity(t *testing.T) {
	r := newProtected(t)
	token, err := security.GenerateToken("admin-1", "boss@x.com", []string{"user", "admin"})
	require.NoError(t, err)

	w, env := call(t, r, token)
	assert.Equal(t, 200, env.Code)
	assert.Equal(t, "admin-1", env.Data.UserID)
	assert.Equal(t, "boss@x.com", env.Data.Email)
	assert.NotEmpty(t, w.Header().Get(TraceHeader))
}

func TestTraceKeepsIncomingID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(logger.TraceIDKey))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(TraceHeader, "trace-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "trace-123", w.Body.String())
	assert.Equal(t, "trace-123", w.Header().Get(TraceHeader))
}
