package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(cfg *config.Config, roles ...model.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/p", AuthMiddleware(cfg), RoleMiddleware(roles...), func(c *gin.Context) {
		c.String(http.StatusOK, string(util.GetUserFromContext(c).Role))
	})
	return r
}

func token(t *testing.T, secret string, role model.UserRole) string {
	t.Helper()
	u := &model.User{Name: "u", Email: "u@example.com", Role: role}
	u.ID = 7
	tok, err := util.GenerateJWT(u, secret, time.Hour)
	require.NoError(t, err)
	return tok
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "secret"
	r := newRouter(cfg, model.Teacher)

	tests := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{"no token", "", "", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + token(t, "other", model.Teacher), "", http.StatusUnauthorized},
		{"teacher header", "Bearer " + token(t, "secret", model.Teacher), "", http.StatusOK},
		{"teacher query", "", token(t, "secret", model.Teacher), http.StatusOK},
		{"student forbidden", "Bearer " + token(t, "secret", model.Student), "", http.StatusForbidden},
		{"admin passes", "Bearer " + token(t, "secret", model.Admin), "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := "/p"
			if tt.query != "" {
				path += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
