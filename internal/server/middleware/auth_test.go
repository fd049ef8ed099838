package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/montwater/internal/auth"
)

func newGuardedEngine(t *testing.T, a *auth.Authenticator) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/write", RequireWriter(a, nil), func(c *gin.Context) {
		_, ok := c.Get(ClaimsKey)
		assert.True(t, ok)
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestRequireWriter(t *testing.T) {
	a, err := auth.NewAuthenticator("pw", "key", time.Hour)
	require.NoError(t, err)
	token, _, err := a.Login("pw")
	require.NoError(t, err)
	r := newGuardedEngine(t, a)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusNoContent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/write", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
		})
	}
}
