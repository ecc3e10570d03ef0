package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"presence_chat_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

func newAuthEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", JWTAuth(), func(c *gin.Context) {
		uid, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"uid": uid})
	})
	return r
}

func TestJWTAuthHeaderAndQuery(t *testing.T) {
	jwt.Init("test-secret", 15)
	token, err := jwt.GenerateAccessToken(7)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	r := newAuthEngine()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("header token: status %d body %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me?token="+token, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("query token: status %d", w.Code)
	}
}

func TestJWTAuthRejects(t *testing.T) {
	jwt.Init("test-secret", 15)
	r := newAuthEngine()

	cases := map[string]string{
		"missing":   "",
		"no bearer": "Token abc",
		"garbage":   "Bearer not-a-jwt",
	}
	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: status %d, want 401", name, w.Code)
		}
	}
}
