package middlewares

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DaleTiley/timber-roof-erp/utils"
	"github.com/gin-gonic/gin"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware())
	r.GET("/whoami", func(c *gin.Context) {
		ctx := c.Request.Context()
		username, _ := utils.GetUsernameFromContext(ctx)
		userId, _ := utils.GetUserIdFromContext(ctx)
		_, hasToken := utils.GetTokenFromContext(ctx)
		c.JSON(http.StatusOK, gin.H{
			"username":  username,
			"user_id":   userId,
			"has_token": hasToken,
		})
	})
	return r
}

func TestAuthMiddlewarePopulatesIdentity(t *testing.T) {
	token, err := utils.JwtGenerate(42, "estimator", "admin")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body struct {
		Username string `json:"username"`
		UserId   int    `json:"user_id"`
		HasToken bool   `json:"has_token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Username != "estimator" {
		t.Errorf("username = %q, want %q", body.Username, "estimator")
	}
	if body.UserId != 42 {
		t.Errorf("user_id = %d, want 42", body.UserId)
	}
	if !body.HasToken {
		t.Errorf("token missing from request context")
	}
}

func TestAuthMiddlewareAnonymousPassThrough(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body struct {
		Username string `json:"username"`
		HasToken bool   `json:"has_token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Username != "" || body.HasToken {
		t.Errorf("anonymous request carried identity: %+v", body)
	}
}

func TestAuthMiddlewareRejectsBadTokens(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter()
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			req.Header.Set("Authorization", tc.header)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
		})
	}
}
