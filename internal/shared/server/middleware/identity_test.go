package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestIdentityAllowsOptionsWithoutIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Identity())
	router.OPTIONS("/api/v1/workspaces/:id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/workspaces/ws-1", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestIdentityRequiresGuestHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Identity())
	router.GET("/who", func(c *gin.Context) {
		c.String(http.StatusOK, OwnerIDFromContext(c))
	})

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "missing", header: "", status: http.StatusUnauthorized},
		{name: "blank", header: "   ", status: http.StatusUnauthorized},
		{name: "too long", header: strings.Repeat("a", maxGuestIDLen+1), status: http.StatusUnauthorized},
		{name: "inner space", header: "a b", status: http.StatusUnauthorized},
		{name: "ok", header: " tab-42 ", status: http.StatusOK, body: "guest:tab-42"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/who", nil)
			if tt.header != "" {
				req.Header.Set("X-Guest-Id", tt.header)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			if resp.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.Code)
			}
			if tt.body != "" && resp.Body.String() != tt.body {
				t.Fatalf("expected body %q, got %q", tt.body, resp.Body.String())
			}
		})
	}
}
