package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgAuth "psychic-poker/pkg/auth"

	"github.com/gin-gonic/gin"
)

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc", "abc", false},
		{"bearer   abc ", "abc", false},
		{"", "", true},
		{"Basic abc", "", true},
		{"Bearer ", "", true},
		{"abc", "", true},
	}
	for _, tt := range tests {
		got, err := extractBearerToken(tt.header)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Fatalf("extractBearerToken(%q) = %q, %v", tt.header, got, err)
		}
	}
}

func TestAdminAuthRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer := pkgAuth.NewIssuer("mw-secret", time.Hour)

	r := gin.New()
	r.GET("/", AdminAuthRequired(issuer), func(c *gin.Context) {
		id, _ := c.Get(ContextAdminIDKey)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	token, _, err := issuer.GenerateAdminToken(7)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	other, _, err := pkgAuth.NewIssuer("other-secret", time.Hour).GenerateAdminToken(7)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + token, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"foreign secret", "Bearer " + other, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}
