package jwt

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"peiban/config"

	"github.com/gin-gonic/gin"
)

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-0123456789",
		ExpireTime: 30 * 24 * time.Hour,
		Issuer:     "peiban",
	})
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newTestService()

	token, err := svc.GenerateToken(42)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	userID, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if userID != 42 {
		t.Errorf("expected user 42, got %d", userID)
	}
}

func TestGenerateTokenRequiresUser(t *testing.T) {
	if _, err := newTestService().GenerateToken(0); err == nil {
		t.Error("expected error for zero user id")
	}
}

func TestTokenValidFor30Days(t *testing.T) {
	svc := newTestService()
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	token, err := svc.GenerateToken(7)
	if err != nil {
		t.Fatal(err)
	}

	svc.now = func() time.Time { return issued.Add(29 * 24 * time.Hour) }
	if _, err := svc.ValidateToken(token); err != nil {
		t.Errorf("token should still be valid after 29 days: %v", err)
	}

	svc.now = func() time.Time { return issued.Add(31 * 24 * time.Hour) }
	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken after 31 days, got %v", err)
	}
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	other := NewJWTService(config.JWTConfig{Secret: "another-secret", ExpireTime: time.Hour, Issuer: "peiban"})
	token, err := other.GenerateToken(1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := newTestService().ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := newTestService()
	for _, token := range []string{"", "abc", "a.b.c"} {
		if _, err := svc.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("token %q: expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newTestService()
	token, err := svc.GenerateToken(9)
	if err != nil {
		t.Fatal(err)
	}

	router := gin.New()
	router.GET("/me", svc.AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": GetUserID(c)})
	})

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"no bearer", token, http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"invalid", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d (%s)", tc.status, w.Code, w.Body.String())
			}
			if tc.status == http.StatusOK && w.Body.String() != `{"id":9}` {
				t.Errorf("unexpected body %s", w.Body.String())
			}
			if tc.status == http.StatusUnauthorized && !strings.Contains(w.Body.String(), `"error"`) {
				t.Errorf("expected error body, got %s", w.Body.String())
			}
		})
	}
}
