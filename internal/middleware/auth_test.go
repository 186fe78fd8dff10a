package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"spendly/internal/models"
)

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(), func(c *gin.Context) {
		userID, _ := c.Get("userID")
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return r
}

func doAuthRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func testUser() *models.User {
	return &models.User{Base: models.Base{ID: 42}, Email: "jwt@example.com"}
}

func TestAuthMiddleware(t *testing.T) {
	r := authRouter()

	t.Run("accepts a valid access token", func(t *testing.T) {
		token, err := GenerateAccessToken(testUser())
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		rec := doAuthRequest(r, "Bearer "+token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		rec := doAuthRequest(r, "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("rejects a malformed header", func(t *testing.T) {
		rec := doAuthRequest(r, "Basic abc123")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("rejects a garbage token", func(t *testing.T) {
		rec := doAuthRequest(r, "Bearer not-a-jwt")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("rejects a refresh token used as an access token", func(t *testing.T) {
		token, err := GenerateRefreshToken(testUser())
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		rec := doAuthRequest(r, "Bearer "+token)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})
}

func TestValidateRefreshToken(t *testing.T) {
	t.Run("accepts a refresh token", func(t *testing.T) {
		token, err := GenerateRefreshToken(testUser())
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		claims, err := ValidateRefreshToken(token)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if claims.UserID != 42 {
			t.Errorf("expected user 42, got %d", claims.UserID)
		}
	})

	t.Run("rejects an access token", func(t *testing.T) {
		token, err := GenerateAccessToken(testUser())
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		if _, err := ValidateRefreshToken(token); err == nil {
			t.Error("expected an error for an access token")
		}
	})
}

func TestHashToken(t *testing.T) {
	first := HashToken("some-token")
	if len(first) != 64 {
		t.Errorf("expected a 64-char hex digest, got %d chars", len(first))
	}
	if first != HashToken("some-token") {
		t.Error("expected a stable digest")
	}
	if first == HashToken("other-token") {
		t.Error("expected different digests for different tokens")
	}
}
