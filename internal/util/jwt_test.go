package util

import (
	"strings"
	"testing"
	"time"

	"quizhub_backend/internal/model"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{
		BaseModel: model.BaseModel{ID: 42},
		Username:  "alice",
		Role:      model.Admin,
	}

	token, err := GenerateJWT(user, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	t.Run("valid token parses back to the same claims", func(t *testing.T) {
		claims, err := ParseJWT(token, "test-secret")
		if err != nil {
			t.Fatalf("ParseJWT: %v", err)
		}
		if claims.UserID != 42 || claims.Username != "alice" || claims.Role != model.Admin {
			t.Errorf("claims = %+v", claims)
		}
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		if _, err := ParseJWT(token, "other-secret"); err == nil {
			t.Fatal("expected signature verification failure")
		}
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		expired, err := GenerateJWT(user, "test-secret", -time.Minute)
		if err != nil {
			t.Fatalf("GenerateJWT: %v", err)
		}
		if _, err := ParseJWT(expired, "test-secret"); err == nil {
			t.Fatal("expected expiry failure")
		}
	})
}

func TestRevocationKey(t *testing.T) {
	k1 := RevocationKey("token-a")
	k2 := RevocationKey("token-b")

	if !strings.HasPrefix(k1, "auth:revoked:") {
		t.Errorf("key = %q, want auth:revoked: prefix", k1)
	}
	if k1 == k2 {
		t.Error("different tokens must map to different keys")
	}
	if k1 != RevocationKey("token-a") {
		t.Error("key derivation must be deterministic")
	}
	if strings.Contains(k1, "token-a") {
		t.Error("raw token must not appear in the key")
	}
}
