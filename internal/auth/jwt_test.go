package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/heartmarshall/iati-publisher/internal/domain"
)

const testSecret = "test-secret-at-least-32-chars-long-for-security"

func TestJWTManager_GenerateAndValidate_Success(t *testing.T) {
	manager := NewJWTManager(testSecret, "iati-test", 15*time.Minute)
	publisherID := uuid.New()

	token, expires, err := manager.GenerateAccessToken(publisherID, domain.RolePublisher)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if time.Until(expires) <= 14*time.Minute {
		t.Errorf("expected expiry about 15 minutes ahead, got %s", expires)
	}

	gotID, role, err := manager.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}
	if gotID != publisherID {
		t.Errorf("expected publisherID %s, got %s", publisherID, gotID)
	}
	if role != domain.RolePublisher {
		t.Errorf("expected role publisher, got %q", role)
	}
}

func TestJWTManager_GenerateAndValidate_AdminRole(t *testing.T) {
	manager := NewJWTManager(testSecret, "iati-test", 15*time.Minute)

	token, _, err := manager.GenerateAccessToken(uuid.New(), domain.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	_, role, err := manager.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}
	if !role.IsAdmin() {
		t.Errorf("expected admin role, got %q", role)
	}
}

func TestJWTManager_ValidateAccessToken_Expired(t *testing.T) {
	manager := NewJWTManager(testSecret, "iati-test", -1*time.Hour)

	token, _, err := manager.GenerateAccessToken(uuid.New(), domain.RolePublisher)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	_, _, err = manager.ValidateAccessToken(token)
	if err == nil {
		t.Fatal("expected error for expired token, got nil")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Errorf("expected expiry-related error, got: %v", err)
	}
}

func TestJWTManager_ValidateAccessToken_InvalidSignature(t *testing.T) {
	manager1 := NewJWTManager(testSecret, "iati-test", 15*time.Minute)
	manager2 := NewJWTManager("different-secret-32-chars-long-for-security!!", "iati-test", 15*time.Minute)

	token, _, err := manager1.GenerateAccessToken(uuid.New(), domain.RolePublisher)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, _, err = manager2.ValidateAccessToken(token); err == nil {
		t.Fatal("expected error for invalid signature, got nil")
	}
}

func TestJWTManager_ValidateAccessToken_Malformed(t *testing.T) {
	manager := NewJWTManager(testSecret, "iati-test", 15*time.Minute)

	for _, token := range []string{"not.a.jwt", "invalid-token", "header.payload", ""} {
		if _, _, err := manager.ValidateAccessToken(token); err == nil {
			t.Errorf("expected error for malformed token %q, got nil", token)
		}
	}
}

func TestJWTManager_ValidateAccessToken_WrongIssuer(t *testing.T) {
	manager1 := NewJWTManager(testSecret, "iati-test", 15*time.Minute)
	manager2 := NewJWTManager(testSecret, "wrong-issuer", 15*time.Minute)

	token, _, err := manager1.GenerateAccessToken(uuid.New(), domain.RolePublisher)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	_, _, err = manager2.ValidateAccessToken(token)
	if err == nil {
		t.Fatal("expected error for wrong issuer, got nil")
	}
	if !strings.Contains(err.Error(), "issuer") {
		t.Errorf("expected issuer error, got: %v", err)
	}
}

func TestJWTManager_ValidateAccessToken_UnknownRole(t *testing.T) {
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    "iati-test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
		Role: "superuser",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	manager := NewJWTManager(testSecret, "iati-test", 15*time.Minute)
	if _, _, err := manager.ValidateAccessToken(token); err == nil {
		t.Fatal("expected error for unknown role, got nil")
	}
}

func TestGenerateAPIKey_Uniqueness(t *testing.T) {
	keys := make(map[string]bool)

	for range 100 {
		key, err := GenerateAPIKey()
		if err != nil {
			t.Fatalf("GenerateAPIKey failed: %v", err)
		}
		if !strings.HasPrefix(key, APIKeyPrefix) {
			t.Fatalf("expected prefix %q, got %q", APIKeyPrefix, key)
		}
		if keys[key] {
			t.Errorf("duplicate key: %s", key)
		}
		keys[key] = true
	}
}
