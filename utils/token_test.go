package utils

import (
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tokenString, err := GenerateToken("user123")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	token, err := ValidateToken(tokenString)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}

	userID, err := UserIDFromToken(token)
	if err != nil {
		t.Fatalf("UserIDFromToken failed: %v", err)
	}
	if userID != "user123" {
		t.Errorf("user ID: want user123, got %s", userID)
	}
}

func TestGenerateTokenWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := GenerateToken("user123"); err == nil {
		t.Fatal("expected an error when JWT_SECRET is unset")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	tokenString, err := GenerateToken("user123")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	t.Setenv("JWT_SECRET", "second-secret")
	token, err := ValidateToken(tokenString)
	if err == nil && token.Valid {
		t.Fatal("token signed with a different secret validated")
	}
}
