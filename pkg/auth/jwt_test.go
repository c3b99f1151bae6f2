package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	mgr := NewJWTManager("test-secret", time.Hour)
	userID := uuid.New()

	token, err := mgr.GenerateToken(userID, "ana@fraccionet.local", "Ana Torres", "residente")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := mgr.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("UserID = %v, want %v", claims.UserID, userID)
	}
	if claims.Email != "ana@fraccionet.local" {
		t.Errorf("Email = %v, want ana@fraccionet.local", claims.Email)
	}
	if claims.Role != "residente" {
		t.Errorf("Role = %v, want residente", claims.Role)
	}
	if claims.Issuer != "fraccionet" {
		t.Errorf("Issuer = %v, want fraccionet", claims.Issuer)
	}
}

func TestJWTManager_RejectsWrongSecret(t *testing.T) {
	token, err := NewJWTManager("secret-a", time.Hour).
		GenerateToken(uuid.New(), "x@y.z", "X", "residente")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := NewJWTManager("secret-b", time.Hour).ValidateToken(token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

func TestJWTManager_RejectsExpiredToken(t *testing.T) {
	mgr := NewJWTManager("test-secret", -time.Minute)

	token, err := mgr.GenerateToken(uuid.New(), "x@y.z", "X", "residente")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := mgr.ValidateToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestJWTManager_RejectsGarbage(t *testing.T) {
	mgr := NewJWTManager("test-secret", time.Hour)

	for _, bad := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := mgr.ValidateToken(bad); err == nil {
			t.Errorf("ValidateToken(%q): expected error", bad)
		}
	}
}
