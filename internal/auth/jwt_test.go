package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/proplan-dev/proplan/internal/types"
)

func TestGenerateAndVerifyJWT(t *testing.T) {
	if err := InitJWT("test-secret", time.Hour); err != nil {
		t.Fatalf("init: %v", err)
	}

	tokenString, err := GenerateJWT(42, "w@test.dev", types.RoleWorker)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	token, err := VerifyJWT(tokenString)
	if err != nil || !token.Valid {
		t.Fatalf("verify: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("expected map claims")
	}
	if claims["user_id"].(float64) != 42 {
		t.Fatalf("user_id claim: %v", claims["user_id"])
	}
	if claims["role"] != "Worker" {
		t.Fatalf("role claim: %v", claims["role"])
	}
	if claims["sub"] != "w@test.dev" {
		t.Fatalf("sub claim: %v", claims["sub"])
	}
}

func TestVerifyJWTRejectsWrongKey(t *testing.T) {
	if err := InitJWT("first-secret", time.Hour); err != nil {
		t.Fatalf("init: %v", err)
	}
	tokenString, err := GenerateJWT(1, "a@test.dev", types.RoleAdmin)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if err := InitJWT("second-secret", time.Hour); err != nil {
		t.Fatalf("re-init: %v", err)
	}
	if _, err := VerifyJWT(tokenString); err == nil {
		t.Fatalf("expected verification failure after key change")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword("correct horse battery staple", hash) {
		t.Fatalf("expected password to match")
	}
	if CheckPassword("wrong", hash) {
		t.Fatalf("expected mismatch")
	}
}
