package main

import (
	"strings"
	"testing"
	"time"
)

func testUser() *User {
	return &User{
		ID:     "u_1",
		Name:   "Ada Lovelace",
		Email:  "ada@example.com",
		Avatar: "https://www.gravatar.com/avatar/abc?s=200&r=pg&d=mm",
	}
}

func TestGenerateVerifyRoundTrip(t *testing.T) {
	jm, err := NewJWTManager("test-secret", "test", 3600)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	token, exp, err := jm.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if exp.Before(time.Now()) {
		t.Error("expiry must be in the future")
	}
	claims, err := jm.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.UserID != "u_1" || claims.Name != "Ada Lovelace" || claims.Avatar == "" {
		t.Errorf("claims not round-tripped: %+v", claims)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	jm, _ := NewJWTManager("test-secret", "test", -10)
	token, _, err := jm.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := jm.VerifyToken(token); err == nil {
		t.Error("expired token must be rejected")
	}
}

func TestVerifyTamperedToken(t *testing.T) {
	jm, _ := NewJWTManager("test-secret", "test", 3600)
	token, _, err := jm.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	// flip one byte of the signature segment
	last := token[len(token)-1]
	flipped := byte('A')
	if last == 'A' {
		flipped = 'B'
	}
	tampered := token[:len(token)-1] + string(flipped)
	if _, err := jm.VerifyToken(tampered); err == nil {
		t.Error("tampered token must be rejected")
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	signer, _ := NewJWTManager("secret-one", "test", 3600)
	verifier, _ := NewJWTManager("secret-two", "test", 3600)
	token, _, err := signer.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := verifier.VerifyToken(token); err == nil {
		t.Error("token signed with a different secret must be rejected")
	}
}

func TestVerifyFailuresAreUniform(t *testing.T) {
	jm, _ := NewJWTManager("test-secret", "test", 3600)
	expiredJM, _ := NewJWTManager("test-secret", "test", -10)
	expired, _, _ := expiredJM.GenerateToken(testUser())
	good, _, _ := jm.GenerateToken(testUser())

	inputs := map[string]string{
		"malformed": "not.a.token",
		"empty":     "",
		"expired":   expired,
		"tampered":  good + "x",
	}
	for name, in := range inputs {
		_, err := jm.VerifyToken(in)
		if err == nil {
			t.Fatalf("%s: expected rejection", name)
		}
		// one indistinguishable failure for every cause
		if err != errInvalidToken {
			t.Errorf("%s: leaked cause-specific error %q", name, err)
		}
	}
	if strings.Count(good, ".") != 2 {
		t.Fatalf("sanity: unexpected token shape %q", good)
	}
}
