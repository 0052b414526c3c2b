package main

import "testing"

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPassword("hunter22", hash) {
		t.Error("correct password rejected")
	}
	if CheckPassword("hunter23", hash) {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordFreshSalt(t *testing.T) {
	h1, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	h2, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password must differ")
	}
	if !CheckPassword("same-password", h1) || !CheckPassword("same-password", h2) {
		t.Error("both hashes must verify")
	}
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	if CheckPassword("whatever", "not-a-bcrypt-hash") {
		t.Error("malformed hash must not verify")
	}
}
