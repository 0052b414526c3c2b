package main

import "golang.org/x/crypto/bcrypt"

const bcryptCost = 10

// HashPassword salts and hashes with a fresh salt each call, so two equal
// passwords never share a hash.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether plain matches the stored hash. Any failure,
// including a malformed hash, reads as a mismatch to the caller.
func CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
