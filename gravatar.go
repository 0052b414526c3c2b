package main

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

// GravatarURL derives the avatar for an email address: size capped per
// gravatar's limits, "pg" rating, "mm" (mystery man) fallback.
func GravatarURL(email string, size int) string {
	if size <= 0 {
		size = 200
	}
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=%d&r=pg&d=mm", hex.EncodeToString(sum[:]), size)
}
