package utils

import (
	"crypto/rand"
	"encoding/base64"
	"strings"

	"github.com/gosimple/slug"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const slugAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func GenerateID() string {
	id, err := gonanoid.Generate("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz", 7)
	if err != nil {
		return ""
	}
	return id
}

// GenerateRandomString generates a cryptographically secure random string
func GenerateRandomString(length int) string {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to nanoid if crypto/rand fails
		id, _ := gonanoid.Generate("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz", length)
		return id
	}
	return base64.URLEncoding.EncodeToString(bytes)[:length]
}

// GenerateSlug builds a public booking slug from the owner's email: the
// slugified local part plus a random suffix. Uniqueness is enforced by the
// database index; the suffix makes collisions unlikely to begin with.
func GenerateSlug(email string) string {
	base := email
	if at := strings.Index(email, "@"); at > 0 {
		base = email[:at]
	}
	base = slug.Make(base)
	if len(base) > 12 {
		base = base[:12]
	}
	suffix, err := gonanoid.Generate(slugAlphabet, 6)
	if err != nil {
		suffix = strings.ToLower(GenerateRandomString(6))
	}
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
