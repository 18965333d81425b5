package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashKey returns the hex sha256 of s.
func HashKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// CacheKey hashes the parts joined with "|".
func CacheKey(parts ...string) string {
	return HashKey(strings.Join(parts, "|"))
}
