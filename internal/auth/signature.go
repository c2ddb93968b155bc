package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// VerifyHMACSignature checks that the raw request body was signed with the
// shared secret. The provided value may carry a "sha256=" algorithm prefix,
// which is stripped before comparison. Comparison is constant time.
//
// Fails closed: an empty secret makes every request unverifiable.
func VerifyHMACSignature(body []byte, provided, secret string) bool {
	if secret == "" {
		return false
	}
	provided = strings.TrimPrefix(provided, "sha256=")
	if provided == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(provided))
}
