// Package auth checks the single admin credential of the blog.
//
// The gate is cosmetic: one fixed identity, no lockout, no rate limit. It
// keeps casual visitors out of the admin pages and nothing more.
package auth

import (
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// Digest returns the lowercase hex SHA3-256 digest of secret. This is the
// form the expected admin digest is configured in.
func Digest(secret string) string {
	sum := sha3.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// Verifier validates a username/secret pair against one configured credential.
type Verifier struct {
	username string
	digest   string
}

// NewVerifier creates a Verifier for the given username and hex digest.
func NewVerifier(username, digest string) *Verifier {
	return &Verifier{username: username, digest: digest}
}

// Enabled reports whether a digest is configured at all.
func (v *Verifier) Enabled() bool {
	return v.digest != ""
}

// Verify returns true only when both the username and the secret match.
// Both comparisons always run so the result does not hint at which failed.
func (v *Verifier) Verify(username, secret string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.username)) == 1
	secretOK := subtle.ConstantTimeCompare([]byte(Digest(secret)), []byte(v.digest)) == 1
	return v.Enabled() && userOK && secretOK
}
