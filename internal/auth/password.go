// Package auth — credential hashing and token issuing.
//
// The stored credential is a (salt, hash) pair: a fresh random salt is drawn
// per user at creation time and mixed into the hash, so two users with the
// same password get different hashes and precomputed-hash attacks are dead
// on arrival.
//
// The KDF is PBKDF2-HMAC-SHA256. It is deliberately expensive in the forward
// direction (many iterations) and infeasible to reverse; verification simply
// recomputes the hash and compares in constant time.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// defaultIterations is the PBKDF2 work factor for production use.
//
// Tune so that one hash takes a noticeable fraction of a millisecond budget
// on your hardware — slow enough to hurt brute force, fast enough for login.
const defaultIterations = 150_000

const (
	saltBytes = 16
	keyBytes  = 32
)

// PasswordService hashes passwords and verifies login attempts.
//
// It is a struct (not free functions) so the iteration count can be injected:
// tests use a tiny count to avoid paying the full work factor per assertion.
type PasswordService struct {
	iterations int
}

// NewPasswordService creates a PasswordService with the production work factor.
func NewPasswordService() *PasswordService {
	return &PasswordService{iterations: defaultIterations}
}

// NewPasswordServiceForTest creates a PasswordService with a reduced work
// factor. Not for production use.
func NewPasswordServiceForTest(iterations int) *PasswordService {
	return &PasswordService{iterations: iterations}
}

// GenerateSalt returns a fresh unpredictable salt, hex encoded.
// Call once per user at creation time and store the result next to the hash.
func (p *PasswordService) GenerateSalt() (string, error) {
	buf := make([]byte, saltBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("auth: generating salt: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Hash derives the stored hash from a plaintext password and a salt.
// The output is hex encoded and safe to store directly.
//
// An empty password is the one malformed input flagged as an error; every
// other input hashes deterministically.
func (p *PasswordService) Hash(password, salt string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("auth: password must not be empty")
	}
	if salt == "" {
		return "", fmt.Errorf("auth: salt must not be empty")
	}

	key := pbkdf2.Key([]byte(password), []byte(salt), p.iterations, keyBytes, sha256.New)
	return hex.EncodeToString(key), nil
}

// Verify reports whether the candidate password matches the stored credential.
//
// A mismatch is not an error — Verify returns false and nothing else. The
// comparison is constant time, so response timing does not reveal how many
// leading bytes of the hash matched.
func (p *PasswordService) Verify(password, salt, storedHash string) bool {
	if password == "" || salt == "" || storedHash == "" {
		return false
	}

	computed, err := p.Hash(password, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}
