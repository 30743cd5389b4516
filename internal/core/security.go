// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

const (
	argonTime    = 3
	argonMemory  = 64 * 1024
	argonThreads = 2
	argonKeyLen  = 32
	saltLength   = 16

	maxArgonTime   = 10
	maxArgonMemory = 1 << 20
)

const (
	MinPasswordLength = 8

	// bcrypt ignores input past 72 bytes and newer versions reject it.
	MaxPasswordBytes = 72
)

// PasswordHasher produces self-describing hash blobs: algorithm, cost and
// salt travel inside the blob so nothing else needs to be stored.
type PasswordHasher struct {
	algorithm  string
	bcryptCost int

	dummyOnce sync.Once
	dummyHash string
}

func NewPasswordHasher(algorithm string, bcryptCost int) *PasswordHasher {
	if algorithm != AlgorithmArgon2id {
		algorithm = AlgorithmBcrypt
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &PasswordHasher{
		algorithm:  algorithm,
		bcryptCost: bcryptCost,
	}
}

// ValidatePassword records a field error when password cannot be hashed
// under the password policy. Length is counted in runes, the cap in bytes.
func ValidatePassword(v *ValidationError, field, password string) {
	n := utf8.RuneCountInString(password)
	switch {
	case n == 0:
		v.Add(field, field+" is required")
	case n < MinPasswordLength:
		v.Add(field, fmt.Sprintf("%s must be at least %d characters", field, MinPasswordLength))
	case len(password) > MaxPasswordBytes:
		v.Add(field, fmt.Sprintf("%s must be at most %d bytes", field, MaxPasswordBytes))
	}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	if h.algorithm == AlgorithmArgon2id {
		return hashArgon2id(password)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches encoded. A malformed or unknown
// blob is a mismatch.
func (h *PasswordHasher) Verify(password, encoded string) bool {
	switch {
	case strings.HasPrefix(encoded, "$argon2id$"):
		return verifyArgon2id(password, encoded)
	case strings.HasPrefix(encoded, "$2"):
		return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
	default:
		return false
	}
}

// VerifyTimingSafe verifies against a throwaway hash when there is no stored
// hash, so a missing account costs the same as a wrong password.
func (h *PasswordHasher) VerifyTimingSafe(password string, encoded *string) bool {
	if encoded == nil || *encoded == "" {
		h.Verify(password, h.dummy())
		return false
	}
	return h.Verify(password, *encoded)
}

// NeedsRehash is true when encoded was produced with another algorithm or
// weaker parameters than the hasher is configured for.
func (h *PasswordHasher) NeedsRehash(encoded string) bool {
	if h.algorithm == AlgorithmArgon2id {
		params, _, _, err := decodeArgon2id(encoded)
		if err != nil {
			return true
		}
		return params.memory != argonMemory ||
			params.time != argonTime ||
			params.threads != argonThreads ||
			params.keyLen != argonKeyLen
	}

	cost, err := bcrypt.Cost([]byte(encoded))
	if err != nil {
		return true
	}
	return cost < h.bcryptCost
}

func (h *PasswordHasher) dummy() string {
	h.dummyOnce.Do(func() {
		hash, err := h.Hash("dummy_password_for_timing_attack_prevention")
		if err != nil {
			hash = "$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinvalidinva"
		}
		h.dummyHash = hash
	})
	return h.dummyHash
}

func hashArgon2id(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	hash := argon2.IDKey(
		[]byte(password),
		salt,
		argonTime,
		argonMemory,
		argonThreads,
		argonKeyLen,
	)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemory,
		argonTime,
		argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

func verifyArgon2id(password, encoded string) bool {
	params, salt, hash, err := decodeArgon2id(encoded)
	if err != nil {
		return false
	}

	otherHash := argon2.IDKey(
		[]byte(password),
		salt,
		params.time,
		params.memory,
		params.threads,
		params.keyLen,
	)

	return subtle.ConstantTimeCompare(hash, otherHash) == 1
}

type argonParams struct {
	memory  uint32
	time    uint32
	threads uint8
	keyLen  uint32
}

func decodeArgon2id(encoded string) (*argonParams, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return nil, nil, nil, fmt.Errorf("invalid hash format")
	}

	if parts[1] != AlgorithmArgon2id {
		return nil, nil, nil, fmt.Errorf("unsupported algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid version: %w", err)
	}

	if version != argon2.Version {
		return nil, nil, nil, fmt.Errorf("incompatible version: %d", version)
	}

	params := &argonParams{}
	_, err := fmt.Sscanf(
		parts[3],
		"m=%d,t=%d,p=%d",
		&params.memory,
		&params.time,
		&params.threads,
	)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid params: %w", err)
	}

	if params.time == 0 || params.threads == 0 || params.memory == 0 {
		return nil, nil, nil, fmt.Errorf("invalid params: zero cost")
	}

	if params.time > maxArgonTime || params.memory > maxArgonMemory {
		return nil, nil, nil, fmt.Errorf("invalid params: cost out of range")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("decode salt: %w", err)
	}

	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("decode hash: %w", err)
	}

	if len(hash) == 0 {
		return nil, nil, nil, fmt.Errorf("empty digest")
	}

	//nolint:gosec // G115: hash length is always small (32 bytes for Argon2id)
	params.keyLen = uint32(len(hash))

	return params, salt, hash, nil
}
