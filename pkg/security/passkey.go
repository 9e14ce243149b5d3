package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrHashingFailed  = errors.New("passkey hashing failed")
	ErrInvalidPasskey = errors.New("passkey must be exactly 6 digits")

	passkeyPattern = regexp.MustCompile(`^\d{6}$`)
)

// ValidPasskey reports whether raw is a well-formed 6-digit passkey.
func ValidPasskey(raw string) bool {
	return passkeyPattern.MatchString(raw)
}

// PasskeyHasher provides interface for passkey hashing operations.
// Implementations must salt per call; the same plaintext hashed twice
// yields different digests.
type PasskeyHasher interface {
	Hash(passkey string) (string, error)
	Compare(hashedPasskey, passkey string) error
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a new passkey hasher using bcrypt
func NewBcryptHasher(cost int) PasskeyHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (b *bcryptHasher) Hash(passkey string) (string, error) {
	if !ValidPasskey(passkey) {
		return "", ErrInvalidPasskey
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(passkey), b.cost)
	if err != nil {
		return "", ErrHashingFailed
	}
	return string(bytes), nil
}

func (b *bcryptHasher) Compare(hashedPasskey, passkey string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPasskey), []byte(passkey))
}

// ConstantTimeEquals compares two secrets without leaking the position of
// the first differing byte. Both sides are digested first so the comparison
// length is fixed regardless of input length.
func ConstantTimeEquals(a, b string) bool {
	da := sha256.Sum256([]byte(a))
	db := sha256.Sum256([]byte(b))
	return subtle.ConstantTimeCompare(da[:], db[:]) == 1
}
