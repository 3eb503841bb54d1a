package application

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"golang.org/x/crypto/argon2"
)

var (
	ErrInvalidPasswordHash         = errors.New("invalid password hash format")
	ErrIncompatiblePasswordVersion = errors.New("incompatible password hash version")
)

// Credentials seals passwords before they are stored and compares candidates against stored values.
type Credentials interface {
	Seal(secret string) (string, error)
	Matches(stored, candidate string) bool
}

// PlaintextCredentials stores passwords as given.
type PlaintextCredentials struct{}

// Seal returns secret unchanged.
func (PlaintextCredentials) Seal(secret string) (string, error) {
	return secret, nil
}

// Matches compares in constant time. An empty stored value never matches.
func (PlaintextCredentials) Matches(stored, candidate string) bool {
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}

// Argon2idCredentials stores argon2id hashes in PHC string format.
type Argon2idCredentials struct {
	Params Argon2idParams
}

// Seal hashes secret with a fresh salt.
func (c Argon2idCredentials) Seal(secret string) (string, error) {
	params := c.Params
	if params.KeyLength == 0 {
		params = DefaultArgon2idParams
	}
	return CreatePasswordHash(secret, params)
}

// Matches verifies candidate against the stored hash.
func (Argon2idCredentials) Matches(stored, candidate string) bool {
	if stored == "" {
		return false
	}
	return VerifyPassword(stored, candidate) == nil
}

type Argon2idParams struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

var DefaultArgon2idParams = Argon2idParams{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 2,
	SaltLength:  16,
	KeyLength:   32,
}

func CreatePasswordHash(password string, params Argon2idParams) (string, error) {
	salt := make([]byte, params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, params.Iterations, params.Memory, params.Parallelism, params.KeyLength)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	// $argon2id$v=19$m=...,t=...,p=...$salt$hash
	format := "$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s"
	return fmt.Sprintf(format, argon2.Version, params.Memory, params.Iterations, params.Parallelism, b64Salt, b64Hash), nil
}

func VerifyPassword(hashedPassword, password string) error {
	parts := strings.Split(hashedPassword, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return ErrInvalidPasswordHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return err
	}
	if version != argon2.Version {
		return ErrIncompatiblePasswordVersion
	}

	var params Argon2idParams
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Iterations, &params.Parallelism); err != nil {
		return err
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return err
	}

	decodedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return err
	}
	params.KeyLength = uint32(len(decodedHash))

	comparisonHash := argon2.IDKey([]byte(password), salt, params.Iterations, params.Memory, params.Parallelism, params.KeyLength)

	if subtle.ConstantTimeCompare(decodedHash, comparisonHash) == 1 {
		return nil
	}

	return ErrInvalidCredentials
}

// GenerateTempPassword returns a six digit code drawn uniformly from [100000, 999999].
func GenerateTempPassword() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate temporary password: %w", err)
	}
	return fmt.Sprintf("%d", 100000+n.Int64()), nil
}

// ValidateNewPassword applies the set-password policy: at least 8 characters with an
// uppercase letter, a lowercase letter and a digit.
func ValidateNewPassword(password string) error {
	vErr := &ValidationError{}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}

	switch {
	case len([]rune(password)) < 8:
		vErr.add("newPassword", "Password must be at least 8 characters")
	case !upper:
		vErr.add("newPassword", "Password must contain at least one uppercase letter")
	case !lower:
		vErr.add("newPassword", "Password must contain at least one lowercase letter")
	case !digit:
		vErr.add("newPassword", "Password must contain at least one number")
	}
	return vErr.errOrNil()
}
