package crypto

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

var ErrEmptyPepper = errors.New("audit pepper must not be empty")

// KeyParams configures the Argon2id derivation of audit keys.
type KeyParams struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	KeyLength   uint32
}

// DefaultKeyParams returns Argon2id parameters light enough to run once per analysis.
func DefaultKeyParams() KeyParams {
	return KeyParams{
		Memory:      19 * 1024,
		Iterations:  2,
		Parallelism: 1,
		KeyLength:   32,
	}
}

// Fingerprint returns the lowercase hex SHA-256 digest of password.
func Fingerprint(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// AuditKey derives a peppered key from a fingerprint so stored audit records
// cannot be matched against precomputed SHA-256 tables.
// The result is encoded as $argon2id$v=19$m=...,t=...,p=...$<base64-key>.
func AuditKey(fingerprint, pepper string, params KeyParams) (string, error) {
	if pepper == "" {
		return "", ErrEmptyPepper
	}

	key := argon2.IDKey([]byte(fingerprint), []byte(pepper), params.Iterations, params.Memory, params.Parallelism, params.KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s",
		argon2.Version,
		params.Memory,
		params.Iterations,
		params.Parallelism,
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}
