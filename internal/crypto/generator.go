package crypto

import (
	"crypto/rand"
	"errors"
	"io"
	"math/big"
	"strings"

	"github.com/securepass/securepass-go/internal/entropy"
)

const (
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	numberChars    = "0123456789"
	symbolChars    = entropy.Symbols

	// AmbiguousChars are removed from letters and digits when AvoidAmbiguous is set.
	AmbiguousChars = "0O1lI"

	MinLength     = 8
	MaxLength     = 128
	DefaultLength = 16
)

var (
	ErrLengthTooShort   = errors.New("password length must be at least 8")
	ErrLengthTooLong    = errors.New("password length must be at most 128")
	ErrNoCharacterTypes = errors.New("at least one character type must be selected")
)

// GeneratorOptions configures the password generator.
type GeneratorOptions struct {
	Length         int
	Uppercase      bool
	Lowercase      bool
	Numbers        bool
	Symbols        bool
	AvoidAmbiguous bool

	// Rand is the randomness source; nil means crypto/rand.Reader.
	Rand io.Reader
}

// DefaultOptions returns sensible defaults: 16 characters with all types enabled.
func DefaultOptions() GeneratorOptions {
	return GeneratorOptions{
		Length:    DefaultLength,
		Uppercase: true,
		Lowercase: true,
		Numbers:   true,
		Symbols:   true,
	}
}

// Validate checks opts without consuming any randomness.
func (opts GeneratorOptions) Validate() error {
	if opts.Length < MinLength {
		return ErrLengthTooShort
	}
	if opts.Length > MaxLength {
		return ErrLengthTooLong
	}
	if !opts.Uppercase && !opts.Lowercase && !opts.Numbers && !opts.Symbols {
		return ErrNoCharacterTypes
	}
	return nil
}

func (opts GeneratorOptions) charsets() []string {
	strip := func(s string) string {
		if !opts.AvoidAmbiguous {
			return s
		}
		return strings.Map(func(r rune) rune {
			if strings.ContainsRune(AmbiguousChars, r) {
				return -1
			}
			return r
		}, s)
	}

	var sets []string
	if opts.Lowercase {
		sets = append(sets, strip(lowercaseChars))
	}
	if opts.Uppercase {
		sets = append(sets, strip(uppercaseChars))
	}
	if opts.Numbers {
		sets = append(sets, strip(numberChars))
	}
	if opts.Symbols {
		sets = append(sets, symbolChars)
	}
	return sets
}

// Generate creates a cryptographically secure random password based on the given options.
// Every selected character type appears at least once.
func Generate(opts GeneratorOptions) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}

	src := opts.Rand
	if src == nil {
		src = rand.Reader
	}

	requiredSets := opts.charsets()
	pool := strings.Join(requiredSets, "")

	result := make([]byte, opts.Length)

	// Guarantee at least one character from each selected type.
	for i, charset := range requiredSets {
		ch, err := randChar(src, charset)
		if err != nil {
			return "", err
		}
		result[i] = ch
	}

	// Fill the remaining positions from the full pool.
	for i := len(requiredSets); i < opts.Length; i++ {
		ch, err := randChar(src, pool)
		if err != nil {
			return "", err
		}
		result[i] = ch
	}

	if err := secureShuffle(src, result); err != nil {
		return "", err
	}

	return string(result), nil
}

// randChar picks a uniformly random character from charset.
func randChar(src io.Reader, charset string) (byte, error) {
	n, err := rand.Int(src, big.NewInt(int64(len(charset))))
	if err != nil {
		return 0, err
	}
	return charset[n.Int64()], nil
}

// secureShuffle performs a Fisher-Yates shuffle.
func secureShuffle(src io.Reader, data []byte) error {
	for i := len(data) - 1; i > 0; i-- {
		j, err := rand.Int(src, big.NewInt(int64(i+1)))
		if err != nil {
			return err
		}
		data[i], data[j.Int64()] = data[j.Int64()], data[i]
	}
	return nil
}
