package entropy

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// Character class sizes contributing to the pool.
const (
	LowercaseSize = 26
	UppercaseSize = 26
	DigitSize     = 10
	SymbolSize    = 32
)

// Symbols is the set of ASCII punctuation counted as symbols.
const Symbols = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Guess rates used for crack time estimation, in guesses per second.
const (
	OnlineGuessesPerSecond  = 100
	OfflineGuessesPerSecond = 1e10
)

// CrackTime holds human-readable crack time estimates for two attack models.
type CrackTime struct {
	Online  string `json:"online_attack_100_per_second"`
	Offline string `json:"offline_attack_10B_per_second"`
}

// IsLower reports whether r is an ASCII lowercase letter.
func IsLower(r rune) bool { return r >= 'a' && r <= 'z' }

// IsUpper reports whether r is an ASCII uppercase letter.
func IsUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

// IsDigit reports whether r is an ASCII digit.
func IsDigit(r rune) bool { return r >= '0' && r <= '9' }

// IsSymbol reports whether r is ASCII punctuation.
func IsSymbol(r rune) bool { return r < utf8.RuneSelf && strings.ContainsRune(Symbols, r) }

// PoolSize returns the sum of the sizes of the character classes present in password.
func PoolSize(password string) int {
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case IsLower(r):
			lower = true
		case IsUpper(r):
			upper = true
		case IsDigit(r):
			digit = true
		case IsSymbol(r):
			symbol = true
		}
	}

	pool := 0
	if lower {
		pool += LowercaseSize
	}
	if upper {
		pool += UppercaseSize
	}
	if digit {
		pool += DigitSize
	}
	if symbol {
		pool += SymbolSize
	}
	return pool
}

// Calculate returns the estimated entropy in bits and the character pool size.
// Entropy is log2(pool) per character; an empty password or an empty pool yields (0, 0).
func Calculate(password string) (float64, int) {
	if password == "" {
		return 0, 0
	}
	pool := PoolSize(password)
	if pool == 0 {
		return 0, 0
	}
	length := utf8.RuneCountInString(password)
	return math.Log2(float64(pool)) * float64(length), pool
}

// EstimateCrackTime converts entropy bits into crack time estimates.
func EstimateCrackTime(bits float64) CrackTime {
	if bits <= 0 {
		return CrackTime{Online: "instant", Offline: "instant"}
	}
	combinations := math.Pow(2, bits)
	return CrackTime{
		Online:  FormatDuration(combinations / OnlineGuessesPerSecond),
		Offline: FormatDuration(combinations / OfflineGuessesPerSecond),
	}
}

type unit struct {
	limit   float64
	divisor float64
	name    string
}

var units = []unit{
	{3600, 60, "minutes"},
	{86400, 3600, "hours"},
	{604800, 86400, "days"},
	{2592000, 604800, "weeks"},
	{31536000, 2592000, "months"},
	{3153600000, 31536000, "years"},
	{31536000000, 3153600000, "centuries"},
}

// FormatDuration renders seconds using the largest sensible unit.
func FormatDuration(seconds float64) string {
	switch {
	case seconds < 0.001:
		return "instant"
	case seconds < 1:
		return fmt.Sprintf("%.3f seconds", seconds)
	case seconds < 60:
		return fmt.Sprintf("%.1f seconds", seconds)
	}
	for _, u := range units {
		if seconds < u.limit {
			return fmt.Sprintf("%.1f %s", seconds/u.divisor, u.name)
		}
	}
	return fmt.Sprintf("%.1f millennia", seconds/31536000000)
}
