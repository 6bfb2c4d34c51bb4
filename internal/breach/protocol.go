package breach

import (
	"bufio"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"strconv"
	"strings"
)

// PrefixLength is the number of hash characters sent to the range API.
const PrefixLength = 5

// Entry is one line of a range response.
type Entry struct {
	Suffix string
	Count  int
}

// SHA1Hex returns the uppercase hexadecimal SHA-1 digest of password.
func SHA1Hex(password string) string {
	sum := sha1.Sum([]byte(password))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// SplitHash splits a 40-character hash into the range prefix and the suffix kept locally.
func SplitHash(hash string) (prefix, suffix string) {
	return hash[:PrefixLength], hash[PrefixLength:]
}

// ParseRange parses a range response body of SUFFIX:COUNT lines.
// Lines without a colon or with a non-numeric count are skipped.
func ParseRange(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		suffix, count, ok := strings.Cut(strings.TrimSpace(scanner.Text()), ":")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Suffix: suffix, Count: n})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// FindSuffix returns the count for an exact, case-sensitive suffix match.
func FindSuffix(entries []Entry, suffix string) (int, bool) {
	for _, e := range entries {
		if e.Suffix == suffix {
			return e.Count, true
		}
	}
	return 0, false
}
