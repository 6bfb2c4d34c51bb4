package dictionary

import (
	"bufio"
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/bits-and-blooms/bloom/v3"
)

// MinSubstringLength is the shortest wordlist entry matched inside a longer password.
const MinSubstringLength = 4

// falsePositiveRate bounds the chance that a single probe of the filter
// reports an entry that is not on the list.
const falsePositiveRate = 1e-6

//go:embed data/common_passwords.txt
var embeddedWordlist []byte

var ErrWordlistUnavailable = errors.New("wordlist unavailable")

// Result is the outcome of a dictionary lookup. Err is set when the wordlist
// could not be loaded, in which case Found is always false.
type Result struct {
	Found bool
	Err   error
}

// Checker matches passwords against a wordlist loaded at most once, on first use.
// Only a bloom filter of the entries is kept in memory, so a match may be a
// false positive at roughly falsePositiveRate per probe. A miss is always exact.
// A Checker is safe for concurrent use.
type Checker struct {
	path string

	once   sync.Once
	filter *bloom.BloomFilter
	size   int
	maxLen int
	err    error
}

// New creates a Checker reading the wordlist at path. An empty path selects
// the built-in list of common passwords.
func New(path string) *Checker {
	return &Checker{path: path}
}

// Load reads the wordlist if it has not been read yet and returns the load error, if any.
func (c *Checker) Load() error {
	c.once.Do(c.load)
	return c.err
}

// Size returns the number of distinct entries loaded.
func (c *Checker) Size() int {
	if err := c.Load(); err != nil {
		return 0
	}
	return c.size
}

// Lookup reports whether password equals a wordlist entry or contains an entry
// of at least MinSubstringLength characters. Matching is case-insensitive.
func (c *Checker) Lookup(password string) Result {
	if password == "" {
		return Result{}
	}
	if err := c.Load(); err != nil {
		return Result{Err: err}
	}

	lower := []rune(strings.ToLower(password))
	if len(lower) <= c.maxLen && c.filter.TestString(string(lower)) {
		return Result{Found: true}
	}
	// Probe every window that could be an entry; no entry is longer than maxLen.
	for i := range lower {
		for n := MinSubstringLength; n <= c.maxLen && i+n <= len(lower); n++ {
			if c.filter.TestString(string(lower[i : i+n])) {
				return Result{Found: true}
			}
		}
	}
	return Result{}
}

func (c *Checker) load() {
	var r io.ReadSeeker
	if c.path == "" {
		r = bytes.NewReader(embeddedWordlist)
	} else {
		f, err := os.Open(c.path)
		if err != nil {
			c.fail(err)
			return
		}
		defer f.Close()
		r = f
	}

	// First pass sizes the filter, second pass fills it.
	lines := 0
	err := scanWords(r, func(string) { lines++ })
	if err == nil {
		_, err = r.Seek(0, io.SeekStart)
	}
	if err != nil {
		c.fail(err)
		return
	}

	c.filter = bloom.NewWithEstimates(uint(max(lines, 1)), falsePositiveRate)
	err = scanWords(r, func(w string) {
		if !c.filter.TestAndAddString(w) {
			c.size++
		}
		c.maxLen = max(c.maxLen, utf8.RuneCountInString(w))
	})
	if err != nil {
		c.filter, c.size, c.maxLen = nil, 0, 0
		c.fail(err)
		return
	}
	slog.Debug("wordlist loaded", "entries", c.size)
}

func (c *Checker) fail(err error) {
	c.err = fmt.Errorf("%w: %w", ErrWordlistUnavailable, err)
	slog.Warn("dictionary check disabled", "path", c.path, "error", err)
}

// scanWords calls fn with each non-blank line, trimmed and lower-cased.
func scanWords(r io.Reader, fn func(string)) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		w := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if w == "" {
			continue
		}
		fn(w)
	}
	return scanner.Err()
}
