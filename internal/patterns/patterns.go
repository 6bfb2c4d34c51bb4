package patterns

import "strings"

// Default thresholds for run detection.
const (
	DefaultMinRun     = 3
	DefaultMinRepeats = 3
)

// CommonPatterns are well-known weak passwords matched as substrings.
var CommonPatterns = []string{
	"password", "123456", "qwerty", "abc123", "letmein",
	"welcome", "monkey", "dragon", "master", "admin",
	"login", "passw0rd", "password1", "123456789", "12345678",
	"iloveyou", "princess", "trustno1", "superman", "baseball",
}

// KeyboardPatterns are runs of adjacent keys on a US keyboard.
var KeyboardPatterns = []string{
	"qwerty", "asdfgh", "zxcvbn", "qazwsx", "123456",
	"!@#$%^", "asdf", "qwer", "zxcv",
}

// Findings collects the result of every detector for one password.
type Findings struct {
	Common     bool `json:"common_pattern"`
	Sequential bool `json:"sequential_chars"`
	Repeated   bool `json:"repeated_chars"`
	Keyboard   bool `json:"keyboard_pattern"`
}

// Detect runs all detectors with default thresholds.
func Detect(password string) Findings {
	return Findings{
		Common:     HasCommonPattern(password),
		Sequential: HasSequential(password),
		Repeated:   HasRepeated(password),
		Keyboard:   IsKeyboardPattern(password),
	}
}

// HasCommonPattern reports whether password contains a common weak password, ignoring case.
func HasCommonPattern(password string) bool {
	return containsAny(strings.ToLower(password), CommonPatterns)
}

// IsKeyboardPattern reports whether password contains a keyboard run, ignoring case.
func IsKeyboardPattern(password string) bool {
	return containsAny(strings.ToLower(password), KeyboardPatterns)
}

// HasSequential is HasSequentialChars with DefaultMinRun.
func HasSequential(password string) bool {
	return HasSequentialChars(password, DefaultMinRun)
}

// HasSequentialChars reports whether password contains minRun consecutive characters
// whose code points all ascend by one or all descend by one.
func HasSequentialChars(password string, minRun int) bool {
	runes := []rune(password)
	if minRun < 2 || len(runes) < minRun {
		return false
	}

	for i := 0; i+minRun <= len(runes); i++ {
		if isStep(runes[i:i+minRun], 1) || isStep(runes[i:i+minRun], -1) {
			return true
		}
	}
	return false
}

// HasRepeated is HasRepeatedChars with DefaultMinRepeats.
func HasRepeated(password string) bool {
	return HasRepeatedChars(password, DefaultMinRepeats)
}

// HasRepeatedChars reports whether any character appears minRepeats times in a row.
func HasRepeatedChars(password string, minRepeats int) bool {
	if minRepeats < 1 {
		return false
	}

	var prev rune
	run := 0
	for i, r := range []rune(password) {
		if i > 0 && r == prev {
			run++
		} else {
			run = 1
		}
		if run >= minRepeats {
			return true
		}
		prev = r
	}
	return false
}

func isStep(window []rune, delta rune) bool {
	for i := 1; i < len(window); i++ {
		if window[i]-window[i-1] != delta {
			return false
		}
	}
	return true
}

func containsAny(s string, list []string) bool {
	for _, p := range list {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
