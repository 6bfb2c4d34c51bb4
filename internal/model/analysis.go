package model

import (
	"time"

	"github.com/securepass/securepass-go/internal/entropy"
)

// Rating is the qualitative strength band derived from the score.
type Rating string

const (
	RatingWeak       Rating = "weak"
	RatingModerate   Rating = "moderate"
	RatingStrong     Rating = "strong"
	RatingVeryStrong Rating = "very_strong"
)

// Ratings lists every rating from weakest to strongest.
var Ratings = []Rating{RatingWeak, RatingModerate, RatingStrong, RatingVeryStrong}

// RatingForScore maps a 0-100 score to its rating band.
func RatingForScore(score int) Rating {
	switch {
	case score < 40:
		return RatingWeak
	case score < 70:
		return RatingModerate
	case score < 90:
		return RatingStrong
	default:
		return RatingVeryStrong
	}
}

// Criteria records which of the eight strength criteria a password meets.
type Criteria struct {
	MinLength         bool `json:"min_length"`
	HasLowercase      bool `json:"has_lowercase"`
	HasUppercase      bool `json:"has_uppercase"`
	HasDigits         bool `json:"has_digits"`
	HasSymbols        bool `json:"has_symbols"`
	NoCommonPatterns  bool `json:"no_common_patterns"`
	NoDictionaryWords bool `json:"no_dictionary_words"`
	NoSequentialChars bool `json:"no_sequential_chars"`
}

// Count returns the number of criteria met.
func (c Criteria) Count() int {
	n := 0
	for _, ok := range []bool{
		c.MinLength, c.HasLowercase, c.HasUppercase, c.HasDigits,
		c.HasSymbols, c.NoCommonPatterns, c.NoDictionaryWords, c.NoSequentialChars,
	} {
		if ok {
			n++
		}
	}
	return n
}

// BreachStatus is the breach lookup outcome. Found implies Checked.
type BreachStatus struct {
	Checked         bool `json:"checked"`
	Found           bool `json:"found"`
	OccurrenceCount int  `json:"occurrence_count"`
}

// PasswordAnalysis is the complete, read-only result of analysing one password.
// It never contains the password itself.
type PasswordAnalysis struct {
	PasswordHash       string            `json:"password_hash"`
	Timestamp          time.Time         `json:"timestamp"`
	StrengthScore      int               `json:"strength_score"`
	StrengthRating     Rating            `json:"strength_rating"`
	Length             int               `json:"length"`
	EntropyBits        float64           `json:"entropy_bits"`
	CharacterPoolSize  int               `json:"character_pool_size"`
	CriteriaMet        Criteria          `json:"criteria_met"`
	BreachStatus       BreachStatus      `json:"breach_status"`
	Recommendations    []string          `json:"recommendations"`
	EstimatedCrackTime entropy.CrackTime `json:"estimated_crack_time"`
}

// HashPreview returns the first n characters of the fingerprint.
func (a PasswordAnalysis) HashPreview(n int) string {
	if len(a.PasswordHash) <= n {
		return a.PasswordHash
	}
	return a.PasswordHash[:n]
}

// AnalyzeRequest represents a single analysis request.
type AnalyzeRequest struct {
	Password    string `json:"password"`
	CheckBreach *bool  `json:"check_breach"`
}
