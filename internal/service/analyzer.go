package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/securepass/securepass-go/internal/breach"
	"github.com/securepass/securepass-go/internal/crypto"
	"github.com/securepass/securepass-go/internal/dictionary"
	"github.com/securepass/securepass-go/internal/entropy"
	"github.com/securepass/securepass-go/internal/model"
	"github.com/securepass/securepass-go/internal/patterns"
)

// RecommendedLength is the length at which the min_length criterion is met.
const RecommendedLength = 12

var ErrPasswordRequired = errors.New("password is required")

// Recommendation texts, in the order they are emitted.
const (
	RecTooShort      = "CRITICAL: Password is too short. Use at least 8 characters (12+ recommended)"
	RecIncreaseLen   = "Increase length to at least 12 characters for better security"
	RecAddLowercase  = "Add lowercase letters (a-z)"
	RecAddUppercase  = "Add uppercase letters (A-Z)"
	RecAddDigits     = "Add numbers (0-9)"
	RecAddSymbols    = "Add symbols (!@#$%^&* etc.)"
	RecCommonPattern = "WARNING: Contains common pattern (e.g., 'password', '123456'). Use unique password"
	RecDictionary    = "WARNING: Contains dictionary word. Avoid common words"
	RecSequential    = "Avoid sequential characters (e.g., 'abc', '123')"
	RecLowEntropy    = "Password entropy is low. Make it longer and more random"
	RecAllGood       = "Password meets security best practices"
)

// BreachChecker looks a password up in a breach corpus.
type BreachChecker interface {
	Check(ctx context.Context, password string) breach.Result
}

// DictionaryChecker reports whether a password is or contains a known weak word.
type DictionaryChecker interface {
	Lookup(password string) dictionary.Result
}

// AuditRecorder receives every completed analysis.
type AuditRecorder interface {
	Record(ctx context.Context, analysis model.PasswordAnalysis, source string) error
}

// AnalyzeOptions controls a single analysis.
type AnalyzeOptions struct {
	CheckBreach bool
	// Source labels the caller in the audit log, e.g. "api" or "cli".
	Source string
	// SkipAudit keeps the analysis out of the audit log. Passwords the
	// service hands out itself must never leave a verifier behind.
	SkipAudit bool
}

// AnalyzerService runs the full strength analysis pipeline.
type AnalyzerService struct {
	dict   DictionaryChecker
	breach BreachChecker
	audit  AuditRecorder
	now    func() time.Time
}

// NewAnalyzerService creates a new AnalyzerService. A nil breach checker disables breach lookups.
func NewAnalyzerService(dict DictionaryChecker, breach BreachChecker) *AnalyzerService {
	return &AnalyzerService{
		dict:   dict,
		breach: breach,
		now:    time.Now,
	}
}

// SetAuditRecorder attaches an audit log. Recording failures are logged, never returned.
func (s *AnalyzerService) SetAuditRecorder(r AuditRecorder) {
	s.audit = r
}

// Analyze evaluates password and returns a fully populated analysis.
func (s *AnalyzerService) Analyze(ctx context.Context, password string, opts AnalyzeOptions) model.PasswordAnalysis {
	bits, pool := entropy.Calculate(password)
	criteria := EvaluateCriteria(password, s.dict)
	score := Score(criteria, bits)

	var status model.BreachStatus
	if opts.CheckBreach && s.breach != nil {
		status = s.checkBreach(ctx, password)
	}

	analysis := model.PasswordAnalysis{
		PasswordHash:       crypto.Fingerprint(password),
		Timestamp:          s.now().UTC(),
		StrengthScore:      score,
		StrengthRating:     model.RatingForScore(score),
		Length:             utf8.RuneCountInString(password),
		EntropyBits:        bits,
		CharacterPoolSize:  pool,
		CriteriaMet:        criteria,
		BreachStatus:       status,
		EstimatedCrackTime: entropy.EstimateCrackTime(bits),
	}
	analysis.Recommendations = Recommendations(analysis)

	if s.audit != nil && !opts.SkipAudit {
		if err := s.audit.Record(ctx, analysis, opts.Source); err != nil {
			slog.Warn("audit record failed", "hash_prefix", analysis.HashPreview(12), "error", err)
		}
	}

	return analysis
}

func (s *AnalyzerService) checkBreach(ctx context.Context, password string) model.BreachStatus {
	res := s.breach.Check(ctx, password)
	if res.Err != nil {
		slog.Warn("breach check unavailable", "reason", string(res.Reason), "error", res.Err)
		return model.BreachStatus{}
	}
	return model.BreachStatus{
		Checked:         res.Checked,
		Found:           res.Checked && res.Found,
		OccurrenceCount: res.Count,
	}
}

// EvaluateCriteria computes the eight strength criteria. A nil dict, or one
// whose wordlist cannot be read, never flags a dictionary word.
func EvaluateCriteria(password string, dict DictionaryChecker) model.Criteria {
	var c model.Criteria
	c.MinLength = utf8.RuneCountInString(password) >= RecommendedLength
	for _, r := range password {
		switch {
		case entropy.IsLower(r):
			c.HasLowercase = true
		case entropy.IsUpper(r):
			c.HasUppercase = true
		case entropy.IsDigit(r):
			c.HasDigits = true
		case entropy.IsSymbol(r):
			c.HasSymbols = true
		}
	}
	c.NoCommonPatterns = !patterns.HasCommonPattern(password)
	c.NoSequentialChars = !patterns.HasSequential(password)

	c.NoDictionaryWords = true
	if dict != nil && dict.Lookup(password).Found {
		c.NoDictionaryWords = false
	}
	return c
}

// Score returns 10 points per criterion met plus an entropy bonus, capped at 100.
func Score(c model.Criteria, bits float64) int {
	score := 10 * c.Count()
	switch {
	case bits >= 70:
		score += 20
	case bits >= 60:
		score += 15
	case bits >= 50:
		score += 10
	case bits >= 40:
		score += 5
	}
	return min(score, 100)
}

// Recommendations derives the ordered list of suggestions for an analysis.
func Recommendations(a model.PasswordAnalysis) []string {
	var recs []string
	c := a.CriteriaMet

	if !c.MinLength {
		if a.Length < 8 {
			recs = append(recs, RecTooShort)
		} else {
			recs = append(recs, RecIncreaseLen)
		}
	}
	if !c.HasLowercase {
		recs = append(recs, RecAddLowercase)
	}
	if !c.HasUppercase {
		recs = append(recs, RecAddUppercase)
	}
	if !c.HasDigits {
		recs = append(recs, RecAddDigits)
	}
	if !c.HasSymbols {
		recs = append(recs, RecAddSymbols)
	}
	if !c.NoCommonPatterns {
		recs = append(recs, RecCommonPattern)
	}
	if !c.NoDictionaryWords {
		recs = append(recs, RecDictionary)
	}
	if !c.NoSequentialChars {
		recs = append(recs, RecSequential)
	}
	if a.BreachStatus.Found {
		recs = append(recs, BreachWarning(a.BreachStatus.OccurrenceCount))
	}
	if a.EntropyBits < 40 {
		recs = append(recs, RecLowEntropy)
	}

	if len(recs) == 0 {
		recs = append(recs, RecAllGood)
	}
	return recs
}

// BreachWarning formats the critical breach recommendation.
func BreachWarning(count int) string {
	return fmt.Sprintf("CRITICAL: Password found in %s data breaches! Change this password immediately!", groupThousands(count))
}

func groupThousands(n int) string {
	s := strconv.Itoa(n)
	neg := n < 0
	if neg {
		s = s[1:]
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
