package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securepass/securepass-go/internal/entropy"
	"github.com/securepass/securepass-go/internal/model"
)

func sampleAnalyses() []model.PasswordAnalysis {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 123000000, time.UTC)
	return []model.PasswordAnalysis{
		{
			PasswordHash:       "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8",
			Timestamp:          ts,
			StrengthScore:      20,
			StrengthRating:     model.RatingWeak,
			Length:             8,
			EntropyBits:        37.603518,
			CharacterPoolSize:  26,
			CriteriaMet:        model.Criteria{HasLowercase: true, NoSequentialChars: true},
			BreachStatus:       model.BreachStatus{Checked: true, Found: true, OccurrenceCount: 3861493},
			Recommendations:    []string{"Add numbers (0-9)"},
			EstimatedCrackTime: entropy.CrackTime{Online: "6.6 years", Offline: "20.9 seconds"},
		},
		{
			PasswordHash:       "aa11bb22cc33dd44ee55ff6600778899aa11bb22cc33dd44ee55ff6600778899",
			Timestamp:          ts.Add(time.Second),
			StrengthScore:      100,
			StrengthRating:     model.RatingVeryStrong,
			Length:             14,
			EntropyBits:        91.76,
			CharacterPoolSize:  94,
			CriteriaMet:        allCriteria(),
			Recommendations:    []string{"Password meets security best practices"},
			EstimatedCrackTime: entropy.CrackTime{Online: "1.2 millennia", Offline: "3.4 millennia"},
		},
		{
			PasswordHash:       "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
			Timestamp:          ts.Add(2 * time.Second),
			StrengthScore:      55,
			StrengthRating:     model.RatingModerate,
			Length:             10,
			EntropyBits:        59.54,
			CharacterPoolSize:  62,
			CriteriaMet:        model.Criteria{HasLowercase: true, HasUppercase: true, HasDigits: true, NoCommonPatterns: true, NoDictionaryWords: true},
			EstimatedCrackTime: entropy.CrackTime{Online: "3.2 centuries", Offline: "1.1 days"},
		},
	}
}

// allCriteria returns Criteria with every check passed.
func allCriteria() model.Criteria {
	return model.Criteria{
		MinLength:         true,
		HasLowercase:      true,
		HasUppercase:      true,
		HasDigits:         true,
		HasSymbols:        true,
		NoCommonPatterns:  true,
		NoDictionaryWords: true,
		NoSequentialChars: true,
	}
}

func TestCSVRoundTrip(t *testing.T) {
	in := sampleAnalyses()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, in))

	firstLine := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.Equal(t, strings.Join(CSVHeader, ","), firstLine)
	assert.Contains(t, buf.String(), ",37.60,")

	out, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, out, len(in))

	for i := range in {
		assert.Equal(t, in[i].PasswordHash, out[i].PasswordHash)
		assert.True(t, in[i].Timestamp.Equal(out[i].Timestamp))
		assert.Equal(t, in[i].StrengthScore, out[i].StrengthScore)
		assert.Equal(t, in[i].StrengthRating, out[i].StrengthRating)
		assert.Equal(t, in[i].CriteriaMet, out[i].CriteriaMet)
		assert.Equal(t, in[i].BreachStatus.Found, out[i].BreachStatus.Found)
		assert.Equal(t, in[i].BreachStatus.OccurrenceCount, out[i].BreachStatus.OccurrenceCount)
		assert.InDelta(t, in[i].EntropyBits, out[i].EntropyBits, 0.005)
		assert.Equal(t, in[i].EstimatedCrackTime, out[i].EstimatedCrackTime)
	}
}

func TestReadCSVRejectsUnknownHeader(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,b,c\n"))
	assert.Error(t, err)

	header := strings.Join(CSVHeader, ",")
	_, err = ReadCSV(strings.NewReader(strings.Replace(header, "breached", "pwned", 1) + "\n"))
	assert.ErrorIs(t, err, ErrInvalidHeader)
}

func TestReadCSVReportsBadRow(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleAnalyses()[:1]))
	bad := strings.Replace(buf.String(), ",20,weak,", ",twenty,weak,", 1)

	_, err := ReadCSV(strings.NewReader(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), "strength_score")
}

func TestJSONRoundTrip(t *testing.T) {
	in := sampleAnalyses()

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, in))
	for _, field := range []string{
		`"password_hash"`, `"strength_score"`, `"criteria_met"`, `"no_sequential_chars"`,
		`"breach_status"`, `"occurrence_count"`, `"online_attack_100_per_second"`,
	} {
		assert.Contains(t, buf.String(), field)
	}

	out, err := ReadJSON(&buf)
	require.NoError(t, err)
	require.Len(t, out, len(in))
	for i := range in {
		assert.True(t, in[i].Timestamp.Equal(out[i].Timestamp))
		out[i].Timestamp = in[i].Timestamp
		assert.Equal(t, in[i], out[i])
	}
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleAnalyses(), 4, 1)

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 3, s.Analyzed)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, map[model.Rating]int{
		model.RatingWeak: 1, model.RatingModerate: 1, model.RatingStrong: 0, model.RatingVeryStrong: 1,
	}, s.Ratings)
	assert.Equal(t, 1, s.Breached)
	assert.Equal(t, 1, s.BreachChecked)
	assert.InDelta(t, 175.0/3, s.AverageScore, 1e-9)
	assert.InDelta(t, 32.0/3, s.AverageLength, 1e-9)

	require.Len(t, s.Weakest, 3)
	assert.Equal(t, "5e884898da28", s.Weakest[0].HashPreview)
	assert.Equal(t, []int{20, 55, 100}, []int{s.Weakest[0].Score, s.Weakest[1].Score, s.Weakest[2].Score})
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, 0, 0)
	assert.Zero(t, s.Analyzed)
	assert.Empty(t, s.Weakest)
	assert.Len(t, s.Ratings, 4)
}

func TestSummarizeKeepsFiveWeakest(t *testing.T) {
	var in []model.PasswordAnalysis
	for i := 10; i > 0; i-- {
		in = append(in, model.PasswordAnalysis{PasswordHash: strings.Repeat("a", 64), StrengthScore: i * 10, StrengthRating: model.RatingForScore(i * 10)})
	}
	s := Summarize(in, len(in), 0)
	require.Len(t, s.Weakest, 5)
	assert.Equal(t, 10, s.Weakest[0].Score)
	assert.Equal(t, 50, s.Weakest[4].Score)
}

func TestTextWriterPlain(t *testing.T) {
	var buf bytes.Buffer
	tw := NewTextWriter(&buf, false, true)

	require.NoError(t, tw.WriteAnalysis(sampleAnalyses()[0]))
	out := buf.String()

	assert.NotContains(t, out, "\x1b[")
	assert.Contains(t, out, "Strength Score: 20/100 [WEAK]")
	assert.Contains(t, out, "[x] Contains lowercase letters")
	assert.Contains(t, out, "[ ] Contains uppercase letters")
	assert.Contains(t, out, "FOUND in 3861493 data breaches")
	assert.Contains(t, out, "Password Hash (SHA-256): 5e884898da280471...")
	assert.Contains(t, out, "  - Add numbers (0-9)")
}

func TestTextWriterColor(t *testing.T) {
	var buf bytes.Buffer
	tw := NewTextWriter(&buf, true, false)

	require.NoError(t, tw.WriteAnalysis(sampleAnalyses()[1]))
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "VERY STRONG")
	assert.NotContains(t, buf.String(), "Additional Details")
}

func TestTextWriterSummary(t *testing.T) {
	var buf bytes.Buffer
	tw := NewTextWriter(&buf, false, false)

	require.NoError(t, tw.WriteSummary(Summarize(sampleAnalyses(), 3, 0)))
	out := buf.String()
	assert.Contains(t, out, "Total Passwords Analyzed: 3")
	assert.Contains(t, out, "Weak:          1 (33.3%)")
	assert.Contains(t, out, "1. Score:  20 | Hash: 5e884898da28...")
	assert.Contains(t, out, "Average Score:   58.3/100")

	buf.Reset()
	require.NoError(t, tw.WriteSummary(Summarize(nil, 0, 0)))
	assert.Equal(t, "No passwords analyzed.\n", buf.String())
}
