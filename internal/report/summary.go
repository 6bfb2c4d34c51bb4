package report

import (
	"cmp"
	"slices"

	"github.com/securepass/securepass-go/internal/model"
)

const (
	weakestCount      = 5
	hashPreviewLength = 12
)

// Summarize aggregates analysis results. total is the number of inputs,
// including the failed ones.
func Summarize(results []model.PasswordAnalysis, total, failed int) model.BatchSummary {
	s := model.BatchSummary{
		Total:    total,
		Analyzed: len(results),
		Failed:   failed,
		Ratings:  make(map[model.Rating]int, len(model.Ratings)),
		Weakest:  []model.WeakEntry{},
	}
	for _, r := range model.Ratings {
		s.Ratings[r] = 0
	}
	if len(results) == 0 {
		return s
	}

	var score, bits, length float64
	for _, a := range results {
		s.Ratings[a.StrengthRating]++
		if a.BreachStatus.Checked {
			s.BreachChecked++
		}
		if a.BreachStatus.Found {
			s.Breached++
		}
		score += float64(a.StrengthScore)
		bits += a.EntropyBits
		length += float64(a.Length)
	}
	n := float64(len(results))
	s.AverageScore = score / n
	s.AverageEntropy = bits / n
	s.AverageLength = length / n

	sorted := slices.Clone(results)
	slices.SortStableFunc(sorted, func(a, b model.PasswordAnalysis) int {
		return cmp.Compare(a.StrengthScore, b.StrengthScore)
	})
	for _, a := range sorted[:min(weakestCount, len(sorted))] {
		s.Weakest = append(s.Weakest, model.WeakEntry{
			HashPreview: a.HashPreview(hashPreviewLength),
			Score:       a.StrengthScore,
			Rating:      a.StrengthRating,
		})
	}
	return s
}
