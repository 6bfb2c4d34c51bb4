package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mgutz/ansi"

	"github.com/securepass/securepass-go/internal/model"
)

const ruleWidth = 70

var criteriaLabels = []struct {
	label string
	met   func(model.Criteria) bool
}{
	{"Minimum length (12+ characters)", func(c model.Criteria) bool { return c.MinLength }},
	{"Contains lowercase letters", func(c model.Criteria) bool { return c.HasLowercase }},
	{"Contains uppercase letters", func(c model.Criteria) bool { return c.HasUppercase }},
	{"Contains digits", func(c model.Criteria) bool { return c.HasDigits }},
	{"Contains symbols", func(c model.Criteria) bool { return c.HasSymbols }},
	{"No common patterns", func(c model.Criteria) bool { return c.NoCommonPatterns }},
	{"Not a dictionary word", func(c model.Criteria) bool { return c.NoDictionaryWords }},
	{"No sequential characters", func(c model.Criteria) bool { return c.NoSequentialChars }},
}

// TextWriter renders analyses for a terminal.
type TextWriter struct {
	w       io.Writer
	verbose bool

	bold, red, yellow, green, blue func(string) string
}

// NewTextWriter creates a TextWriter. With color disabled no escape codes are written.
func NewTextWriter(w io.Writer, color, verbose bool) *TextWriter {
	tw := &TextWriter{w: w, verbose: verbose}
	if color {
		tw.bold = ansi.ColorFunc("white+b")
		tw.red = ansi.ColorFunc("red+b")
		tw.yellow = ansi.ColorFunc("yellow+b")
		tw.green = ansi.ColorFunc("green+b")
		tw.blue = ansi.ColorFunc("blue+b")
	} else {
		plain := func(s string) string { return s }
		tw.bold, tw.red, tw.yellow, tw.green, tw.blue = plain, plain, plain, plain, plain
	}
	return tw
}

func (tw *TextWriter) scoreColor(score int) func(string) string {
	switch model.RatingForScore(score) {
	case model.RatingWeak:
		return tw.red
	case model.RatingModerate:
		return tw.yellow
	case model.RatingStrong:
		return tw.green
	default:
		return tw.blue
	}
}

// WriteAnalysis renders one analysis.
func (tw *TextWriter) WriteAnalysis(a model.PasswordAnalysis) error {
	var b strings.Builder
	rule := strings.Repeat("=", ruleWidth)

	fmt.Fprintf(&b, "\n%s\n%s\n%s\n\n", tw.bold(rule), tw.bold("  PASSWORD STRENGTH ANALYSIS"), tw.bold(rule))

	rating := strings.ToUpper(strings.ReplaceAll(string(a.StrengthRating), "_", " "))
	fmt.Fprintf(&b, "Strength Score: %s\n\n", tw.scoreColor(a.StrengthScore)(fmt.Sprintf("%d/100 [%s]", a.StrengthScore, rating)))

	fmt.Fprintln(&b, tw.bold("Entropy Analysis:"))
	fmt.Fprintf(&b, "  Entropy: %.1f bits\n", a.EntropyBits)
	fmt.Fprintf(&b, "  Character Pool: %d characters\n", a.CharacterPoolSize)
	fmt.Fprintf(&b, "  Password Length: %d characters\n\n", a.Length)

	fmt.Fprintln(&b, tw.bold("Estimated Crack Time:"))
	fmt.Fprintf(&b, "  Online Attack (100/sec):  %s\n", a.EstimatedCrackTime.Online)
	fmt.Fprintf(&b, "  Offline Attack (10B/sec): %s\n\n", a.EstimatedCrackTime.Offline)

	fmt.Fprintln(&b, tw.bold("Security Criteria:"))
	for _, c := range criteriaLabels {
		icon := tw.red("[ ]")
		if c.met(a.CriteriaMet) {
			icon = tw.green("[x]")
		}
		fmt.Fprintf(&b, "  %s %s\n", icon, c.label)
	}
	b.WriteString("\n")

	fmt.Fprintln(&b, tw.bold("Breach Database Check:"))
	switch {
	case !a.BreachStatus.Checked:
		fmt.Fprintf(&b, "  %s\n", tw.yellow("Breach check skipped"))
	case a.BreachStatus.Found:
		fmt.Fprintf(&b, "  %s\n", tw.red(fmt.Sprintf("FOUND in %d data breaches! Change this password immediately!", a.BreachStatus.OccurrenceCount)))
	default:
		fmt.Fprintf(&b, "  %s\n", tw.green("Not found in breach database"))
	}
	b.WriteString("\n")

	if len(a.Recommendations) > 0 {
		fmt.Fprintln(&b, tw.bold("Recommendations:"))
		for _, rec := range a.Recommendations {
			fmt.Fprintf(&b, "  - %s\n", rec)
		}
		b.WriteString("\n")
	}

	if tw.verbose {
		fmt.Fprintln(&b, tw.bold("Additional Details:"))
		fmt.Fprintf(&b, "  Password Hash (SHA-256): %s...\n", a.HashPreview(16))
		fmt.Fprintf(&b, "  Analysis Timestamp: %s\n\n", a.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
	}

	fmt.Fprintf(&b, "%s\n", rule)
	_, err := io.WriteString(tw.w, b.String())
	return err
}

// WriteSummary renders a batch summary.
func (tw *TextWriter) WriteSummary(s model.BatchSummary) error {
	if s.Analyzed == 0 {
		_, err := fmt.Fprintln(tw.w, "No passwords analyzed.")
		return err
	}

	var b strings.Builder
	rule := strings.Repeat("=", ruleWidth)
	pct := func(n int) float64 { return float64(n) / float64(s.Analyzed) * 100 }

	fmt.Fprintf(&b, "\n%s\n%s\n%s\n\n", tw.bold(rule), tw.bold("  BATCH ANALYSIS SUMMARY"), tw.bold(rule))
	fmt.Fprintf(&b, "Total Passwords Analyzed: %d\n", s.Analyzed)
	if s.Failed > 0 {
		fmt.Fprintf(&b, "Failed: %s\n", tw.red(fmt.Sprint(s.Failed)))
	}
	b.WriteString("\n")

	fmt.Fprintln(&b, tw.bold("Strength Distribution:"))
	rows := []struct {
		label string
		r     model.Rating
		color func(string) string
	}{
		{"Weak:       ", model.RatingWeak, tw.red},
		{"Moderate:   ", model.RatingModerate, tw.yellow},
		{"Strong:     ", model.RatingStrong, tw.green},
		{"Very Strong:", model.RatingVeryStrong, tw.blue},
	}
	for _, row := range rows {
		n := s.Ratings[row.r]
		fmt.Fprintf(&b, "  %s\n", row.color(fmt.Sprintf("%s %3d (%.1f%%)", row.label, n, pct(n))))
	}
	b.WriteString("\n")

	fmt.Fprintln(&b, tw.bold("Breach Statistics:"))
	fmt.Fprintf(&b, "  Passwords in breaches: %s (%.1f%%)\n\n", tw.red(fmt.Sprint(s.Breached)), pct(s.Breached))

	fmt.Fprintf(&b, "%s\n", tw.bold(fmt.Sprintf("Weakest Passwords (Top %d):", weakestCount)))
	for i, w := range s.Weakest {
		fmt.Fprintf(&b, "  %d. Score: %s | Hash: %s...\n", i+1, tw.scoreColor(w.Score)(fmt.Sprintf("%3d", w.Score)), w.HashPreview)
	}
	b.WriteString("\n")

	fmt.Fprintln(&b, tw.bold("Average Metrics:"))
	fmt.Fprintf(&b, "  Average Score:   %.1f/100\n", s.AverageScore)
	fmt.Fprintf(&b, "  Average Entropy: %.1f bits\n", s.AverageEntropy)
	fmt.Fprintf(&b, "  Average Length:  %.1f characters\n\n", s.AverageLength)
	fmt.Fprintf(&b, "%s\n", rule)

	_, err := io.WriteString(tw.w, b.String())
	return err
}
