package report

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/securepass/securepass-go/internal/model"
)

// CSVHeader is the fixed column order of CSV exports.
var CSVHeader = []string{
	"password_hash", "timestamp", "strength_score", "strength_rating",
	"length", "entropy_bits", "character_pool_size",
	"min_length", "has_lowercase", "has_uppercase", "has_digits", "has_symbols",
	"no_common_patterns", "no_dictionary_words", "no_sequential_chars",
	"breached", "breach_count", "crack_time_online", "crack_time_offline",
}

var ErrInvalidHeader = errors.New("unexpected CSV header")

// WriteJSON writes analyses as an indented JSON array.
func WriteJSON(w io.Writer, analyses []model.PasswordAnalysis) error {
	if analyses == nil {
		analyses = []model.PasswordAnalysis{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(analyses)
}

// ReadJSON parses a JSON array written by WriteJSON.
func ReadJSON(r io.Reader) ([]model.PasswordAnalysis, error) {
	var analyses []model.PasswordAnalysis
	if err := json.NewDecoder(r).Decode(&analyses); err != nil {
		return nil, fmt.Errorf("decoding analyses: %w", err)
	}
	return analyses, nil
}

// WriteCSV writes analyses as CSV with CSVHeader. Recommendations are not exported.
func WriteCSV(w io.Writer, analyses []model.PasswordAnalysis) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, a := range analyses {
		if err := cw.Write(csvRow(a)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(a model.PasswordAnalysis) []string {
	c := a.CriteriaMet
	b := strconv.FormatBool
	return []string{
		a.PasswordHash,
		a.Timestamp.Format(time.RFC3339Nano),
		strconv.Itoa(a.StrengthScore),
		string(a.StrengthRating),
		strconv.Itoa(a.Length),
		fmt.Sprintf("%.2f", a.EntropyBits),
		strconv.Itoa(a.CharacterPoolSize),
		b(c.MinLength), b(c.HasLowercase), b(c.HasUppercase), b(c.HasDigits), b(c.HasSymbols),
		b(c.NoCommonPatterns), b(c.NoDictionaryWords), b(c.NoSequentialChars),
		b(a.BreachStatus.Found),
		strconv.Itoa(a.BreachStatus.OccurrenceCount),
		a.EstimatedCrackTime.Online,
		a.EstimatedCrackTime.Offline,
	}
}

// ReadCSV parses a CSV export. Breach status is marked checked when a row
// reports a breach; recommendations are left empty.
func ReadCSV(r io.Reader) ([]model.PasswordAnalysis, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(CSVHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if !slices.Equal(header, CSVHeader) {
		return nil, ErrInvalidHeader
	}

	var analyses []model.PasswordAnalysis
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		a, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		analyses = append(analyses, a)
	}
	return analyses, nil
}

type rowParser struct {
	rec []string
	err error
}

func (p *rowParser) atoi(i int) int {
	if p.err != nil {
		return 0
	}
	n, err := strconv.Atoi(p.rec[i])
	if err != nil {
		p.err = fmt.Errorf("%s: %w", CSVHeader[i], err)
	}
	return n
}

func (p *rowParser) boolean(i int) bool {
	if p.err != nil {
		return false
	}
	v, err := strconv.ParseBool(p.rec[i])
	if err != nil {
		p.err = fmt.Errorf("%s: %w", CSVHeader[i], err)
	}
	return v
}

func (p *rowParser) float(i int) float64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(p.rec[i], 64)
	if err != nil {
		p.err = fmt.Errorf("%s: %w", CSVHeader[i], err)
	}
	return v
}

func (p *rowParser) timestamp(i int) time.Time {
	if p.err != nil {
		return time.Time{}
	}
	v, err := time.Parse(time.RFC3339Nano, p.rec[i])
	if err != nil {
		p.err = fmt.Errorf("%s: %w", CSVHeader[i], err)
	}
	return v
}

func parseRow(rec []string) (model.PasswordAnalysis, error) {
	p := &rowParser{rec: rec}
	a := model.PasswordAnalysis{
		PasswordHash:      rec[0],
		Timestamp:         p.timestamp(1),
		StrengthScore:     p.atoi(2),
		StrengthRating:    model.Rating(rec[3]),
		Length:            p.atoi(4),
		EntropyBits:       p.float(5),
		CharacterPoolSize: p.atoi(6),
		CriteriaMet: model.Criteria{
			MinLength:         p.boolean(7),
			HasLowercase:      p.boolean(8),
			HasUppercase:      p.boolean(9),
			HasDigits:         p.boolean(10),
			HasSymbols:        p.boolean(11),
			NoCommonPatterns:  p.boolean(12),
			NoDictionaryWords: p.boolean(13),
			NoSequentialChars: p.boolean(14),
		},
	}
	found := p.boolean(15)
	a.BreachStatus = model.BreachStatus{Checked: found, Found: found, OccurrenceCount: p.atoi(16)}
	a.EstimatedCrackTime.Online = rec[17]
	a.EstimatedCrackTime.Offline = rec[18]
	return a, p.err
}
