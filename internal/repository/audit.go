package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/securepass/securepass-go/internal/model"
)

const (
	DefaultRecentLimit = 50
	MaxRecentLimit     = 500
)

var ErrAuditRecordInvalid = errors.New("audit record is missing id or key")

// AuditRepository persists analysis audit records. Passwords and their
// fingerprints are never written; records carry only a peppered audit key.
type AuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Insert stores a new audit record.
func (r *AuditRepository) Insert(ctx context.Context, rec *model.AuditRecord) error {
	if rec.ID == "" || rec.AuditKey == "" {
		return ErrAuditRecordInvalid
	}

	criteria, err := json.Marshal(rec.CriteriaMet)
	if err != nil {
		return fmt.Errorf("encoding criteria: %w", err)
	}

	query := `INSERT INTO audit_records
		(id, audit_key, score, rating, length, entropy_bits, pool_size, criteria_met, breached, breach_count, source, analyzed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		rec.ID, rec.AuditKey, rec.Score, string(rec.Rating), rec.Length, rec.EntropyBits,
		rec.CharacterPoolSize, criteria, rec.Breached, rec.BreachCount, rec.Source, rec.AnalyzedAt,
	)
	return err
}

// Recent returns the newest audit records, newest first.
func (r *AuditRepository) Recent(ctx context.Context, limit int) ([]model.AuditRecord, error) {
	query := `SELECT id, score, rating, length, entropy_bits, pool_size, criteria_met, breached, breach_count, source, analyzed_at
		FROM audit_records ORDER BY analyzed_at DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, ClampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []model.AuditRecord{}
	for rows.Next() {
		var (
			rec      model.AuditRecord
			rating   string
			criteria []byte
		)
		if err := rows.Scan(
			&rec.ID, &rec.Score, &rating, &rec.Length, &rec.EntropyBits, &rec.CharacterPoolSize,
			&criteria, &rec.Breached, &rec.BreachCount, &rec.Source, &rec.AnalyzedAt,
		); err != nil {
			return nil, err
		}
		rec.Rating = model.Rating(rating)
		if err := json.Unmarshal(criteria, &rec.CriteriaMet); err != nil {
			return nil, fmt.Errorf("decoding criteria for %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Stats counts audit records per rating and breached records.
func (r *AuditRepository) Stats(ctx context.Context) (model.AuditStats, error) {
	stats := model.AuditStats{Ratings: make(map[model.Rating]int, len(model.Ratings))}
	for _, rating := range model.Ratings {
		stats.Ratings[rating] = 0
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT rating, COUNT(*), COALESCE(SUM(breached), 0) FROM audit_records GROUP BY rating`)
	if err != nil {
		return stats, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rating          string
			count, breached int
		)
		if err := rows.Scan(&rating, &count, &breached); err != nil {
			return stats, err
		}
		stats.Ratings[model.Rating(rating)] = count
		stats.Total += count
		stats.Breached += breached
	}
	return stats, rows.Err()
}

// ClampLimit bounds a requested page size to (0, MaxRecentLimit].
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultRecentLimit
	case limit > MaxRecentLimit:
		return MaxRecentLimit
	default:
		return limit
	}
}
