package model

import "time"

// AuditRecord is the persisted trace of one analysis. It stores a peppered
// audit key rather than the fingerprint so records cannot be reversed with
// SHA-256 lookup tables.
type AuditRecord struct {
	ID                string    `json:"id"`
	AuditKey          string    `json:"-"`
	Score             int       `json:"strength_score"`
	Rating            Rating    `json:"strength_rating"`
	Length            int       `json:"length"`
	EntropyBits       float64   `json:"entropy_bits"`
	CharacterPoolSize int       `json:"character_pool_size"`
	CriteriaMet       Criteria  `json:"criteria_met"`
	Breached          bool      `json:"breached"`
	BreachCount       int       `json:"breach_count"`
	Source            string    `json:"source"`
	AnalyzedAt        time.Time `json:"analyzed_at"`
}

// AuditStats summarises the audit log.
type AuditStats struct {
	Total    int            `json:"total"`
	Ratings  map[Rating]int `json:"ratings"`
	Breached int            `json:"breached"`
}
