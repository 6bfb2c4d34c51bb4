package model

import "time"

// MaxBatchSize bounds the number of passwords accepted in one batch request.
const MaxBatchSize = 1000

// BatchRequest represents a batch analysis request.
type BatchRequest struct {
	Passwords   []string `json:"passwords"`
	CheckBreach *bool    `json:"check_breach"`
}

// BatchFailure describes an input that could not be analysed.
// Index is the zero-based position in the input; the password is never included.
type BatchFailure struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// WeakEntry identifies one of the weakest passwords in a batch by fingerprint prefix.
type WeakEntry struct {
	HashPreview string `json:"hash_preview"`
	Score       int    `json:"strength_score"`
	Rating      Rating `json:"strength_rating"`
}

// BatchSummary aggregates the results of a batch.
type BatchSummary struct {
	Total          int            `json:"total"`
	Analyzed       int            `json:"analyzed"`
	Failed         int            `json:"failed"`
	Ratings        map[Rating]int `json:"ratings"`
	Breached       int            `json:"breached"`
	BreachChecked  int            `json:"breach_checked"`
	AverageScore   float64        `json:"average_score"`
	AverageEntropy float64        `json:"average_entropy"`
	AverageLength  float64        `json:"average_length"`
	Weakest        []WeakEntry    `json:"weakest"`
}

// BatchResponse is the result of a batch run. Results keep input order and
// omit failed entries. Partial is set when the run was cancelled early.
type BatchResponse struct {
	BatchID   string             `json:"batch_id"`
	StartedAt time.Time          `json:"started_at"`
	Results   []PasswordAnalysis `json:"results"`
	Failures  []BatchFailure     `json:"failures"`
	Partial   bool               `json:"partial"`
	Summary   BatchSummary       `json:"summary"`
}
