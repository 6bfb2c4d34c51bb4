package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/securepass/securepass-go/internal/crypto"
	"github.com/securepass/securepass-go/internal/model"
)

// AuditStore persists audit records.
type AuditStore interface {
	Insert(ctx context.Context, rec *model.AuditRecord) error
	Recent(ctx context.Context, limit int) ([]model.AuditRecord, error)
	Stats(ctx context.Context) (model.AuditStats, error)
}

// AuditService turns analyses into audit records keyed by a peppered fingerprint.
type AuditService struct {
	store  AuditStore
	pepper string
	params crypto.KeyParams
}

// NewAuditService creates a new AuditService.
func NewAuditService(store AuditStore, pepper string) *AuditService {
	return &AuditService{
		store:  store,
		pepper: pepper,
		params: crypto.DefaultKeyParams(),
	}
}

// Record stores the outcome of an analysis.
func (s *AuditService) Record(ctx context.Context, a model.PasswordAnalysis, source string) error {
	key, err := crypto.AuditKey(a.PasswordHash, s.pepper, s.params)
	if err != nil {
		return fmt.Errorf("deriving audit key: %w", err)
	}

	rec := &model.AuditRecord{
		ID:                uuid.NewString(),
		AuditKey:          key,
		Score:             a.StrengthScore,
		Rating:            a.StrengthRating,
		Length:            a.Length,
		EntropyBits:       a.EntropyBits,
		CharacterPoolSize: a.CharacterPoolSize,
		CriteriaMet:       a.CriteriaMet,
		Breached:          a.BreachStatus.Found,
		BreachCount:       a.BreachStatus.OccurrenceCount,
		Source:            source,
		AnalyzedAt:        a.Timestamp,
	}
	return s.store.Insert(ctx, rec)
}

// Recent returns the newest audit records.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]model.AuditRecord, error) {
	return s.store.Recent(ctx, limit)
}

// Stats summarises the audit log.
func (s *AuditService) Stats(ctx context.Context) (model.AuditStats, error) {
	return s.store.Stats(ctx)
}
