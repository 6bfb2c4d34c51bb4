package service

import (
	"context"

	"github.com/securepass/securepass-go/internal/crypto"
	"github.com/securepass/securepass-go/internal/model"
)

// GeneratorService handles password generation business logic.
type GeneratorService struct {
	analyzer *AnalyzerService
}

// NewGeneratorService creates a new GeneratorService. The analyzer scores
// generated passwords; breach lookups are never made for them.
func NewGeneratorService(analyzer *AnalyzerService) *GeneratorService {
	return &GeneratorService{analyzer: analyzer}
}

// Generate produces a password based on the given request.
func (s *GeneratorService) Generate(ctx context.Context, req model.GenerateRequest) (model.GenerateResponse, error) {
	opts := crypto.GeneratorOptions{
		Length:         req.Length,
		Uppercase:      boolOrDefault(req.Uppercase, true),
		Lowercase:      boolOrDefault(req.Lowercase, true),
		Numbers:        boolOrDefault(req.Numbers, true),
		Symbols:        boolOrDefault(req.Symbols, true),
		AvoidAmbiguous: req.AvoidAmbiguous,
	}

	if opts.Length == 0 {
		opts.Length = crypto.DefaultLength
	}

	password, err := crypto.Generate(opts)
	if err != nil {
		return model.GenerateResponse{}, err
	}

	resp := model.GenerateResponse{
		Password: password,
		Length:   len(password),
	}
	if s.analyzer != nil {
		a := s.analyzer.Analyze(ctx, password, AnalyzeOptions{SkipAudit: true})
		resp.StrengthScore = a.StrengthScore
		resp.StrengthRating = a.StrengthRating
		resp.EntropyBits = a.EntropyBits
		resp.CharacterPoolSize = a.CharacterPoolSize
	}
	return resp, nil
}

// boolOrDefault returns the dereferenced pointer value, or the fallback if nil.
func boolOrDefault(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}
