package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/securepass/securepass-go/internal/crypto"
	"github.com/securepass/securepass-go/internal/model"
)

func boolPtr(b bool) *bool { return &b }

func newTestGenerator() *GeneratorService {
	return NewGeneratorService(newTestAnalyzer(fakeDict{}, nil))
}

func TestGenerate_Defaults(t *testing.T) {
	svc := newTestGenerator()
	resp, err := svc.Generate(context.Background(), model.GenerateRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Length != 16 {
		t.Errorf("expected length 16, got %d", resp.Length)
	}
	if len(resp.Password) != 16 {
		t.Errorf("expected password length 16, got %d", len(resp.Password))
	}
	if resp.CharacterPoolSize != 94 {
		t.Errorf("expected pool size 94, got %d", resp.CharacterPoolSize)
	}
	if resp.EntropyBits < 100 {
		t.Errorf("expected entropy above 100 bits, got %.2f", resp.EntropyBits)
	}
}

func TestGenerate_CustomOptions(t *testing.T) {
	svc := newTestGenerator()
	resp, err := svc.Generate(context.Background(), model.GenerateRequest{
		Length:    32,
		Uppercase: boolPtr(true),
		Lowercase: boolPtr(true),
		Numbers:   boolPtr(false),
		Symbols:   boolPtr(false),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Length != 32 {
		t.Errorf("expected length 32, got %d", resp.Length)
	}
	for _, c := range resp.Password {
		if !((c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')) {
			t.Errorf("unexpected character %q in password with only uppercase+lowercase", c)
		}
	}
}

func TestGenerate_AvoidAmbiguous(t *testing.T) {
	svc := newTestGenerator()
	for i := 0; i < 20; i++ {
		resp, err := svc.Generate(context.Background(), model.GenerateRequest{Length: 64, AvoidAmbiguous: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.ContainsAny(resp.Password, crypto.AmbiguousChars) {
			t.Errorf("password %q contains ambiguous characters", resp.Password)
		}
	}
}

func TestGenerate_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		req  model.GenerateRequest
		want error
	}{
		{"length too short", model.GenerateRequest{Length: 3}, crypto.ErrLengthTooShort},
		{"length too long", model.GenerateRequest{Length: 200}, crypto.ErrLengthTooLong},
		{
			name: "no character types",
			req: model.GenerateRequest{
				Length:    16,
				Uppercase: boolPtr(false),
				Lowercase: boolPtr(false),
				Numbers:   boolPtr(false),
				Symbols:   boolPtr(false),
			},
			want: crypto.ErrNoCharacterTypes,
		},
	}

	svc := newTestGenerator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Generate(context.Background(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestGenerate_NotAudited(t *testing.T) {
	analyzer := newTestAnalyzer(fakeDict{}, nil)
	audit := &fakeAudit{}
	analyzer.SetAuditRecorder(audit)
	svc := NewGeneratorService(analyzer)

	resp, err := svc.Generate(context.Background(), model.GenerateRequest{Length: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StrengthScore == 0 {
		t.Error("expected the generated password to be scored")
	}
	if len(audit.records) != 0 {
		t.Errorf("expected no audit records for generated passwords, got %d", len(audit.records))
	}

	analyzer.Analyze(context.Background(), strongPassword, AnalyzeOptions{Source: "api"})
	if len(audit.records) != 1 {
		t.Errorf("expected user analyses to still be audited, got %d records", len(audit.records))
	}
}
