package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securepass/securepass-go/internal/breach"
	"github.com/securepass/securepass-go/internal/dictionary"
	"github.com/securepass/securepass-go/internal/model"
	"github.com/securepass/securepass-go/internal/report"
	"github.com/securepass/securepass-go/internal/service"
)

const strongPassword = "Xk9#mP2vLq7!Rt"

type stubBreach struct {
	result breach.Result
	calls  atomic.Int32
}

func (s *stubBreach) Check(ctx context.Context, password string) breach.Result {
	s.calls.Add(1)
	return s.result
}

type memoryStore struct {
	records []model.AuditRecord
	err     error
}

func (m *memoryStore) Insert(ctx context.Context, rec *model.AuditRecord) error {
	m.records = append(m.records, *rec)
	return nil
}

func (m *memoryStore) Recent(ctx context.Context, limit int) ([]model.AuditRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit > 0 && limit < len(m.records) {
		return m.records[:limit], nil
	}
	return m.records, nil
}

func (m *memoryStore) Stats(ctx context.Context) (model.AuditStats, error) {
	if m.err != nil {
		return model.AuditStats{}, m.err
	}
	return model.AuditStats{Total: len(m.records)}, nil
}

func newAnalyzeHandler(b service.BreachChecker) *AnalyzeHandler {
	analyzer := service.NewAnalyzerService(dictionary.New(""), b)
	return NewAnalyzeHandler(analyzer, service.NewBatchService(analyzer, 2))
}

func post(h http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func TestHandleGenerate(t *testing.T) {
	h := NewGeneratorHandler(service.NewGeneratorService(service.NewAnalyzerService(nil, nil)))

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantLength int
	}{
		{"empty body uses defaults", "", http.StatusOK, 16},
		{"custom length", `{"length": 24}`, http.StatusOK, 24},
		{"too short", `{"length": 4}`, http.StatusBadRequest, 0},
		{"too long", `{"length": 129}`, http.StatusBadRequest, 0},
		{"no character types", `{"uppercase": false, "lowercase": false, "numbers": false, "symbols": false}`, http.StatusBadRequest, 0},
		{"malformed", `{"length":`, http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := post(h.HandleGenerate, "/api/v1/generate", tt.body)
			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp model.GenerateResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Len(t, resp.Password, tt.wantLength)
			assert.Equal(t, tt.wantLength, resp.Length)
			assert.NotEmpty(t, resp.StrengthRating)
			assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
		})
	}
}

func TestHandleAnalyze(t *testing.T) {
	b := &stubBreach{result: breach.Result{Checked: true, Found: true, Count: 52256179}}
	h := newAnalyzeHandler(b)

	rr := post(h.HandleAnalyze, "/api/v1/analyze", `{"password": "password123"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "password123")

	var a model.PasswordAnalysis
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &a))
	assert.Equal(t, model.RatingWeak, a.StrengthRating)
	assert.True(t, a.BreachStatus.Found)
	assert.Equal(t, 52256179, a.BreachStatus.OccurrenceCount)
	assert.False(t, a.CriteriaMet.NoDictionaryWords)
	assert.Contains(t, a.Recommendations, service.BreachWarning(52256179))
	assert.Equal(t, int32(1), b.calls.Load())
}

func TestHandleAnalyzeSkipsBreach(t *testing.T) {
	b := &stubBreach{}
	h := newAnalyzeHandler(b)

	rr := post(h.HandleAnalyze, "/api/v1/analyze", `{"password": "`+strongPassword+`", "check_breach": false}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Zero(t, b.calls.Load())

	var a model.PasswordAnalysis
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &a))
	assert.False(t, a.BreachStatus.Checked)
}

func TestHandleAnalyzeRejectsBadInput(t *testing.T) {
	h := newAnalyzeHandler(nil)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"empty body", "", http.StatusBadRequest},
		{"empty password", `{"password": ""}`, http.StatusBadRequest},
		{"malformed", `not json`, http.StatusBadRequest},
		{"oversized", `{"password": "` + strings.Repeat("a", maxBodyBytes) + `"}`, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := post(h.HandleAnalyze, "/api/v1/analyze", tt.body)
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestHandleBatch(t *testing.T) {
	h := newAnalyzeHandler(&stubBreach{result: breach.Result{Checked: true}})

	body := `{"passwords": ["password", "", "` + strongPassword + `"]}`
	rr := post(h.HandleBatch, "/api/v1/batch", body)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), strongPassword)

	var resp model.BatchResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, resp.BatchID, rr.Header().Get("X-Batch-ID"))
	require.Len(t, resp.Results, 2)
	assert.Equal(t, model.RatingWeak, resp.Results[0].StrengthRating)
	require.Len(t, resp.Failures, 1)
	assert.Equal(t, 1, resp.Failures[0].Index)
	assert.Equal(t, 3, resp.Summary.Total)
	assert.Equal(t, 2, resp.Summary.Analyzed)
	assert.False(t, resp.Partial)
}

func TestHandleBatchCSV(t *testing.T) {
	h := newAnalyzeHandler(nil)

	rr := post(h.HandleBatch, "/api/v1/batch?format=csv", `{"passwords": ["qwerty", "`+strongPassword+`"], "check_breach": false}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "attachment")

	rows, err := report.ReadCSV(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 6, rows[0].Length)
	assert.Equal(t, 14, rows[1].Length)
}

func TestHandleBatchRejectsBadInput(t *testing.T) {
	h := newAnalyzeHandler(nil)

	tooMany, err := json.Marshal(model.BatchRequest{Passwords: make([]string, model.MaxBatchSize+1)})
	require.NoError(t, err)

	tests := []struct {
		name string
		body string
	}{
		{"empty list", `{"passwords": []}`},
		{"missing list", `{}`},
		{"too many", string(tooMany)},
		{"malformed", `{"passwords": "abc"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := post(h.HandleBatch, "/api/v1/batch", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestHandleAudit(t *testing.T) {
	store := &memoryStore{}
	svc := service.NewAuditService(store, "pepper")
	require.NoError(t, svc.Record(context.Background(), model.PasswordAnalysis{PasswordHash: strings.Repeat("ab", 32), StrengthRating: model.RatingWeak}, "api"))
	require.NoError(t, svc.Record(context.Background(), model.PasswordAnalysis{PasswordHash: strings.Repeat("cd", 32), StrengthRating: model.RatingStrong}, "cli"))
	h := NewAuditHandler(svc)

	t.Run("stats", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.HandleStats(rr, httptest.NewRequest(http.MethodGet, "/api/v1/audit/stats", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		var stats model.AuditStats
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
		assert.Equal(t, 2, stats.Total)
	})

	t.Run("recent with limit", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.HandleRecent(rr, httptest.NewRequest(http.MethodGet, "/api/v1/audit?limit=1", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		var body struct {
			Records []model.AuditRecord `json:"records"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		require.Len(t, body.Records, 1)
		assert.Equal(t, "api", body.Records[0].Source)
		assert.NotContains(t, rr.Body.String(), "argon2id")
	})

	t.Run("invalid limit", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.HandleRecent(rr, httptest.NewRequest(http.MethodGet, "/api/v1/audit?limit=ten", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		store.err = errors.New("connection refused")
		defer func() { store.err = nil }()

		rr := httptest.NewRecorder()
		h.HandleStats(rr, httptest.NewRequest(http.MethodGet, "/api/v1/audit/stats", nil))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "connection refused")
	})
}
