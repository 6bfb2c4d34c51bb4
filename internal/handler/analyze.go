package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/securepass/securepass-go/internal/model"
	"github.com/securepass/securepass-go/internal/report"
	"github.com/securepass/securepass-go/internal/service"
)

const maxBatchBodyBytes = 10 << 20 // 10MB

var errBatchTooLarge = fmt.Errorf("batch exceeds %d passwords", model.MaxBatchSize)

// AnalyzeHandler handles HTTP requests for strength analysis.
type AnalyzeHandler struct {
	analyzer *service.AnalyzerService
	batch    *service.BatchService
}

// NewAnalyzeHandler creates a new AnalyzeHandler.
func NewAnalyzeHandler(analyzer *service.AnalyzerService, batch *service.BatchService) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer, batch: batch}
}

// HandleAnalyze handles POST /api/v1/analyze requests. Breach checking defaults to on.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req model.AnalyzeRequest
	if err := decodeJSON(w, r, maxBodyBytes, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse(service.ErrPasswordRequired.Error()))
		return
	}

	analysis := h.analyzer.Analyze(r.Context(), req.Password, service.AnalyzeOptions{
		CheckBreach: boolOrDefault(req.CheckBreach, true),
		Source:      "api",
	})

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, analysis)
}

// HandleBatch handles POST /api/v1/batch requests. With ?format=csv the
// results are returned as a CSV export instead of JSON.
func (h *AnalyzeHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	var req model.BatchRequest
	if err := decodeJSON(w, r, maxBatchBodyBytes, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	switch {
	case len(req.Passwords) == 0:
		writeJSON(w, http.StatusBadRequest, errorResponse("passwords are required"))
		return
	case len(req.Passwords) > model.MaxBatchSize:
		writeJSON(w, http.StatusBadRequest, errorResponse(errBatchTooLarge.Error()))
		return
	}

	resp, err := h.batch.Run(r.Context(), req.Passwords, service.BatchOptions{
		CheckBreach: boolOrDefault(req.CheckBreach, true),
		Source:      "api",
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			slog.Info("batch request cancelled by client", "batch_id", resp.BatchID)
			return
		}
		slog.Warn("batch completed with failures", "batch_id", resp.BatchID, "failed", len(resp.Failures))
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Batch-ID", resp.BatchID)
	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "securepass-"+resp.BatchID+".csv"))
		if err := report.WriteCSV(w, resp.Results); err != nil {
			slog.Error("writing csv export", "batch_id", resp.BatchID, "error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
