package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/golazo-app/predictions-api/internal/usecase"
)

const defaultPruneRetentionDays = 30

type updateResultsResponse struct {
	Success            bool   `json:"success"`
	Message            string `json:"message"`
	ProcessedMatches   int    `json:"processedMatches"`
	UpdatedPredictions int    `json:"updatedPredictions"`
	RecomputedUsers    int    `json:"recomputedUsers"`
}

func (h *Handler) RunUpdateResultsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunUpdateResultsJob")
	defer span.End()

	result, err := h.settlementService.UpdateResults(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "update results job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, updateResultsResponse{
		Success:            true,
		Message:            fmt.Sprintf("settled %d predictions across %d matches", result.UpdatedPredictions, result.ProcessedMatches),
		ProcessedMatches:   result.ProcessedMatches,
		UpdatedPredictions: result.UpdatedPredictions,
		RecomputedUsers:    result.RecomputedUsers,
	})
}

type pruneMatchesRequest struct {
	RetentionDays int `json:"retentionDays" validate:"omitempty,gt=0"`
}

type pruneMatchesResponse struct {
	Success bool  `json:"success"`
	Removed int64 `json:"removed"`
}

func (h *Handler) RunPruneMatchesJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunPruneMatchesJob")
	defer span.End()

	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req pruneMatchesRequest
	if err := decoder.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}
	if req.RetentionDays == 0 {
		req.RetentionDays = h.pruneRetentionDays
	}

	removed, err := h.matchSyncService.PruneMatches(ctx, time.Duration(req.RetentionDays)*24*time.Hour)
	if err != nil {
		h.logger.ErrorContext(ctx, "prune matches job failed", "retention_days", req.RetentionDays, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pruneMatchesResponse{
		Success: true,
		Removed: removed,
	})
}
