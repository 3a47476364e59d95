package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/golazo-app/predictions-api/internal/domain/prediction"
	"github.com/golazo-app/predictions-api/internal/usecase"
)

type savePredictionRequest struct {
	MatchID string `json:"matchId" validate:"required"`
	Pick    string `json:"prediction" validate:"required,oneof=local empate visitante"`
}

type predictionDTO struct {
	ID                 string    `json:"id"`
	MatchID            string    `json:"matchId"`
	PredictedHomeScore int       `json:"predictedHomeScore"`
	PredictedAwayScore int       `json:"predictedAwayScore"`
	Confidence         int       `json:"confidence"`
	IsCorrect          *bool     `json:"isCorrect"`
	PointsEarned       *int      `json:"pointsEarned"`
	CreatedAt          time.Time `json:"createdAt"`
}

type predictionWithMatchDTO struct {
	predictionDTO
	Match *matchDTO `json:"match,omitempty"`
}

type predictionStatsDTO struct {
	TotalPredictions   int     `json:"totalPredictions"`
	CorrectPredictions int     `json:"correctPredictions"`
	Accuracy           float64 `json:"accuracy"`
	TotalPoints        int     `json:"totalPoints"`
}

type savePredictionResponse struct {
	Success    bool          `json:"success"`
	Prediction predictionDTO `json:"prediction"`
}

type listPredictionsResponse struct {
	Predictions []predictionWithMatchDTO `json:"predictions"`
	Stats       predictionStatsDTO       `json:"stats"`
}

func (h *Handler) SavePrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SavePrediction")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing request principal", usecase.ErrUnauthorized))
		return
	}

	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req savePredictionRequest
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	saved, err := h.predictionService.Save(ctx, principal.UserID, req.MatchID, req.Pick)
	if err != nil {
		h.logger.WarnContext(ctx, "save prediction failed",
			"user_id", principal.UserID, "match_id", req.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, savePredictionResponse{
		Success:    true,
		Prediction: predictionToDTO(saved),
	})
}

func (h *Handler) ListMyPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyPredictions")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing request principal", usecase.ErrUnauthorized))
		return
	}

	rows, summary, err := h.predictionService.ListByUser(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list predictions failed",
			"user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]predictionWithMatchDTO, 0, len(rows))
	for _, row := range rows {
		item := predictionWithMatchDTO{predictionDTO: predictionToDTO(row.Prediction)}
		if row.Match.ID != "" {
			dto := matchToDTO(row.Match)
			item.Match = &dto
		}
		items = append(items, item)
	}

	writeSuccess(ctx, w, http.StatusOK, listPredictionsResponse{
		Predictions: items,
		Stats: predictionStatsDTO{
			TotalPredictions:   summary.TotalPredictions,
			CorrectPredictions: summary.CorrectPredictions,
			Accuracy:           summary.Accuracy,
			TotalPoints:        summary.TotalPoints,
		},
	})
}

func predictionToDTO(p prediction.Prediction) predictionDTO {
	return predictionDTO{
		ID:                 p.ID,
		MatchID:            p.MatchPublicID,
		PredictedHomeScore: p.PredictedHomeScore,
		PredictedAwayScore: p.PredictedAwayScore,
		Confidence:         p.Confidence,
		IsCorrect:          p.IsCorrect,
		PointsEarned:       p.PointsEarned,
		CreatedAt:          p.CreatedAt,
	}
}
