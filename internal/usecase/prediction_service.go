package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golazo-app/predictions-api/internal/domain/match"
	"github.com/golazo-app/predictions-api/internal/domain/prediction"
	"github.com/golazo-app/predictions-api/internal/platform/logging"
)

type PredictionService struct {
	matchRepo      match.Repository
	predictionRepo prediction.Repository
	logger         *logging.Logger
}

func NewPredictionService(
	matchRepo match.Repository,
	predictionRepo prediction.Repository,
	logger *logging.Logger,
) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PredictionService{
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		logger:         logger,
	}
}

// Save records or revises the user's pick for a match. Picks close once
// the match leaves the upcoming state.
func (s *PredictionService) Save(ctx context.Context, userID, matchPublicID, pick string) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "PredictionService.Save")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return prediction.Prediction{}, fmt.Errorf("%w: user is required", ErrUnauthorized)
	}
	matchPublicID = strings.TrimSpace(matchPublicID)
	if matchPublicID == "" {
		return prediction.Prediction{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	home, away, ok := prediction.ScoresForPick(strings.TrimSpace(pick))
	if !ok {
		return prediction.Prediction{}, fmt.Errorf("%w: pick must be one of local, empate, visitante", ErrInvalidInput)
	}

	m, err := s.matchRepo.GetByPublicID(ctx, matchPublicID)
	if err != nil {
		if errors.Is(err, match.ErrNotFound) {
			return prediction.Prediction{}, fmt.Errorf("%w: match %s", ErrNotFound, matchPublicID)
		}
		return prediction.Prediction{}, fmt.Errorf("get match: %w", err)
	}
	if m.Status != match.StatusUpcoming {
		return prediction.Prediction{}, fmt.Errorf("%w: predictions are closed for %s matches", ErrInvalidInput, m.Status)
	}

	saved, err := s.predictionRepo.Upsert(ctx, prediction.Prediction{
		UserID:             userID,
		MatchPublicID:      m.ID,
		PredictedHomeScore: home,
		PredictedAwayScore: away,
		Confidence:         prediction.DefaultConfidence,
	})
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("save prediction: %w", err)
	}

	s.logger.InfoContext(ctx, "prediction saved",
		"user_id", userID, "match_id", m.ID, "pick", pick)
	return saved, nil
}

// ListByUser returns the user's predictions newest first with their
// aggregate summary. Accuracy divides correct picks by all predictions
// made, unsettled ones included.
func (s *PredictionService) ListByUser(ctx context.Context, userID string) ([]prediction.WithMatch, prediction.UserSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "PredictionService.ListByUser")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, prediction.UserSummary{}, fmt.Errorf("%w: user is required", ErrUnauthorized)
	}

	rows, err := s.predictionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, prediction.UserSummary{}, fmt.Errorf("list predictions: %w", err)
	}

	summary := prediction.UserSummary{TotalPredictions: len(rows)}
	for _, row := range rows {
		if row.IsCorrect == nil {
			continue
		}
		if *row.IsCorrect {
			summary.CorrectPredictions++
		}
		if row.PointsEarned != nil {
			summary.TotalPoints += *row.PointsEarned
		}
	}
	summary.Accuracy = prediction.Accuracy(summary.CorrectPredictions, summary.TotalPredictions)

	return rows, summary, nil
}
