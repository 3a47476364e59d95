package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/golazo-app/predictions-api/internal/domain/league"
	"github.com/golazo-app/predictions-api/internal/domain/match"
	"github.com/golazo-app/predictions-api/internal/usecase"
)

// cachedPageCacheControl is set when a page was served without spending a
// provider request, so shared caches can absorb repeat traffic.
const cachedPageCacheControl = "public, s-maxage=60, stale-while-revalidate=300"

type Handler struct {
	matchSyncService   *usecase.MatchSyncService
	popularService     *usecase.PopularMatchesService
	predictionService  *usecase.PredictionService
	settlementService  *usecase.SettlementService
	pruneRetentionDays int
	logger             *slog.Logger
	validator          *validator.Validate
}

func NewHandler(
	matchSyncService *usecase.MatchSyncService,
	popularService *usecase.PopularMatchesService,
	predictionService *usecase.PredictionService,
	settlementService *usecase.SettlementService,
	pruneRetentionDays int,
	logger *slog.Logger,
) *Handler {
	if pruneRetentionDays <= 0 {
		pruneRetentionDays = defaultPruneRetentionDays
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		matchSyncService:   matchSyncService,
		popularService:     popularService,
		predictionService:  predictionService,
		settlementService:  settlementService,
		pruneRetentionDays: pruneRetentionDays,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

type matchPageDTO struct {
	Step          string      `json:"step"`
	Matches       []matchDTO  `json:"matches"`
	Leagues       []leagueDTO `json:"leagues"`
	RequestsCount int         `json:"requestsCount"`
	LastRequest   *time.Time  `json:"lastRequest,omitempty"`
}

type matchDTO struct {
	ID         string    `json:"id"`
	HomeTeam   string    `json:"homeTeam"`
	AwayTeam   string    `json:"awayTeam"`
	HomeLogo   string    `json:"homeLogo,omitempty"`
	AwayLogo   string    `json:"awayLogo,omitempty"`
	LeagueName string    `json:"leagueName"`
	KickoffAt  time.Time `json:"kickoffAt"`
	Status     string    `json:"status"`
	APIStatus  string    `json:"apiStatus"`
	HomeScore  *int      `json:"homeScore"`
	AwayScore  *int      `json:"awayScore"`
}

type leagueDTO struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Logo    string `json:"logo,omitempty"`
	Country string `json:"country,omitempty"`
	Season  int    `json:"season,omitempty"`
}

func (h *Handler) GetFootballMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFootballMatches")
	defer span.End()

	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", usecase.DefaultPageLimit)

	page, err := h.matchSyncService.GetMatches(ctx, offset, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "get matches failed", "step", usecase.StepOf(err), "error", err)
		writeError(ctx, w, err)
		return
	}

	if page.FromCache {
		w.Header().Set("Cache-Control", cachedPageCacheControl)
	}
	writeSuccess(ctx, w, http.StatusOK, matchPageToDTO(page))
}

func (h *Handler) GetPopularMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPopularMatches")
	defer span.End()

	payload, err := h.popularService.GetPopularMatches(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get popular matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Cache-Control", cachedPageCacheControl)
	writeSuccess(ctx, w, http.StatusOK, json.RawMessage(payload))
}

type leaderboardEntryDTO struct {
	UserID             string  `json:"userId"`
	TotalPredictions   int     `json:"totalPredictions"`
	CorrectPredictions int     `json:"correctPredictions"`
	Accuracy           float64 `json:"accuracy"`
	TotalPoints        int     `json:"totalPoints"`
	RankPosition       int     `json:"rankPosition"`
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	limit := queryInt(r, "limit", usecase.DefaultPageLimit)
	rows, err := h.settlementService.Leaderboard(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "get leaderboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leaderboardEntryDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, leaderboardEntryDTO{
			UserID:             row.UserID,
			TotalPredictions:   row.TotalPredictions,
			CorrectPredictions: row.CorrectPredictions,
			Accuracy:           row.Accuracy,
			TotalPoints:        row.TotalPoints,
			RankPosition:       row.RankPosition,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func matchPageToDTO(page usecase.MatchPage) matchPageDTO {
	matches := make([]matchDTO, 0, len(page.Matches))
	for _, m := range page.Matches {
		matches = append(matches, matchToDTO(m))
	}

	leagues := make([]leagueDTO, 0, len(page.Leagues))
	for _, l := range page.Leagues {
		leagues = append(leagues, leagueToDTO(l))
	}

	return matchPageDTO{
		Step:          page.ServePath,
		Matches:       matches,
		Leagues:       leagues,
		RequestsCount: page.RequestsCount,
		LastRequest:   page.LastRequest,
	}
}

func matchToDTO(m match.Match) matchDTO {
	return matchDTO{
		ID:         m.ID,
		HomeTeam:   m.HomeTeam,
		AwayTeam:   m.AwayTeam,
		HomeLogo:   m.HomeLogo,
		AwayLogo:   m.AwayLogo,
		LeagueName: m.LeagueName,
		KickoffAt:  m.KickoffAt,
		Status:     m.Status,
		APIStatus:  m.APIStatus,
		HomeScore:  m.HomeScore,
		AwayScore:  m.AwayScore,
	}
}

func leagueToDTO(l league.League) leagueDTO {
	return leagueDTO{
		ID:      l.ExternalID,
		Name:    l.Name,
		Logo:    l.Logo,
		Country: l.Country,
		Season:  l.Season,
	}
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
