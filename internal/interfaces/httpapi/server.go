package httpapi

import (
	"log/slog"
	"net/http"
)

func NewRouter(
	handler *Handler,
	verifier TokenVerifier,
	logger *slog.Logger,
	corsAllowedOrigins []string,
	internalJobToken string,
) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handler.Healthz)

	mux.HandleFunc("GET /football-matches", handler.GetFootballMatches)
	mux.HandleFunc("GET /popular-matches", handler.GetPopularMatches)
	mux.HandleFunc("GET /leaderboard", handler.GetLeaderboard)

	mux.Handle("POST /predictions", RequireAuth(verifier, http.HandlerFunc(handler.SavePrediction)))
	mux.Handle("GET /predictions", RequireAuth(verifier, http.HandlerFunc(handler.ListMyPredictions)))

	mux.Handle("POST /predictions/update-results", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunUpdateResultsJob)))
	mux.Handle("POST /internal/matches/prune", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunPruneMatchesJob)))

	return RequestTracing(RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
