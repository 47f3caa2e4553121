package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/homedeco-shop/internal/service"
)

// AdminStatsHandler GET /api/admin/stats
func AdminStatsHandler(log *slog.Logger, statsService service.StatsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.AdminStatsHandler"))

		stats, err := statsService.AdminStats(r.Context())
		if err != nil {
			writeError(logger, w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(logger, w, http.StatusOK, stats)
	}
}

// UserStatsHandler GET /api/user/stats
func UserStatsHandler(log *slog.Logger, statsService service.StatsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.UserStatsHandler"))

		userID, ok := currentUser(logger, w, r)
		if !ok {
			return
		}

		stats, err := statsService.UserStats(r.Context(), userID)
		if err != nil {
			writeError(logger, w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(logger, w, http.StatusOK, stats)
	}
}
