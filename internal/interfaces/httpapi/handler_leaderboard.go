package httpapi

import (
	"net/http"
	"time"

	"github.com/spreadpools/pickem-backend/internal/domain/season"
)

type weekFilterDTO struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

func filterToDTO(f season.Filter) weekFilterDTO {
	dto := weekFilterDTO{Key: f.Key, Label: f.Label}
	if !f.Start.IsZero() {
		dto.Start = f.Start.UTC().Format(time.RFC3339)
	}
	if !f.End.IsZero() {
		dto.End = f.End.UTC().Format(time.RFC3339)
	}
	return dto
}

func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Leaderboard")
	defer span.End()

	filterKey := r.URL.Query().Get("week")
	standings, err := h.leaderboardService.Standings(ctx, filterKey)
	if err != nil {
		h.logger.WarnContext(ctx, "leaderboard failed", "week", filterKey, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standings)
}

func (h *Handler) LeaderboardWeeks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LeaderboardWeeks")
	defer span.End()

	weeks, err := h.leaderboardService.Weeks(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]weekFilterDTO, 0, len(weeks))
	for _, f := range weeks {
		out = append(out, filterToDTO(f))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
