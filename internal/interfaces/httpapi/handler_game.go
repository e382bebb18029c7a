package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/spreadpools/pickem-backend/internal/domain/game"
)

type gameDTO struct {
	ID          int64   `json:"id"`
	HomeTeam    string  `json:"home_team"`
	AwayTeam    string  `json:"away_team"`
	Spread      float64 `json:"spread"`
	GameDate    string  `json:"game_date"`
	WinningTeam *string `json:"winning_team,omitempty"`
}

func gameToDTO(v game.Game) gameDTO {
	return gameDTO{
		ID:          v.ID,
		HomeTeam:    v.HomeTeam,
		AwayTeam:    v.AwayTeam,
		Spread:      v.Spread,
		GameDate:    v.StartsAt.UTC().Format(time.RFC3339),
		WinningTeam: v.WinningTeam,
	}
}

func gamesToDTO(items []game.Game) []gameDTO {
	out := make([]gameDTO, 0, len(items))
	for _, g := range items {
		out = append(out, gameToDTO(g))
	}
	return out
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGames")
	defer span.End()

	games, err := h.gameService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list games failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gamesToDTO(games))
}

func (h *Handler) ListStartedGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStartedGames")
	defer span.End()

	games, err := h.gameService.ListStarted(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list started games failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gamesToDTO(games))
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGame")
	defer span.End()

	id, err := pathID(r, "gameID")
	if err != nil {
		writeError(ctx, w, invalidPathID(err))
		return
	}

	g, err := h.gameService.Get(ctx, id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(g))
}
