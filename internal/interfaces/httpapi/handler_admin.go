package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spreadpools/pickem-backend/internal/usecase"
)

type createGameRequest struct {
	HomeTeam string  `json:"home_team" validate:"required,max=100"`
	AwayTeam string  `json:"away_team" validate:"required,max=100"`
	Spread   float64 `json:"spread" validate:"gte=0"`
	GameDate string  `json:"game_date" validate:"required"`
}

type updateGameRequest struct {
	HomeTeam    string  `json:"home_team" validate:"required,max=100"`
	AwayTeam    string  `json:"away_team" validate:"required,max=100"`
	Spread      float64 `json:"spread" validate:"gte=0"`
	GameDate    string  `json:"game_date" validate:"required"`
	WinningTeam *string `json:"winning_team"`
}

type gradeGameRequest struct {
	WinningTeam string `json:"winning_team" validate:"max=100"`
}

type createTiebreakerRequest struct {
	Question  string `json:"question" validate:"required,max=255"`
	StartTime string `json:"start_time" validate:"required"`
}

type setTiebreakerAnswerRequest struct {
	Answer string `json:"answer" validate:"required,max=100"`
}

type awardTiebreakerPointsRequest struct {
	UserID int64   `json:"user_id" validate:"required,gt=0"`
	Points float64 `json:"points" validate:"gte=0"`
}

type setAdminRequest struct {
	Admin bool `json:"admin"`
}

func parseGameDate(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: game date must be RFC 3339: %v", usecase.ErrInvalidInput, err)
	}
	return t, nil
}

func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateGame")
	defer span.End()

	var req createGameRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	startsAt, err := parseGameDate(req.GameDate)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	g, err := h.gameService.Create(ctx, usecase.CreateGameInput{
		HomeTeam: req.HomeTeam,
		AwayTeam: req.AwayTeam,
		Spread:   req.Spread,
		StartsAt: startsAt,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create game failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	h.leaderboardService.Invalidate(ctx)
	writeSuccess(ctx, w, http.StatusCreated, gameToDTO(g))
}

func (h *Handler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateGame")
	defer span.End()

	id, err := pathID(r, "gameID")
	if err != nil {
		writeError(ctx, w, invalidPathID(err))
		return
	}

	var req updateGameRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	startsAt, err := parseGameDate(req.GameDate)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	g, err := h.gradingService.UpdateGame(ctx, id, usecase.UpdateGameInput{
		HomeTeam:    req.HomeTeam,
		AwayTeam:    req.AwayTeam,
		Spread:      req.Spread,
		StartsAt:    startsAt,
		WinningTeam: req.WinningTeam,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update game failed", "game_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.leaderboardService.Invalidate(ctx)
	writeSuccess(ctx, w, http.StatusOK, gameToDTO(g))
}

func (h *Handler) GradeGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GradeGame")
	defer span.End()

	id, err := pathID(r, "gameID")
	if err != nil {
		writeError(ctx, w, invalidPathID(err))
		return
	}

	var req gradeGameRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	g, err := h.gradingService.GradeGame(ctx, id, req.WinningTeam)
	if err != nil {
		h.logger.WarnContext(ctx, "grade game failed", "game_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.leaderboardService.Invalidate(ctx)
	writeSuccess(ctx, w, http.StatusOK, gameToDTO(g))
}

func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteGame")
	defer span.End()

	id, err := pathID(r, "gameID")
	if err != nil {
		writeError(ctx, w, invalidPathID(err))
		return
	}

	if err := h.gradingService.DeleteGame(ctx, id); err != nil {
		h.logger.WarnContext(ctx, "delete game failed", "game_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.leaderboardService.Invalidate(ctx)
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "game deleted"})
}

func (h *Handler) CreateTiebreaker(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTiebreaker")
	defer span.End()

	var req createTiebreakerRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	startsAt, err := parseGameDate(req.StartTime)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	tb, err := h.tiebreakerService.Create(ctx, usecase.CreateTiebreakerInput{
		Question: req.Question,
		StartsAt: startsAt,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create tiebreaker failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, tiebreakerToDTO(tb))
}

func (h *Handler) SetTiebreakerAnswer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetTiebreakerAnswer")
	defer span.End()

	id, err := pathID(r, "tiebreakerID")
	if err != nil {
		writeError(ctx, w, invalidPathID(err))
		return
	}

	var req setTiebreakerAnswerRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	tb, err := h.tiebreakerService.SetAnswer(ctx, id, req.Answer)
	if err != nil {
		h.logger.WarnContext(ctx, "set tiebreaker answer failed", "tiebreaker_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.leaderboardService.Invalidate(ctx)
	writeSuccess(ctx, w, http.StatusOK, tiebreakerToDTO(tb))
}

func (h *Handler) DeactivateTiebreaker(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeactivateTiebreaker")
	defer span.End()

	id, err := pathID(r, "tiebreakerID")
	if err != nil {
		writeError(ctx, w, invalidPathID(err))
		return
	}

	tb, err := h.tiebreakerService.Deactivate(ctx, id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tiebreakerToDTO(tb))
}

func (h *Handler) DeleteTiebreaker(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteTiebreaker")
	defer span.End()

	id, err := pathID(r, "tiebreakerID")
	if err != nil {
		writeError(ctx, w, invalidPathID(err))
		return
	}

	if err := h.tiebreakerService.Delete(ctx, id); err != nil {
		writeError(ctx, w, err)
		return
	}

	h.leaderboardService.Invalidate(ctx)
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "tiebreaker deleted"})
}

func (h *Handler) AwardTiebreakerPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AwardTiebreakerPoints")
	defer span.End()

	id, err := pathID(r, "tiebreakerID")
	if err != nil {
		writeError(ctx, w, invalidPathID(err))
		return
	}

	var req awardTiebreakerPointsRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	tp, err := h.gradingService.AwardTiebreakerPoints(ctx, req.UserID, id, req.Points)
	if err != nil {
		h.logger.WarnContext(ctx, "award tiebreaker points failed",
			"tiebreaker_id", id, "user_id", req.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.leaderboardService.Invalidate(ctx)
	writeSuccess(ctx, w, http.StatusOK, tiebreakerAnswerDTO{
		UserID:        tp.UserID,
		Answer:        tp.Answer,
		PointsAwarded: tp.PointsAwarded,
	})
}

func (h *Handler) ResyncLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResyncLeaderboard")
	defer span.End()

	result, err := h.gradingService.ResyncLeaderboard(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "leaderboard resync failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	h.leaderboardService.Invalidate(ctx)
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) PicksStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PicksStatus")
	defer span.End()

	statuses, err := h.userService.PicksStatus(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, statuses)
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMembers")
	defer span.End()

	members, err := h.userService.ListMembers(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]userDTO, 0, len(members))
	for _, m := range members {
		out = append(out, userToDTO(m))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) SetAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetAdmin")
	defer span.End()

	username := r.PathValue("username")
	var req setAdminRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	u, err := h.userService.SetAdmin(ctx, username, req.Admin)
	if err != nil {
		h.logger.WarnContext(ctx, "set admin failed", "username", username, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, userToDTO(u))
}

func (h *Handler) AdminResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdminResetPassword")
	defer span.End()

	username := r.PathValue("username")
	temp, err := h.userService.AdminResetPassword(ctx, username)
	if err != nil {
		h.logger.WarnContext(ctx, "admin password reset failed", "username", username, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"temporary_password": temp})
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteUser")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	username := r.PathValue("username")
	if err := h.userService.DeleteUser(ctx, principal, username); err != nil {
		h.logger.WarnContext(ctx, "delete user failed", "username", username, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.leaderboardService.Invalidate(ctx)
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "user deleted"})
}
