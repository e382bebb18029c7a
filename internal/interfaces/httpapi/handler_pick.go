package httpapi

import (
	"fmt"
	"net/http"

	"github.com/spreadpools/pickem-backend/internal/domain/pick"
	"github.com/spreadpools/pickem-backend/internal/usecase"
)

type submitPickRequest struct {
	GameID     int64  `json:"game_id" validate:"required,gt=0"`
	PickedTeam string `json:"picked_team" validate:"required,max=100"`
	Lock       bool   `json:"lock"`
}

type pickDTO struct {
	ID            int64  `json:"id"`
	GameID        int64  `json:"game_id"`
	PickedTeam    string `json:"picked_team"`
	Lock          bool   `json:"lock"`
	PointsAwarded int    `json:"points_awarded"`
}

type gamePickDTO struct {
	Game gameDTO  `json:"game"`
	Pick *pickDTO `json:"pick,omitempty"`
}

type gameBoardDTO struct {
	Game  gameDTO         `json:"game"`
	Picks []memberPickDTO `json:"picks"`
}

type memberPickDTO struct {
	UserID        int64  `json:"user_id"`
	Username      string `json:"username"`
	FullName      string `json:"full_name"`
	PickedTeam    string `json:"picked_team"`
	Lock          bool   `json:"lock"`
	PointsAwarded int    `json:"points_awarded"`
}

func pickToDTO(v pick.Pick) pickDTO {
	return pickDTO{
		ID:            v.ID,
		GameID:        v.GameID,
		PickedTeam:    v.PickedTeam,
		Lock:          v.Locked,
		PointsAwarded: v.PointsAwarded,
	}
}

func gamePickViewsToDTO(views []usecase.GamePickView) []gamePickDTO {
	out := make([]gamePickDTO, 0, len(views))
	for _, v := range views {
		item := gamePickDTO{Game: gameToDTO(v.Game)}
		if v.Pick != nil {
			dto := pickToDTO(*v.Pick)
			item.Pick = &dto
		}
		out = append(out, item)
	}
	return out
}

func memberPicksToDTO(items []usecase.MemberPick) []memberPickDTO {
	out := make([]memberPickDTO, 0, len(items))
	for _, m := range items {
		out = append(out, memberPickDTO{
			UserID:        m.UserID,
			Username:      m.Username,
			FullName:      m.FullName,
			PickedTeam:    m.PickedTeam,
			Lock:          m.Locked,
			PointsAwarded: m.PointsAwarded,
		})
	}
	return out
}

func (h *Handler) SubmitPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPick")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req submitPickRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	p, err := h.pickService.Submit(ctx, principal, usecase.SubmitPickInput{
		GameID:     req.GameID,
		PickedTeam: req.PickedTeam,
		Locked:     req.Lock,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit pick failed",
			"username", principal.Username, "game_id", req.GameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pickToDTO(p))
}

func (h *Handler) MyPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MyPicks")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	views, err := h.pickService.MyPicks(ctx, principal)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gamePickViewsToDTO(views))
}

func (h *Handler) UserPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UserPicks")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	username := r.PathValue("username")
	views, err := h.pickService.UserPicks(ctx, principal, username)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gamePickViewsToDTO(views))
}

func (h *Handler) UserPickHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UserPickHistory")
	defer span.End()

	username := r.PathValue("username")
	views, err := h.pickService.UserPickHistory(ctx, username)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gamePickViewsToDTO(views))
}

func (h *Handler) GamePicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GamePicks")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	id, err := pathID(r, "gameID")
	if err != nil {
		writeError(ctx, w, invalidPathID(err))
		return
	}

	g, picks, err := h.pickService.GamePicks(ctx, principal, id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameBoardDTO{
		Game:  gameToDTO(g),
		Picks: memberPicksToDTO(picks),
	})
}

func (h *Handler) PicksBoard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PicksBoard")
	defer span.End()

	rows, err := h.pickService.PicksBoard(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]gameBoardDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameBoardDTO{
			Game:  gameToDTO(row.Game),
			Picks: memberPicksToDTO(row.Picks),
		})
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
