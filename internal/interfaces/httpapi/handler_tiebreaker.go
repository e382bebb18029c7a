package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spreadpools/pickem-backend/internal/domain/tiebreaker"
	"github.com/spreadpools/pickem-backend/internal/usecase"
)

type submitTiebreakerAnswerRequest struct {
	Answer string `json:"answer" validate:"required,max=100"`
}

type tiebreakerDTO struct {
	ID        int64   `json:"id"`
	Question  string  `json:"question"`
	StartTime string  `json:"start_time"`
	Answer    *string `json:"answer,omitempty"`
	IsActive  bool    `json:"is_active"`
}

type tiebreakerAnswerDTO struct {
	UserID        int64   `json:"user_id"`
	Username      string  `json:"username"`
	FullName      string  `json:"full_name"`
	Answer        string  `json:"answer"`
	PointsAwarded float64 `json:"points_awarded"`
}

type tiebreakerBoardDTO struct {
	Tiebreaker tiebreakerDTO         `json:"tiebreaker"`
	Answers    []tiebreakerAnswerDTO `json:"answers"`
}

type myTiebreakerDTO struct {
	Tiebreaker tiebreakerDTO `json:"tiebreaker"`
	Answer     *string       `json:"answer,omitempty"`
}

func tiebreakerToDTO(v tiebreaker.Tiebreaker) tiebreakerDTO {
	return tiebreakerDTO{
		ID:        v.ID,
		Question:  v.Question,
		StartTime: v.StartsAt.UTC().Format(time.RFC3339),
		Answer:    v.Answer,
		IsActive:  v.Active,
	}
}

func (h *Handler) ListTiebreakers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTiebreakers")
	defer span.End()

	activeOnly := r.URL.Query().Get("all") == ""
	items, err := h.tiebreakerService.List(ctx, activeOnly)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]tiebreakerDTO, 0, len(items))
	for _, tb := range items {
		out = append(out, tiebreakerToDTO(tb))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) SubmitTiebreakerAnswer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitTiebreakerAnswer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	id, err := pathID(r, "tiebreakerID")
	if err != nil {
		writeError(ctx, w, invalidPathID(err))
		return
	}

	var req submitTiebreakerAnswerRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	tp, err := h.tiebreakerService.SubmitAnswer(ctx, principal, id, req.Answer)
	if err != nil {
		h.logger.WarnContext(ctx, "submit tiebreaker answer failed",
			"username", principal.Username, "tiebreaker_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tiebreakerAnswerDTO{
		UserID:        tp.UserID,
		Username:      principal.Username,
		Answer:        tp.Answer,
		PointsAwarded: tp.PointsAwarded,
	})
}

func (h *Handler) MyTiebreakerAnswers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MyTiebreakerAnswers")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	views, err := h.tiebreakerService.MyAnswers(ctx, principal)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]myTiebreakerDTO, 0, len(views))
	for _, v := range views {
		item := myTiebreakerDTO{Tiebreaker: tiebreakerToDTO(v.Tiebreaker)}
		if v.Answer != nil {
			answer := v.Answer.Answer
			item.Answer = &answer
		}
		out = append(out, item)
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) TiebreakerAnswers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TiebreakerAnswers")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	id, err := pathID(r, "tiebreakerID")
	if err != nil {
		writeError(ctx, w, invalidPathID(err))
		return
	}

	tb, answers, err := h.tiebreakerService.Answers(ctx, principal, id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]tiebreakerAnswerDTO, 0, len(answers))
	for _, a := range answers {
		out = append(out, tiebreakerAnswerDTO{
			UserID:        a.UserID,
			Username:      a.Username,
			FullName:      a.FullName,
			Answer:        a.Answer,
			PointsAwarded: a.PointsAwarded,
		})
	}
	writeSuccess(ctx, w, http.StatusOK, tiebreakerBoardDTO{
		Tiebreaker: tiebreakerToDTO(tb),
		Answers:    out,
	})
}
