package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spreadpools/pickem-backend/internal/domain/user"
	"github.com/spreadpools/pickem-backend/internal/usecase"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32,alphanum"`
	FullName string `json:"full_name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	LeagueID string `json:"league_id" validate:"max=64"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

type forgotPasswordRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
}

type userDTO struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	LeagueID  string `json:"league_id,omitempty"`
	Admin     bool   `json:"admin"`
	MakePicks bool   `json:"make_picks"`
	CreatedAt string `json:"created_at"`
}

type authResponseDTO struct {
	Token     string  `json:"token"`
	ExpiresAt string  `json:"expires_at"`
	User      userDTO `json:"user"`
}

func userToDTO(v user.User) userDTO {
	return userDTO{
		ID:        v.ID,
		Username:  v.Username,
		FullName:  v.FullName,
		Email:     v.Email,
		LeagueID:  v.LeagueID,
		Admin:     v.Admin,
		MakePicks: v.MakePicks,
		CreatedAt: v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func authResultToDTO(v usecase.AuthResult) authResponseDTO {
	return authResponseDTO{
		Token:     v.Token,
		ExpiresAt: v.ExpiresAt.UTC().Format(time.RFC3339),
		User:      userToDTO(v.User),
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Register")
	defer span.End()

	var req registerRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.userService.Register(ctx, usecase.RegisterInput{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		LeagueID: req.LeagueID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "register failed", "username", req.Username, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, authResultToDTO(result))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Login")
	defer span.End()

	var req loginRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.userService.Login(ctx, req.Username, req.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "login failed", "username", req.Username, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, authResultToDTO(result))
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Me")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	u, err := h.userService.Me(ctx, principal)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, userToDTO(u))
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ChangePassword")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req changePasswordRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.userService.ChangePassword(ctx, principal, req.CurrentPassword, req.NewPassword); err != nil {
		h.logger.WarnContext(ctx, "change password failed", "username", principal.Username, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "password changed"})
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ForgotPassword")
	defer span.End()

	var req forgotPasswordRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.userService.ForgotPassword(ctx, req.Username, req.Email); err != nil {
		h.logger.WarnContext(ctx, "forgot password failed", "username", req.Username, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "temporary password issued"})
}
