package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/auth/register", handler.Register)
	mux.HandleFunc("POST /v1/auth/login", handler.Login)
	mux.HandleFunc("POST /v1/auth/forgot-password", handler.ForgotPassword)
	mux.HandleFunc("GET /v1/games", handler.ListGames)
	mux.HandleFunc("GET /v1/games/started", handler.ListStartedGames)
	mux.HandleFunc("GET /v1/games/{gameID}", handler.GetGame)
	mux.HandleFunc("GET /v1/leaderboard", handler.Leaderboard)
	mux.HandleFunc("GET /v1/leaderboard/weeks", handler.LeaderboardWeeks)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	authed := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, RequireAuth(verifier, h))
	}

	authed("GET /v1/users/me", handler.Me)
	authed("POST /v1/users/me/change-password", handler.ChangePassword)

	authed("POST /v1/picks", handler.SubmitPick)
	authed("GET /v1/picks/me", handler.MyPicks)
	authed("GET /v1/picks/board", handler.PicksBoard)
	authed("GET /v1/users/{username}/picks", handler.UserPicks)
	authed("GET /v1/users/{username}/picks/history", handler.UserPickHistory)
	authed("GET /v1/games/{gameID}/picks", handler.GamePicks)

	authed("GET /v1/tiebreakers", handler.ListTiebreakers)
	authed("GET /v1/tiebreakers/me", handler.MyTiebreakerAnswers)
	authed("POST /v1/tiebreakers/{tiebreakerID}/answers", handler.SubmitTiebreakerAnswer)
	authed("GET /v1/tiebreakers/{tiebreakerID}/answers", handler.TiebreakerAnswers)
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	admin := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, RequireAuth(verifier, RequireAdmin(h)))
	}

	admin("POST /v1/admin/games", handler.CreateGame)
	admin("PUT /v1/admin/games/{gameID}", handler.UpdateGame)
	admin("DELETE /v1/admin/games/{gameID}", handler.DeleteGame)
	admin("POST /v1/admin/games/{gameID}/grade", handler.GradeGame)

	admin("POST /v1/admin/tiebreakers", handler.CreateTiebreaker)
	admin("PUT /v1/admin/tiebreakers/{tiebreakerID}/answer", handler.SetTiebreakerAnswer)
	admin("POST /v1/admin/tiebreakers/{tiebreakerID}/deactivate", handler.DeactivateTiebreaker)
	admin("DELETE /v1/admin/tiebreakers/{tiebreakerID}", handler.DeleteTiebreaker)
	admin("POST /v1/admin/tiebreakers/{tiebreakerID}/points", handler.AwardTiebreakerPoints)

	admin("GET /v1/admin/members", handler.ListMembers)
	admin("GET /v1/admin/members/status", handler.PicksStatus)
	admin("PUT /v1/admin/members/{username}/admin", handler.SetAdmin)
	admin("POST /v1/admin/members/{username}/reset-password", handler.AdminResetPassword)
	admin("DELETE /v1/admin/members/{username}", handler.DeleteUser)

	admin("POST /v1/admin/leaderboard/resync", handler.ResyncLeaderboard)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/leaderboard-resync", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ResyncLeaderboard)))
}
