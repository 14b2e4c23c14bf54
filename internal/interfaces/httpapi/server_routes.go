package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/auth/register", handler.Register)
	mux.HandleFunc("POST /v1/auth/login", handler.Login)

	mux.HandleFunc("GET /v1/tournaments", handler.ListTournaments)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}", handler.GetTournament)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/games", handler.ListTournamentGames)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/leaderboard", handler.GetTournamentLeaderboard)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/prizes", handler.ListTournamentPrizes)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/teams", handler.ListTournamentTeams)
	mux.HandleFunc("GET /v1/games", handler.ListGames)
	mux.HandleFunc("GET /v1/games/{gameID}", handler.GetGame)
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/users/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMe)))
	mux.Handle("GET /v1/users/me/prizes", RequireAuth(verifier, http.HandlerFunc(handler.ListMyPrizes)))
	mux.Handle("POST /v1/games/{gameID}/bets", RequireAuth(verifier, http.HandlerFunc(handler.PlaceBet)))
	mux.Handle("GET /v1/games/{gameID}/bets", RequireAuth(verifier, http.HandlerFunc(handler.ListGameBets)))
	mux.Handle("GET /v1/bets/{betID}", RequireAuth(verifier, http.HandlerFunc(handler.GetBet)))
	mux.Handle("PUT /v1/bets/{betID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateBet)))
	mux.Handle("GET /v1/bets/me", RequireAuth(verifier, http.HandlerFunc(handler.ListMyBets)))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	admin := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, RequireAdmin(h))
	}

	mux.Handle("GET /v1/users", admin(handler.ListUsers))
	mux.Handle("PUT /v1/users/{userID}/active", admin(handler.SetUserActive))

	mux.Handle("POST /v1/tournaments", admin(handler.CreateTournament))
	mux.Handle("DELETE /v1/tournaments/{tournamentID}", admin(handler.DeleteTournament))
	mux.Handle("POST /v1/tournaments/{tournamentID}/finish", admin(handler.FinishTournament))
	mux.Handle("POST /v1/tournaments/{tournamentID}/teams", admin(handler.LinkTournamentTeam))
	mux.Handle("POST /v1/tournaments/{tournamentID}/sync-teams", admin(handler.SyncTournamentTeams))

	mux.Handle("POST /v1/games", admin(handler.CreateGame))
	mux.Handle("PUT /v1/games/{gameID}", admin(handler.UpdateGame))
	mux.Handle("DELETE /v1/games/{gameID}", admin(handler.DeleteGame))
	mux.Handle("POST /v1/games/{gameID}/finish", admin(handler.FinishGame))
	mux.Handle("POST /v1/games/{gameID}/ai-bet", admin(handler.PlaceBotBet))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/poll-results", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunPollResultsJob)))
	mux.Handle("POST /v1/internal/jobs/notify-games", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunNotifyGamesJob)))
	mux.Handle("POST /v1/internal/jobs/sync-teams", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncTeamsJob)))
}
