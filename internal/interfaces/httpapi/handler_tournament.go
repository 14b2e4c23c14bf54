package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/winbetball/betball/internal/domain/prize"
	"github.com/winbetball/betball/internal/domain/team"
	"github.com/winbetball/betball/internal/domain/tournament"
	"github.com/winbetball/betball/internal/usecase"
)

type createTournamentRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=100"`
	Logo     string `json:"logo" validate:"omitempty,url"`
	DataID   int64  `json:"dataId" validate:"omitempty,gt=0"`
	SeasonID int64  `json:"seasonId" validate:"omitempty,gt=0"`
}

type linkTeamRequest struct {
	TeamID int64 `json:"teamId" validate:"required,gt=0"`
}

type tournamentDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Logo      string `json:"logo,omitempty"`
	DataID    int64  `json:"dataId,omitempty"`
	SeasonID  int64  `json:"seasonId,omitempty"`
	Finished  bool   `json:"finished"`
	CreatedAt string `json:"createdAt"`
}

type teamDTO struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Emblem string `json:"emblem,omitempty"`
	Area   string `json:"area,omitempty"`
	DataID int64  `json:"dataId,omitempty"`
}

type standingDTO struct {
	Place        int    `json:"place"`
	UserID       int64  `json:"userId"`
	Username     string `json:"username"`
	Points       int    `json:"points"`
	ExactCount   int    `json:"exactCount"`
	DiffCount    int    `json:"diffCount"`
	OutcomeCount int    `json:"outcomeCount"`
}

type prizeDTO struct {
	ID             int64  `json:"id"`
	TournamentID   int64  `json:"tournamentId"`
	TournamentName string `json:"tournamentName,omitempty"`
	UserID         int64  `json:"userId"`
	Place          int    `json:"place"`
	Points         int    `json:"points"`
}

func (h *Handler) CreateTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTournament")
	defer span.End()

	var req createTournamentRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.tournamentService.Create(ctx, usecase.CreateTournamentInput{
		Name:     req.Name,
		Logo:     req.Logo,
		DataID:   req.DataID,
		SeasonID: req.SeasonID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create tournament failed", "name", req.Name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, tournamentToDTO(ctx, created))
}

func (h *Handler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTournaments")
	defer span.End()

	tournaments, err := h.tournamentService.List(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list tournaments failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]tournamentDTO, 0, len(tournaments))
	for _, t := range tournaments {
		items = append(items, tournamentToDTO(ctx, t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTournament")
	defer span.End()

	tournamentID, err := pathID(r, "tournamentID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.tournamentService.GetByID(ctx, tournamentID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tournamentToDTO(ctx, item))
}

func (h *Handler) DeleteTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteTournament")
	defer span.End()

	tournamentID, err := pathID(r, "tournamentID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.tournamentService.Delete(ctx, tournamentID); err != nil {
		h.logger.WarnContext(ctx, "delete tournament failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"id": tournamentID})
}

func (h *Handler) FinishTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinishTournament")
	defer span.End()

	tournamentID, err := pathID(r, "tournamentID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	prizes, err := h.rankingService.FinishTournament(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "finish tournament failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]prizeDTO, 0, len(prizes))
	for _, p := range prizes {
		items = append(items, prizeToDTO(ctx, p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTournamentLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTournamentLeaderboard")
	defer span.End()

	tournamentID, err := pathID(r, "tournamentID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	standings, err := h.rankingService.Standings(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "get leaderboard failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]standingDTO, 0, len(standings))
	for _, s := range standings {
		items = append(items, standingDTO{
			Place:        s.Place,
			UserID:       s.UserID,
			Username:     s.Username,
			Points:       s.Points,
			ExactCount:   s.ExactCount,
			DiffCount:    s.DiffCount,
			OutcomeCount: s.OutcomeCount,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListTournamentPrizes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTournamentPrizes")
	defer span.End()

	tournamentID, err := pathID(r, "tournamentID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	prizes, err := h.rankingService.Prizes(ctx, tournamentID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]prizeDTO, 0, len(prizes))
	for _, p := range prizes {
		items = append(items, prizeToDTO(ctx, p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListTournamentTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTournamentTeams")
	defer span.End()

	tournamentID, err := pathID(r, "tournamentID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teams, err := h.tournamentService.ListTeams(ctx, tournamentID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(ctx, t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) LinkTournamentTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LinkTournamentTeam")
	defer span.End()

	tournamentID, err := pathID(r, "tournamentID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req linkTeamRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.tournamentService.LinkTeam(ctx, tournamentID, req.TeamID); err != nil {
		h.logger.WarnContext(ctx, "link team failed", "tournament_id", tournamentID, "team_id", req.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"tournamentId": tournamentID, "teamId": req.TeamID})
}

func (h *Handler) SyncTournamentTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncTournamentTeams")
	defer span.End()

	tournamentID, err := pathID(r, "tournamentID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.dataSyncService.SyncTournamentTeams(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "sync tournament teams failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{
		"fetched": result.Fetched,
		"synced":  result.Synced,
	})
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.tournamentService.ListAllTeams(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(ctx, t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func tournamentToDTO(ctx context.Context, v tournament.Tournament) tournamentDTO {
	ctx, span := startSpan(ctx, "httpapi.tournamentToDTO")
	defer span.End()

	return tournamentDTO{
		ID:        v.ID,
		Name:      v.Name,
		Logo:      v.Logo,
		DataID:    v.DataID,
		SeasonID:  v.SeasonID,
		Finished:  v.Finished,
		CreatedAt: v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func teamToDTO(ctx context.Context, v team.Team) teamDTO {
	ctx, span := startSpan(ctx, "httpapi.teamToDTO")
	defer span.End()

	return teamDTO{
		ID:     v.ID,
		Name:   v.Name,
		Emblem: v.Emblem,
		Area:   v.Area,
		DataID: v.DataID,
	}
}

func prizeToDTO(ctx context.Context, v prize.Prize) prizeDTO {
	ctx, span := startSpan(ctx, "httpapi.prizeToDTO")
	defer span.End()

	return prizeDTO{
		ID:             v.ID,
		TournamentID:   v.TournamentID,
		TournamentName: v.TournamentName,
		UserID:         v.UserID,
		Place:          v.Place,
		Points:         v.Points,
	}
}
