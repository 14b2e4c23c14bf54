package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/winbetball/betball/internal/domain/game"
	"github.com/winbetball/betball/internal/usecase"
)

type createGameRequest struct {
	TournamentID int64  `json:"tournamentId" validate:"required,gt=0"`
	Title        string `json:"title" validate:"omitempty,max=200"`
	StartTime    string `json:"startTime" validate:"required"`
	Team1        string `json:"team1" validate:"required,max=100"`
	Team2        string `json:"team2" validate:"required,max=100"`
	Team1ID      int64  `json:"team1Id" validate:"omitempty,gt=0"`
	Team2ID      int64  `json:"team2Id" validate:"omitempty,gt=0"`
	DataID       int64  `json:"dataId" validate:"omitempty,gt=0"`
}

type updateGameRequest struct {
	Title     string `json:"title" validate:"omitempty,max=200"`
	StartTime string `json:"startTime" validate:"required"`
	Team1     string `json:"team1" validate:"required,max=100"`
	Team2     string `json:"team2" validate:"required,max=100"`
}

type finishGameRequest struct {
	Team1Score *int `json:"team1Score" validate:"required,gte=0"`
	Team2Score *int `json:"team2Score" validate:"required,gte=0"`
}

type gameDTO struct {
	ID           int64  `json:"id"`
	TournamentID int64  `json:"tournamentId"`
	Title        string `json:"title"`
	StartTime    string `json:"startTime"`
	Team1        string `json:"team1"`
	Team2        string `json:"team2"`
	Team1Score   *int   `json:"team1Score,omitempty"`
	Team2Score   *int   `json:"team2Score,omitempty"`
	Finished     bool   `json:"finished"`
}

func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateGame")
	defer span.End()

	var req createGameRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	startTime, err := parseRFC3339(req.StartTime)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.gameService.Create(ctx, usecase.CreateGameInput{
		TournamentID: req.TournamentID,
		Title:        req.Title,
		StartTime:    startTime,
		Team1:        req.Team1,
		Team2:        req.Team2,
		Team1ID:      req.Team1ID,
		Team2ID:      req.Team2ID,
		DataID:       req.DataID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create game failed", "tournament_id", req.TournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, gameToDTO(ctx, created))
}

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGames")
	defer span.End()

	games, err := h.gameService.List(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list games failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gamesToDTOs(ctx, games))
}

func (h *Handler) ListTournamentGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTournamentGames")
	defer span.End()

	tournamentID, err := pathID(r, "tournamentID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	games, err := h.gameService.ListByTournament(ctx, tournamentID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gamesToDTOs(ctx, games))
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGame")
	defer span.End()

	gameID, err := pathID(r, "gameID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.gameService.GetByID(ctx, gameID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(ctx, item))
}

func (h *Handler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateGame")
	defer span.End()

	gameID, err := pathID(r, "gameID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateGameRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	startTime, err := parseRFC3339(req.StartTime)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.gameService.Update(ctx, gameID, usecase.UpdateGameInput{
		Title:     req.Title,
		StartTime: startTime,
		Team1:     req.Team1,
		Team2:     req.Team2,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(ctx, updated))
}

func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteGame")
	defer span.End()

	gameID, err := pathID(r, "gameID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.gameService.Delete(ctx, gameID); err != nil {
		h.logger.WarnContext(ctx, "delete game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"id": gameID})
}

func (h *Handler) FinishGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinishGame")
	defer span.End()

	gameID, err := pathID(r, "gameID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req finishGameRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	settled, err := h.settlementService.FinishGame(ctx, usecase.FinishGameInput{
		GameID:     gameID,
		Team1Score: *req.Team1Score,
		Team2Score: *req.Team2Score,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "finish game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"gameId":     settled.GameID,
		"team1Score": settled.Team1Score,
		"team2Score": settled.Team2Score,
		"gradedBets": len(settled.Bets),
	})
}

func gamesToDTOs(ctx context.Context, games []game.Game) []gameDTO {
	items := make([]gameDTO, 0, len(games))
	for _, g := range games {
		items = append(items, gameToDTO(ctx, g))
	}
	return items
}

func gameToDTO(ctx context.Context, v game.Game) gameDTO {
	ctx, span := startSpan(ctx, "httpapi.gameToDTO")
	defer span.End()

	dto := gameDTO{
		ID:           v.ID,
		TournamentID: v.TournamentID,
		Title:        v.Title,
		StartTime:    v.StartTime.UTC().Format(time.RFC3339),
		Team1:        v.Team1,
		Team2:        v.Team2,
		Finished:     v.Finished,
	}
	if v.Finished {
		team1Score, team2Score := v.Team1Score, v.Team2Score
		dto.Team1Score = &team1Score
		dto.Team2Score = &team2Score
	}
	return dto
}

func parseRFC3339(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid RFC3339 timestamp %q", usecase.ErrInvalidInput, value)
	}
	return t, nil
}
