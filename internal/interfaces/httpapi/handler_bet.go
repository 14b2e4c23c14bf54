package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/winbetball/betball/internal/domain/bet"
	"github.com/winbetball/betball/internal/usecase"
)

type placeBetRequest struct {
	Team1Score *int `json:"team1Score" validate:"required,gte=0,lte=99"`
	Team2Score *int `json:"team2Score" validate:"required,gte=0,lte=99"`
	Hidden     bool `json:"hidden"`
}

type updateBetRequest struct {
	Team1Score *int `json:"team1Score" validate:"required,gte=0,lte=99"`
	Team2Score *int `json:"team2Score" validate:"required,gte=0,lte=99"`
}

type betDTO struct {
	ID         int64  `json:"id"`
	GameID     int64  `json:"gameId"`
	OwnerID    int64  `json:"ownerId"`
	OwnerName  string `json:"ownerName"`
	Team1Score int    `json:"team1Score"`
	Team2Score int    `json:"team2Score"`
	Points     *int   `json:"points,omitempty"`
	Finished   bool   `json:"finished"`
	Hidden     bool   `json:"hidden,omitempty"`
}

func (h *Handler) PlaceBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PlaceBet")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	gameID, err := pathID(r, "gameID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req placeBetRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	placed, err := h.betService.Place(ctx, usecase.PlaceBetInput{
		GameID:     gameID,
		OwnerID:    principal.UserID,
		Team1Score: *req.Team1Score,
		Team2Score: *req.Team2Score,
		Hidden:     req.Hidden,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "place bet failed", "game_id", gameID, "owner_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, betToDTO(ctx, placed))
}

func (h *Handler) UpdateBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateBet")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	betID, err := pathID(r, "betID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateBetRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.betService.UpdatePrediction(ctx, betID, principal.UserID, bet.Prediction{
		Team1Score: *req.Team1Score,
		Team2Score: *req.Team2Score,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update bet failed", "bet_id", betID, "owner_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, betToDTO(ctx, updated))
}

func (h *Handler) GetBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBet")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	betID, err := pathID(r, "betID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.betService.GetByID(ctx, betID, principal)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, betToDTO(ctx, item))
}

func (h *Handler) ListGameBets(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGameBets")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	gameID, err := pathID(r, "gameID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	bets, err := h.betService.ListForGame(ctx, gameID, principal)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]betDTO, 0, len(bets))
	for _, b := range bets {
		items = append(items, betToDTO(ctx, b))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListMyBets(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyBets")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var tournamentID *int64
	if raw := strings.TrimSpace(r.URL.Query().Get("tournament_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeError(ctx, w, fmt.Errorf("%w: invalid tournament_id %q", usecase.ErrInvalidInput, raw))
			return
		}
		tournamentID = &id
	}

	bets, err := h.betService.ListMine(ctx, principal.UserID, tournamentID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]betDTO, 0, len(bets))
	for _, b := range bets {
		items = append(items, betToDTO(ctx, b))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) PlaceBotBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PlaceBotBet")
	defer span.End()

	gameID, err := pathID(r, "gameID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	placed, err := h.predictionService.PlaceBotBet(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "place bot bet failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, betToDTO(ctx, placed))
}

func betToDTO(ctx context.Context, v bet.Bet) betDTO {
	ctx, span := startSpan(ctx, "httpapi.betToDTO")
	defer span.End()

	dto := betDTO{
		ID:         v.ID,
		GameID:     v.GameID,
		OwnerID:    v.OwnerID,
		OwnerName:  v.OwnerName,
		Team1Score: v.Team1Score,
		Team2Score: v.Team2Score,
		Finished:   v.Finished,
		Hidden:     v.Hidden,
	}
	if v.Finished {
		points := v.Points
		dto.Points = &points
	}
	return dto
}
