package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/winbetball/betball/internal/usecase"
)

type syncTeamsJobRequest struct {
	TournamentID int64 `json:"tournamentId" validate:"required,gt=0"`
}

func (h *Handler) RunPollResultsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunPollResultsJob")
	defer span.End()

	if h.resultPoller == nil {
		writeError(ctx, w, fmt.Errorf("%w: result poller is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	summary, err := h.resultPoller.PollResults(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "poll results job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{
		"checked": summary.Checked,
		"settled": summary.Settled,
		"failed":  summary.Failed,
	})
}

func (h *Handler) RunNotifyGamesJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunNotifyGamesJob")
	defer span.End()

	if h.notificationService == nil {
		writeError(ctx, w, fmt.Errorf("%w: notification service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.notificationService.NotifyNewGames(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "notify games job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{
		"announced": result.Announced,
		"channels":  result.Channels,
	})
}

func (h *Handler) RunSyncTeamsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncTeamsJob")
	defer span.End()

	if h.dataSyncService == nil {
		writeError(ctx, w, fmt.Errorf("%w: data sync service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeSyncTeamsJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.dataSyncService.SyncTournamentTeams(ctx, req.TournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "sync teams job failed", "tournament_id", req.TournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{
		"fetched": result.Fetched,
		"synced":  result.Synced,
	})
}

func decodeSyncTeamsJobRequest(r *http.Request) (syncTeamsJobRequest, error) {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req syncTeamsJobRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return syncTeamsJobRequest{}, nil
		}
		return syncTeamsJobRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}
