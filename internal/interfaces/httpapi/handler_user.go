package httpapi

import (
	"fmt"
	"net/http"

	"github.com/winbetball/betball/internal/usecase"
)

type setActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMe")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	account, err := h.userService.GetByID(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get account failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, userToDTO(ctx, account, true))
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUsers")
	defer span.End()

	users, err := h.userService.List(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list users failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]userDTO, 0, len(users))
	for _, u := range users {
		items = append(items, userToDTO(ctx, u, false))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) SetUserActive(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetUserActive")
	defer span.End()

	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req setActiveRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.userService.SetActive(ctx, userID, *req.Active); err != nil {
		h.logger.WarnContext(ctx, "set user active failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"id": userID, "active": *req.Active})
}

func (h *Handler) ListMyPrizes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyPrizes")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	prizes, err := h.rankingService.UserPrizes(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list user prizes failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]prizeDTO, 0, len(prizes))
	for _, p := range prizes {
		items = append(items, prizeToDTO(ctx, p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
