package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/winbetball/betball/internal/usecase"
)

type Handler struct {
	authService         *usecase.AuthService
	userService         *usecase.UserService
	tournamentService   *usecase.TournamentService
	gameService         *usecase.GameService
	betService          *usecase.BetService
	settlementService   *usecase.SettlementService
	rankingService      *usecase.RankingService
	predictionService   *usecase.PredictionService
	dataSyncService     *usecase.DataSyncService
	resultPoller        *usecase.ResultPollerService
	notificationService *usecase.NotificationService
	logger              *slog.Logger
	validator           *validator.Validate
}

func NewHandler(
	authService *usecase.AuthService,
	userService *usecase.UserService,
	tournamentService *usecase.TournamentService,
	gameService *usecase.GameService,
	betService *usecase.BetService,
	settlementService *usecase.SettlementService,
	rankingService *usecase.RankingService,
	predictionService *usecase.PredictionService,
	dataSyncService *usecase.DataSyncService,
	resultPoller *usecase.ResultPollerService,
	notificationService *usecase.NotificationService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		authService:         authService,
		userService:         userService,
		tournamentService:   tournamentService,
		gameService:         gameService,
		betService:          betService,
		settlementService:   settlementService,
		rankingService:      rankingService,
		predictionService:   predictionService,
		dataSyncService:     dataSyncService,
		resultPoller:        resultPoller,
		notificationService: notificationService,
		logger:              logger,
		validator:           validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decodeRequest(r *http.Request, dst any) error {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", usecase.ErrInvalidInput, name, raw)
	}
	return id, nil
}
