package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/winbetball/betball/external/aipredict"
	"github.com/winbetball/betball/external/footballdata"
	"github.com/winbetball/betball/external/notify"
	"github.com/winbetball/betball/internal/config"
	"github.com/winbetball/betball/internal/domain/bet"
	"github.com/winbetball/betball/internal/domain/game"
	"github.com/winbetball/betball/internal/domain/notification"
	"github.com/winbetball/betball/internal/domain/prize"
	"github.com/winbetball/betball/internal/domain/settlement"
	"github.com/winbetball/betball/internal/domain/team"
	"github.com/winbetball/betball/internal/domain/tournament"
	"github.com/winbetball/betball/internal/domain/user"
	repocache "github.com/winbetball/betball/internal/infrastructure/repository/cache"
	"github.com/winbetball/betball/internal/infrastructure/repository/memory"
	"github.com/winbetball/betball/internal/infrastructure/repository/postgres"
	"github.com/winbetball/betball/internal/interfaces/httpapi"
	"github.com/winbetball/betball/internal/platform/cache"
	"github.com/winbetball/betball/internal/platform/logging"
	"github.com/winbetball/betball/internal/platform/resilience"
	"github.com/winbetball/betball/internal/usecase"
)

// App owns the wired HTTP server, the background job scheduler and the
// database handle. Shutdown releases them in reverse order.
type App struct {
	Server    *http.Server
	scheduler gocron.Scheduler
	db        *sqlx.DB
	logger    *logging.Logger
}

type repoSet struct {
	users         user.Repository
	tournaments   tournament.Repository
	teams         team.Repository
	games         game.Repository
	bets          bet.Repository
	prizes        prize.Repository
	settlements   settlement.Repository
	notifications notification.Repository
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger, httpLogger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if httpLogger == nil {
		httpLogger = slog.Default()
	}

	db, repos, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	authSvc := usecase.NewAuthService(repos.users, cfg.JWTSecret, cfg.JWTTTL, cfg.BcryptCost)
	userSvc := usecase.NewUserService(repos.users)
	tournamentSvc := usecase.NewTournamentService(repos.tournaments, repos.teams)
	gameSvc := usecase.NewGameService(repos.games, repos.tournaments)
	betSvc := usecase.NewBetService(repos.bets, repos.games, repos.users, cfg.BetCutoffLead)
	settlementSvc := usecase.NewSettlementService(repos.games, repos.bets, repos.settlements, cfg.BetCutoffLead, logger)
	rankingSvc := usecase.NewRankingService(repos.tournaments, repos.games, repos.bets, repos.prizes, repos.settlements, logger)

	var provider usecase.MatchDataProvider
	if cfg.FootballDataEnabled {
		provider = footballdata.NewClient(footballdata.ClientConfig{
			BaseURL:    cfg.FootballDataBaseURL,
			Token:      cfg.FootballDataToken,
			Timeout:    cfg.FootballDataTimeout,
			MaxRetries: cfg.FootballDataRetries,
			CacheTTL:   cfg.FootballDataCacheTTL,
			Logger:     logger,
			Breaker:    cfg.FootballDataBreaker,
		})
	}

	var predictor usecase.ScorePredictor
	if cfg.AIEnabled {
		predictor = aipredict.NewClient(aipredict.ClientConfig{
			BaseURL: cfg.AIBaseURL,
			APIKey:  cfg.AIAPIKey,
			Model:   cfg.AIModel,
			Timeout: cfg.AITimeout,
			Logger:  logger,
			Breaker: cfg.AIBreaker,
		})
	}

	dataSyncSvc := usecase.NewDataSyncService(provider, repos.tournaments, repos.teams, cfg.JobSyncWorkers, logger)
	pollerSvc := usecase.NewResultPollerService(provider, repos.games, settlementSvc, logger)
	predictionSvc := usecase.NewPredictionService(predictor, gameSvc, betSvc, repos.tournaments, repos.users, cfg.AIBotUsername, logger)
	notificationSvc := usecase.NewNotificationService(repos.notifications, buildMessengers(cfg, httpLogger), logger)

	handler := httpapi.NewHandler(
		authSvc,
		userSvc,
		tournamentSvc,
		gameSvc,
		betSvc,
		settlementSvc,
		rankingSvc,
		predictionSvc,
		dataSyncSvc,
		pollerSvc,
		notificationSvc,
		httpLogger,
	)
	router := httpapi.NewRouter(handler, authSvc, httpLogger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	scheduler, err := buildScheduler(cfg, pollerSvc, notificationSvc, provider, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		Server:    server,
		scheduler: scheduler,
		db:        db,
		logger:    logger,
	}, nil
}

// StartJobs begins the background sweeps. Safe to call when no jobs were
// scheduled.
func (a *App) StartJobs() {
	if a.scheduler != nil {
		a.scheduler.Start()
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	var firstErr error

	if a.scheduler != nil {
		if err := a.scheduler.Shutdown(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("shutdown scheduler: %w", err)
		}
	}
	if err := a.Server.Shutdown(ctx); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("shutdown http server: %w", err)
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close database: %w", err)
		}
	}

	return firstErr
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (*sqlx.DB, repoSet, error) {
	if useMemoryStorage(cfg.DBURL) {
		logger.Info("storage backend", "driver", "memory")
		return nil, buildMemoryRepositories(), nil
	}

	db, err := otelsqlx.ConnectContext(ctx, "postgres",
		normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, repoSet{}, fmt.Errorf("connect database: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := postgres.BootstrapSeed(ctx, db); err != nil {
		_ = db.Close()
		return nil, repoSet{}, fmt.Errorf("bootstrap seed: %w", err)
	}

	logger.Info("storage backend", "driver", "postgres", "database", dbNameFromURL(cfg.DBURL))

	var teams team.Repository = postgres.NewTeamRepository(db)
	if cfg.CacheEnabled {
		teams = repocache.NewTeamRepository(teams, cache.NewStore(cfg.CacheTTL))
	}

	return db, repoSet{
		users:         postgres.NewUserRepository(db),
		tournaments:   postgres.NewTournamentRepository(db),
		teams:         teams,
		games:         postgres.NewGameRepository(db),
		bets:          postgres.NewBetRepository(db),
		prizes:        postgres.NewPrizeRepository(db),
		settlements:   postgres.NewSettlementRepository(db),
		notifications: postgres.NewNotificationRepository(db),
	}, nil
}

func buildMemoryRepositories() repoSet {
	users := memory.NewUserRepository()
	tournaments := memory.NewTournamentRepository(memory.SeedTournaments()...)
	teams := memory.NewTeamRepository(tournaments, memory.SeedTeams()...)
	games := memory.NewGameRepository(memory.SeedGames()...)
	bets := memory.NewBetRepository(games)
	prizes := memory.NewPrizeRepository()

	return repoSet{
		users:         users,
		tournaments:   tournaments,
		teams:         teams,
		games:         games,
		bets:          bets,
		prizes:        prizes,
		settlements:   memory.NewSettlementRepository(users, games, bets, tournaments, prizes),
		notifications: memory.NewNotificationRepository(games, tournaments),
	}
}

func useMemoryStorage(dbURL string) bool {
	candidate := strings.ToLower(strings.TrimSpace(dbURL))
	return candidate == "" || candidate == "memory" || strings.HasPrefix(candidate, "memory://")
}

func buildMessengers(cfg config.Config, logger *slog.Logger) []usecase.Messenger {
	messengers := make([]usecase.Messenger, 0, 2)

	if cfg.TelegramEnabled {
		messengers = append(messengers, notify.NewTelegram(notify.TelegramConfig{
			BotToken: cfg.TelegramBotToken,
			ChatID:   cfg.TelegramChatID,
			Timeout:  cfg.TelegramTimeout,
			Breaker:  resilience.DefaultBreakerConfig(),
		}, logger))
	}
	if cfg.SMTPEnabled {
		messengers = append(messengers, notify.NewEmail(notify.EmailConfig{
			Host:       cfg.SMTPHost,
			Port:       cfg.SMTPPort,
			Username:   cfg.SMTPUser,
			Password:   cfg.SMTPPassword,
			From:       cfg.SMTPFrom,
			Recipients: cfg.SMTPRecipients,
		}, logger))
	}

	return messengers
}

func buildScheduler(
	cfg config.Config,
	poller *usecase.ResultPollerService,
	notifier *usecase.NotificationService,
	provider usecase.MatchDataProvider,
	logger *logging.Logger,
) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	// Singleton mode keeps a slow sweep from stacking on top of itself.
	if provider != nil {
		_, err = scheduler.NewJob(
			gocron.DurationJob(cfg.JobPollInterval),
			gocron.NewTask(func(ctx context.Context) {
				summary, err := poller.PollResults(ctx)
				if err != nil {
					logger.WarnContext(ctx, "result poll sweep failed", "error", err)
					return
				}
				if summary.Checked > 0 {
					logger.InfoContext(ctx, "result poll sweep finished",
						"checked", summary.Checked,
						"settled", summary.Settled,
						"failed", summary.Failed,
					)
				}
			}),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
			gocron.WithName("poll-results"),
		)
		if err != nil {
			return nil, fmt.Errorf("schedule poll-results job: %w", err)
		}
	}

	if cfg.TelegramEnabled || cfg.SMTPEnabled {
		_, err = scheduler.NewJob(
			gocron.DurationJob(cfg.JobNotifyInterval),
			gocron.NewTask(func(ctx context.Context) {
				result, err := notifier.NotifyNewGames(ctx)
				if err != nil {
					logger.WarnContext(ctx, "game announcement sweep failed", "error", err)
					return
				}
				if result.Announced > 0 {
					logger.InfoContext(ctx, "game announcement sweep finished",
						"announced", result.Announced,
						"channels", result.Channels,
					)
				}
			}),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
			gocron.WithName("notify-games"),
		)
		if err != nil {
			return nil, fmt.Errorf("schedule notify-games job: %w", err)
		}
	}

	return scheduler, nil
}
