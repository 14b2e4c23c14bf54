package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/winbetball/betball/internal/domain/team"
	"github.com/winbetball/betball/internal/domain/tournament"
	"github.com/winbetball/betball/internal/platform/logging"
)

// ExternalTeam is a club as delivered by the football data provider.
type ExternalTeam struct {
	DataID int64
	Name   string
	Emblem string
	Area   string
}

// ExternalMatch is the provider's view of one fixture.
type ExternalMatch struct {
	DataID    int64
	Status    string
	HomeScore *int
	AwayScore *int
}

const ExternalMatchFinished = "FINISHED"

// MatchDataProvider fetches reference data from the football data API.
type MatchDataProvider interface {
	FetchCompetitionTeams(ctx context.Context, competitionID int64) ([]ExternalTeam, error)
	FetchMatch(ctx context.Context, matchID int64) (ExternalMatch, error)
}

type SyncTeamsResult struct {
	Fetched int
	Synced  int
}

// DataSyncService mirrors provider teams into local storage and links them
// to their tournament. Upserts run on a bounded worker pool.
type DataSyncService struct {
	provider       MatchDataProvider
	tournamentRepo tournament.Repository
	teamRepo       team.Repository
	workers        int
	logger         *logging.Logger
}

func NewDataSyncService(
	provider MatchDataProvider,
	tournamentRepo tournament.Repository,
	teamRepo team.Repository,
	workers int,
	logger *logging.Logger,
) *DataSyncService {
	if workers < 1 {
		workers = 4
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &DataSyncService{
		provider:       provider,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		workers:        workers,
		logger:         logger,
	}
}

func (s *DataSyncService) SyncTournamentTeams(ctx context.Context, tournamentID int64) (SyncTeamsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "DataSyncService.SyncTournamentTeams")
	defer span.End()

	if s.provider == nil {
		return SyncTeamsResult{}, fmt.Errorf("%w: football data provider is not configured", ErrDependencyUnavailable)
	}

	item, exists, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return SyncTeamsResult{}, fmt.Errorf("get tournament: %w", err)
	}
	if !exists {
		return SyncTeamsResult{}, fmt.Errorf("%w: tournament=%d", ErrNotFound, tournamentID)
	}
	if item.DataID == 0 {
		return SyncTeamsResult{}, fmt.Errorf("%w: tournament is not linked to an external competition", ErrInvalidInput)
	}

	externalTeams, err := s.provider.FetchCompetitionTeams(ctx, item.DataID)
	if err != nil {
		return SyncTeamsResult{}, fmt.Errorf("%w: fetch competition teams: %w", ErrDependencyUnavailable, err)
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return SyncTeamsResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		synced   int
		firstErr error
	)

	for _, ext := range externalTeams {
		if ext.DataID == 0 || ext.Name == "" {
			continue
		}

		ext := ext
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			saved, upsertErr := s.teamRepo.UpsertByDataID(ctx, team.Team{
				Name:   ext.Name,
				Emblem: ext.Emblem,
				Area:   ext.Area,
				DataID: ext.DataID,
			})
			if upsertErr == nil {
				upsertErr = s.tournamentRepo.LinkTeam(ctx, item.ID, saved.ID)
			}

			mu.Lock()
			defer mu.Unlock()
			if upsertErr != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("sync team %q: %w", ext.Name, upsertErr)
				}
				return
			}
			synced++
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = fmt.Errorf("submit sync task: %w", submitErr)
			}
			mu.Unlock()
		}
	}

	wg.Wait()

	if firstErr != nil {
		return SyncTeamsResult{Fetched: len(externalTeams), Synced: synced}, firstErr
	}

	s.logger.InfoContext(ctx, "tournament teams synced",
		"tournament_id", item.ID,
		"fetched", len(externalTeams),
		"synced", synced,
	)

	return SyncTeamsResult{Fetched: len(externalTeams), Synced: synced}, nil
}
